// internal/services/registration_store.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

// RegistrationStore is the optional ledger of completed registrations.
type RegistrationStore interface {
	Create(ctx context.Context, registration *models.Registration) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.Registration, int64, error)
}

var registrationSortFields = []string{"created_at", "title", "flavor", "mode", "token_id"}

type GormRegistrationStore struct {
	db *gorm.DB
}

func NewGormRegistrationStore(db *gorm.DB) *GormRegistrationStore {
	return &GormRegistrationStore{db: db}
}

func (s *GormRegistrationStore) Create(ctx context.Context, registration *models.Registration) error {
	if err := s.db.WithContext(ctx).Create(registration).Error; err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}
	return nil
}

func (s *GormRegistrationStore) List(ctx context.Context, params utils.PaginationParams) ([]models.Registration, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Registration{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR ip_id ILIKE ? OR tx_hash ILIKE ?", like, like, like)
	}
	if params.Flavor != "" {
		query = query.Where("flavor = ?", params.Flavor)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	var registrations []models.Registration
	query = utils.ApplySort(query, params, registrationSortFields)
	if err := utils.ApplyPagination(query, params).Find(&registrations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}

	return registrations, total, nil
}
