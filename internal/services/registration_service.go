// internal/services/registration_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

// RegistrationService turns a registration request into one registrar call.
type RegistrationService struct {
	cfg       config.StoryConfig
	license   *LicenseService
	metadata  *MetadataService
	registrar Registrar
	store     RegistrationStore
	now       func() time.Time
}

type RegisterIPRequest struct {
	Title          string         `json:"title" validate:"max=200"`
	Description    string         `json:"description" validate:"max=2000"`
	Image          string         `json:"image" validate:"omitempty,max=2048"`
	Mode           string         `json:"mode" validate:"omitempty,registration_mode"`
	SPGNFTContract string         `json:"spgNftContract" validate:"omitempty,evm_address"`
	NFTContract    string         `json:"nftContract" validate:"omitempty,evm_address"`
	TokenID        models.TokenID `json:"tokenId" validate:"omitempty,token_id"`
	Flavor         string         `json:"flavor" validate:"omitempty,license_flavor"`
}

type CreateCollectionRequest struct {
	Name   string `json:"name" validate:"max=100"`
	Symbol string `json:"symbol" validate:"max=20"`
}

type RegistrationResult struct {
	Mode            models.RegistrationMode `json:"mode"`
	Flavor          models.LicenseFlavor    `json:"flavor"`
	TxHash          string                  `json:"txHash"`
	IPID            string                  `json:"ipId"`
	TokenID         models.TokenID          `json:"tokenId"`
	LicenseTermsIDs []models.TokenID        `json:"licenseTermsIds"`
	ExplorerURL     string                  `json:"explorerUrl"`
}

type CollectionResult struct {
	SPGNFTContract string `json:"spgNftContract"`
	TxHash         string `json:"txHash"`
	ExplorerURL    string `json:"explorerUrl"`
}

// StorySettings is the non-secret view of the chain configuration.
type StorySettings struct {
	ChainID                  int64                   `json:"chainId"`
	ExplorerURL              string                  `json:"explorerUrl"`
	SPGNFTContract           string                  `json:"spgNftContract,omitempty"`
	ExistingNFTAddress       string                  `json:"existingNftAddress,omitempty"`
	ExistingNFTTokenID       string                  `json:"existingNftTokenId,omitempty"`
	SPGNFTContractConfigured bool                    `json:"spgNftContractConfigured"`
	ExistingNFTConfigured    bool                    `json:"existingNftConfigured"`
	DefaultMode              models.RegistrationMode `json:"defaultMode"`
	DefaultFlavor            models.LicenseFlavor    `json:"defaultFlavor"`
}

const (
	DefaultCollectionName   = "My SPG NFTs"
	DefaultCollectionSymbol = "MYIP"
	defaultExistingTokenID  = "1"
)

func NewRegistrationService(cfg config.StoryConfig, license *LicenseService, metadata *MetadataService, registrar Registrar, store RegistrationStore) *RegistrationService {
	return &RegistrationService{
		cfg:       cfg,
		license:   license,
		metadata:  metadata,
		registrar: registrar,
		store:     store,
		now:       time.Now,
	}
}

func (s *RegistrationService) Settings() StorySettings {
	mode, _ := models.ParseRegistrationMode("", s.cfg.ExistingNFTAddress != "")
	tokenID := ""
	if s.cfg.ExistingNFTAddress != "" {
		tokenID = s.existingTokenID()
	}
	return StorySettings{
		ChainID:                  s.cfg.ChainID,
		ExplorerURL:              s.cfg.ExplorerURL,
		SPGNFTContract:           s.cfg.SPGNFTContract,
		ExistingNFTAddress:       s.cfg.ExistingNFTAddress,
		ExistingNFTTokenID:       tokenID,
		SPGNFTContractConfigured: s.cfg.SPGNFTContract != "",
		ExistingNFTConfigured:    s.cfg.ExistingNFTAddress != "",
		DefaultMode:              mode,
		DefaultFlavor:            models.DefaultLicenseFlavor,
	}
}

// PreviewMetadata builds the metadata package Register would submit.
func (s *RegistrationService) PreviewMetadata(descriptor models.IPDescriptor) models.MetadataPackage {
	return s.metadata.BuildPackage(descriptor)
}

func (s *RegistrationService) Register(ctx context.Context, req *RegisterIPRequest) (*RegistrationResult, error) {
	flavor, terms, err := s.license.ResolveFlavorName(req.Flavor)
	if err != nil {
		return nil, err
	}

	mode, err := models.ParseRegistrationMode(req.Mode, s.cfg.ExistingNFTAddress != "")
	if err != nil {
		return nil, invalidMode(err)
	}

	descriptor := models.IPDescriptor{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	pkg := s.metadata.BuildPackage(descriptor)
	termsData := []LicenseTermsData{{Terms: terms}}
	txOptions := TxOptions{WaitForTransaction: true}

	var (
		contract models.Address
		receipt  *RegistrationReceipt
		op       string
	)

	switch mode {
	case models.MintNew:
		contract, err = s.resolveContract(req.SPGNFTContract, s.cfg.SPGNFTContract, "spgNftContract", ErrMissingCollection)
		if err != nil {
			return nil, err
		}
		op = opMintAndRegister
		receipt, err = s.registrar.MintAndRegisterIP(ctx, MintAndRegisterParams{
			SPGNFTContract:   contract,
			LicenseTermsData: termsData,
			IPMetadata:       pkg,
			TxOptions:        txOptions,
		})

	case models.UseExisting:
		contract, err = s.resolveContract(req.NFTContract, s.cfg.ExistingNFTAddress, "nftContract", ErrMissingNFTContract)
		if err != nil {
			return nil, err
		}
		tokenID := strings.TrimSpace(req.TokenID.String())
		if tokenID == "" {
			tokenID = s.existingTokenID()
		}
		if _, err := models.ParseUint256(tokenID); err != nil {
			return nil, &ValidationError{Field: "tokenId", Err: err}
		}
		op = opRegisterExisting
		receipt, err = s.registrar.RegisterExistingNFT(ctx, RegisterExistingParams{
			NFTContract:      contract,
			TokenID:          tokenID,
			LicenseTermsData: termsData,
			IPMetadata:       pkg,
			Deadline:         s.now().Add(s.cfg.SignatureDeadline).UnixMilli(),
			TxOptions:        txOptions,
		})

	default:
		return nil, invalidMode(models.ErrUnknownMode)
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"mode":     mode,
			"contract": contract,
			"flavor":   flavor,
		}).Error("Registration failed")
		return nil, &CollaboratorError{Op: op, Err: err}
	}

	result := &RegistrationResult{
		Mode:            mode,
		Flavor:          flavor,
		TxHash:          receipt.TxHash,
		IPID:            receipt.IPID,
		TokenID:         receipt.TokenID,
		LicenseTermsIDs: receipt.LicenseTermsIDs,
		ExplorerURL:     s.txURL(receipt.TxHash),
	}

	logrus.WithFields(logrus.Fields{
		"mode":     mode,
		"ip_id":    result.IPID,
		"token_id": result.TokenID,
		"tx_hash":  result.TxHash,
		"flavor":   flavor,
	}).Info("IP asset registered")

	s.record(ctx, result, contract, pkg)

	return result, nil
}

func (s *RegistrationService) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*CollectionResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultCollectionName
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		symbol = DefaultCollectionSymbol
	}

	receipt, err := s.registrar.CreateCollection(ctx, CreateCollectionParams{
		Name:             name,
		Symbol:           symbol,
		IsPublicMinting:  false,
		MintOpen:         true,
		MintFeeRecipient: models.ZeroAddress,
		ContractURI:      "",
		TxOptions:        TxOptions{WaitForTransaction: true},
	})
	if err != nil {
		logrus.WithError(err).WithField("name", name).Error("Collection creation failed")
		return nil, &CollaboratorError{Op: opCreateCollection, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"spg_nft_contract": receipt.SPGNFTContract,
		"tx_hash":          receipt.TxHash,
	}).Info("NFT collection created")

	return &CollectionResult{
		SPGNFTContract: receipt.SPGNFTContract,
		TxHash:         receipt.TxHash,
		ExplorerURL:    s.txURL(receipt.TxHash),
	}, nil
}

func (s *RegistrationService) ListRegistrations(ctx context.Context, params utils.PaginationParams) (*utils.PaginationResult, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	registrations, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	result := utils.CreatePaginationResult(registrations, total, params)
	return &result, nil
}

// resolveContract prefers the request value and falls back to the configured one.
func (s *RegistrationService) resolveContract(requested, configured, field string, missing error) (models.Address, error) {
	ref := strings.TrimSpace(requested)
	if ref == "" {
		ref = configured
	}
	if ref == "" {
		return "", missing
	}
	addr, err := models.ParseAddress(ref)
	if err != nil {
		return "", &ValidationError{Field: field, Err: err}
	}
	return addr, nil
}

func (s *RegistrationService) existingTokenID() string {
	if s.cfg.ExistingNFTTokenID != "" {
		return s.cfg.ExistingNFTTokenID
	}
	return defaultExistingTokenID
}

func (s *RegistrationService) txURL(txHash string) string {
	if txHash == "" {
		return ""
	}
	return s.cfg.ExplorerURL + "/tx/" + txHash
}

func (s *RegistrationService) record(ctx context.Context, result *RegistrationResult, contract models.Address, pkg models.MetadataPackage) {
	if s.store == nil {
		return
	}

	termsIDs := make([]string, len(result.LicenseTermsIDs))
	for i, id := range result.LicenseTermsIDs {
		termsIDs[i] = id.String()
	}

	registration := &models.Registration{
		Mode:            result.Mode,
		ChainID:         s.cfg.ChainID,
		NFTContract:     contract.String(),
		TokenID:         result.TokenID.String(),
		IPID:            result.IPID,
		TxHash:          result.TxHash,
		Flavor:          result.Flavor.String(),
		LicenseTermsIDs: termsIDs,
		Title:           pkg.IPMetadata.Title,
		IPMetadataHash:  string(pkg.IPMetadataHash),
		NFTMetadataHash: string(pkg.NFTMetadataHash),
	}

	if err := s.store.Create(ctx, registration); err != nil {
		logrus.WithError(err).WithField("ip_id", result.IPID).Warn("Failed to record registration")
	}
}

// IsConfigurationError reports whether err is a missing-contract failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsValidationError reports whether err came from malformed request input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsCollaboratorError reports whether err came from the registrar.
func IsCollaboratorError(err error) bool {
	var collaborator *CollaboratorError
	return errors.As(err, &collaborator)
}
