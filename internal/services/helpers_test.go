package services

import (
	"context"
	"sync"
	"time"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

func testStoryConfig() config.StoryConfig {
	return config.StoryConfig{
		ChainID:              config.DefaultChainID,
		ExplorerURL:          "https://mainnet.storyscan.xyz",
		ExistingNFTTokenID:   "1",
		RoyaltyPolicy:        config.DefaultRoyaltyPolicy,
		Currency:             config.DefaultCurrency,
		CommercialMintingFee: models.NewUint256(0),
		SignatureDeadline:    60 * time.Second,
	}
}

func testMetadataConfig() config.MetadataConfig {
	return config.MetadataConfig{
		LocatorMode:    config.LocatorModePlaceholder,
		PlaceholderURI: "ipfs://todo",
	}
}

// fakeRegistrar records the calls it receives and answers with fixed receipts.
type fakeRegistrar struct {
	mu       sync.Mutex
	mints    []MintAndRegisterParams
	existing []RegisterExistingParams
	created  []CreateCollectionParams
	err      error
}

func (f *fakeRegistrar) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mints) + len(f.existing) + len(f.created)
}

func (f *fakeRegistrar) MintAndRegisterIP(_ context.Context, params MintAndRegisterParams) (*RegistrationReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mints = append(f.mints, params)
	if f.err != nil {
		return nil, f.err
	}
	return &RegistrationReceipt{
		TxHash:          "0xmint",
		IPID:            "0x00000000000000000000000000000000000000aa",
		TokenID:         "5",
		LicenseTermsIDs: []models.TokenID{"1"},
	}, nil
}

func (f *fakeRegistrar) RegisterExistingNFT(_ context.Context, params RegisterExistingParams) (*RegistrationReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existing = append(f.existing, params)
	if f.err != nil {
		return nil, f.err
	}
	return &RegistrationReceipt{
		TxHash:          "0xexisting",
		IPID:            "0x00000000000000000000000000000000000000bb",
		TokenID:         models.TokenID(params.TokenID),
		LicenseTermsIDs: []models.TokenID{"2"},
	}, nil
}

func (f *fakeRegistrar) CreateCollection(_ context.Context, params CreateCollectionParams) (*CollectionReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	if f.err != nil {
		return nil, f.err
	}
	return &CollectionReceipt{
		SPGNFTContract: "0x00000000000000000000000000000000000000cc",
		TxHash:         "0xcollection",
	}, nil
}

// memoryStore is an in-memory RegistrationStore.
type memoryStore struct {
	mu   sync.Mutex
	rows []models.Registration
	err  error
}

func (m *memoryStore) Create(_ context.Context, registration *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *registration)
	return nil
}

func (m *memoryStore) List(_ context.Context, params utils.PaginationParams) ([]models.Registration, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := (params.Page - 1) * params.Limit
	if start > len(m.rows) {
		start = len(m.rows)
	}
	end := start + params.Limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return append([]models.Registration(nil), m.rows[start:end]...), int64(len(m.rows)), nil
}
