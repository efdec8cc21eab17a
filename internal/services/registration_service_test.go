package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

const testContract = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func newTestRegistrationService(registrar Registrar, store RegistrationStore, mutate func(cfg *config.StoryConfig)) *RegistrationService {
	cfg := testStoryConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRegistrationService(cfg, NewLicenseService(cfg), NewMetadataService(testMetadataConfig()), registrar, store)
}

func TestRegisterMintNewMissingCollection(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, nil)

	_, err := svc.Register(context.Background(), &RegisterIPRequest{Mode: "mintNew"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCollection)
	assert.True(t, IsConfigurationError(err))
	assert.Zero(t, registrar.calls())
}

func TestRegisterUseExistingMissingContract(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, nil)

	_, err := svc.Register(context.Background(), &RegisterIPRequest{Mode: "useExisting", TokenID: "3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingNFTContract)
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsCollaboratorError(err))
	assert.Zero(t, registrar.calls())
}

func TestRegisterMintNewUsesRequestContract(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, nil)

	result, err := svc.Register(context.Background(), &RegisterIPRequest{
		Title:          "Song A",
		Description:    "demo",
		Image:          "https://x/y.png",
		SPGNFTContract: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
	})
	require.NoError(t, err)

	require.Len(t, registrar.mints, 1)
	params := registrar.mints[0]
	assert.Equal(t, models.Address(testContract), params.SPGNFTContract)
	assert.True(t, params.TxOptions.WaitForTransaction)
	assert.Nil(t, params.Recipient)
	require.Len(t, params.LicenseTermsData, 1)
	assert.Equal(t, uint32(50), params.LicenseTermsData[0].Terms.CommercialRevShare)
	assert.Equal(t, "Song A — Ownership NFT", params.IPMetadata.NFTMetadata.Name)

	assert.Equal(t, models.MintNew, result.Mode)
	assert.Equal(t, models.CommercialRemix, result.Flavor)
	assert.Equal(t, "0xmint", result.TxHash)
	assert.Equal(t, models.TokenID("5"), result.TokenID)
	assert.Equal(t, "https://mainnet.storyscan.xyz/tx/0xmint", result.ExplorerURL)
}

func TestRegisterDefaultsToExistingWhenConfigured(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, func(cfg *config.StoryConfig) {
		cfg.ExistingNFTAddress = testContract
		cfg.ExistingNFTTokenID = "9"
	})
	fixed := time.UnixMilli(1_700_000_000_000)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Register(context.Background(), &RegisterIPRequest{Flavor: "nonCommercial"})
	require.NoError(t, err)

	require.Len(t, registrar.existing, 1)
	params := registrar.existing[0]
	assert.Equal(t, models.Address(testContract), params.NFTContract)
	assert.Equal(t, "9", params.TokenID)
	assert.Equal(t, fixed.UnixMilli()+60_000, params.Deadline)
	assert.False(t, params.LicenseTermsData[0].Terms.CommercialUse)

	assert.Equal(t, models.UseExisting, result.Mode)
	assert.Equal(t, models.NonCommercial, result.Flavor)
	assert.Equal(t, models.TokenID("9"), result.TokenID)
}

func TestRegisterExistingTokenIDFallsBackToOne(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, func(cfg *config.StoryConfig) {
		cfg.ExistingNFTTokenID = ""
	})

	_, err := svc.Register(context.Background(), &RegisterIPRequest{Mode: "existingNft", NFTContract: testContract})
	require.NoError(t, err)
	require.Len(t, registrar.existing, 1)
	assert.Equal(t, "1", registrar.existing[0].TokenID)
}

func TestRegisterValidationErrors(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, nil)

	tests := []struct {
		name string
		req  RegisterIPRequest
		want error
	}{
		{"unknown flavor", RegisterIPRequest{Flavor: "free"}, models.ErrUnknownFlavor},
		{"unknown mode", RegisterIPRequest{Mode: "burn"}, models.ErrUnknownMode},
		{"bad checksum", RegisterIPRequest{SPGNFTContract: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}, models.ErrAddressChecksum},
		{"bad token id", RegisterIPRequest{Mode: "useExisting", NFTContract: testContract, TokenID: "abc"}, models.ErrInvalidUint256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, registrar.calls())
}

func TestRegisterCollaboratorMessagePassesThrough(t *testing.T) {
	registrar := &fakeRegistrar{err: errors.New("execution reverted: SPGNFT__MintingDenied")}
	svc := newTestRegistrationService(registrar, nil, nil)

	_, err := svc.Register(context.Background(), &RegisterIPRequest{SPGNFTContract: testContract})
	require.Error(t, err)
	assert.True(t, IsCollaboratorError(err))
	assert.False(t, IsConfigurationError(err))
	assert.EqualError(t, err, "execution reverted: SPGNFT__MintingDenied")
}

func TestRegisterRecordsLedgerRow(t *testing.T) {
	store := &memoryStore{}
	svc := newTestRegistrationService(&fakeRegistrar{}, store, nil)

	_, err := svc.Register(context.Background(), &RegisterIPRequest{Title: "Song A", SPGNFTContract: testContract})
	require.NoError(t, err)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, models.MintNew, row.Mode)
	assert.Equal(t, int64(1514), row.ChainID)
	assert.Equal(t, testContract, row.NFTContract)
	assert.Equal(t, "commercialRemix", row.Flavor)
	assert.Equal(t, []string{"1"}, []string(row.LicenseTermsIDs))
	assert.Equal(t, "Song A", row.Title)
	assert.NotEmpty(t, row.IPMetadataHash)
}

func TestRegisterIgnoresLedgerFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	svc := newTestRegistrationService(&fakeRegistrar{}, store, nil)

	result, err := svc.Register(context.Background(), &RegisterIPRequest{SPGNFTContract: testContract})
	require.NoError(t, err)
	assert.Equal(t, "0xmint", result.TxHash)
}

func TestCreateCollectionDefaults(t *testing.T) {
	registrar := &fakeRegistrar{}
	svc := newTestRegistrationService(registrar, nil, nil)

	result, err := svc.CreateCollection(context.Background(), &CreateCollectionRequest{})
	require.NoError(t, err)

	require.Len(t, registrar.created, 1)
	params := registrar.created[0]
	assert.Equal(t, DefaultCollectionName, params.Name)
	assert.Equal(t, DefaultCollectionSymbol, params.Symbol)
	assert.False(t, params.IsPublicMinting)
	assert.True(t, params.MintOpen)
	assert.Equal(t, models.ZeroAddress, params.MintFeeRecipient)
	assert.Equal(t, "", params.ContractURI)
	assert.True(t, params.TxOptions.WaitForTransaction)

	assert.Equal(t, "0x00000000000000000000000000000000000000cc", result.SPGNFTContract)
	assert.Equal(t, "https://mainnet.storyscan.xyz/tx/0xcollection", result.ExplorerURL)
}

func TestCreateCollectionCollaboratorError(t *testing.T) {
	svc := newTestRegistrationService(&fakeRegistrar{err: errors.New("insufficient funds for gas")}, nil, nil)

	_, err := svc.CreateCollection(context.Background(), &CreateCollectionRequest{Name: "Mine", Symbol: "MINE"})
	require.Error(t, err)
	assert.True(t, IsCollaboratorError(err))
	assert.EqualError(t, err, "insufficient funds for gas")
}

func TestListRegistrations(t *testing.T) {
	svc := newTestRegistrationService(&fakeRegistrar{}, nil, nil)
	_, err := svc.ListRegistrations(context.Background(), utils.PaginationParams{Page: 1, Limit: 20})
	assert.ErrorIs(t, err, ErrLedgerDisabled)

	store := &memoryStore{}
	svc = newTestRegistrationService(&fakeRegistrar{}, store, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Register(context.Background(), &RegisterIPRequest{SPGNFTContract: testContract})
		require.NoError(t, err)
	}

	result, err := svc.ListRegistrations(context.Background(), utils.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Data, 2)
}

func TestSettings(t *testing.T) {
	svc := newTestRegistrationService(&fakeRegistrar{}, nil, nil)
	settings := svc.Settings()
	assert.Equal(t, int64(1514), settings.ChainID)
	assert.False(t, settings.SPGNFTContractConfigured)
	assert.False(t, settings.ExistingNFTConfigured)
	assert.Equal(t, models.MintNew, settings.DefaultMode)
	assert.Equal(t, models.CommercialRemix, settings.DefaultFlavor)
}
