// internal/services/license_service.go
package services

import (
	"fmt"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
)

// LicenseService resolves license flavors into complete terms records.
type LicenseService struct {
	royaltyPolicy        models.Address
	currency             models.Address
	commercialMintingFee models.Uint256
}

type LicensePreset struct {
	Flavor      models.LicenseFlavor `json:"flavor"`
	Description string               `json:"description"`
	Terms       models.LicenseTerms  `json:"terms"`
}

var presetDescriptions = map[models.LicenseFlavor]string{
	models.NonCommercial:   "Non-Commercial (with attribution)",
	models.CommercialUse:   "Commercial Use (flat fee only)",
	models.CommercialRemix: "Commercial Remix (50% rev share)",
}

func NewLicenseService(cfg config.StoryConfig) *LicenseService {
	fee := cfg.CommercialMintingFee
	if fee == "" {
		fee = models.NewUint256(0)
	}
	return &LicenseService{
		royaltyPolicy:        cfg.RoyaltyPolicy,
		currency:             cfg.Currency,
		commercialMintingFee: fee,
	}
}

// ResolveTerms returns the preset for flavor. The only error is an out-of-range flavor.
func (s *LicenseService) ResolveTerms(flavor models.LicenseFlavor) (models.LicenseTerms, error) {
	terms := s.baseTerms()

	switch flavor {
	case models.NonCommercial:
		terms.CommercialUse = false
		terms.CommercialAttribution = true
		terms.CommercialRevShare = 0
		terms.DerivativesAllowed = true
		terms.DerivativesAttribution = true
		terms.DerivativesApproval = false
		terms.DerivativesReciprocal = false

	case models.CommercialUse:
		// Monetized through the minting fee only.
		terms.DefaultMintingFee = s.commercialMintingFee
		terms.CommercialUse = true
		terms.CommercialAttribution = true
		terms.CommercialRevShare = 0
		terms.DerivativesAllowed = false
		terms.DerivativesAttribution = false
		terms.DerivativesApproval = false
		terms.DerivativesReciprocal = false

	case models.CommercialRemix:
		// Derivatives must carry these same terms forward.
		terms.CommercialUse = true
		terms.CommercialAttribution = true
		terms.CommercialRevShare = 50
		terms.DerivativesAllowed = true
		terms.DerivativesAttribution = true
		terms.DerivativesApproval = false
		terms.DerivativesReciprocal = true

	default:
		return models.LicenseTerms{}, invalidFlavor(fmt.Errorf("%w: %s", models.ErrUnknownFlavor, flavor))
	}

	return terms, nil
}

// ResolveFlavorName parses a wire flavor name and resolves it. An empty name selects
// the default flavor.
func (s *LicenseService) ResolveFlavorName(name string) (models.LicenseFlavor, models.LicenseTerms, error) {
	flavor, err := models.ParseLicenseFlavor(name)
	if err != nil {
		return 0, models.LicenseTerms{}, invalidFlavor(err)
	}
	terms, err := s.ResolveTerms(flavor)
	if err != nil {
		return 0, models.LicenseTerms{}, err
	}
	return flavor, terms, nil
}

// Presets resolves every flavor, in declaration order.
func (s *LicenseService) Presets() []LicensePreset {
	presets := make([]LicensePreset, 0, len(models.LicenseFlavors()))
	for _, flavor := range models.LicenseFlavors() {
		terms, err := s.ResolveTerms(flavor)
		if err != nil {
			continue
		}
		presets = append(presets, LicensePreset{
			Flavor:      flavor,
			Description: PresetDescription(flavor),
			Terms:       terms,
		})
	}
	return presets
}

// PresetDescription is the human label shown next to a flavor.
func PresetDescription(flavor models.LicenseFlavor) string {
	return presetDescriptions[flavor]
}

func (s *LicenseService) baseTerms() models.LicenseTerms {
	zero := models.NewUint256(0)
	return models.LicenseTerms{
		Transferable:              true,
		RoyaltyPolicy:             s.royaltyPolicy,
		DefaultMintingFee:         zero,
		Expiration:                zero,
		CommercializerChecker:     models.ZeroAddress,
		CommercializerCheckerData: models.EmptyHexData,
		CommercialRevCeiling:      zero,
		DerivativeRevCeiling:      zero,
		Currency:                  s.currency,
		URI:                       "",
	}
}
