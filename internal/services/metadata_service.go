// internal/services/metadata_service.go
package services

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

// MetadataService builds the content-hashed IP and NFT metadata documents. Nothing is
// published; locators are either a fixed placeholder or the document's CID.
type MetadataService struct {
	locatorMode    string
	placeholderURI string
}

func NewMetadataService(cfg config.MetadataConfig) *MetadataService {
	mode := cfg.LocatorMode
	if mode == "" {
		mode = config.LocatorModePlaceholder
	}
	placeholder := cfg.PlaceholderURI
	if placeholder == "" {
		placeholder = "ipfs://todo"
	}
	return &MetadataService{
		locatorMode:    mode,
		placeholderURI: placeholder,
	}
}

func (s *MetadataService) BuildPackage(descriptor models.IPDescriptor) models.MetadataPackage {
	d := descriptor.WithDefaults()

	// The image hash fingerprints the locator string, not fetched bytes.
	imageHash := models.HexData(utils.ContentHash([]byte(d.Image)))

	ipMetadata := models.IPMetadata{
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		ImageHash:   imageHash,
		MediaURL:    d.Image,
		MediaHash:   imageHash,
		MediaType:   models.DefaultMediaType,
		Creators: []models.Creator{
			{
				Name:                models.DefaultCreatorName,
				Address:             models.ZeroAddress,
				Description:         models.DefaultCreatorRole,
				ContributionPercent: models.FullContributionShare,
				SocialMedia:         []models.SocialMedia{},
			},
		},
	}

	nftMetadata := models.NFTMetadata{
		Name:        d.Title + models.OwnershipNFTSuffix,
		Description: d.Description,
		Image:       d.Image,
	}

	ipCanonical := mustCanonicalJSON(ipMetadata)
	nftCanonical := mustCanonicalJSON(nftMetadata)

	return models.MetadataPackage{
		IPMetadataURI:   s.locator(ipCanonical),
		IPMetadataHash:  models.HexData(utils.ContentHash(ipCanonical)),
		NFTMetadataURI:  s.locator(nftCanonical),
		NFTMetadataHash: models.HexData(utils.ContentHash(nftCanonical)),
		IPMetadata:      ipMetadata,
		NFTMetadata:     nftMetadata,
	}
}

func (s *MetadataService) locator(canonical []byte) string {
	if s.locatorMode == config.LocatorModeCID {
		if cid := utils.CIDv1RawSHA256(canonical); cid != "" {
			return "ipfs://" + cid
		}
	}
	return s.placeholderURI
}

// CanonicalJSON serializes v in RFC 8785 form: sorted keys, no insignificant
// whitespace, shortest number form.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}
	return canonical, nil
}

// mustCanonicalJSON is for documents built here from plain strings and ints, which
// always marshal.
func mustCanonicalJSON(v interface{}) []byte {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		panic(err)
	}
	return canonical
}
