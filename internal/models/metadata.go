// internal/models/metadata.go
package models

import "strings"

const (
	DefaultIPTitle       = "My First Story IP"
	DefaultIPDescription = "Created with Story SDK via the registration API."
	DefaultIPImage       = "https://picsum.photos/600/400"

	DefaultMediaType      = "image/png"
	OwnershipNFTSuffix    = " — Ownership NFT"
	DefaultCreatorName    = "You"
	DefaultCreatorRole    = "Creator"
	FullContributionShare = 100
)

// IPDescriptor is the caller-supplied description of an asset. Blank fields fall back
// to fixed defaults; present fields are kept as given.
type IPDescriptor struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (d IPDescriptor) WithDefaults() IPDescriptor {
	return IPDescriptor{
		Title:       orDefault(d.Title, DefaultIPTitle),
		Description: orDefault(d.Description, DefaultIPDescription),
		Image:       orDefault(d.Image, DefaultIPImage),
	}
}

// orDefault keeps s as given unless it is blank. Invalid UTF-8 is replaced
// up front so the stored document matches the bytes that get hashed.
func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

type SocialMedia struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Creator struct {
	Name                string        `json:"name"`
	Address             Address       `json:"address"`
	Description         string        `json:"description"`
	ContributionPercent int           `json:"contributionPercent"`
	SocialMedia         []SocialMedia `json:"socialMedia"`
}

// IPMetadata is the IP-level document attached to the registration.
type IPMetadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	ImageHash   HexData   `json:"imageHash"`
	MediaURL    string    `json:"mediaUrl"`
	MediaHash   HexData   `json:"mediaHash"`
	MediaType   string    `json:"mediaType"`
	Creators    []Creator `json:"creators"`
}

// NFTMetadata is the token-level document of the ownership NFT.
type NFTMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MetadataPackage carries both documents with their content hashes and locators.
// Only the locator/hash quartet is sent to the chain.
type MetadataPackage struct {
	IPMetadataURI   string  `json:"ipMetadataURI"`
	IPMetadataHash  HexData `json:"ipMetadataHash"`
	NFTMetadataURI  string  `json:"nftMetadataURI"`
	NFTMetadataHash HexData `json:"nftMetadataHash"`

	IPMetadata  IPMetadata  `json:"-"`
	NFTMetadata NFTMetadata `json:"-"`
}
