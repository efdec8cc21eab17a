package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
)

func TestBuildPackageIsDeterministic(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())
	d := models.IPDescriptor{Title: "Song A", Description: "demo", Image: "https://x/y.png"}

	first := svc.BuildPackage(d)
	second := svc.BuildPackage(d)
	assert.Equal(t, first, second)
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, string(first.IPMetadataHash))
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, string(first.NFTMetadataHash))
	assert.NotEqual(t, first.IPMetadataHash, first.NFTMetadataHash)
}

func TestBuildPackageHashesTrackEveryField(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())
	base := models.IPDescriptor{Title: "Song A", Description: "demo", Image: "https://x/y.png"}
	basePkg := svc.BuildPackage(base)

	variants := map[string]models.IPDescriptor{
		"title":       {Title: "Song B", Description: base.Description, Image: base.Image},
		"description": {Title: base.Title, Description: "other", Image: base.Image},
		"image":       {Title: base.Title, Description: base.Description, Image: "https://x/z.png"},
	}

	for field, d := range variants {
		pkg := svc.BuildPackage(d)
		changed := pkg.IPMetadataHash != basePkg.IPMetadataHash || pkg.NFTMetadataHash != basePkg.NFTMetadataHash
		assert.True(t, changed, "changing %s must change a hash", field)
	}
}

func TestBuildPackageDefaults(t *testing.T) {
	pkg := NewMetadataService(testMetadataConfig()).BuildPackage(models.IPDescriptor{})

	assert.Equal(t, models.DefaultIPTitle, pkg.IPMetadata.Title)
	assert.Equal(t, models.DefaultIPDescription, pkg.IPMetadata.Description)
	assert.Equal(t, models.DefaultIPImage, pkg.IPMetadata.Image)
	assert.Equal(t, models.DefaultIPTitle+models.OwnershipNFTSuffix, pkg.NFTMetadata.Name)
	assert.Equal(t, models.DefaultIPImage, pkg.NFTMetadata.Image)

	require.Len(t, pkg.IPMetadata.Creators, 1)
	creator := pkg.IPMetadata.Creators[0]
	assert.Equal(t, "You", creator.Name)
	assert.Equal(t, models.ZeroAddress, creator.Address)
	assert.Equal(t, 100, creator.ContributionPercent)

	assert.Equal(t, "ipfs://todo", pkg.IPMetadataURI)
	assert.Equal(t, "ipfs://todo", pkg.NFTMetadataURI)
}

func TestBuildPackageBlankFieldsFallBackToDefaults(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())
	assert.Equal(t, svc.BuildPackage(models.IPDescriptor{}), svc.BuildPackage(models.IPDescriptor{Title: "  ", Image: "\t"}))
}

func TestBuildPackageKeepsPresentFieldsVerbatim(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())

	pkg := svc.BuildPackage(models.IPDescriptor{Title: " Song A ", Description: "demo\n"})
	assert.Equal(t, " Song A ", pkg.IPMetadata.Title)
	assert.Equal(t, "demo\n", pkg.IPMetadata.Description)
	assert.Equal(t, " Song A "+models.OwnershipNFTSuffix, pkg.NFTMetadata.Name)
}

func TestBuildPackageWhitespaceChangesHash(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())

	plain := svc.BuildPackage(models.IPDescriptor{Title: "Song A"})
	padded := svc.BuildPackage(models.IPDescriptor{Title: "Song A "})
	assert.NotEqual(t, plain.IPMetadataHash, padded.IPMetadataHash)
	assert.NotEqual(t, plain.NFTMetadataHash, padded.NFTMetadataHash)
}

func TestBuildPackageInvalidUTF8MatchesHashedDocument(t *testing.T) {
	svc := NewMetadataService(testMetadataConfig())

	pkg := svc.BuildPackage(models.IPDescriptor{Title: "x\xff"})
	assert.Equal(t, "x\uFFFD", pkg.IPMetadata.Title)
	assert.Equal(t, svc.BuildPackage(models.IPDescriptor{Title: "x\uFFFD"}), pkg)
}

func TestSongAScenario(t *testing.T) {
	license := NewLicenseService(testStoryConfig())
	metadata := NewMetadataService(testMetadataConfig())

	terms, err := license.ResolveTerms(models.CommercialRemix)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), terms.CommercialRevShare)
	assert.True(t, terms.DerivativesAllowed)

	pkg := metadata.BuildPackage(models.IPDescriptor{Title: "Song A", Description: "demo", Image: "https://x/y.png"})
	assert.Equal(t, "Song A — Ownership NFT", pkg.NFTMetadata.Name)
}

func TestBuildPackageCIDLocators(t *testing.T) {
	cfg := testMetadataConfig()
	cfg.LocatorMode = config.LocatorModeCID
	svc := NewMetadataService(cfg)

	pkg := svc.BuildPackage(models.IPDescriptor{Title: "Song A"})
	assert.True(t, strings.HasPrefix(pkg.IPMetadataURI, "ipfs://b"), pkg.IPMetadataURI)
	assert.True(t, strings.HasPrefix(pkg.NFTMetadataURI, "ipfs://b"), pkg.NFTMetadataURI)
	assert.NotEqual(t, pkg.IPMetadataURI, pkg.NFTMetadataURI)
	assert.Equal(t, pkg, svc.BuildPackage(models.IPDescriptor{Title: "Song A"}))
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	out, err := CanonicalJSON(map[string]interface{}{"b": 1, "a": []int{2, 1}, "c": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[2,1],"b":1,"c":"x"}`, string(out))

	doc, err := CanonicalJSON(models.NFTMetadata{Name: "n", Description: "d", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, `{"description":"d","image":"i","name":"n"}`, string(doc))
}
