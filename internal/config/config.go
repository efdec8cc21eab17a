// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/javajoker/story-registrar/internal/models"
)

const (
	// Story mainnet
	DefaultChainID       = 1514
	DefaultRoyaltyPolicy = "0xBe54FB168b3c982b7AaE60dB6CF75Bd8447b390E" // RoyaltyPolicyLAP
	DefaultCurrency      = "0x1514000000000000000000000000000000000000" // WIP token

	LocatorModePlaceholder = "placeholder"
	LocatorModeCID         = "cid"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Story       StoryConfig
	Gateway     GatewayConfig
	Metadata    MetadataConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// StoryConfig holds the chain-level constants and the default contract references
// used when a request leaves them out.
type StoryConfig struct {
	ChainID              int64
	ExplorerURL          string
	SPGNFTContract       string
	ExistingNFTAddress   string
	ExistingNFTTokenID   string
	RoyaltyPolicy        models.Address
	Currency             models.Address
	CommercialMintingFee models.Uint256
	SignatureDeadline    time.Duration
}

type GatewayConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type MetadataConfig struct {
	LocatorMode    string
	PlaceholderURI string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	WritesPerMinute   int
}

type LogConfig struct {
	Level  string
	Format string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", ""),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 90),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "story_registrar"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Story: StoryConfig{
			ChainID:              int64(getEnvAsInt("STORY_CHAIN_ID", DefaultChainID)),
			ExplorerURL:          strings.TrimRight(getEnv("STORY_EXPLORER_URL", "https://mainnet.storyscan.xyz"), "/"),
			SPGNFTContract:       getEnv("STORY_SPG_NFT_CONTRACT", ""),
			ExistingNFTAddress:   getEnv("EXISTING_NFT_ADDRESS", ""),
			ExistingNFTTokenID:   getEnv("EXISTING_NFT_TOKEN_ID", "1"),
			RoyaltyPolicy:        models.Address(getEnv("STORY_ROYALTY_POLICY", DefaultRoyaltyPolicy)),
			Currency:             models.Address(getEnv("STORY_CURRENCY", DefaultCurrency)),
			CommercialMintingFee: models.Uint256(getEnv("STORY_COMMERCIAL_MINTING_FEE", "0")),
			SignatureDeadline:    time.Duration(getEnvAsInt("STORY_SIGNATURE_DEADLINE", 60)) * time.Second,
		},
		Gateway: GatewayConfig{
			URL:     strings.TrimRight(getEnv("STORY_GATEWAY_URL", ""), "/"),
			Secret:  getEnv("STORY_GATEWAY_SECRET", ""),
			Timeout: time.Duration(getEnvAsInt("STORY_GATEWAY_TIMEOUT", 75)) * time.Second,
		},
		Metadata: MetadataConfig{
			LocatorMode:    strings.ToLower(getEnv("METADATA_LOCATOR_MODE", LocatorModePlaceholder)),
			PlaceholderURI: getEnv("METADATA_PLACEHOLDER_URI", "ipfs://todo"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
			WritesPerMinute:   getEnvAsInt("RATE_LIMIT_WRITES_PER_MINUTE", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	if err := config.Normalize(); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Normalize checksums the configured addresses and canonicalizes the minting fee.
func (c *Config) Normalize() error {
	var err error
	if c.Story.RoyaltyPolicy, err = models.ParseAddress(string(c.Story.RoyaltyPolicy)); err != nil {
		return fmt.Errorf("STORY_ROYALTY_POLICY: %w", err)
	}
	if c.Story.Currency, err = models.ParseAddress(string(c.Story.Currency)); err != nil {
		return fmt.Errorf("STORY_CURRENCY: %w", err)
	}
	if c.Story.CommercialMintingFee, err = models.ParseUint256(string(c.Story.CommercialMintingFee)); err != nil {
		return fmt.Errorf("STORY_COMMERCIAL_MINTING_FEE: %w", err)
	}
	for name, ref := range map[string]*string{
		"STORY_SPG_NFT_CONTRACT": &c.Story.SPGNFTContract,
		"EXISTING_NFT_ADDRESS":   &c.Story.ExistingNFTAddress,
	} {
		if *ref == "" {
			continue
		}
		addr, err := models.ParseAddress(*ref)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*ref = string(addr)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Story.ChainID <= 0 {
		return errors.New("STORY_CHAIN_ID must be positive")
	}

	if c.Story.SignatureDeadline <= 0 {
		return errors.New("STORY_SIGNATURE_DEADLINE must be positive")
	}

	switch c.Metadata.LocatorMode {
	case LocatorModePlaceholder, LocatorModeCID:
	default:
		return fmt.Errorf("unknown METADATA_LOCATOR_MODE %q", c.Metadata.LocatorMode)
	}

	if c.Metadata.LocatorMode == LocatorModePlaceholder && c.Metadata.PlaceholderURI == "" {
		return errors.New("METADATA_PLACEHOLDER_URI is required in placeholder mode")
	}

	if c.Gateway.URL != "" && c.Gateway.Secret == "" {
		return errors.New("STORY_GATEWAY_SECRET is required when STORY_GATEWAY_URL is set")
	}

	if c.IsProduction() && c.Gateway.URL == "" {
		return errors.New("STORY_GATEWAY_URL is required in production")
	}

	if c.Database.Enabled && c.Database.Password == "" && c.IsProduction() {
		return errors.New("database password is required in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
