// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess  = "success"
	KeyError    = "error"
	KeyNotFound = "not_found"

	// Registration
	KeyRegistrationSuccess    = "registration.success"
	KeyRegistrationMissingSPG = "registration.missing_spg_contract"
	KeyRegistrationMissingNFT = "registration.missing_nft_contract"
	KeyRegistrationLedgerOff  = "registration.ledger_disabled"

	// Collections
	KeyCollectionCreated = "collection.created"

	// Licenses
	KeyLicenseUnknownFlavor = "license.unknown_flavor"

	// Validation
	KeyValidationInvalid     = "validation.invalid"
	KeyValidationRequired    = "validation.required"
	KeyValidationTooLong     = "validation.too_long"
	KeyValidationAddress     = "validation.invalid_address"
	KeyValidationTokenID     = "validation.invalid_token_id"
	KeyValidationFlavor      = "validation.invalid_flavor"
	KeyValidationMode        = "validation.invalid_mode"
	KeyValidationRequestBody = "validation.request_body"

	// System
	KeySystemError       = "system.error"
	KeySystemRateLimited = "system.rate_limited"
	KeySystemHealthy     = "system.healthy"
)
