package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeInvalidPosition       ErrorCode = 102
	ErrCodeInvalidLeverage       ErrorCode = 103
	ErrCodeInvalidPrice          ErrorCode = 104
	ErrCodeInvalidPeriod         ErrorCode = 105
	ErrCodeInvalidRecommendation ErrorCode = 106

	// Funds errors (200-299)
	ErrCodeInsufficientFunds ErrorCode = 200

	// Lookup errors (300-399)
	ErrCodePositionNotFound  ErrorCode = 300
	ErrCodePortfolioNotFound ErrorCode = 301

	// Data errors (400-499)
	ErrCodeDataUnavailable         ErrorCode = 400
	ErrCodeInsufficientHistory     ErrorCode = 401
	ErrCodeMalformedRecommendation ErrorCode = 402
	ErrCodeQuoteMissing            ErrorCode = 403

	// Storage errors (500-599)
	ErrCodeQueryFailed      ErrorCode = 500
	ErrCodeStoreUnavailable ErrorCode = 501
	ErrCodeStoreInitFailed  ErrorCode = 502

	// Market data errors (600-699)
	ErrCodeMarketDataFetchFailed ErrorCode = 600
	ErrCodeMarketDataParseFailed ErrorCode = 601
	ErrCodeInvalidProvider       ErrorCode = 602
)
