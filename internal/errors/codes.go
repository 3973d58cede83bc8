package errors

// Category groups errors by subsystem.
type Category string

const (
	CategoryConfig   Category = "Config"
	CategoryBackend  Category = "Backend"
	CategoryQuery    Category = "Query"
	CategoryInternal Category = "Internal"
)

// Severity grades how an error should be handled.
type Severity string

const (
	// SeverityFatal aborts startup; the process cannot serve queries.
	SeverityFatal Severity = "fatal"
	// SeverityError fails the current operation.
	SeverityError Severity = "error"
	// SeverityWarning is logged and recovered from.
	SeverityWarning Severity = "warning"
)

// Error codes. The numeric band encodes the category: 1xx config,
// 2xx backend, 3xx query, 9xx internal.
const (
	ErrCodeConfigInvalid      = "ERR_101_CONFIG_INVALID"
	ErrCodeSynonymsInvalid    = "ERR_102_SYNONYMS_INVALID"
	ErrCodeBackendUnavailable = "ERR_201_BACKEND_UNAVAILABLE"
	ErrCodeQueryFailed        = "ERR_301_QUERY_FAILED"
	ErrCodeInternal           = "ERR_901_INTERNAL"
)

func categoryFromCode(code string) Category {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeSynonymsInvalid:
		return CategoryConfig
	case ErrCodeBackendUnavailable:
		return CategoryBackend
	case ErrCodeQueryFailed:
		return CategoryQuery
	default:
		return CategoryInternal
	}
}

func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeSynonymsInvalid, ErrCodeBackendUnavailable:
		// Misconfiguration and a dead backend are one-time startup
		// failures, not per-query conditions.
		return SeverityFatal
	case ErrCodeQueryFailed:
		return SeverityWarning
	default:
		return SeverityError
	}
}

func isRetryableCode(code string) bool {
	return code == ErrCodeQueryFailed
}
