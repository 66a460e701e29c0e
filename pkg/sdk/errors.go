package searchd

import "github.com/pulseworks/searchd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrValidation         = domain.ErrValidation
)
