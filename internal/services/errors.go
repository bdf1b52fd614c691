package services

import (
	"errors"
	"time"
)

// Sentinel errors handlers map onto HTTP statuses. Wrap with
// fmt.Errorf("%w: detail") so errors.Is keeps working.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// storeTimeout bounds each request's round trip to the relational
// store; timeouts surface as 5xx, clients retry on their own.
const storeTimeout = 10 * time.Second
