// Package services holds the error taxonomy shared by the external
// service clients. Handlers only ever see success or one of these tagged
// failures; protocol detail stays inside the client packages.
package services

import (
	"errors"
	"fmt"
)

// ErrService is the base class for all external-service failures.
var ErrService = errors.New("external service error")

var (
	// ErrUnavailable: network failure, timeout or server-side error.
	ErrUnavailable = fmt.Errorf("%w: service unreachable", ErrService)
	// ErrRateLimited: the service refused the request with a rate limit.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrService)
	// ErrInvalidKey: the configured API key was rejected.
	ErrInvalidKey = fmt.Errorf("%w: invalid API key", ErrService)
)
