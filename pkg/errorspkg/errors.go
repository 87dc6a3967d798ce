// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal hides the cause of an unexpected failure from API clients.
var ErrInternal = errors.New("internal server error")
