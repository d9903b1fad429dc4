package services

import (
	"errors"

	"nutrilog/store"
)

// ErrNotFound is the store's not-found error, re-exported for callers that
// only import services.
var ErrNotFound = store.ErrNotFound

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
