// Package common defines shared constants and sentinel errors used across
// the storage, session and auth layers of bizdesk. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Storage medium errors. Stores wrap the driver error with one of these.
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")

	// Persisted record could not be decoded.
	ErrCorruptRecord = errors.New("corrupt record")
)
