// Package blobstore provides storage for a single named blob. The post cache
// persists its one entry through this interface so production can bind it to
// local disk or S3-compatible object storage while tests use memory.
package blobstore

import "errors"

// ErrNotFound is returned by Get when no blob has been stored.
var ErrNotFound = errors.New("blob not found")

// Store persists one named blob. Implementations are not synchronized;
// last writer wins.
type Store interface {
	// Get returns the stored blob, or ErrNotFound if absent.
	Get() ([]byte, error)
	// Set overwrites the stored blob unconditionally.
	Set(data []byte) error
	// Clear removes the stored blob. Clearing an absent blob is not an error.
	Clear() error
}
