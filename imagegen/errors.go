// Package imagegen turns seeds into files on disk. A Generator runs the
// decode, scene, render and write pipeline for one hash; RunBatch fans
// a list of hashes out over a worker pool.
package imagegen

import "errors"

var (
	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("imagegen: canvas pool is closed")

	// ErrAcquireTimeout is returned when ctx ends while waiting for a canvas.
	ErrAcquireTimeout = errors.New("imagegen: timed out waiting for a canvas")

	// ErrInvalidPoolSize is returned for a pool with no capacity.
	ErrInvalidPoolSize = errors.New("imagegen: pool size must be positive")

	// ErrEmptyFilename is returned when an output name sanitizes to nothing useful.
	ErrEmptyFilename = errors.New("imagegen: filename cannot be empty")
)
