package contracts

import "errors"

var (
	// ErrInsufficientPeers means no peer group at any scope reached
	// the minimum sample size for a metric.
	ErrInsufficientPeers = errors.New("insufficient peer group")

	// ErrBatchIntegrity means a run could not be published as a
	// complete unit and was rolled back.
	ErrBatchIntegrity = errors.New("batch integrity failure")

	// ErrNotFound means no published record exists for the query.
	ErrNotFound = errors.New("not found")
)
