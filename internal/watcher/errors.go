package watcher

import "errors"

var (
	// ErrStoreUnavailable means the backing store could not be opened or
	// written. A failed commit leaves previously persisted state intact.
	ErrStoreUnavailable = errors.New("registry store unavailable")

	// ErrStoreCorrupt means the store file exists but its schema marker is
	// missing or unreadable.
	ErrStoreCorrupt = errors.New("registry store corrupt")

	// ErrRetrievalFailed means the catalog snapshot could not be obtained.
	// It aborts a detector run before any commit.
	ErrRetrievalFailed = errors.New("catalog retrieval failed")

	// ErrMailboxUnavailable means the mailbox could not be reached or
	// searched. Ingestion degrades to an empty result.
	ErrMailboxUnavailable = errors.New("mailbox unavailable")

	// ErrVersionParse marks a version string the comparator could not read.
	// Comparison degrades to "not newer"; never fatal.
	ErrVersionParse = errors.New("unparseable version")

	// ErrDeliveryFailed marks a failed delivery to a single recipient.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)
