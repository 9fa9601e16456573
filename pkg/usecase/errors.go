package usecase

import "errors"

// ErrStorage marks a persistence failure. When it occurs during ingestion
// the ledger anchor has already succeeded and is not rolled back; the
// anchored-but-unrecorded checksum is an accepted inconsistency window,
// visible through the tx hash attached to the wrapped error.
var ErrStorage = errors.New("record storage failed")
