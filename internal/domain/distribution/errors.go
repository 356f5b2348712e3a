package distribution

import "errors"

var (
	// ErrCommitFailed indicates the commit was rolled back and nothing changed.
	ErrCommitFailed = errors.New("distribution failed, no changes made")
	// ErrRunInProgress indicates another run or cancellation holds the run lock.
	ErrRunInProgress = errors.New("distribution already in progress")
)
