package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCrossOwner is returned when an operation names contact ids owned by
// different users. Cross-owner merges are never executed.
var ErrCrossOwner = errors.New("contacts are owned by different users")

// PartialReassignmentError reports which dependent record types could not be
// reassigned during a merge. The surrounding transaction is rolled back before
// this error reaches the caller, so the store is left untouched and the merge
// can be retried.
type PartialReassignmentError struct {
	Failed []string
}

func (e *PartialReassignmentError) Error() string {
	return fmt.Sprintf("merge aborted: failed to reassign %s", strings.Join(e.Failed, ", "))
}
