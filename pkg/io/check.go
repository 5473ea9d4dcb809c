package io

import (
	"strings"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
)

// Check validates doc and returns nil when it satisfies every integrity
// invariant. Otherwise the *errors.Error code follows the first issue:
// duplicate nodes give DUPLICATE_ID, dangling edges DANGLING_EDGE, parent
// problems INVALID_PARENT and anything else INVALID_DOCUMENT. The message
// lists all issues.
func Check(doc *canvas.Document) error {
	issues := doc.Validate()
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, is := range issues {
		msgs[i] = is.String()
	}
	return errors.New(issueCode(issues[0].Kind), "%s", strings.Join(msgs, "; "))
}

func issueCode(k canvas.IssueKind) errors.Code {
	switch k {
	case canvas.IssueDuplicateNode:
		return errors.ErrCodeDuplicateID
	case canvas.IssueDanglingEdge:
		return errors.ErrCodeDanglingEdge
	case canvas.IssueInvalidParent, canvas.IssueParentCycle:
		return errors.ErrCodeInvalidParent
	}
	return errors.ErrCodeInvalidDocument
}
