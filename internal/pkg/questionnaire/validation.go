package questionnaire

import (
	"errors"
	"fmt"
)

var ErrDefinition = errors.New("questionnaire definition error")

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DefinitionError describes one malformed node. Error severity means the node
// is not rendered; warnings are rendered with the documented fallback.
type DefinitionError struct {
	LinkID   string   `json:"link_id"`
	Reason   string   `json:"reason"`
	Severity Severity `json:"severity"`
}

func (e *DefinitionError) Error() string {
	linkID := e.LinkID
	if linkID == "" {
		linkID = "<missing linkId>"
	}
	return fmt.Sprintf("%s: %s: %s", ErrDefinition, linkID, e.Reason)
}

func (e *DefinitionError) Unwrap() error {
	return ErrDefinition
}

func (e *DefinitionError) Fatal() bool {
	return e.Severity == SeverityError
}

const (
	ReasonMissingLinkID      = "missing linkId"
	ReasonGroupsAndQuestions = "group has both sub-groups and questions, questions are ignored"
	ReasonNestedRepeats      = "repeating question inside a repeating group is not supported"
	ReasonCycle              = "group is its own ancestor"
	ReasonDuplicateLinkID    = "linkId is already bound to another control"
	ReasonInvalidLinkID      = "linkId does not form a valid answer path"
)

// CheckGroup validates one group node without descending into it.
func CheckGroup(g *Group) []*DefinitionError {
	var errs []*DefinitionError
	if g.LinkID == "" {
		errs = append(errs, &DefinitionError{Reason: ReasonMissingLinkID, Severity: SeverityError})
	}
	if len(g.Group) > 0 && len(g.Question) > 0 {
		errs = append(errs, &DefinitionError{LinkID: g.LinkID, Reason: ReasonGroupsAndQuestions, Severity: SeverityWarning})
	}
	return errs
}

// CheckQuestion validates a question rendered under a group whose repeats flag is groupRepeats.
func CheckQuestion(q *Question, groupRepeats bool) *DefinitionError {
	if q.LinkID == "" {
		return &DefinitionError{Reason: ReasonMissingLinkID, Severity: SeverityError}
	}
	if groupRepeats && q.Repeats {
		return &DefinitionError{LinkID: q.LinkID, Reason: ReasonNestedRepeats, Severity: SeverityError}
	}
	return nil
}

// Validate walks the whole tree and collects every definition error.
func Validate(root *Group) []*DefinitionError {
	var errs []*DefinitionError
	visited := make(map[*Group]bool)
	var walk func(g *Group)
	walk = func(g *Group) {
		if g == nil {
			return
		}
		if visited[g] {
			errs = append(errs, &DefinitionError{LinkID: g.LinkID, Reason: ReasonCycle, Severity: SeverityError})
			return
		}
		visited[g] = true
		defer delete(visited, g)

		errs = append(errs, CheckGroup(g)...)
		if g.HasChildGroups() {
			for _, child := range g.Group {
				walk(child)
			}
			return
		}
		for _, q := range g.Question {
			if err := CheckQuestion(q, g.Repeats); err != nil {
				errs = append(errs, err)
			}
		}
	}
	walk(root)
	return errs
}
