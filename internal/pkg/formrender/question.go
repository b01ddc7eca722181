package formrender

import (
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"

	"go.uber.org/zap"
)

// renderQuestion returns nil when the question is refused.
func (s *renderSession) renderQuestion(q *questionnaire.Question, groupRepeats, standalone bool) *Node {
	if err := questionnaire.CheckQuestion(q, groupRepeats); err != nil {
		s.reject(err)
		return nil
	}

	controlID, pathString := questionnaire.NormalizeLinkID(q.LinkID)
	path, err := answers.ParsePath(pathString)
	if err != nil {
		s.reject(&questionnaire.DefinitionError{LinkID: q.LinkID, Reason: questionnaire.ReasonInvalidLinkID, Severity: questionnaire.SeverityError})
		return nil
	}
	if _, exists := s.form.controls[controlID]; exists {
		s.reject(&questionnaire.DefinitionError{LinkID: q.LinkID, Reason: questionnaire.ReasonDuplicateLinkID, Severity: questionnaire.SeverityError})
		return nil
	}

	control := &Control{
		ID:          controlID,
		Path:        path,
		Type:        q.Type,
		Input:       inputKindFor(q.Type),
		Required:    q.Required,
		Placeholder: q.Text,
		Suppressed:  groupRepeats || q.Repeats,
	}
	s.bindOptions(control, q)

	node := &Node{
		Kind:     NodeQuestion,
		ID:       controlID,
		Repeats:  q.Repeats,
		Required: q.Required,
		Control:  control,
	}
	if !standalone {
		node.Label = questionnaire.Label(controlID)
	}

	if q.Repeats {
		collector := s.newUnit(controlID, path)
		if collector == nil {
			return nil
		}
		collector.scalar = true
		collector.addMember(control, nil)
		node.UnitID = collector.unitID
		node.Children = repeatNodes(collector.unitID, questionnaire.Label(controlID))
	} else if !groupRepeats {
		if err := s.bindDocument(control); err != nil {
			s.reject(&questionnaire.DefinitionError{LinkID: q.LinkID, Reason: err.Error(), Severity: questionnaire.SeverityError})
			return nil
		}
	}

	s.form.controls[controlID] = control
	s.form.order = append(s.form.order, controlID)
	return node
}

// bindOptions turns a choice question into a select when its option
// reference resolves to a non-empty expansion. Anything else stays free text.
func (s *renderSession) bindOptions(control *Control, q *questionnaire.Question) {
	if q.Type != questionnaire.TypeChoice && q.Type != questionnaire.TypeOpenChoice {
		return
	}
	reference := q.ReferenceValue()
	if reference == "" {
		return
	}
	options, ok := valueset.Resolve(reference, s.catalog)
	if !ok || len(options) == 0 {
		s.renderer.Log.Info("formrender: value set not resolved, rendering free text",
			zap.String(constvars.LoggingLinkIDKey, q.LinkID),
			zap.String(constvars.LoggingValueSetIDKey, valueset.ReferenceID(reference)),
		)
		return
	}
	control.Input = InputSelect
	control.Options = options
}

// bindDocument makes the control write through on change and registers the
// question in the document. An answer already present is kept and displayed
// when the control can show it; otherwise it is replaced by null so the
// document never carries a value the form does not display.
func (s *renderSession) bindDocument(control *Control) error {
	doc := s.form.doc
	observer := s.form.observer
	existing, ok := answers.Lookup(doc, control.Path)
	switch {
	case ok && control.accepts(existing):
		control.value = existing
	case ok:
		s.renderer.Log.Warn("formrender: pre-seeded answer does not fit control, resetting",
			zap.String(constvars.LoggingControlIDKey, control.ID),
			zap.String(constvars.LoggingPathKey, control.Path.String()),
		)
		fallthrough
	default:
		if err := answers.Set(doc, control.Path, answers.Null); err != nil {
			return err
		}
	}

	control.commit = func(value answers.Value) error {
		_, pathString := questionnaire.NormalizeLinkID(control.ID)
		path, err := answers.ParsePath(pathString)
		if err != nil {
			return err
		}
		if err := answers.Set(doc, path, value); err != nil {
			return err
		}
		observer.ValueCommitted(control.ID, path, value)
		return nil
	}
	return nil
}
