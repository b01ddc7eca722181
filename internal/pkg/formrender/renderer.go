package formrender

import (
	"errors"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/valueset"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNilQuestionnaire = errors.New("questionnaire root group is nil")

type Renderer struct {
	Log      *zap.Logger
	Observer Observer
	NewID    func() string
}

func NewRenderer(log *zap.Logger, observer Observer) *Renderer {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Renderer{
		Log:      log,
		Observer: observer,
		NewID:    uuid.NewString,
	}
}

// Render builds the form for root, binding every control to doc. Malformed
// nodes are skipped and reported through Form.Errors; only a missing root or
// document fails the render.
func (r *Renderer) Render(root *questionnaire.Group, layout Layout, doc answers.Mapping, catalog valueset.Catalog) (*Form, error) {
	if root == nil {
		return nil, ErrNilQuestionnaire
	}
	if doc == nil {
		return nil, answers.ErrNilDocument
	}

	form := &Form{
		doc:      doc,
		controls: make(map[string]*Control),
		units:    make(map[string]*Collector),
		observer: r.Observer,
	}
	s := &renderSession{
		renderer: r,
		form:     form,
		catalog:  catalog,
		visited:  make(map[*questionnaire.Group]bool),
	}
	form.root = s.renderGroup(root, layout)
	return form, nil
}

type renderSession struct {
	renderer *Renderer
	form     *Form
	catalog  valueset.Catalog
	visited  map[*questionnaire.Group]bool
}

func (s *renderSession) reject(err *questionnaire.DefinitionError) {
	s.form.errors = append(s.form.errors, err)
	log := s.renderer.Log.Warn
	if err.Fatal() {
		log = s.renderer.Log.Error
	}
	log("formrender: questionnaire node rejected",
		zap.String(constvars.LoggingLinkIDKey, err.LinkID),
		zap.String(constvars.LoggingReasonKey, err.Reason),
	)
}
