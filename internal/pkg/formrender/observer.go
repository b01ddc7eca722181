package formrender

import (
	"fhirstarter-service/internal/pkg/answers"
)

// Observer is notified of every write a form makes into its answer document.
// Calls happen synchronously on the goroutine that changed the form.
type Observer interface {
	ValueCommitted(controlID string, path answers.Path, value answers.Value)
	RecordAdded(unitID string, record Record)
	RecordRemoved(unitID string, record Record)
}

type NopObserver struct{}

func (NopObserver) ValueCommitted(string, answers.Path, answers.Value) {}
func (NopObserver) RecordAdded(string, Record)                         {}
func (NopObserver) RecordRemoved(string, Record)                       {}
