package formrender

import (
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fmt"
)

// Form is the result of a render: the node tree plus the registry of control
// handles and repeating units bound to one answer document. A Form is not safe
// for concurrent use.
type Form struct {
	root      *Node
	doc       answers.Mapping
	controls  map[string]*Control
	order     []string
	units     map[string]*Collector
	unitOrder []string
	errors    []*questionnaire.DefinitionError
	observer  Observer
}

// Root is nil when the root group itself was rejected.
func (f *Form) Root() *Node {
	return f.root
}

func (f *Form) Document() answers.Mapping {
	return f.doc
}

// Errors lists every rejected or degraded node in render order.
func (f *Form) Errors() []*questionnaire.DefinitionError {
	return f.errors
}

func (f *Form) Control(controlID string) (*Control, bool) {
	control, ok := f.controls[controlID]
	return control, ok
}

// Controls returns the control handles in render order.
func (f *Form) Controls() []*Control {
	controls := make([]*Control, 0, len(f.order))
	for _, id := range f.order {
		controls = append(controls, f.controls[id])
	}
	return controls
}

func (f *Form) Unit(unitID string) (*Collector, bool) {
	unit, ok := f.units[unitID]
	return unit, ok
}

// Units returns the repeating units in render order.
func (f *Form) Units() []*Collector {
	units := make([]*Collector, 0, len(f.unitOrder))
	for _, id := range f.unitOrder {
		units = append(units, f.units[id])
	}
	return units
}

// Change delivers an input event to a control.
func (f *Form) Change(controlID string, raw interface{}) (answers.Value, error) {
	control, ok := f.controls[controlID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownControl, controlID)
	}
	return control.Change(raw)
}

// Commit applies the given member inputs, then commits the unit's current
// values as a new record. Members absent from inputs keep their displayed value.
func (f *Form) Commit(unitID string, inputs map[string]interface{}) (Record, error) {
	unit, ok := f.units[unitID]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	for controlID := range inputs {
		if _, ok := unit.member(controlID); !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrNotAMember, controlID)
		}
	}
	for controlID, raw := range inputs {
		control, _ := unit.member(controlID)
		if _, err := control.Change(raw); err != nil {
			return Record{}, err
		}
	}
	return unit.Commit()
}

func (f *Form) Reset(unitID string) error {
	unit, ok := f.units[unitID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	unit.Reset()
	return nil
}

func (f *Form) Remove(unitID, recordID string) error {
	unit, ok := f.units[unitID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	return unit.Remove(recordID)
}

func (f *Form) Records(unitID string) ([]Record, error) {
	unit, ok := f.units[unitID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	return unit.Records(), nil
}
