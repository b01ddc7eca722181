package formrender

import (
	"fhirstarter-service/internal/pkg/answers"
	"fmt"
)

// Record is one committed entry of a repeating unit.
type Record struct {
	ID    string        `json:"id"`
	Value answers.Value `json:"value"`
}

type member struct {
	control  *Control
	relative answers.Path
}

// Collector accumulates the records of one repeating group or question and
// publishes them as a sequence into the answer document.
type Collector struct {
	unitID string
	path   answers.Path
	doc    answers.Mapping

	members []member
	// Scalar collectors back a repeating question: the record is the value
	// of its single control rather than a mapping.
	scalar bool

	records  []Record
	observer Observer
	newID    func() string
}

func newCollector(unitID string, path answers.Path, doc answers.Mapping, observer Observer, newID func() string) (*Collector, error) {
	c := &Collector{
		unitID:   unitID,
		path:     path,
		doc:      doc,
		observer: observer,
		newID:    newID,
	}
	if existing, ok := answers.Lookup(doc, path); ok {
		if sequence, ok := existing.(answers.Sequence); ok {
			for _, item := range sequence {
				c.records = append(c.records, Record{ID: newID(), Value: item})
			}
			return c, nil
		}
	}
	if err := answers.InitSequence(doc, path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) addMember(control *Control, groupPath answers.Path) {
	c.members = append(c.members, member{control: control, relative: control.Path.TrimPrefix(groupPath)})
}

func (c *Collector) UnitID() string {
	return c.unitID
}

func (c *Collector) Path() answers.Path {
	return c.path
}

// Members returns the control ids that make up one record.
func (c *Collector) Members() []string {
	ids := make([]string, 0, len(c.members))
	for _, m := range c.members {
		ids = append(ids, m.control.ID)
	}
	return ids
}

func (c *Collector) member(controlID string) (*Control, bool) {
	for _, m := range c.members {
		if m.control.ID == controlID {
			return m.control, true
		}
	}
	return nil, false
}

// Records returns a copy of the accumulated records in commit order.
func (c *Collector) Records() []Record {
	records := make([]Record, len(c.records))
	copy(records, c.records)
	return records
}

// Commit builds a record from the current member values, appends it, clears
// the members and republishes the sequence. Empty members are stored as null.
func (c *Collector) Commit() (Record, error) {
	var value answers.Value
	if c.scalar && len(c.members) == 1 {
		value = c.members[0].control.Value()
	} else {
		mapping := answers.Mapping{}
		for _, m := range c.members {
			if err := answers.Set(mapping, m.relative, m.control.Value()); err != nil {
				return Record{}, fmt.Errorf("commit %s: %w", c.unitID, err)
			}
		}
		value = mapping
	}

	record := Record{ID: c.newID(), Value: value}
	c.records = append(c.records, record)
	c.Reset()
	if err := c.publish(); err != nil {
		return Record{}, err
	}
	c.observer.RecordAdded(c.unitID, record)
	return record, nil
}

// Remove drops the record with the given id and republishes the sequence.
func (c *Collector) Remove(recordID string) error {
	for i, record := range c.records {
		if record.ID != recordID {
			continue
		}
		c.records = append(c.records[:i:i], c.records[i+1:]...)
		if err := c.publish(); err != nil {
			return err
		}
		c.observer.RecordRemoved(c.unitID, record)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
}

// Reset clears every member control. Records and the document are untouched.
func (c *Collector) Reset() {
	for _, m := range c.members {
		m.control.Clear()
	}
}

// publish always writes a freshly allocated sequence so that holders of the
// previous one never observe the change.
func (c *Collector) publish() error {
	sequence := make(answers.Sequence, 0, len(c.records))
	for _, record := range c.records {
		sequence = append(sequence, record.Value)
	}
	return answers.Set(c.doc, c.path, sequence)
}
