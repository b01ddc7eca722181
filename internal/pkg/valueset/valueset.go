// Package valueset resolves the option reference of a choice question against a
// catalog of expanded value sets.
package valueset

import (
	"fhirstarter-service/internal/pkg/questionnaire"
	"strings"
)

const ResourceType = "ValueSet"

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type Expansion struct {
	Identifier string   `json:"identifier,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Contains   []Coding `json:"contains,omitempty"`
}

type ValueSet struct {
	ResourceType string     `json:"resourceType,omitempty"`
	ID           string     `json:"id"`
	URL          string     `json:"url,omitempty"`
	Name         string     `json:"name,omitempty"`
	Expansion    *Expansion `json:"expansion,omitempty"`
}

// Codings returns the expansion entries, or nil when the set is not expanded.
func (vs *ValueSet) Codings() []Coding {
	if vs.Expansion == nil {
		return nil
	}
	return vs.Expansion.Contains
}

// Catalog is an ordered list of value sets supplied before the first render.
type Catalog []ValueSet

// ReferenceID strips the leading fragment marker of a local reference.
func ReferenceID(reference string) string {
	return strings.TrimPrefix(reference, "#")
}

// Resolve looks the reference up by exact id. The first match wins. The
// boolean is false when nothing matches, which callers treat as free text.
func Resolve(reference string, catalog Catalog) ([]Coding, bool) {
	id := ReferenceID(reference)
	if id == "" {
		return nil, false
	}
	for i := range catalog {
		if catalog[i].ID != id {
			continue
		}
		codings := catalog[i].Codings()
		options := make([]Coding, len(codings))
		copy(options, codings)
		return options, true
	}
	return nil, false
}

// References collects the distinct value set ids referenced by choice questions
// in a questionnaire tree, in first-seen order.
func References(root *questionnaire.Group) []string {
	var ids []string
	seen := make(map[string]bool)
	visited := make(map[*questionnaire.Group]bool)

	var walk func(g *questionnaire.Group)
	walk = func(g *questionnaire.Group) {
		if g == nil || visited[g] {
			return
		}
		visited[g] = true
		for _, child := range g.Group {
			walk(child)
		}
		for _, q := range g.Question {
			id := ReferenceID(q.ReferenceValue())
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	walk(root)
	return ids
}
