package formrender

import (
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/questionnaire"
)

// renderGroup returns nil when the group itself cannot be rendered.
func (s *renderSession) renderGroup(g *questionnaire.Group, layout Layout) *Node {
	if s.visited[g] {
		s.reject(&questionnaire.DefinitionError{LinkID: g.LinkID, Reason: questionnaire.ReasonCycle, Severity: questionnaire.SeverityError})
		return nil
	}
	s.visited[g] = true
	defer delete(s.visited, g)

	for _, err := range questionnaire.CheckGroup(g) {
		s.reject(err)
		if err.Fatal() {
			return nil
		}
	}

	nodeLayout := layout
	node := &Node{
		Kind:      NodeGroup,
		ID:        g.LinkID,
		Label:     questionnaire.Label(g.LinkID),
		Help:      g.HelpText(),
		Layout:    &nodeLayout,
		TypeClass: g.TypeClass(),
		Reference: g.Reference(),
		Repeats:   g.Repeats,
		Required:  g.Required,
	}

	if g.HasChildGroups() {
		nested := layout.Nested()
		for _, child := range g.Group {
			if child == nil {
				continue
			}
			if childNode := s.renderGroup(child, nested); childNode != nil {
				node.Children = append(node.Children, childNode)
			}
		}
		return node
	}

	var collector *Collector
	var groupPath answers.Path
	if g.Repeats {
		_, pathString := questionnaire.NormalizeLinkID(g.LinkID)
		path, err := answers.ParsePath(pathString)
		if err != nil {
			s.reject(&questionnaire.DefinitionError{LinkID: g.LinkID, Reason: questionnaire.ReasonInvalidLinkID, Severity: questionnaire.SeverityError})
			return nil
		}
		collector = s.newUnit(g.LinkID, path)
		if collector == nil {
			return nil
		}
		groupPath = path
	}

	standalone := len(g.Question) == 1
	for _, q := range g.Question {
		if q == nil {
			continue
		}
		questionNode := s.renderQuestion(q, g.Repeats, standalone)
		if questionNode == nil {
			continue
		}
		node.Children = append(node.Children, questionNode)
		if collector != nil {
			collector.addMember(questionNode.Control, groupPath)
		}
	}

	if collector != nil {
		node.UnitID = collector.unitID
		node.Children = append(node.Children, repeatNodes(collector.unitID, node.Label)...)
	}
	return node
}

func (s *renderSession) newUnit(unitID string, path answers.Path) *Collector {
	if _, exists := s.form.units[unitID]; exists {
		s.reject(&questionnaire.DefinitionError{LinkID: unitID, Reason: questionnaire.ReasonDuplicateLinkID, Severity: questionnaire.SeverityError})
		return nil
	}
	collector, err := newCollector(unitID, path, s.form.doc, s.form.observer, s.renderer.NewID)
	if err != nil {
		s.reject(&questionnaire.DefinitionError{LinkID: unitID, Reason: err.Error(), Severity: questionnaire.SeverityError})
		return nil
	}
	s.form.units[unitID] = collector
	s.form.unitOrder = append(s.form.unitOrder, unitID)
	return collector
}
