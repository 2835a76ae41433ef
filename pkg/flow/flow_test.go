package flow

import (
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

func sample() Snapshot {
	return Snapshot{
		Nodes: []Node{{ID: "A", Size: 30}, {ID: "C", Size: 10}, {ID: "D", Size: 20}},
		Edges: []Edge{{Source: "A", Target: "C", Value: 10}, {Source: "A", Target: "D", Value: 20}},
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		code   errors.Code
	}{
		{"valid", func(*Snapshot) {}, ""},
		{"empty", func(s *Snapshot) { *s = Snapshot{} }, ""},
		{"duplicate node", func(s *Snapshot) { s.Nodes = append(s.Nodes, Node{ID: "A"}) }, errors.ErrCodeInternal},
		{"dangling source", func(s *Snapshot) { s.Edges[0].Source = "X" }, errors.ErrCodeInternal},
		{"dangling target", func(s *Snapshot) { s.Edges[1].Target = "X" }, errors.ErrCodeInternal},
		{"negative edge", func(s *Snapshot) { s.Edges[0].Value = -1 }, errors.ErrCodeNegativeValue},
		{"negative node", func(s *Snapshot) { s.Nodes[1].Size = -1 }, errors.ErrCodeNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample()
			tt.mutate(&s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := sample()

	if s.TotalFlow() != 30 {
		t.Errorf("TotalFlow() = %v, want 30", s.TotalFlow())
	}
	if n, ok := s.Node("D"); !ok || n.Size != 20 {
		t.Errorf("Node(D) = %v, %v", n, ok)
	}
	if _, ok := s.Node("Z"); ok {
		t.Error("Node(Z) should not be found")
	}
	if e, ok := s.Edge("A", "C"); !ok || e.Value != 10 {
		t.Errorf("Edge(A,C) = %v, %v", e, ok)
	}
	if _, ok := s.Edge("C", "A"); ok {
		t.Error("edges are directed")
	}
	if idx := s.NodeIndex(); idx["C"] != 1 {
		t.Errorf("NodeIndex()[C] = %d, want 1", idx["C"])
	}
	if s.IsEmpty() || !(Snapshot{}).IsEmpty() {
		t.Error("IsEmpty returned wrong result")
	}
}
