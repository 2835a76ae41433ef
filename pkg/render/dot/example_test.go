package dot_test

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/render/dot"
)

func ExampleToDOT() {
	s := flow.Snapshot{
		Nodes: []flow.Node{
			{ID: "Salary", Size: 100, Color: "rgba(100, 150, 200, 0.8)"},
			{ID: "Rent", Size: 100, Color: "rgba(100, 150, 200, 0.8)"},
		},
		Edges: []flow.Edge{
			{Source: "Salary", Target: "Rent", Value: 100, Color: "rgba(100, 150, 200, 0.4)"},
		},
	}
	fmt.Print(dot.ToDOT(s, dot.Options{}))
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fontsize=14, margin="0.2,0.1", color="#00000033"];
	//   edge [arrowhead=none];
	//   ranksep=1.2;
	//   nodesep=0.3;
	//
	//   "Salary" [label="Salary", fillcolor="#6496c8cc"];
	//   "Rent" [label="Rent", fillcolor="#6496c8cc"];
	//
	//   "Salary" -> "Rent" [penwidth=16.00, color="#6496c866"];
	// }
}

func ExampleColor() {
	fmt.Println(dot.Color("rgba(255, 100, 0, 0.6)"))
	// Output: #ff640099
}
