package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

func ExampleWriteDocument() {
	data := table.MustFromRecords(
		[]string{"source", "target", "value"},
		[][]any{{"A", "B", 5}},
	)
	res, err := sankey.New(data, sankey.WithID("example")).
		Render("source", "target", "value", sankey.DefaultRenderOptions())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	var buf bytes.Buffer
	if err := graph.WriteDocument(res, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "version": 1,
	//   "id": "example",
	//   "title": "Interactive Sankey Diagram",
	//   "columns": {
	//     "source": "source",
	//     "target": "target",
	//     "value": "value"
	//   },
	//   "static": {
	//     "nodes": [
	//       {
	//         "id": "A",
	//         "size": 5,
	//         "color": "rgba(100, 150, 200, 0.8)"
	//       },
	//       {
	//         "id": "B",
	//         "size": 5,
	//         "color": "rgba(100, 150, 200, 0.8)"
	//       }
	//     ],
	//     "edges": [
	//       {
	//         "source": "A",
	//         "target": "B",
	//         "value": 5,
	//         "color": "rgba(100, 150, 200, 0.4)"
	//       }
	//     ]
	//   },
	//   "stats": {
	//     "nodes": 2,
	//     "edges": 1,
	//     "total_flow": 5,
	//     "frames": 0
	//   }
	// }
}
