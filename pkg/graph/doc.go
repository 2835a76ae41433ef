// Package graph provides the serialization format for rendered Sankey
// diagrams.
//
// This package defines the canonical wire format for sankeyflow's diagram
// data, used for JSON files, HTTP responses, the artifact cache and the
// data embedded in the interactive HTML page.
//
// # Architecture
//
// The package sits at the serialization boundary between the assembler and
// every renderer:
//
//   - [Document]: serialization type (this package)
//   - sankey.Result: in-memory render output
//
// Use [FromResult] to convert a render result. Renderers consume a
// Document, so a saved JSON file can be re-rendered without the source
// table.
//
// # Document Serialization
//
//	{
//	  "version": 1,
//	  "id": "4b1f...",
//	  "title": "Energy flows",
//	  "columns": {"source": "from", "target": "to", "value": "twh", "time": "year"},
//	  "playback": {"interval_ms": 800, "easing": "cubic-in-out"},
//	  "static": {"nodes": [...], "edges": [...]},
//	  "frames": [{"index": 0, "label": "2023", "key": "2023", "snapshot": {...}}],
//	  "stats": {"nodes": 4, "edges": 3, "total_flow": 45, "frames": 1}
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalDocument(res)        // Result → []byte
//	graph.WriteDocumentFile(res, "flows.json")   // Result → File
//	doc, _ := graph.ReadDocumentFile("flows.json") // File → Document
//	doc, _ := graph.UnmarshalDocument(data)      // []byte → Document
package graph
