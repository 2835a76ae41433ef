// Package pkg provides the core libraries for sankeyflow.
//
// # Overview
//
// Sankeyflow turns tabular flow records into Sankey diagrams. Each row names
// a source, a target and a value; rows with the same endpoints merge into
// one edge. An optional time column splits the diagram into frames that an
// interactive page plays back as an animation. The pkg directory is
// organized into four areas:
//
//  1. Model: [table] (typed input rows), [flow] (nodes, edges, snapshots)
//  2. Assembly: [filter], [metric], [timeline] and [sankey], which applies
//     them in that order
//  3. Output: [graph] (JSON document) and the [render] sinks (HTML, DOT,
//     SVG, PNG, PDF)
//  4. Orchestration: [pipeline] with [cache], [config] and [observability]
//
// # Architecture
//
// The data flow through sankeyflow:
//
//	CSV / JSON file
//	       ↓
//	  [table] package (typed columns)
//	       ↓
//	  [filter] chain → [metric] functions → [timeline] periods
//	       ↓
//	  [sankey] package (one snapshot per frame plus the static view)
//	       ↓
//	  [graph] document → HTML / JSON / DOT / SVG / PNG / PDF
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sankeyflow/pkg/filter"
//	    "github.com/matzehuels/sankeyflow/pkg/sankey"
//	    "github.com/matzehuels/sankeyflow/pkg/table"
//	)
//
//	data, _ := table.ReadFile("flows.csv")
//	d := sankey.New(data, sankey.WithTimeColumn("year"))
//	d.AddFilter("big", filter.Compare("value", filter.OpGreater, table.Number(15)))
//	res, _ := d.Render("source", "target", "value", sankey.DefaultRenderOptions())
//
// The CLI and the HTTP server use [pipeline.Runner], which adds caching of
// assembled documents and rendered artifacts.
package pkg
