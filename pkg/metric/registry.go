package metric

import (
	"sort"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// ColumnPrefix selects [EdgeColumnSum] in [LookupEdge], e.g. "column:cost".
const ColumnPrefix = "column:"

var nodeMetrics = map[string]NodeFunc{
	"total":      NodeTotal,
	"throughput": NodeThroughput,
	"degree":     NodeDegree,
}

var edgeMetrics = map[string]EdgeFunc{
	"sum":     EdgeSum,
	"count":   EdgeCount,
	"share":   EdgeShare,
	"squared": EdgeSquared,
}

// LookupNode returns the built-in node metric with the given name.
func LookupNode(name string) (NodeFunc, error) {
	if fn, ok := nodeMetrics[name]; ok {
		return fn, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMetric,
		"unknown node metric %q (must be one of: %s)", name, strings.Join(NodeNames(), ", "))
}

// LookupEdge returns the built-in edge metric with the given name.
// A name of the form "column:<name>" sums that column per edge.
func LookupEdge(name string) (EdgeFunc, error) {
	if col, ok := strings.CutPrefix(name, ColumnPrefix); ok {
		if col == "" {
			return nil, errors.New(errors.ErrCodeInvalidMetric, "edge metric %q names no column", name)
		}
		return EdgeColumnSum(col), nil
	}
	if fn, ok := edgeMetrics[name]; ok {
		return fn, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMetric,
		"unknown edge metric %q (must be one of: %s, %s<name>)", name, strings.Join(EdgeNames(), ", "), ColumnPrefix)
}

// NodeNames returns the sorted names of the built-in node metrics.
func NodeNames() []string {
	return sortedKeys(nodeMetrics)
}

// EdgeNames returns the sorted names of the built-in edge metrics.
func EdgeNames() []string {
	return sortedKeys(edgeMetrics)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
