package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/graph"
)

const flowsCSV = `source,target,value,year
A,C,10,2022
A,D,20,2021
B,D,15,2022
`

// captureStdout redirects user-facing output for the duration of a test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv(envRedisURL, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"html, json ,dot", []string{"html", "json", "dot"}},
		{"svg,,png", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFormats(tt.input), "parseFormats(%q)", tt.input)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/flows.csv", "data/flows"},
		{"out/diagram.svg", "flows.csv", "out/diagram"},
		{"out/diagram", "flows.csv", "out/diagram"},
		{"report.v2", "flows.csv", "report.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	artifacts := map[string][]byte{"html": []byte("<html>"), "json": []byte("{}")}

	// A single format with an explicit file name is written verbatim.
	single := filepath.Join(dir, "nested", "page.htm")
	require.NoError(t, writeArtifacts(artifactWriteParams{
		artifacts: artifacts, formats: []string{"html"}, input: "flows.csv", output: single,
	}))
	assert.FileExists(t, single)

	// Several formats share a base path.
	require.NoError(t, writeArtifacts(artifactWriteParams{
		artifacts: artifacts, formats: []string{"html", "json"}, input: "flows.csv", output: filepath.Join(dir, "diagram.html"),
	}))
	assert.FileExists(t, filepath.Join(dir, "diagram.html"))
	assert.FileExists(t, filepath.Join(dir, "diagram.json"))
}

func TestRenderCommand(t *testing.T) {
	out := captureStdout(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "flows.csv", flowsCSV)
	base := filepath.Join(dir, "out", "diagram")

	err := execute(t, "render", input,
		"--time", "year",
		"--filter", "big:value>15",
		"--title", "Flows",
		"--id", "flows",
		"-f", "json,dot",
		"--frame", "1",
		"-o", base,
	)
	require.NoError(t, err)

	doc, err := graph.ReadDocumentFile(base + ".json")
	require.NoError(t, err)
	assert.Equal(t, "flows", doc.ID)
	assert.Equal(t, "Flows", doc.Title)
	require.Len(t, doc.Frames, 2)
	require.Len(t, doc.Static.Edges, 1)

	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), "Flows (2021)")

	assert.Contains(t, out.String(), "Flows")
	assert.Contains(t, out.String(), "2 frames")
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, t.TempDir(), "budget.csv", "source,target,value\nSalary,Rent,1200\n")

	require.NoError(t, execute(t, "render", input, "--no-cache"))
	page, err := os.ReadFile(strings.TrimSuffix(input, ".csv") + ".html")
	require.NoError(t, err)
	assert.Contains(t, string(page), `"source":"Salary"`)
}

func TestRenderCommandConfig(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	writeFile(t, dir, "budget.csv", "from,to,amount\nSalary,Rent,1200\nSalary,Food,400\n")
	cfg := writeFile(t, dir, "sankeyflow.toml", `
input = "budget.csv"

[columns]
source = "from"
target = "to"
value  = "amount"

[diagram]
title   = "Budget"
filters = ["amount>500"]

[output]
formats = ["json"]

[cache]
backend = "none"
`)

	// --title overrides the file, the filter comes from the file.
	require.NoError(t, execute(t, "render", "--config", cfg, "--title", "Overridden"))
	doc, err := graph.ReadDocumentFile(filepath.Join(dir, "budget.json"))
	require.NoError(t, err)
	assert.Equal(t, "Overridden", doc.Title)
	require.Len(t, doc.Static.Edges, 1)
	assert.Equal(t, "Rent", doc.Static.Edges[0].Target)
}

func TestRenderCommandErrors(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "flows.csv", flowsCSV)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", input, "-f", "gif"}, errors.ErrCodeInvalidConfig},
		{"bad filter", []string{"render", input, "--filter", "value"}, errors.ErrCodeInvalidFilter},
		{"missing column", []string{"render", input, "--value", "amount", "--no-cache"}, errors.ErrCodeMissingColumn},
		{"unknown metric", []string{"render", input, "--edge-metric", "median", "--no-cache"}, errors.ErrCodeInvalidMetric},
		{"missing config", []string{"render", input, "--config", filepath.Join(dir, "nope.toml")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			assert.True(t, errors.Is(err, tt.code), "error = %v, want %s", err, tt.code)
		})
	}

	assert.Error(t, execute(t, "render"), "render without input or config")
}

func TestVisualizeCommand(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "flows.csv", flowsCSV)
	require.NoError(t, execute(t, "render", input, "--time", "year", "-f", "json", "--no-cache"))

	docPath := filepath.Join(dir, "flows.json")
	out := filepath.Join(dir, "frame2.dot")
	require.NoError(t, execute(t, "visualize", docPath, "-f", "dot", "--frame", "2", "-o", out, "--no-cache"))

	dot, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "(2022)")
	assert.Contains(t, string(dot), `"B" -> "D"`)
}

func TestRenderExample(t *testing.T) {
	captureStdout(t)
	out := filepath.Join(t.TempDir(), "budget")
	cfg := filepath.Join("..", "..", "examples", "budget", "sankeyflow.toml")

	require.NoError(t, execute(t, "render", "--config", cfg, "-f", "json", "-o", out, "--no-cache"))
	doc, err := graph.ReadDocumentFile(out + ".json")
	require.NoError(t, err)

	assert.Equal(t, "Household budget", doc.Title)
	require.Len(t, doc.Frames, 3)
	assert.Equal(t, "2024-01-01", doc.Frames[0].Label)
	assert.True(t, doc.Histogram)
	_, hasSavings := doc.Static.Node("Savings")
	assert.False(t, hasSavings, "no-savings filter")
	_, hasGifts := doc.Static.Node("Gifts")
	assert.False(t, hasGifts, "small filter")
}
