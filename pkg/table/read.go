package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// ReadCSV decodes a CSV document from r into a Table.
//
// The first record is the header and names the columns. Cell types are
// inferred per column:
//   - number, if every non-empty cell parses as a float
//   - time, if every non-empty cell parses as RFC 3339, 2006-01-02 or 2006-01
//   - string otherwise
//
// Empty cells become null. ReadCSV returns an INVALID_INPUT error for an
// empty document, a duplicate header or a ragged record. ReadCSV does not
// close r.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no header row")
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	body := records[1:]

	rows := make([][]Value, len(body))
	for i := range rows {
		rows[i] = make([]Value, len(header))
	}
	for col := range header {
		cells := make([]string, len(body))
		for i, rec := range body {
			cells[i] = rec[col]
		}
		for i, v := range inferColumn(cells) {
			rows[i][col] = v
		}
	}
	return New(header, rows)
}

// inferColumn converts the raw text of one column into typed values.
func inferColumn(cells []string) []Value {
	out := make([]Value, len(cells))

	numeric, temporal := true, true
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, ok := ParseNumber(c); !ok {
			numeric = false
		}
		if _, ok := ParseTime(c); !ok {
			temporal = false
		}
	}

	for i, c := range cells {
		switch {
		case strings.TrimSpace(c) == "":
			out[i] = Null()
		case numeric:
			f, _ := ParseNumber(c)
			out[i] = Number(f)
		case temporal:
			t, _ := ParseTime(c)
			out[i] = Time(t)
		default:
			out[i] = String(c)
		}
	}
	return out
}

// ReadJSON decodes a JSON array of flat objects from r into a Table.
//
// Columns are ordered by first appearance of each key across the objects.
// A key missing from an object yields a null cell. JSON numbers become
// numbers; string columns whose every value parses as a time become time
// columns. Nested arrays or objects are rejected with INVALID_INPUT.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		columns []string
		index   = make(map[string]int)
		objects []map[string]any
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		obj := make(map[string]any)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
			}
			key, ok := tok.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "expected object key, got %v", tok)
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode value of %q", key)
			}
			val, err := decodeScalar(raw)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "column %q", key)
			}
			if _, seen := index[key]; !seen {
				index[key] = len(columns)
				columns = append(columns, key)
			}
			obj[key] = val
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	rows := make([][]Value, len(objects))
	for i := range rows {
		rows[i] = make([]Value, len(columns))
	}
	for col, name := range columns {
		var texts []string
		allText := true
		for _, obj := range objects {
			switch v := obj[name].(type) {
			case nil:
			case string:
				texts = append(texts, v)
			default:
				allText = false
			}
		}
		temporal := allText && len(texts) > 0
		if temporal {
			for _, s := range texts {
				if _, ok := ParseTime(s); !ok {
					temporal = false
					break
				}
			}
		}
		for i, obj := range objects {
			switch v := obj[name].(type) {
			case nil:
				rows[i][col] = Null()
			case float64:
				rows[i][col] = Number(v)
			case string:
				if temporal {
					t, _ := ParseTime(v)
					rows[i][col] = Time(t)
				} else {
					rows[i][col] = String(v)
				}
			default:
				rows[i][col] = ValueOf(v)
			}
		}
	}
	return New(columns, rows)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.ErrCodeInvalidInput, "expected %q, got %v", want, tok)
	}
	return nil
}

func decodeScalar(raw json.RawMessage) (any, error) {
	var v any
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil, string, bool:
		return x, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("nested values are not supported")
	}
}

// ReadFile reads a table from path, choosing the decoder by extension:
// .json for [ReadJSON], anything else for [ReadCSV].
//
// A missing file yields FILE_NOT_FOUND.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}
