package filter

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Spec is a declarative comparison filter, as read from a config file or a
// command-line flag.
type Spec struct {
	Name   string `json:"name" toml:"name"`
	Column string `json:"column" toml:"column"`
	Op     string `json:"op" toml:"op"`
	Value  string `json:"value" toml:"value"`
}

// ParseSpec parses a filter expression of the form
//
//	[name:]column<op>value
//
// where op is one of == != > >= < <=. A single "=" is accepted as "==".
// Without a name prefix the expression itself is used as the name.
// Surrounding quotes on the value force a string comparison.
func ParseSpec(expr string) (Spec, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Spec{}, errors.New(errors.ErrCodeInvalidFilter, "empty filter expression")
	}

	name, body := expr, expr
	if i := strings.IndexByte(expr, ':'); i >= 0 && !strings.ContainsAny(expr[:i], "=!<>") {
		name, body = strings.TrimSpace(expr[:i]), expr[i+1:]
	}

	pos := strings.IndexAny(body, "=!<>")
	if pos <= 0 {
		return Spec{}, errors.New(errors.ErrCodeInvalidFilter,
			"filter %q: expected column<op>value", expr)
	}
	rest := body[pos:]
	opText := rest[:1]
	if len(rest) > 1 && rest[1] == '=' {
		opText = rest[:2]
	}
	if opText == "=" {
		opText = string(OpEqual)
	}
	if _, err := ParseOp(opText); err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidFilter, err, "filter %q", expr)
	}

	skip := len(opText)
	if opText == string(OpEqual) && !strings.HasPrefix(rest, "==") {
		skip = 1
	}
	value := strings.TrimSpace(rest[skip:])
	if strings.ContainsAny(value[:min(1, len(value))], "=!<>") {
		return Spec{}, errors.New(errors.ErrCodeInvalidFilter, "filter %q: malformed operator", expr)
	}
	s := Spec{
		Name:   name,
		Column: strings.TrimSpace(body[:pos]),
		Op:     opText,
		Value:  value,
	}
	return s, s.Validate()
}

// Validate checks that the spec names a column, a known operator and a
// value.
func (s Spec) Validate() error {
	if err := errors.ValidateFilterName(s.Name); err != nil {
		return err
	}
	if strings.TrimSpace(s.Column) == "" {
		return errors.New(errors.ErrCodeInvalidFilter, "filter %q: column is required", s.Name)
	}
	if _, err := ParseOp(s.Op); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFilter, err, "filter %q", s.Name)
	}
	if s.Value == "" {
		return errors.New(errors.ErrCodeInvalidFilter, "filter %q: value is required", s.Name)
	}
	return nil
}

// Func builds the filter function described by the spec.
func (s Spec) Func() (Func, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	op, _ := ParseOp(s.Op)
	return Compare(s.Column, op, ParseLiteral(s.Value)), nil
}

// String renders the spec in the form accepted by ParseSpec.
func (s Spec) String() string {
	return fmt.Sprintf("%s:%s%s%s", s.Name, s.Column, s.Op, s.Value)
}

// ParseLiteral converts a filter value to a typed Value: quoted text is a
// string, then numbers, then times, else the raw text.
func ParseLiteral(s string) table.Value {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return table.String(s[1 : len(s)-1])
		}
	}
	if f, ok := table.ParseNumber(s); ok {
		return table.Number(f)
	}
	if t, ok := table.ParseTime(s); ok {
		return table.Time(t)
	}
	return table.String(s)
}
