package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ThemeTag is a session theme field. Upstream rows store either a boolean or
// semicolon/comma-delimited free text; booleans decode to "true" or "".
type ThemeTag string

// falsy tag values that mean "no theme recorded".
var falsyTags = map[string]struct{}{
	"": {}, "false": {}, "no": {}, "0": {}, "null": {}, "none": {}, "n/a": {},
}

// Present reports whether the tag carries any non-empty value.
func (t ThemeTag) Present() bool {
	_, falsy := falsyTags[strings.ToLower(strings.TrimSpace(string(t)))]
	return !falsy
}

// Values splits the tag into sub-themes. Boolean markers yield no sub-themes.
func (t ThemeTag) Values() []string {
	if !t.Present() {
		return nil
	}
	parts := strings.FieldsFunc(string(t), func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch strings.ToLower(p) {
		case "", "true", "yes", "1":
			continue
		}
		out = append(out, p)
	}
	return out
}

func boolTag(b bool) ThemeTag {
	if b {
		return "true"
	}
	return ""
}

// UnmarshalJSON accepts a string, a boolean or null.
func (t *ThemeTag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case bool:
		*t = boolTag(x)
	case string:
		*t = ThemeTag(x)
	default:
		return fmt.Errorf("theme tag: unsupported JSON value %s", string(data))
	}
	return nil
}

// UnmarshalYAML accepts a string, a boolean or null.
func (t *ThemeTag) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!bool" {
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return err
		}
		*t = boolTag(b)
		return nil
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = ThemeTag(node.Value)
	return nil
}

// Scan implements sql.Scanner; hosted stores return booleans for some tag columns.
func (t *ThemeTag) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*t = ""
	case bool:
		*t = boolTag(x)
	case []byte:
		*t = ThemeTag(x)
	case string:
		*t = ThemeTag(x)
	case int64:
		*t = boolTag(x != 0)
	default:
		return fmt.Errorf("theme tag: unsupported column type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t ThemeTag) Value() (driver.Value, error) {
	return string(t), nil
}

// FocusFlags holds boolean focus-area flags keyed by area name.
type FocusFlags map[string]bool

// Selected returns the areas flagged true.
func (f FocusFlags) Selected() []string {
	out := make([]string, 0, len(f))
	for k, v := range f {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Scan implements sql.Scanner; the column holds a JSON object.
func (f *FocusFlags) Scan(src any) error {
	var raw []byte
	switch x := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		raw = x
	case string:
		raw = []byte(x)
	default:
		return fmt.Errorf("focus flags: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*f = nil
		return nil
	}
	m := FocusFlags{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("focus flags: %w", err)
	}
	*f = m
	return nil
}

// Value implements driver.Valuer.
func (f FocusFlags) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]bool(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
