// Package anchor decides whether on-disk content still matches what a stored
// config item expects. An anchor is the guard that keeps sync from pulling in
// a file that meanwhile belongs to a different account.
package anchor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ruminaider/pswitch/internal/profile"
)

// Check reports whether content satisfies the anchor. It never errors:
// unparseable JSON, out-of-range lines and missing variables all read as
// no-match. Callers that need to distinguish a parse failure use
// LookupJSONPath directly.
func Check(a *profile.Anchor, content string) bool {
	if a == nil {
		return false
	}
	switch a.Type {
	case profile.AnchorJSONPath:
		v, ok, err := LookupJSONPath(content, a.Path)
		return err == nil && ok && v == a.Value
	case profile.AnchorLineContent:
		line, ok := LineAt(content, a.Line)
		return ok && line == a.Value
	case profile.AnchorEnvValue:
		v, ok := ExtractEnvValue(content, a.Name)
		return ok && v == a.Value
	default:
		return false
	}
}

// LookupJSONPath walks a dot-notation key path through nested JSON objects
// and returns the stringified value at the end of it. Arrays are not
// traversed; hitting one mid-path resolves to not-found. err is non-nil only
// when content is not valid JSON.
func LookupJSONPath(content, path string) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", false, fmt.Errorf("parsing JSON: %w", err)
	}

	current := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return "", false, nil
		}
		current, ok = obj[key]
		if !ok {
			return "", false, nil
		}
	}

	return stringify(current), true, nil
}

// stringify renders a resolved JSON value the way it compares against a
// stored anchor value: strings verbatim, everything else via its JSON text.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// LineAt returns the 1-based line of content, false when out of range.
func LineAt(content string, line int) (string, bool) {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// ExtractEnvValue finds the first uncommented, line-anchored
// `export NAME=...` in shell file content and returns its right-hand side
// with wrapping quotes stripped.
func ExtractEnvValue(content, name string) (string, bool) {
	re, err := regexp.Compile(`(?m)^export ` + regexp.QuoteMeta(name) + `=(.*)$`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return stripQuotes(m[1]), true
}

// stripQuotes removes a single pair of matching quotes that wrap the whole
// value. Interior quotes are left alone.
func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
