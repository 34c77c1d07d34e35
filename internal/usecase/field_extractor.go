package usecase

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// FieldListKey is where lead-ad senders put their {name, values} entries.
const FieldListKey = "field_data"

var (
	machineKeyPattern = regexp.MustCompile(`^[a-z]+$`)
	digitRunPattern   = regexp.MustCompile(`\d+`)
)

// FieldSource looks up the first value matching a candidate name.
// Candidates are tried in the order given, regardless of payload order.
type FieldSource interface {
	Lookup(candidates []string) (string, bool)
}

type fieldEntry struct {
	Name   string
	Values []any
}

// fieldListSource serves payloads shaped as field_data: [{name, values}].
type fieldListSource struct {
	entries []fieldEntry
}

func (s fieldListSource) Lookup(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for _, e := range s.entries {
			if e.Name != candidate || len(e.Values) == 0 {
				continue
			}
			return stringify(e.Values[0]), true
		}
	}
	return "", false
}

// flatSource serves plain JSON objects.
type flatSource map[string]any

func (s flatSource) Lookup(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		v, ok := s[candidate]
		if !ok || v == nil {
			continue
		}
		return stringify(v), true
	}
	return "", false
}

// NewFieldSource picks the extraction strategy for an inbound payload.
func NewFieldSource(payload map[string]any) FieldSource {
	if entries, ok := fieldList(payload); ok {
		return fieldListSource{entries: entries}
	}
	return flatSource(payload)
}

func fieldList(payload map[string]any) ([]fieldEntry, bool) {
	raw, ok := payload[FieldListKey].([]any)
	if !ok {
		return nil, false
	}
	entries := make([]fieldEntry, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		values, _ := obj["values"].([]any)
		entries = append(entries, fieldEntry{Name: name, Values: values})
	}
	return entries, true
}

// Extract returns the first candidate value found in the payload. When
// nothing matches and the last candidate is not a machine key, that
// candidate is returned as a literal fallback.
func Extract(src FieldSource, candidates ...string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if v, ok := src.Lookup(candidates); ok {
		return v, true
	}
	last := candidates[len(candidates)-1]
	if isMachineKey(last) {
		return "", false
	}
	return last, true
}

func isMachineKey(s string) bool {
	return strings.Contains(s, "_") || machineKeyPattern.MatchString(s)
}

// ParsePaxCount never fails: anything unusable becomes the default of 1.
// Values must fit the 32 bit pax_count column; larger ones are unusable.
func ParsePaxCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return positiveOrDefault(n)
	}
	if run := digitRunPattern.FindString(raw); run != "" {
		if n, err := strconv.ParseInt(run, 10, 32); err == nil {
			return positiveOrDefault(n)
		}
	}
	return entity.DefaultPaxCount
}

func positiveOrDefault(n int64) int {
	if n < 1 {
		return entity.DefaultPaxCount
	}
	return int(n)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
