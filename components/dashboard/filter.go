package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ettle/strcase"
)

// All is the wildcard selection; it never restricts a collection.
const All = "All"

var (
	ErrUnknownFilterField = errors.New("dashboard: unknown filter field")
	ErrInvalidFilterValue = errors.New("dashboard: invalid filter value")
)

// Selections maps categorical field names to the selected value.
type Selections map[string]string

// Normalize returns a copy keyed by snake_case field names with blank
// values dropped.
func (s Selections) Normalize() Selections {
	out := make(Selections, len(s))
	for key, value := range s {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out[NormalizeFieldName(key)] = value
	}
	return out
}

// NormalizeFieldName maps targetAudience, TargetAudience and target-audience
// to target_audience.
func NormalizeFieldName(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

// CategoricalField restricts records by exact match on one enum-like value.
type CategoricalField[T any] struct {
	Name    string
	Label   string
	Options []string
	// Derive computes options from the loaded records instead of Options.
	Derive func(records []T) []string
	Value  func(record T) string
}

// SearchField exposes the values a free-text query is matched against.
type SearchField[T any] struct {
	Name   string
	Values func(record T) []string
}

// Schema declares how a collection of T can be filtered.
type Schema[T any] struct {
	Categorical []CategoricalField[T]
	Searchable  []SearchField[T]
}

// FilterField describes one categorical filter for transports.
type FilterField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// Filter derives the visible subset of records. Categorical selections are
// ANDed, All and blank values are wildcards. A non-empty query must appear,
// case-insensitively, in at least one searchable value. The result preserves
// input order and is always a fresh slice.
func Filter[T any](records []T, schema Schema[T], selections Selections, query string) []T {
	active := schema.active(selections)
	needle := strings.ToLower(query)
	out := make([]T, 0, len(records))
	for _, record := range records {
		if !matchesSelections(record, active) {
			continue
		}
		if needle != "" && !schema.matchesQuery(record, needle) {
			continue
		}
		out = append(out, record)
	}
	return out
}

type activeSelection[T any] struct {
	value  string
	accept func(T) string
}

func (s Schema[T]) active(selections Selections) []activeSelection[T] {
	if len(selections) == 0 {
		return nil
	}
	normalized := selections.Normalize()
	var active []activeSelection[T]
	for _, field := range s.Categorical {
		value, ok := normalized[NormalizeFieldName(field.Name)]
		if !ok || value == All || field.Value == nil {
			continue
		}
		active = append(active, activeSelection[T]{value: value, accept: field.Value})
	}
	return active
}

func matchesSelections[T any](record T, active []activeSelection[T]) bool {
	for _, sel := range active {
		if sel.accept(record) != sel.value {
			return false
		}
	}
	return true
}

func (s Schema[T]) matchesQuery(record T, needle string) bool {
	for _, field := range s.Searchable {
		if field.Values == nil {
			continue
		}
		for _, value := range field.Values(record) {
			if value != "" && strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

// Field returns the categorical field with the given (normalized) name.
func (s Schema[T]) Field(name string) (CategoricalField[T], bool) {
	key := NormalizeFieldName(name)
	for _, field := range s.Categorical {
		if NormalizeFieldName(field.Name) == key {
			return field, true
		}
	}
	return CategoricalField[T]{}, false
}

// Options lists the selectable values of field for the given records,
// without the All wildcard.
func (s Schema[T]) Options(field CategoricalField[T], records []T) []string {
	if field.Derive != nil {
		return field.Derive(records)
	}
	return slices.Clone(field.Options)
}

// Fields describes every categorical filter, with All first in each option list.
// Derived fields have no options while records is nil.
func (s Schema[T]) Fields(records []T) []FilterField {
	out := make([]FilterField, 0, len(s.Categorical))
	for _, field := range s.Categorical {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		ff := FilterField{Name: NormalizeFieldName(field.Name), Label: label}
		if field.Derive == nil || records != nil {
			ff.Options = append([]string{All}, s.Options(field, records)...)
		}
		out = append(out, ff)
	}
	return out
}

// Validate rejects selections naming unknown fields or values outside the
// field options. Derived options are not checked while records is nil.
func (s Schema[T]) Validate(records []T, selections Selections) error {
	for key, value := range selections.Normalize() {
		field, ok := s.Field(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFilterField, key)
		}
		if value == All || (field.Derive != nil && records == nil) {
			continue
		}
		if !slices.Contains(s.Options(field, records), value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidFilterValue, key, value)
		}
	}
	return nil
}

// DistinctValues returns the values of records in first-seen order.
func DistinctValues[T any](records []T, value func(T) string) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, record := range records {
		v := value(record)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
