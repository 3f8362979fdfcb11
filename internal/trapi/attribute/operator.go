// Package attribute implements the Attribute Engine (constraint operators
// and result filtering) and the Attribute Mapper (attribute_type_id /
// value_type_id resolution), grounded on constraints.py and
// attribute_mapping.py.
package attribute

import (
	"reflect"
	"regexp"
)

// Operator evaluates a single attribute constraint's operator against a
// constraint value and an observed attribute value.
type Operator interface {
	Apply(constraintValue, observedValue any) bool
}

// Operators, by the TRAPI operator strings used in query graph constraints.
const (
	OpEqualTo     = "=="
	OpDeepEqualTo = "==="
	OpGreaterThan = ">"
	OpLessThan    = "<"
	OpMatches     = "matches"
)

var operators = map[string]Operator{
	OpEqualTo:     equalToOperator{},
	OpDeepEqualTo: deepEqualToOperator{},
	OpGreaterThan: greaterThanOperator{},
	OpLessThan:    lessThanOperator{},
	OpMatches:     matchesOperator{},
}

// Lookup returns the Operator for a TRAPI operator string, or nil if unknown.
func Lookup(op string) Operator {
	return operators[op]
}

// sameShape reports whether a and b are comparable in the same sense the
// Python original's is_same_data_type does: identical concrete types, both
// numbers, or both non-string slices.
func sameShape(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		return true
	}
	if isNumber(a) && isNumber(b) {
		return true
	}
	if isSlice(a) && isSlice(b) {
		return true
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func isSlice(v any) bool {
	if _, ok := v.(string); ok {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Slice
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asSlice(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func containsAny(constraintSlice []any, observedSlice []any) bool {
	for _, o := range observedSlice {
		for _, c := range constraintSlice {
			if c == o {
				return true
			}
		}
	}
	return false
}

type equalToOperator struct{}

// Apply: for iterables, true if any observed element exists in the
// constraint set; otherwise plain equality.
func (equalToOperator) Apply(a, b any) bool {
	if !sameShape(a, b) {
		return false
	}
	if isSlice(a) {
		return containsAny(asSlice(a), asSlice(b))
	}
	return a == b
}

type deepEqualToOperator struct{}

// Apply: strict deep equality, order-sensitive for iterables.
func (deepEqualToOperator) Apply(a, b any) bool {
	if !sameShape(a, b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

type matchesOperator struct{}

// Apply: left-anchored regex match for strings (mirroring Python's re.match,
// which only anchors the start, not the end), element-membership for
// iterables, equality otherwise.
func (matchesOperator) Apply(a, b any) bool {
	if !sameShape(a, b) {
		return false
	}
	if s, ok := a.(string); ok {
		observed, _ := b.(string)
		expr, err := regexp.Compile(s)
		if err != nil {
			return false
		}
		loc := expr.FindStringIndex(observed)
		return loc != nil && loc[0] == 0
	}
	if isSlice(a) {
		return containsAny(asSlice(a), asSlice(b))
	}
	return a == b
}

type greaterThanOperator struct{}

func (greaterThanOperator) Apply(a, b any) bool {
	if !sameShape(a, b) {
		return false
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && bf > af
}

type lessThanOperator struct{}

func (lessThanOperator) Apply(a, b any) bool {
	if !sameShape(a, b) {
		return false
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && bf < af
}
