package engine

import (
	"encoding/json"
	"slices"
	"strings"
)

// Filter restricts the points a request operates on.
//
// A point matches when every Must condition holds, at least one Should
// condition holds (if any are given) and no MustNot condition holds.
type Filter struct {
	Must    []Condition `json:"must,omitempty"`
	Should  []Condition `json:"should,omitempty"`
	MustNot []Condition `json:"must_not,omitempty"`
}

// Condition is one filter clause. Exactly one field is set.
type Condition struct {
	Field   *FieldCondition `json:"field,omitempty"`
	HasID   []PointID       `json:"has_id,omitempty"`
	IsEmpty string          `json:"is_empty,omitempty"`
	IsNull  string          `json:"is_null,omitempty"`
	Filter  *Filter         `json:"filter,omitempty"`
}

// FieldCondition tests a payload value addressed by a dotted key.
type FieldCondition struct {
	Key   string `json:"key"`
	Match *Match `json:"match,omitempty"`
	Range *Range `json:"range,omitempty"`
}

// Match compares a payload value. Exactly one field is set.
type Match struct {
	Value  any    `json:"value,omitempty"`
	Any    []any  `json:"any,omitempty"`
	Except []any  `json:"except,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Range bounds a numeric payload value. Nil bounds are open.
type Range struct {
	GT  *float64 `json:"gt,omitempty"`
	GTE *float64 `json:"gte,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// MatchValue matches points whose key equals v.
func MatchValue(key string, v any) Condition {
	return Condition{Field: &FieldCondition{Key: key, Match: &Match{Value: v}}}
}

// MatchAny matches points whose key equals any of vs.
func MatchAny(key string, vs ...any) Condition {
	return Condition{Field: &FieldCondition{Key: key, Match: &Match{Any: vs}}}
}

// MatchExcept matches points whose key equals none of vs.
func MatchExcept(key string, vs ...any) Condition {
	return Condition{Field: &FieldCondition{Key: key, Match: &Match{Except: vs}}}
}

// MatchText matches points whose string value at key contains text.
func MatchText(key, text string) Condition {
	return Condition{Field: &FieldCondition{Key: key, Match: &Match{Text: text}}}
}

// InRange matches points whose numeric value at key lies in r.
func InRange(key string, r Range) Condition {
	return Condition{Field: &FieldCondition{Key: key, Range: &r}}
}

// HasID matches points with one of the given ids.
func HasID(ids ...PointID) Condition {
	return Condition{HasID: ids}
}

// IsEmpty matches points where key is missing, null or an empty array.
func IsEmpty(key string) Condition {
	return Condition{IsEmpty: key}
}

// IsNull matches points where key is explicitly null.
func IsNull(key string) Condition {
	return Condition{IsNull: key}
}

// Nested wraps a filter as a condition.
func Nested(f *Filter) Condition {
	return Condition{Filter: f}
}

// Matches reports whether a point with id and payload passes the filter.
// A nil filter matches everything.
func (f *Filter) Matches(id PointID, payload Payload) bool {
	if f == nil {
		return true
	}
	for _, c := range f.Must {
		if !c.matches(id, payload) {
			return false
		}
	}
	if len(f.Should) > 0 && !slices.ContainsFunc(f.Should, func(c Condition) bool { return c.matches(id, payload) }) {
		return false
	}
	for _, c := range f.MustNot {
		if c.matches(id, payload) {
			return false
		}
	}
	return true
}

func (c Condition) matches(id PointID, payload Payload) bool {
	switch {
	case c.Field != nil:
		return c.Field.matches(payload)
	case c.HasID != nil:
		return slices.Contains(c.HasID, id)
	case c.IsEmpty != "":
		vals, _ := lookup(payload, c.IsEmpty)
		return !slices.ContainsFunc(vals, func(v any) bool { return v != nil })
	case c.IsNull != "":
		vals, present := lookup(payload, c.IsNull)
		return present && slices.Contains(vals, nil)
	case c.Filter != nil:
		return c.Filter.Matches(id, payload)
	default:
		return true
	}
}

func (fc *FieldCondition) matches(payload Payload) bool {
	vals, _ := lookup(payload, fc.Key)

	if m := fc.Match; m != nil {
		switch {
		case m.Except != nil:
			return !slices.ContainsFunc(vals, func(v any) bool { return containsValue(m.Except, v) })
		case m.Any != nil:
			return slices.ContainsFunc(vals, func(v any) bool { return containsValue(m.Any, v) })
		case m.Text != "":
			return slices.ContainsFunc(vals, func(v any) bool {
				s, ok := v.(string)
				return ok && strings.Contains(s, m.Text)
			})
		default:
			return slices.ContainsFunc(vals, func(v any) bool { return compareEqual(v, m.Value) })
		}
	}

	if r := fc.Range; r != nil {
		return slices.ContainsFunc(vals, func(v any) bool {
			f, ok := asFloat64(v)
			return ok && r.contains(f)
		})
	}

	return false
}

func (r *Range) contains(f float64) bool {
	if r.GT != nil && !(f > *r.GT) {
		return false
	}
	if r.GTE != nil && !(f >= *r.GTE) {
		return false
	}
	if r.LT != nil && !(f < *r.LT) {
		return false
	}
	if r.LTE != nil && !(f <= *r.LTE) {
		return false
	}
	return true
}

// lookup resolves a dotted key. Arrays along the path fan out, and a terminal
// array contributes its elements. present reports whether the path exists.
func lookup(payload Payload, key string) (vals []any, present bool) {
	if payload == nil || key == "" {
		return nil, false
	}

	cur := []any{map[string]any(payload)}
	for _, part := range strings.Split(key, ".") {
		var next []any
		for _, node := range cur {
			for _, n := range flatten(node) {
				m, ok := asMap(n)
				if !ok {
					continue
				}
				if v, ok := m[part]; ok {
					next = append(next, v)
				}
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		cur = next
	}

	for _, v := range cur {
		vals = append(vals, flatten(v)...)
	}
	return vals, true
}

func flatten(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	default:
		return nil, false
	}
}

func containsValue(list []any, v any) bool {
	return slices.ContainsFunc(list, func(x any) bool { return compareEqual(v, x) })
}

func compareEqual(a, b any) bool {
	if fa, ok := asFloat64(a); ok {
		fb, ok := asFloat64(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
