package model

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ValueKind is the shape of a concrete generated value.
type ValueKind int

const (
	// KindPlaceholder is the sentinel used for UNKNOWN parameters.
	KindPlaceholder ValueKind = iota
	// KindNull is the null-equivalent value.
	KindNull
	// KindInt is an arbitrary precision integer.
	KindInt
	// KindFloat is a float64, including NaN and infinities.
	KindFloat
	// KindString is a text value.
	KindString
	// KindBool is a boolean.
	KindBool
	// KindCollection is a sequence or mapping of values.
	KindCollection
	// KindObject is an opaque non-null object.
	KindObject
)

// Value is a single generated argument. Values are immutable once built.
type Value struct {
	Kind  ValueKind
	Int   *big.Int
	Float float64
	Str   string
	Bool  bool
	Shape CollectionShape
	Items []Value
	// Keys holds mapping keys, aligned with Items.
	Keys []Value
}

// Placeholder returns the UNKNOWN sentinel.
func Placeholder() Value { return Value{Kind: KindPlaceholder} }

// Null returns the null-equivalent value.
func Null() Value { return Value{Kind: KindNull} }

// Object returns an opaque non-null value.
func Object() Value { return Value{Kind: KindObject} }

// Int returns an integer value.
func Int(v int64) Value { return Value{Kind: KindInt, Int: big.NewInt(v)} }

// BigInt returns an integer value that may lie outside the int64 range.
func BigInt(v *big.Int) Value { return Value{Kind: KindInt, Int: new(big.Int).Set(v)} }

// Float returns a float value.
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// String returns a text value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Sequence returns a sequence-shaped collection.
func Sequence(items ...Value) Value {
	return Value{Kind: KindCollection, Shape: ShapeSequence, Items: items}
}

// Mapping returns a mapping-shaped collection. keys and items must have equal length.
func Mapping(keys, items []Value) Value {
	return Value{Kind: KindCollection, Shape: ShapeMapping, Keys: keys, Items: items}
}

// Len is the number of items of a collection value.
func (v Value) Len() int {
	return len(v.Items)
}

// Key is a canonical identity used to drop duplicate boundary values.
func (v Value) Key() string {
	switch v.Kind {
	case KindPlaceholder:
		return "placeholder"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindInt:
		return "int:" + v.Int.String()
	case KindFloat:
		if math.IsNaN(v.Float) {
			return "float:nan"
		}

		return "float:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return "str:" + strconv.Quote(v.Str)
	case KindBool:
		return "bool:" + strconv.FormatBool(v.Bool)
	case KindCollection:
		parts := make([]string, 0, len(v.Items))
		for i, item := range v.Items {
			if i < len(v.Keys) {
				parts = append(parts, v.Keys[i].Key()+"="+item.Key())
				continue
			}

			parts = append(parts, item.Key())
		}

		return fmt.Sprintf("coll%d[%s]", v.Shape, strings.Join(parts, ","))
	}

	return "?"
}

// ValueSet is the ordered candidate list for one parameter: deterministic
// boundary values first, then sampled values.
type ValueSet struct {
	Boundary []Value
	Sampled  []Value
}

// Len is the total number of values.
func (s ValueSet) Len() int {
	return len(s.Boundary) + len(s.Sampled)
}

// At returns the i-th value, boundary values first.
func (s ValueSet) At(i int) Value {
	if i < len(s.Boundary) {
		return s.Boundary[i]
	}

	return s.Sampled[i-len(s.Boundary)]
}

// Values returns all values in order.
func (s ValueSet) Values() []Value {
	out := make([]Value, 0, s.Len())
	out = append(out, s.Boundary...)

	return append(out, s.Sampled...)
}
