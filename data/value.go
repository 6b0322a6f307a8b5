// Package data builds and addresses instance trees: cooked, schema-bound
// values constructed from raw nested data. Cooked collections are
// immutable persistent structures; edits produce structurally shared
// copies and never disturb the original.
package data

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"jsouthworth.net/go/immutable/hashmap"
	"jsouthworth.net/go/immutable/vector"
)

type emptyLeaf struct{}

// Value is one cooked value: nil, string, bool, float64, the empty-leaf
// marker, an *Object or an *Array. Values are immutable.
type Value struct {
	data interface{}
}

// ValueNew cooks a native scalar or collection into a Value. It panics on
// types outside the closed cooked set; cooking raw input goes through
// FromRaw, which validates first.
func ValueNew(data interface{}) *Value {
	switch d := data.(type) {
	case nil:
		return &Value{}
	case *Value:
		return d
	case *Object, *Array, string, bool, float64, emptyLeaf:
		return &Value{data: data}
	case int:
		return &Value{data: float64(d)}
	case int64:
		return &Value{data: float64(d)}
	case uint64:
		return &Value{data: float64(d)}
	default:
		panic(errors.New("cannot create value, invalid type"))
	}
}

// EmptyLeaf is the cooked form of a YANG empty leaf, encoded as [null]
// in raw data.
func EmptyLeaf() *Value { return &Value{data: emptyLeaf{}} }

// IsEmptyLeaf reports whether the value is the empty-leaf marker.
func (v *Value) IsEmptyLeaf() bool {
	_, ok := v.data.(emptyLeaf)
	return ok
}

// AsObject returns the value as an *Object, or nil.
func (v *Value) AsObject() *Object {
	obj, _ := v.data.(*Object)
	return obj
}

// AsArray returns the value as an *Array, or nil.
func (v *Value) AsArray() *Array {
	arr, _ := v.data.(*Array)
	return arr
}

// AsString returns the string form of a scalar value.
func (v *Value) AsString() string {
	switch d := v.data.(type) {
	case string:
		return d
	case bool:
		return strconv.FormatBool(d)
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	case emptyLeaf:
		return ""
	}
	return ""
}

// Equal reports deep equality of cooked values.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	switch d := v.data.(type) {
	case *Object:
		return d.Equal(other.AsObject())
	case *Array:
		return d.Equal(other.AsArray())
	default:
		return v.data == other.data
	}
}

// ToNative converts the cooked value back to native Go structures.
func (v *Value) ToNative() interface{} {
	switch d := v.data.(type) {
	case *Object:
		return d.toNative()
	case *Array:
		return d.toNative()
	case emptyLeaf:
		return []interface{}{nil}
	default:
		return v.data
	}
}

// String renders the value for diagnostics.
func (v *Value) String() string {
	switch d := v.data.(type) {
	case *Object:
		return d.String()
	case *Array:
		return d.String()
	case string:
		return strconv.Quote(d)
	case emptyLeaf:
		return "[null]"
	case nil:
		return "null"
	default:
		return v.AsString()
	}
}

// Object is an immutable mapping from qualified member names
// ("module:local") to values. Mutation methods return structurally
// shared copies.
type Object struct {
	store *hashmap.Map
}

// ObjectNew creates an empty object.
func ObjectNew() *Object {
	return &Object{store: hashmap.Empty()}
}

// At returns the member value, or nil when absent.
func (obj *Object) At(key string) *Value {
	v, ok := obj.Find(key)
	if !ok {
		return nil
	}
	return v
}

// Find returns the member value and whether the member exists.
func (obj *Object) Find(key string) (*Value, bool) {
	out, ok := obj.store.Find(key)
	if !ok {
		return nil, false
	}
	return out.(*Value), true
}

// Contains reports whether the member exists.
func (obj *Object) Contains(key string) bool {
	return obj.store.Contains(key)
}

// Assoc associates a member with a value, returning a shared copy.
func (obj *Object) Assoc(key string, value interface{}) *Object {
	next := obj.store.Assoc(key, ValueNew(value))
	if next == obj.store {
		return obj
	}
	return &Object{store: next}
}

// Delete removes a member, returning a shared copy.
func (obj *Object) Delete(key string) *Object {
	next := obj.store.Delete(key)
	if next == obj.store {
		return obj
	}
	return &Object{store: next}
}

// Length returns the number of members.
func (obj *Object) Length() int { return obj.store.Length() }

// Range calls fn for every member until it returns false. Iteration
// order is unspecified.
func (obj *Object) Range(fn func(key string, value *Value) bool) {
	obj.store.Range(func(e hashmap.Entry) bool {
		return fn(e.Key().(string), e.Value().(*Value))
	})
}

// Keys returns the member names, sorted for determinism.
func (obj *Object) Keys() []string {
	out := make([]string, 0, obj.Length())
	obj.Range(func(key string, _ *Value) bool {
		out = append(out, key)
		return true
	})
	sort.Strings(out)
	return out
}

// Equal reports deep equality of objects.
func (obj *Object) Equal(other *Object) bool {
	if other == nil || obj.Length() != other.Length() {
		return false
	}
	equal := true
	obj.Range(func(key string, value *Value) bool {
		ov, ok := other.Find(key)
		if !ok || !value.Equal(ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func (obj *Object) toNative() interface{} {
	out := make(map[string]interface{}, obj.Length())
	obj.Range(func(key string, value *Value) bool {
		out[key] = value.ToNative()
		return true
	})
	return out
}

// String renders the object with sorted members for determinism.
func (obj *Object) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range obj.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(key))
		b.WriteByte(':')
		b.WriteString(obj.At(key).String())
	}
	b.WriteByte('}')
	return b.String()
}

// Array is an immutable ordered sequence of values.
type Array struct {
	store *vector.Vector
}

// ArrayFrom builds an array from cooked values.
func ArrayFrom(vals []*Value) *Array {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		raw[i] = v
	}
	return &Array{store: vector.From(raw)}
}

// At returns the element at index, or nil when out of range.
func (arr *Array) At(index int) *Value {
	if index < 0 || index >= arr.store.Length() {
		return nil
	}
	return arr.store.At(index).(*Value)
}

// Length returns the number of elements.
func (arr *Array) Length() int { return arr.store.Length() }

// Assoc replaces the element at index, returning a shared copy.
func (arr *Array) Assoc(index int, value interface{}) *Array {
	return &Array{store: arr.store.Assoc(index, ValueNew(value))}
}

// Range calls fn for every element in order until it returns false.
func (arr *Array) Range(fn func(index int, value *Value) bool) {
	arr.store.Range(func(i int, v *Value) bool {
		return fn(i, v)
	})
}

// Equal reports deep equality of arrays.
func (arr *Array) Equal(other *Array) bool {
	if other == nil || arr.Length() != other.Length() {
		return false
	}
	equal := true
	arr.Range(func(i int, v *Value) bool {
		if !v.Equal(other.At(i)) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func (arr *Array) toNative() interface{} {
	out := make([]interface{}, arr.Length())
	arr.Range(func(i int, v *Value) bool {
		out[i] = v.ToNative()
		return true
	})
	return out
}

// String renders the array in order.
func (arr *Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	arr.Range(func(i int, v *Value) bool {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.String())
		return true
	})
	b.WriteByte(']')
	return b.String()
}
