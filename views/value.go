package views

import (
	"math"
	"reflect"
	"sort"
	"strings"
)

// Value is a template variable. The set of implementations is closed:
// String, Int, Float, Bool, Null, Sequence, *Mapping and Opaque.
type Value interface {
	isValue()
}

// String is a text scalar. It is the only scalar touched by Encode and
// Decode.
type String string

// Int is an integral scalar.
type Int int64

// Float is a floating point scalar.
type Float float64

// Bool is a boolean scalar.
type Bool bool

// Null represents the absence of a value.
type Null struct{}

// Sequence is an ordered list of values.
type Sequence []Value

// Opaque wraps any Go value that has no structural meaning to a view
// (times, functions, channels). It passes through both codecs untouched.
type Opaque struct {
	V interface{}
}

func (String) isValue()   {}
func (Int) isValue()      {}
func (Float) isValue()    {}
func (Bool) isValue()     {}
func (Null) isValue()     {}
func (Sequence) isValue() {}
func (*Mapping) isValue() {}
func (Opaque) isValue()   {}

// Mapping is a string-keyed map that remembers key insertion order.
// The zero value is an empty mapping ready for use.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping returns an empty mapping with room for n keys.
func NewMapping(n int) *Mapping {
	return &Mapping{
		keys: make([]string, 0, n),
		vals: make(map[string]Value, n),
	}
}

// Set stores v under key. A new key is appended to the key order; an
// existing key keeps its position.
func (m *Mapping) Set(key string, v Value) *Mapping {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
	return m
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the mapping's keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of keys in the mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every key in insertion order.
func (m *Mapping) Each(fn func(key string, v Value)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.vals[k])
	}
}

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// ValueOf converts a native Go value into a Value.
//
// Strings, booleans and numbers become scalars; slices and arrays become
// Sequences; maps with string keys become Mappings with their keys sorted;
// structs become Mappings of their exported fields in declaration order,
// honouring `json` tag names. Nil becomes Null and anything else is wrapped
// in Opaque. Unsigned integers above math.MaxInt64 become Floats.
//
// A pointer, map or slice that refers back to one of its own ancestors
// becomes Null at the point where the cycle closes. Values shared between
// siblings are converted each time they appear.
func ValueOf(i interface{}) Value {
	if i == nil {
		return Null{}
	}
	if v, ok := i.(Value); ok {
		return v
	}
	c := &converter{visiting: make(map[visit]struct{})}
	return c.valueOf(reflect.ValueOf(i))
}

// visit identifies a reference-typed value. Slices also need their length:
// a slice and a shorter slice of the same array share a data pointer.
type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

type converter struct {
	visiting map[visit]struct{}
}

// enter marks rv as being converted. It reports false if rv is already on
// the current path.
func (c *converter) enter(rv reflect.Value) (visit, bool) {
	k := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if _, ok := c.visiting[k]; ok {
		return k, false
	}
	c.visiting[k] = struct{}{}
	return k, true
}

func (c *converter) valueOf(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null{}
	}
	if rv.Type().Implements(valueType) {
		if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
			return Null{}
		}
		return rv.Interface().(Value)
	}

	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return c.valueOf(rv.Elem())
	case reflect.Ptr:
		if rv.IsNil() {
			return Null{}
		}
		k, ok := c.enter(rv)
		if !ok {
			return Null{}
		}
		defer delete(c.visiting, k)
		return c.valueOf(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}
		}
		k, ok := c.enter(rv)
		if !ok {
			return Null{}
		}
		defer delete(c.visiting, k)
		return c.sequence(rv)
	case reflect.Array:
		return c.sequence(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null{}
		}
		k, ok := c.enter(rv)
		if !ok {
			return Null{}
		}
		defer delete(c.visiting, k)
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		m := NewMapping(len(keys))
		for _, k := range keys {
			m.Set(k, c.valueOf(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))))
		}
		return m
	case reflect.Struct:
		return c.structValue(rv)
	}
	return Opaque{V: rv.Interface()}
}

func (c *converter) sequence(rv reflect.Value) Value {
	seq := make(Sequence, rv.Len())
	for i := range seq {
		seq[i] = c.valueOf(rv.Index(i))
	}
	return seq
}

func (c *converter) structValue(rv reflect.Value) Value {
	rt := rv.Type()
	m := NewMapping(rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		m.Set(name, c.valueOf(rv.Field(i)))
	}
	return m
}

// Native converts a Value back into plain Go values: Sequences become
// []interface{}, Mappings become map[string]interface{}, Null becomes nil
// and Opaque values are unwrapped.
func Native(v Value) interface{} {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(tv)
	case Int:
		return int64(tv)
	case Float:
		return float64(tv)
	case Bool:
		return bool(tv)
	case Sequence:
		out := make([]interface{}, len(tv))
		for i, e := range tv {
			out[i] = Native(e)
		}
		return out
	case *Mapping:
		out := make(map[string]interface{}, tv.Len())
		tv.Each(func(k string, e Value) {
			out[k] = Native(e)
		})
		return out
	case Opaque:
		return tv.V
	}
	return nil
}
