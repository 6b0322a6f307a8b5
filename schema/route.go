package schema

import (
	"strconv"
	"strings"
)

// SelectorKind discriminates route step selectors.
type SelectorKind int

const (
	// SelectNone marks a step with no selector.
	SelectNone SelectorKind = iota
	// SelectPosition addresses one entry of an ordered collection by
	// 1-based index.
	SelectPosition
	// SelectKeys addresses a list entry by key leaf values.
	SelectKeys
	// SelectValue addresses a leaf-list entry by its own value.
	SelectValue
)

// KeyValue is one keyed-predicate entry.
type KeyValue struct {
	Name  QName
	Value string
}

// Selector narrows a route step to one entry of a collection. The zero
// value is SelectNone.
type Selector struct {
	Kind     SelectorKind
	Position int
	Keys     []KeyValue
	Value    string
}

// Key returns the value bound to a key name and whether it was supplied.
func (s Selector) Key(name QName) (string, bool) {
	for _, kv := range s.Keys {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return "", false
}

// RouteStep is one named step of a route with an optional selector.
type RouteStep struct {
	Name     QName
	Selector Selector
}

// Route is the parsed form of any of the path grammars: an ordered step
// sequence. A route is a pure value; it references no tree until
// resolved.
type Route []RouteStep

// String renders the route in canonical instance-identifier form.
// Predicate literals are single-quoted unless they contain a single
// quote.
func (r Route) String() string {
	if len(r) == 0 {
		return "/"
	}
	var b strings.Builder
	prevModule := ""
	for _, step := range r {
		b.WriteByte('/')
		if step.Name.Module != prevModule {
			b.WriteString(step.Name.Module)
			b.WriteByte(':')
			prevModule = step.Name.Module
		}
		b.WriteString(step.Name.Local)
		switch step.Selector.Kind {
		case SelectPosition:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(step.Selector.Position))
			b.WriteByte(']')
		case SelectKeys:
			for _, kv := range step.Selector.Keys {
				b.WriteByte('[')
				if kv.Name.Module != "" && kv.Name.Module != step.Name.Module {
					b.WriteString(kv.Name.Module)
					b.WriteByte(':')
				}
				b.WriteString(kv.Name.Local)
				b.WriteByte('=')
				writeQuoted(&b, kv.Value)
				b.WriteByte(']')
			}
		case SelectValue:
			b.WriteString("[.=")
			writeQuoted(&b, step.Selector.Value)
			b.WriteByte(']')
		}
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	if strings.ContainsRune(s, '\'') {
		b.WriteByte('"')
		b.WriteString(s)
		b.WriteByte('"')
		return
	}
	b.WriteByte('\'')
	b.WriteString(s)
	b.WriteByte('\'')
}
