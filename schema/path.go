package schema

import (
	"strconv"

	"github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/internal/lexical"
)

// SchemaRoute parses a schema path: "/" separated qualified names, no
// predicates. A step without a prefix takes the context default module;
// with no default module every step must carry an explicit prefix.
func SchemaRoute(path, defaultModule string) (Route, error) {
	return parsePath(path, func(prefix string, _ *string, offset int) (string, error) {
		if prefix != "" {
			return prefix, nil
		}
		if defaultModule == "" {
			return "", errors.NewAt(errors.ErrPathSyntax, offset, "step requires a module prefix")
		}
		return defaultModule, nil
	})
}

// DataRoute parses a data path: same shape as a schema path, but an
// unprefixed step inherits the nearest preceding explicit prefix, and the
// first step must carry one.
func DataRoute(path string) (Route, error) {
	return parsePath(path, stickyPrefix)
}

func stickyPrefix(prefix string, prev *string, offset int) (string, error) {
	if prefix != "" {
		*prev = prefix
		return prefix, nil
	}
	if *prev == "" {
		return "", errors.NewAt(errors.ErrPathSyntax, offset, "first step requires a module prefix")
	}
	return *prev, nil
}

func parsePath(path string, resolve func(prefix string, prev *string, offset int) (string, error)) (Route, error) {
	sc := lexical.NewScanner(path)
	if sc.EOF() {
		return nil, errors.NewAt(errors.ErrPathSyntax, 0, "empty path")
	}
	var route Route
	var prev string
	for !sc.EOF() {
		if !sc.Literal('/') {
			return nil, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), `expected "/"`)
		}
		if sc.EOF() {
			if len(route) == 0 {
				return route, nil
			}
			return nil, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), "expected node name")
		}
		start := sc.Pos()
		prefix, local, ok := sc.QualifiedName()
		if !ok {
			return nil, errors.NewAt(errors.ErrPathSyntax, start, "expected node name")
		}
		module, err := resolve(prefix, &prev, start)
		if err != nil {
			return nil, err
		}
		if !sc.EOF() && sc.Rest()[0] == '[' {
			return nil, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), "predicates are not allowed here")
		}
		route = append(route, RouteStep{Name: QName{Module: module, Local: local}})
	}
	return route, nil
}

// ParseInstanceID parses an RFC 7951 style instance identifier into a
// route. The first step must carry an explicit module prefix; later
// unprefixed steps inherit the preceding explicit prefix. Predicates are
// parsed but validated against a schema only at resolution time.
func ParseInstanceID(text string) (Route, error) {
	sc := lexical.NewScanner(text)
	if sc.EOF() {
		return nil, errors.NewAt(errors.ErrPathSyntax, 0, "empty instance identifier")
	}
	var route Route
	var prev string
	for !sc.EOF() {
		step, err := parseIDStep(sc, &prev)
		if err != nil {
			return nil, err
		}
		route = append(route, step)
	}
	return route, nil
}

func parseIDStep(sc *lexical.Scanner, prev *string) (RouteStep, error) {
	if !sc.Literal('/') {
		return RouteStep{}, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), `expected "/"`)
	}
	start := sc.Pos()
	prefix, local, ok := sc.QualifiedName()
	if !ok {
		return RouteStep{}, errors.NewAt(errors.ErrPathSyntax, start, "expected node name")
	}
	module, err := stickyPrefix(prefix, prev, start)
	if err != nil {
		return RouteStep{}, err
	}
	sel, err := parseSelector(sc, module)
	if err != nil {
		return RouteStep{}, err
	}
	return RouteStep{Name: QName{Module: module, Local: local}, Selector: sel}, nil
}

// parseSelector consumes zero or more predicates following a step name.
// A positional or self-value predicate must be the only one; keyed
// predicates may repeat with distinct key names. An unprefixed key name
// takes the step's module.
func parseSelector(sc *lexical.Scanner, stepModule string) (Selector, error) {
	var sel Selector
	for {
		if sc.EOF() || sc.Rest()[0] != '[' {
			return sel, nil
		}
		predStart := sc.Pos()
		sc.Literal('[')
		sc.Whitespace()
		rest := sc.Rest()
		switch {
		case len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9':
			digits, _ := sc.UnsignedInteger()
			pos, err := strconv.Atoi(digits)
			if err != nil {
				return sel, errors.NewAt(errors.ErrPathSyntax, predStart+1, "position out of range")
			}
			if sel.Kind != SelectNone {
				return sel, errors.NewAt(errors.ErrPathSyntax, predStart, "positional predicate must stand alone")
			}
			sel = Selector{Kind: SelectPosition, Position: pos}
		case sc.Literal('.'):
			value, err := parsePredicateValue(sc)
			if err != nil {
				return sel, err
			}
			if sel.Kind != SelectNone {
				return sel, errors.NewAt(errors.ErrPathSyntax, predStart, "self-value predicate must stand alone")
			}
			sel = Selector{Kind: SelectValue, Value: value}
		default:
			nameStart := sc.Pos()
			prefix, local, ok := sc.QualifiedName()
			if !ok {
				return sel, errors.NewAt(errors.ErrPathSyntax, nameStart, `expected key name, ".", or position`)
			}
			if prefix == "" {
				prefix = stepModule
			}
			value, err := parsePredicateValue(sc)
			if err != nil {
				return sel, err
			}
			if sel.Kind != SelectNone && sel.Kind != SelectKeys {
				return sel, errors.NewAt(errors.ErrPathSyntax, predStart, "keyed predicate cannot follow a positional or self-value predicate")
			}
			name := QName{Module: prefix, Local: local}
			if _, dup := sel.Key(name); dup {
				return sel, errors.NewAt(errors.ErrPathSyntax, nameStart, "duplicate key %q", name)
			}
			sel.Kind = SelectKeys
			sel.Keys = append(sel.Keys, KeyValue{Name: name, Value: value})
		}
		sc.Whitespace()
		if !sc.Literal(']') {
			return sel, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), `expected "]"`)
		}
	}
}

func parsePredicateValue(sc *lexical.Scanner) (string, error) {
	sc.Whitespace()
	if !sc.Literal('=') {
		return "", errors.NewAt(errors.ErrPathSyntax, sc.Pos(), `expected "="`)
	}
	sc.Whitespace()
	value, ok := sc.QuotedLiteral()
	if !ok {
		return "", errors.NewAt(errors.ErrPathSyntax, sc.Pos(), "expected quoted literal")
	}
	return value, nil
}

// ParseResourceID parses a resource identifier with the instance
// identifier grammar, resolving each step against the tree as it goes.
// Both syntax errors and missing nodes report the offending byte offset;
// the resolved node is returned alongside the route so callers skip a
// second resolution pass.
func (t *Tree) ParseResourceID(text string, ctype ContentType) (Route, *Node, error) {
	sc := lexical.NewScanner(text)
	if sc.EOF() {
		return nil, nil, errors.NewAt(errors.ErrPathSyntax, 0, "empty resource identifier")
	}
	var route Route
	var prev string
	node := t.Root
	for !sc.EOF() {
		if !sc.Literal('/') {
			return nil, nil, errors.NewAt(errors.ErrPathSyntax, sc.Pos(), `expected "/"`)
		}
		start := sc.Pos()
		prefix, local, ok := sc.QualifiedName()
		if !ok {
			return nil, nil, errors.NewAt(errors.ErrPathSyntax, start, "expected node name")
		}
		module, err := stickyPrefix(prefix, &prev, start)
		if err != nil {
			return nil, nil, err
		}
		name := QName{Module: module, Local: local}
		next := node.DataChild(name, ctype)
		if next == nil {
			return nil, nil, errors.NewAt(errors.ErrPathResolution, start, "no such node %q", name).WithPath(route.String())
		}
		node = next
		sel, err := parseSelector(sc, module)
		if err != nil {
			return nil, nil, err
		}
		if err := checkSelector(node, sel, start); err != nil {
			return nil, nil, err
		}
		route = append(route, RouteStep{Name: name, Selector: sel})
	}
	return route, node, nil
}

// checkSelector validates a parsed selector against the resolved node:
// keys only on lists and complete, self-value only on leaf-lists,
// positions only on ordered collections.
func checkSelector(node *Node, sel Selector, offset int) error {
	switch sel.Kind {
	case SelectNone:
		return nil
	case SelectPosition:
		if node.Kind != KindList && node.Kind != KindLeafList {
			return errors.NewAt(errors.ErrPathResolution, offset, "positional predicate on non-collection node %q", node.Name).WithPath(node.Path())
		}
	case SelectValue:
		if node.Kind != KindLeafList {
			return errors.NewAt(errors.ErrPathResolution, offset, "self-value predicate on non-leaf-list node %q", node.Name).WithPath(node.Path())
		}
	case SelectKeys:
		if node.Kind != KindList {
			return errors.NewAt(errors.ErrPathResolution, offset, "keyed predicate on non-list node %q", node.Name).WithPath(node.Path())
		}
		for _, kv := range sel.Keys {
			if !containsQName(node.Keys, kv.Name) {
				return errors.NewAt(errors.ErrPathResolution, offset, "%q is not a key of list %q", kv.Name, node.Name).WithPath(node.Path())
			}
		}
		for _, key := range node.Keys {
			if _, ok := sel.Key(key); !ok {
				return errors.NewAt(errors.ErrPathResolution, offset, "missing key %q of list %q", key, node.Name).WithPath(node.Path())
			}
		}
	}
	return nil
}

func containsQName(names []QName, name QName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
