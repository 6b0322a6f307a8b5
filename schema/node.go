package schema

// NodeKind discriminates the closed set of schema node variants. Every
// consumer switches exhaustively on it; there is no open hierarchy.
type NodeKind int

const (
	// KindInternal is a generic interior node, used for the tree root.
	KindInternal NodeKind = iota
	// KindContainer is an interior data node.
	KindContainer
	// KindList is an ordered collection of entries addressed by key leaves.
	KindList
	// KindLeafList is an ordered collection of leaf values.
	KindLeafList
	// KindLeaf is a terminal data node carrying a typed value.
	KindLeaf
	// KindChoice holds mutually exclusive alternatives; it is never
	// addressable as data.
	KindChoice
	// KindCase is one alternative under a choice; its children are hoisted
	// into the choice's parent namespace.
	KindCase
)

func (k NodeKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindContainer:
		return "container"
	case KindList:
		return "list"
	case KindLeafList:
		return "leaf-list"
	case KindLeaf:
		return "leaf"
	case KindChoice:
		return "choice"
	case KindCase:
		return "case"
	}
	return "unknown"
}

// ValueKind is the category a leaf's declared type maps to. It is the
// single type-system projection this package needs; full type semantics
// live with the value-type classifier collaborator.
type ValueKind int

const (
	// ValueString covers string-shaped types.
	ValueString ValueKind = iota
	// ValueNumber covers the integer and decimal types.
	ValueNumber
	// ValueBoolean covers boolean.
	ValueBoolean
	// ValueEmpty covers the empty type, encoded as [null].
	ValueEmpty
	// ValueBinary covers base64-encoded binary.
	ValueBinary
	// ValueUnion covers union types, accepted as any scalar.
	ValueUnion
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBoolean:
		return "boolean"
	case ValueEmpty:
		return "empty"
	case ValueBinary:
		return "binary"
	case ValueUnion:
		return "union"
	}
	return "unknown"
}

// ContentType filters which schema nodes a datastore exposes.
type ContentType int

const (
	// ContentConfig exposes configuration nodes only.
	ContentConfig ContentType = iota
	// ContentAll exposes configuration and operational state nodes.
	ContentAll
)

// Node is one compiled schema node. Children keep insertion order, which
// is significant for serialization and rendering. After Build returns,
// nodes are immutable and safe for concurrent readers.
type Node struct {
	Kind        NodeKind
	Name        QName
	Description string

	// Mandatory is the declared mandatory flag; it is never cascaded
	// upward from descendants.
	Mandatory bool
	// Config is false inside a "config false" subtree.
	Config bool
	// Presence marks presence containers.
	Presence bool
	// Keys names the key leaves of a list, in declared order.
	Keys []QName
	// OrderedBy is "system" or "user" for lists and leaf-lists.
	OrderedBy string
	// Type is the declared type name of a leaf or leaf-list.
	Type string
	// ValueType is Type resolved to its category.
	ValueType ValueKind

	Parent   *Node
	Children []*Node

	// index maps qualified names of addressable data descendants to their
	// nodes, with choice and case hoisting already flattened in. Built
	// once during pattern compilation; lookup never special-cases
	// transparent nodes.
	index map[QName]*Node

	// typeModule is where unprefixed type references of a leaf resolve,
	// the defining module when the leaf came from a grouping.
	typeModule string
	// keyArg is the raw list key statement argument, resolved to Keys
	// during post-processing.
	keyArg string
}

// IsData reports whether the node is addressable as a data node.
func (n *Node) IsData() bool {
	switch n.Kind {
	case KindContainer, KindList, KindLeafList, KindLeaf:
		return true
	}
	return false
}

// visibleUnder reports whether the node passes a datastore content filter.
func (n *Node) visibleUnder(ctype ContentType) bool {
	return ctype == ContentAll || n.Config
}

// SchemaChild returns the direct child with the given qualified name,
// including choice and case nodes, or nil. Schema paths address
// transparent nodes explicitly.
func (n *Node) SchemaChild(name QName) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// DataChild returns the addressable data child with the given qualified
// name under the content filter, looking through choice and case nodes,
// or nil.
func (n *Node) DataChild(name QName, ctype ContentType) *Node {
	c, ok := n.index[name]
	if !ok || !c.visibleUnder(ctype) {
		return nil
	}
	return c
}

// DataChildren returns the addressable data children under the content
// filter, with case children hoisted, in tree order.
func (n *Node) DataChildren(ctype ContentType) []*Node {
	var out []*Node
	for _, c := range n.Children {
		switch {
		case c.Kind == KindChoice || c.Kind == KindCase:
			out = append(out, c.DataChildren(ctype)...)
		case c.visibleUnder(ctype):
			out = append(out, c)
		}
	}
	return out
}

// Path renders the node's schema path from the root, with choice and
// case steps included. Used in diagnostics.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/"
	}
	var steps []QName
	for c := n; c.Parent != nil; c = c.Parent {
		if c.Name.IsZero() {
			continue
		}
		steps = append(steps, c.Name)
	}
	var b []byte
	for i := len(steps) - 1; i >= 0; i-- {
		b = append(b, '/')
		b = append(b, steps[i].String()...)
	}
	return string(b)
}

// Tree is a compiled schema tree: the shared root plus the module set in
// dependency order. Built once; immutable and safely shared afterwards.
type Tree struct {
	Root    *Node
	Modules []Module

	byName map[string]Module
}

// ModuleRegistered reports whether a module name is part of the tree.
func (t *Tree) ModuleRegistered(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Namespace returns the namespace of a registered module.
func (t *Tree) Namespace(name string) (string, bool) {
	m, ok := t.byName[name]
	return m.Namespace, ok
}

// SchemaDescendant resolves a route against the full schema tree,
// including choice and case steps. It returns nil when any step does not
// match; absence is not an error.
func (t *Tree) SchemaDescendant(route Route) *Node {
	node := t.Root
	for _, step := range route {
		node = node.SchemaChild(step.Name)
		if node == nil {
			return nil
		}
	}
	return node
}

// DataDescendant resolves a route against addressable data nodes under
// the content filter, one step at a time. The first failed lookup
// short-circuits to nil.
func (t *Tree) DataDescendant(route Route, ctype ContentType) *Node {
	node := t.Root
	for _, step := range route {
		node = node.DataChild(step.Name, ctype)
		if node == nil {
			return nil
		}
	}
	return node
}
