package schema

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/yangkit/yangkit/errors"
)

// DefaultGroupingDepth bounds nested grouping expansion. A chain deeper
// than this is reported as a self-referential grouping instead of
// recursing without bound.
const DefaultGroupingDepth = 32

// TypeClassifier maps a declared leaf type name to its value category.
// It reports false for names it does not know, which sends the builder
// to the owning module's typedef chain.
type TypeClassifier func(typeName string) (ValueKind, bool)

// DefaultClassifier covers the YANG built-in types.
func DefaultClassifier(typeName string) (ValueKind, bool) {
	switch typeName {
	case "int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64", "decimal64":
		return ValueNumber, true
	case "string", "enumeration", "bits", "identityref",
		"instance-identifier", "leafref":
		return ValueString, true
	case "boolean":
		return ValueBoolean, true
	case "empty":
		return ValueEmpty, true
	case "binary":
		return ValueBinary, true
	case "union":
		return ValueUnion, true
	}
	return 0, false
}

// BuildOptions configures a schema build.
type BuildOptions struct {
	// Classifier resolves built-in type names; nil means
	// DefaultClassifier.
	Classifier TypeClassifier
	// GroupingDepth overrides DefaultGroupingDepth when positive.
	GroupingDepth int
}

// SortModules orders modules so that no module precedes one it imports.
// The given order is preserved wherever the import graph allows. An
// import naming a module outside the set is a module-not-found error; an
// import cycle is fatal.
func SortModules(modules []Module) ([]Module, error) {
	byName := make(map[string]int, len(modules))
	for i, m := range modules {
		if _, dup := byName[m.Name]; dup {
			return nil, errors.New(errors.ErrDuplicateNode, "module %q listed twice", m.Name)
		}
		byName[m.Name] = i
	}
	indegree := make([]int, len(modules))
	dependents := make([][]int, len(modules))
	for i, m := range modules {
		if m.Statement == nil {
			continue
		}
		for _, imp := range m.Statement.FindAll("import") {
			j, ok := byName[imp.Argument]
			if !ok {
				return nil, errors.New(errors.ErrModuleNotFound, "module %q imports unknown module %q", m.Name, imp.Argument).WithModule(m.Name)
			}
			dependents[j] = append(dependents[j], i)
			indegree[i]++
		}
	}
	var queue []int
	for i := range modules {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	out := make([]Module, 0, len(modules))
	for len(queue) > 0 {
		// Pick the earliest ready module to keep the result stable.
		min := 0
		for i, idx := range queue {
			if idx < queue[min] {
				min = i
			}
		}
		next := queue[min]
		queue = append(queue[:min], queue[min+1:]...)
		out = append(out, modules[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if len(out) != len(modules) {
		return nil, errors.New(errors.ErrModuleNotFound, "import cycle among modules")
	}
	return out, nil
}

// Build compiles a module sequence into one schema tree. The sequence
// must already be in dependency order (see SortModules). Any structural
// problem aborts the build; a partial tree is never returned.
func Build(modules []Module, opts BuildOptions) (*Tree, error) {
	if opts.Classifier == nil {
		opts.Classifier = DefaultClassifier
	}
	if opts.GroupingDepth <= 0 {
		opts.GroupingDepth = DefaultGroupingDepth
	}
	b := &builder{
		opts: opts,
		tree: &Tree{
			Root:    &Node{Kind: KindInternal, Config: true},
			Modules: modules,
			byName:  make(map[string]Module, len(modules)),
		},
		groupings: make(map[string]map[string]*Statement),
		typedefs:  make(map[string]map[string]*Statement),
	}
	for _, m := range modules {
		if _, dup := b.tree.byName[m.Name]; dup {
			return nil, errors.New(errors.ErrDuplicateNode, "module %q listed twice", m.Name)
		}
		b.tree.byName[m.Name] = m
		b.indexModule(m)
	}
	if err := b.passOne(); err != nil {
		return nil, err
	}
	if err := b.passTwo(); err != nil {
		return nil, err
	}
	if err := b.postProcess(b.tree.Root); err != nil {
		return nil, err
	}
	return b.tree, nil
}

type builder struct {
	opts BuildOptions
	tree *Tree

	groupings map[string]map[string]*Statement
	typedefs  map[string]map[string]*Statement
}

// sctx is the statement resolution context: ns is the module owning the
// namespace of instantiated nodes, def the module whose groupings and
// typedefs unprefixed references resolve in. They differ inside a
// grouping expanded across modules.
type sctx struct {
	ns  string
	def string
}

func (b *builder) indexModule(m Module) {
	groupings := make(map[string]*Statement)
	typedefs := make(map[string]*Statement)
	if m.Statement != nil {
		for _, g := range m.Statement.FindAll("grouping") {
			groupings[g.Argument] = g
		}
		for _, td := range m.Statement.FindAll("typedef") {
			typedefs[td.Argument] = td
		}
	}
	b.groupings[m.Name] = groupings
	b.typedefs[m.Name] = typedefs
}

// passOne instantiates each module's top-level data nodes into the shared
// root, in module sequence order, expanding groupings inline.
func (b *builder) passOne() error {
	for _, m := range b.tree.Modules {
		if m.Statement == nil {
			continue
		}
		ctx := sctx{ns: m.Name, def: m.Name}
		for _, stmt := range m.Statement.Substatements {
			if err := b.addDataDef(b.tree.Root, stmt, ctx, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// passTwo applies every module's augments against the tree assembled by
// pass one. All targets are resolved before any augment is applied, so
// application order cannot matter; every failure is reported, then the
// build aborts.
func (b *builder) passTwo() error {
	type pending struct {
		target *Node
		stmt   *Statement
		ctx    sctx
	}
	var apply []pending
	var errs error
	for _, m := range b.tree.Modules {
		if m.Statement == nil {
			continue
		}
		for _, aug := range m.Statement.FindAll("augment") {
			route, err := SchemaRoute(aug.Argument, m.Name)
			if err != nil {
				errs = multierr.Append(errs, errors.New(errors.ErrAugmentTarget, "bad augment target %q: %v", aug.Argument, err).WithModule(m.Name))
				continue
			}
			target := b.tree.SchemaDescendant(route)
			if target == nil {
				errs = multierr.Append(errs, errors.New(errors.ErrAugmentTarget, "augment target does not exist").WithModule(m.Name).WithPath(aug.Argument))
				continue
			}
			if target.Kind == KindLeaf || target.Kind == KindLeafList {
				errs = multierr.Append(errs, errors.New(errors.ErrAugmentTarget, "augment target %q cannot hold children", target.Name).WithModule(m.Name).WithPath(aug.Argument))
				continue
			}
			apply = append(apply, pending{target: target, stmt: aug, ctx: sctx{ns: m.Name, def: m.Name}})
		}
	}
	if errs != nil {
		return errs
	}
	for _, p := range apply {
		for _, stmt := range p.stmt.Substatements {
			if err := b.addDataDef(p.target, stmt, p.ctx, 0); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	return errs
}

func isDataDef(keyword string) bool {
	switch keyword {
	case "container", "leaf", "leaf-list", "list", "choice", "case", "uses":
		return true
	}
	return false
}

// addDataDef instantiates one data definition statement under parent.
// Statements that are not data definitions (description, typedef, key,
// config, ...) are handled by their owners and skipped here.
func (b *builder) addDataDef(parent *Node, stmt *Statement, ctx sctx, depth int) error {
	if !isDataDef(stmt.Keyword) {
		return nil
	}
	if stmt.Keyword == "uses" {
		return b.expandUses(parent, stmt, ctx, depth)
	}
	node := &Node{
		Name:        QName{Module: ctx.ns, Local: stmt.Argument},
		Description: stmt.Arg("description"),
		Mandatory:   stmt.Arg("mandatory") == "true",
		Config:      parent.Config && stmt.Arg("config") != "false",
		Parent:      parent,
	}
	recurse := false
	switch stmt.Keyword {
	case "container":
		node.Kind = KindContainer
		node.Presence = stmt.Find("presence") != nil
		recurse = true
	case "leaf":
		node.Kind = KindLeaf
		node.Type = stmt.Arg("type")
		node.typeModule = ctx.def
	case "leaf-list":
		node.Kind = KindLeafList
		node.Type = stmt.Arg("type")
		node.typeModule = ctx.def
		node.OrderedBy = orderedBy(stmt)
	case "list":
		node.Kind = KindList
		node.keyArg = stmt.Arg("key")
		node.OrderedBy = orderedBy(stmt)
		recurse = true
	case "choice":
		node.Kind = KindChoice
		return b.addChoice(parent, node, stmt, ctx, depth)
	case "case":
		node.Kind = KindCase
		recurse = true
	}
	if err := b.attach(parent, node); err != nil {
		return err
	}
	if recurse {
		for _, sub := range stmt.Substatements {
			if err := b.addDataDef(node, sub, ctx, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// addChoice attaches a choice node and normalizes shorthand cases: a data
// definition directly under a choice is wrapped in an implicit case of
// the same name, so hoisting works uniformly.
func (b *builder) addChoice(parent *Node, node *Node, stmt *Statement, ctx sctx, depth int) error {
	if err := b.attach(parent, node); err != nil {
		return err
	}
	for _, sub := range stmt.Substatements {
		if !isDataDef(sub.Keyword) {
			continue
		}
		if sub.Keyword == "case" {
			if err := b.addDataDef(node, sub, ctx, depth); err != nil {
				return err
			}
			continue
		}
		implicit := &Node{
			Kind:   KindCase,
			Name:   QName{Module: ctx.ns, Local: sub.Argument},
			Config: node.Config,
			Parent: node,
		}
		if err := b.attach(node, implicit); err != nil {
			return err
		}
		if err := b.addDataDef(implicit, sub, ctx, depth); err != nil {
			return err
		}
	}
	return nil
}

// expandUses inlines a grouping body. The expanded nodes take the using
// module's namespace; nested references keep resolving in the defining
// module.
func (b *builder) expandUses(parent *Node, stmt *Statement, ctx sctx, depth int) error {
	if depth >= b.opts.GroupingDepth {
		return errors.New(errors.ErrGroupingUnresolved, "grouping %q expands beyond depth %d, likely self-referential", stmt.Argument, b.opts.GroupingDepth).WithModule(ctx.def)
	}
	defModule, name := ctx.def, stmt.Argument
	if i := strings.IndexByte(name, ':'); i >= 0 {
		defModule, name = name[:i], name[i+1:]
	}
	grouping, ok := b.groupings[defModule][name]
	if !ok {
		return errors.New(errors.ErrGroupingUnresolved, "grouping %q not found in module %q", name, defModule).WithModule(ctx.ns)
	}
	inner := sctx{ns: ctx.ns, def: defModule}
	for _, sub := range grouping.Substatements {
		if err := b.addDataDef(parent, sub, inner, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// attach appends a child and registers data nodes in the child index of
// the nearest non-transparent ancestor, the lookup structure every path
// resolution step uses. Two data-bearing siblings sharing a qualified
// name is a hard error.
func (b *builder) attach(parent, node *Node) error {
	node.Parent = parent
	if node.IsData() {
		holder := parent
		for holder.Kind == KindChoice || holder.Kind == KindCase {
			holder = holder.Parent
		}
		if holder.index == nil {
			holder.index = make(map[QName]*Node)
		}
		if _, dup := holder.index[node.Name]; dup {
			return errors.New(errors.ErrDuplicateNode, "node %q already defined", node.Name).WithPath(holder.Path()).WithModule(node.Name.Module)
		}
		// Top-level names must be unique across modules, not just per
		// qualified name.
		if holder.Parent == nil {
			for existing := range holder.index {
				if existing.Local == node.Name.Local {
					return errors.New(errors.ErrDuplicateNode, "top-level node %q conflicts with %q", node.Name, existing).WithModule(node.Name.Module)
				}
			}
		}
		holder.index[node.Name] = node
	}
	parent.Children = append(parent.Children, node)
	return nil
}

func orderedBy(stmt *Statement) string {
	if v := stmt.Arg("ordered-by"); v != "" {
		return v
	}
	return "system"
}

// postProcess resolves the references passes one and two left dangling:
// leaf type chains through module typedefs, and list key leaves, which an
// augment may have supplied. Every failure is reported before aborting.
func (b *builder) postProcess(node *Node) error {
	var errs error
	switch node.Kind {
	case KindLeaf, KindLeafList:
		kind, err := b.resolveType(node.Type, node.typeModule, nil)
		if err != nil {
			errs = multierr.Append(errs, err.WithPath(node.Path()))
		} else {
			node.ValueType = kind
		}
	case KindList:
		for _, field := range strings.Fields(node.keyArg) {
			key := QName{Module: node.Name.Module, Local: field}
			if i := strings.IndexByte(field, ':'); i >= 0 {
				key = QName{Module: field[:i], Local: field[i+1:]}
			}
			child, ok := node.index[key]
			if !ok || child.Kind != KindLeaf {
				errs = multierr.Append(errs, errors.New(errors.ErrTypeUnresolved, "key %q is not a leaf child of list %q", key, node.Name).WithPath(node.Path()).WithModule(node.Name.Module))
				continue
			}
			node.Keys = append(node.Keys, key)
		}
	}
	for _, c := range node.Children {
		if err := b.postProcess(c); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// resolveType chases a declared type name through typedef chains down to
// a built-in category. seen guards against typedef cycles.
func (b *builder) resolveType(typeName, module string, seen []QName) (ValueKind, *errors.Error) {
	if typeName == "" {
		return 0, errors.New(errors.ErrTypeUnresolved, "missing type").WithModule(module)
	}
	if kind, ok := b.opts.Classifier(typeName); ok {
		return kind, nil
	}
	defModule, name := module, typeName
	if i := strings.IndexByte(typeName, ':'); i >= 0 {
		defModule, name = typeName[:i], typeName[i+1:]
	}
	ref := QName{Module: defModule, Local: name}
	for _, s := range seen {
		if s == ref {
			return 0, errors.New(errors.ErrTypeUnresolved, "typedef cycle through %q", ref).WithModule(module)
		}
	}
	td, ok := b.typedefs[defModule][name]
	if !ok {
		return 0, errors.New(errors.ErrTypeUnresolved, "type %q not found in module %q", name, defModule).WithModule(module)
	}
	return b.resolveType(td.Arg("type"), defModule, append(seen, ref))
}
