// Package yangkit compiles a YANG module set, enumerated by a YANG
// library descriptor, into one immutable schema tree and exposes
// datastore views over it: path resolution, instance construction and
// schema digests.
package yangkit

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/schema"
)

// ModuleProvider supplies the compiled statement tree of one module.
// The statement-level parser lives behind this contract; the data model
// never parses module text.
type ModuleProvider interface {
	ModuleStatement(name, revision string) (*schema.Statement, error)
}

// ModuleProviderFunc adapts a function to the ModuleProvider interface.
type ModuleProviderFunc func(name, revision string) (*schema.Statement, error)

// ModuleStatement calls f.
func (f ModuleProviderFunc) ModuleStatement(name, revision string) (*schema.Statement, error) {
	return f(name, revision)
}

// DataModel is the compiled data model: one shared schema tree with a
// datastore view per content type. It is immutable after construction
// and safe for concurrent use.
type DataModel struct {
	library     *Library
	tree        *schema.Tree
	datastores  map[string]*Datastore
	description string
}

// New compiles a data model from a JSON YANG library descriptor and a
// statement provider. The resulting model always carries a "config"
// datastore (configuration only) and an "operational" datastore (all
// content) over the same tree.
func New(libraryText []byte, provider ModuleProvider, opts ...Option) (*DataModel, error) {
	lib, err := ParseLibrary(libraryText)
	if err != nil {
		return nil, err
	}
	return NewFromLibrary(lib, provider, opts...)
}

// NewFromLibrary compiles a data model from an already parsed library.
func NewFromLibrary(lib *Library, provider ModuleProvider, opts ...Option) (*DataModel, error) {
	cfg := resolveOptions(opts)
	modules := make([]schema.Module, 0, len(lib.Modules))
	for _, lm := range lib.Modules {
		stmt, err := provider.ModuleStatement(lm.Name, lm.Revision)
		if err != nil {
			return nil, errors.New(errors.ErrModuleNotFound, "module %q revision %q: %v", lm.Name, lm.Revision, err).WithModule(lm.Name)
		}
		modules = append(modules, schema.Module{
			Name:      lm.Name,
			Namespace: lm.Namespace,
			Statement: stmt,
		})
	}
	ordered, err := schema.SortModules(modules)
	if err != nil {
		return nil, fmt.Errorf("build data model: %w", err)
	}
	tree, err := schema.Build(ordered, schema.BuildOptions{
		Classifier:    cfg.classifier,
		GroupingDepth: cfg.groupingDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("build data model: %w", err)
	}
	return &DataModel{
		library: lib,
		tree:    tree,
		datastores: map[string]*Datastore{
			"config":      {tree: tree, ctype: schema.ContentConfig},
			"operational": {tree: tree, ctype: schema.ContentAll},
		},
		description: cfg.description,
	}, nil
}

// Datastore returns the named datastore view, or false.
func (dm *DataModel) Datastore(name string) (*Datastore, bool) {
	ds, ok := dm.datastores[name]
	return ds, ok
}

// Datastores lists the datastore names, sorted.
func (dm *DataModel) Datastores() []string {
	out := make([]string, 0, len(dm.datastores))
	for name := range dm.datastores {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Library returns the parsed library descriptor.
func (dm *DataModel) Library() *Library { return dm.library }

// Description returns the optional model description.
func (dm *DataModel) Description() string { return dm.description }

// ContentID computes a stable hexadecimal id of the module set, usable
// as a cache key for the compiled model.
func (dm *DataModel) ContentID() string {
	names := make([]string, 0, len(dm.library.Modules))
	for _, m := range dm.library.Modules {
		names = append(names, m.Name+"@"+m.Revision+" "+m.Namespace)
	}
	sort.Strings(names)
	h := sha1.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
