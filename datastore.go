package yangkit

import (
	"encoding/json"

	"github.com/yangkit/yangkit/data"
	"github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/schema"
)

// Datastore pairs the shared schema tree with a content-type filter.
// Multiple datastores share one tree; the tree is never mutated after
// build, so no synchronization is needed.
type Datastore struct {
	tree  *schema.Tree
	ctype schema.ContentType
}

// Schema returns the shared schema tree.
func (d *Datastore) Schema() *schema.Tree { return d.tree }

// ContentType returns the datastore's content filter.
func (d *Datastore) ContentType() schema.ContentType { return d.ctype }

// FromRaw validates raw nested data against the schema under this
// datastore's content filter and returns the instance tree.
func (d *Datastore) FromRaw(raw map[string]interface{}) (*data.RootNode, error) {
	return data.FromRaw(d.tree, d.ctype, raw)
}

// SchemaNode resolves a schema path. A well-formed path that addresses
// nothing returns nil without error; a malformed path or an unregistered
// module prefix is an error.
func (d *Datastore) SchemaNode(path string) (*schema.Node, error) {
	route, err := schema.SchemaRoute(path, "")
	if err != nil {
		return nil, err
	}
	if err := d.checkModules(route); err != nil {
		return nil, err
	}
	return d.tree.SchemaDescendant(route), nil
}

// DataNode resolves a data path against addressable data nodes, stepping
// from the root one segment at a time; the first failed lookup
// short-circuits to nil.
func (d *Datastore) DataNode(path string) (*schema.Node, error) {
	route, err := schema.DataRoute(path)
	if err != nil {
		return nil, err
	}
	if err := d.checkModules(route); err != nil {
		return nil, err
	}
	return d.tree.DataDescendant(route, d.ctype), nil
}

func (d *Datastore) checkModules(route schema.Route) error {
	for _, step := range route {
		if !d.tree.ModuleRegistered(step.Name.Module) {
			return errors.New(errors.ErrModuleNotRegistered, "module %q not registered", step.Name.Module)
		}
	}
	return nil
}

// ParseInstanceID parses an instance identifier into a route without
// touching the schema.
func (d *Datastore) ParseInstanceID(text string) (schema.Route, error) {
	return schema.ParseInstanceID(text)
}

// ParseResourceID parses a resource identifier, validating every step
// against the schema as it goes, and returns the resolved node alongside
// the route.
func (d *Datastore) ParseResourceID(text string) (schema.Route, *schema.Node, error) {
	return d.tree.ParseResourceID(text, d.ctype)
}

// AsciiTree renders the schema tree for humans.
func (d *Datastore) AsciiTree(noTypes bool) string {
	return d.tree.AsciiTree(noTypes)
}

type digestDocument struct {
	Config bool `json:"config"`
	schema.NodeDigest
}

// Digest returns a condensed JSON description of the tree shape for
// remote clients. The config flag is always true, mirroring the
// reference behavior for both content types.
func (d *Datastore) Digest() ([]byte, error) {
	return json.Marshal(digestDocument{
		Config:     true,
		NodeDigest: d.tree.Digest(),
	})
}
