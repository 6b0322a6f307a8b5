package data

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/schema"
)

// RootNode is a validated instance tree: the cooked root value, a
// back-reference to the schema it conforms to, and the construction
// timestamp. It is immutable; the schema reference never owns or
// outlives the tree.
type RootNode struct {
	value     *Value
	tree      *schema.Tree
	ctype     schema.ContentType
	timestamp time.Time
}

// Value returns the cooked root object.
func (r *RootNode) Value() *Value { return r.value }

// Schema returns the schema tree the instance was validated against.
func (r *RootNode) Schema() *schema.Tree { return r.tree }

// Timestamp returns the construction time.
func (r *RootNode) Timestamp() time.Time { return r.timestamp }

// FromRaw walks raw nested data and the schema tree in lockstep and
// returns a validated instance tree. Schema nodes the content filter
// excludes are skipped; a raw member with no matching schema child, a
// wrongly shaped value, or a missing mandatory node is a validation
// error naming the offending path.
func FromRaw(tree *schema.Tree, ctype schema.ContentType, raw map[string]interface{}) (*RootNode, error) {
	obj, err := cookChildren(tree.Root, ctype, raw, "", "")
	if err != nil {
		return nil, err
	}
	return &RootNode{
		value:     ValueNew(obj),
		tree:      tree,
		ctype:     ctype,
		timestamp: time.Now(),
	}, nil
}

// memberName resolves a raw member name against the parent module
// context. Top-level members and members from other modules must be
// qualified; a bare name inherits the parent's module.
func memberName(member, parentModule string) (schema.QName, bool) {
	if i := strings.IndexByte(member, ':'); i >= 0 {
		return schema.QName{Module: member[:i], Local: member[i+1:]}, true
	}
	if parentModule == "" {
		return schema.QName{}, false
	}
	return schema.QName{Module: parentModule, Local: member}, true
}

func cookChildren(sn *schema.Node, ctype schema.ContentType, raw map[string]interface{}, parentModule, path string) (*Object, error) {
	obj := ObjectNew()
	// Deterministic walk order so the first error is stable.
	members := make([]string, 0, len(raw))
	for member := range raw {
		members = append(members, member)
	}
	sort.Strings(members)
	for _, member := range members {
		name, ok := memberName(member, parentModule)
		if !ok {
			return nil, errors.New(errors.ErrInstanceValidation, "member %q requires a module prefix", member).WithPath(path + "/")
		}
		child := sn.DataChild(name, ctype)
		if child == nil {
			return nil, errors.New(errors.ErrInstanceValidation, "unexpected member %q", member).WithPath(path + "/" + name.String())
		}
		cooked, err := cookNode(child, ctype, raw[member], path+"/"+name.String())
		if err != nil {
			return nil, err
		}
		obj = obj.Assoc(name.String(), cooked)
	}
	if err := checkMandatory(sn, ctype, obj, path); err != nil {
		return nil, err
	}
	return obj, nil
}

// checkMandatory enforces declared mandatory flags under the content
// filter: mandatory data children must be present, and a mandatory
// choice needs at least one of its hoisted children.
func checkMandatory(sn *schema.Node, ctype schema.ContentType, obj *Object, path string) error {
	for _, child := range sn.Children {
		if ctype == schema.ContentConfig && !child.Config {
			continue
		}
		if child.Kind == schema.KindChoice {
			if !child.Mandatory {
				continue
			}
			present := false
			for _, hoisted := range child.DataChildren(ctype) {
				if obj.Contains(hoisted.Name.String()) {
					present = true
					break
				}
			}
			if !present {
				return errors.New(errors.ErrInstanceValidation, "no case of mandatory choice %q present", child.Name).WithPath(path + "/")
			}
			continue
		}
		if !child.IsData() || !child.Mandatory {
			continue
		}
		if !obj.Contains(child.Name.String()) {
			return errors.New(errors.ErrInstanceValidation, "missing mandatory node %q", child.Name).WithPath(path + "/" + child.Name.String())
		}
	}
	return nil
}

func cookNode(sn *schema.Node, ctype schema.ContentType, raw interface{}, path string) (*Value, error) {
	switch sn.Kind {
	case schema.KindContainer:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, shapeError(sn, "object", path)
		}
		obj, err := cookChildren(sn, ctype, m, sn.Name.Module, path)
		if err != nil {
			return nil, err
		}
		return ValueNew(obj), nil
	case schema.KindList:
		entries, ok := raw.([]interface{})
		if !ok {
			return nil, shapeError(sn, "array of objects", path)
		}
		vals := make([]*Value, 0, len(entries))
		for i, entry := range entries {
			m, ok := entry.(map[string]interface{})
			if !ok {
				return nil, shapeError(sn, "array of objects", entryPath(path, i))
			}
			obj, err := cookChildren(sn, ctype, m, sn.Name.Module, entryPath(path, i))
			if err != nil {
				return nil, err
			}
			for _, key := range sn.Keys {
				if !obj.Contains(key.String()) {
					return nil, errors.New(errors.ErrInstanceValidation, "missing key %q", key).WithPath(entryPath(path, i))
				}
			}
			vals = append(vals, ValueNew(obj))
		}
		return ValueNew(ArrayFrom(vals)), nil
	case schema.KindLeafList:
		entries, ok := raw.([]interface{})
		if !ok {
			return nil, shapeError(sn, "array", path)
		}
		vals := make([]*Value, 0, len(entries))
		for i, entry := range entries {
			v, err := cookScalar(sn, entry, entryPath(path, i))
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return ValueNew(ArrayFrom(vals)), nil
	case schema.KindLeaf:
		return cookScalar(sn, raw, path)
	}
	return nil, shapeError(sn, "data node", path)
}

// cookScalar checks a scalar against the leaf's value category. Numbers
// arrive as float64 from JSON decoding, or as strings for the 64-bit
// integer encoding of RFC 7951.
func cookScalar(sn *schema.Node, raw interface{}, path string) (*Value, error) {
	switch sn.ValueType {
	case schema.ValueString, schema.ValueBinary:
		if s, ok := raw.(string); ok {
			return ValueNew(s), nil
		}
		return nil, shapeError(sn, "string", path)
	case schema.ValueBoolean:
		if b, ok := raw.(bool); ok {
			return ValueNew(b), nil
		}
		return nil, shapeError(sn, "boolean", path)
	case schema.ValueNumber:
		switch n := raw.(type) {
		case float64:
			return ValueNew(n), nil
		case int:
			return ValueNew(n), nil
		case int64:
			return ValueNew(n), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, shapeError(sn, "number", path)
			}
			return ValueNew(f), nil
		}
		return nil, shapeError(sn, "number", path)
	case schema.ValueEmpty:
		if arr, ok := raw.([]interface{}); ok && len(arr) == 1 && arr[0] == nil {
			return EmptyLeaf(), nil
		}
		return nil, shapeError(sn, "[null]", path)
	case schema.ValueUnion:
		switch raw.(type) {
		case string, bool, float64, int, int64:
			return ValueNew(raw), nil
		}
		return nil, shapeError(sn, "scalar", path)
	}
	return nil, shapeError(sn, "scalar", path)
}

func shapeError(sn *schema.Node, want, path string) error {
	return errors.New(errors.ErrInstanceValidation, "node %q expects %s", sn.Name, want).WithPath(path)
}

func entryPath(path string, index int) string {
	return path + "[" + strconv.Itoa(index+1) + "]"
}

// Find resolves an instance identifier against the cooked tree. It
// returns the addressed value, whether it exists, or an error for an
// identifier that is malformed or does not fit the schema. A well-formed
// identifier addressing no data is absence, not an error.
func (r *RootNode) Find(instanceID string) (*Value, bool, error) {
	route, err := schema.ParseInstanceID(instanceID)
	if err != nil {
		return nil, false, err
	}
	sn := r.tree.Root
	value := r.value
	for _, step := range route {
		next := sn.DataChild(step.Name, r.ctype)
		if next == nil {
			return nil, false, errors.New(errors.ErrPathResolution, "no such node %q", step.Name).WithPath(sn.Path())
		}
		sn = next
		obj := value.AsObject()
		if obj == nil {
			return nil, false, nil
		}
		member, ok := obj.Find(step.Name.String())
		if !ok {
			return nil, false, nil
		}
		value, ok, err = selectEntry(sn, member, step.Selector)
		if err != nil || !ok {
			return nil, false, err
		}
	}
	return value, true, nil
}

// selectEntry applies a step selector to the member value. Selector
// semantics are enforced here, at resolution time: keys must be complete
// and declared, positions need an ordered collection.
func selectEntry(sn *schema.Node, member *Value, sel schema.Selector) (*Value, bool, error) {
	switch sel.Kind {
	case schema.SelectNone:
		return member, true, nil
	case schema.SelectPosition:
		if sn.Kind != schema.KindList && sn.Kind != schema.KindLeafList {
			return nil, false, errors.New(errors.ErrInstanceValidation, "positional predicate on non-collection node %q", sn.Name).WithPath(sn.Path())
		}
		arr := member.AsArray()
		if arr == nil || sel.Position < 1 || sel.Position > arr.Length() {
			return nil, false, nil
		}
		return arr.At(sel.Position - 1), true, nil
	case schema.SelectValue:
		if sn.Kind != schema.KindLeafList {
			return nil, false, errors.New(errors.ErrInstanceValidation, "self-value predicate on non-leaf-list node %q", sn.Name).WithPath(sn.Path())
		}
		arr := member.AsArray()
		if arr == nil {
			return nil, false, nil
		}
		var found *Value
		arr.Range(func(_ int, v *Value) bool {
			if v.AsString() == sel.Value {
				found = v
				return false
			}
			return true
		})
		return found, found != nil, nil
	case schema.SelectKeys:
		if sn.Kind != schema.KindList {
			return nil, false, errors.New(errors.ErrInstanceValidation, "keyed predicate on non-list node %q", sn.Name).WithPath(sn.Path())
		}
		for _, kv := range sel.Keys {
			if !keyDeclared(sn, kv.Name) {
				return nil, false, errors.New(errors.ErrInstanceValidation, "%q is not a key of list %q", kv.Name, sn.Name).WithPath(sn.Path())
			}
		}
		for _, key := range sn.Keys {
			if _, ok := sel.Key(key); !ok {
				return nil, false, errors.New(errors.ErrInstanceValidation, "missing key %q of list %q", key, sn.Name).WithPath(sn.Path())
			}
		}
		arr := member.AsArray()
		if arr == nil {
			return nil, false, nil
		}
		var found *Value
		arr.Range(func(_ int, entry *Value) bool {
			obj := entry.AsObject()
			if obj == nil {
				return true
			}
			for _, kv := range sel.Keys {
				v, ok := obj.Find(kv.Name.String())
				if !ok || v.AsString() != kv.Value {
					return true
				}
			}
			found = entry
			return false
		})
		return found, found != nil, nil
	}
	return nil, false, nil
}

func keyDeclared(sn *schema.Node, name schema.QName) bool {
	for _, k := range sn.Keys {
		if k == name {
			return true
		}
	}
	return false
}
