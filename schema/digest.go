package schema

// NodeDigest is the condensed description of one schema node, cheap to
// serialize for clients that need tree shape without the full schema.
type NodeDigest struct {
	Kind      string       `json:"kind"`
	Name      string       `json:"name,omitempty"`
	Type      string       `json:"type,omitempty"`
	Mandatory bool         `json:"mandatory,omitempty"`
	Keys      []string     `json:"keys,omitempty"`
	Children  []NodeDigest `json:"children,omitempty"`
}

// Digest summarizes the whole tree: node kinds, names and nesting. The
// root digest always carries a children list, empty for a tree with no
// modules.
func (t *Tree) Digest() NodeDigest {
	d := digestNode(t.Root)
	d.Kind = "schema"
	if d.Children == nil {
		d.Children = []NodeDigest{}
	}
	return d
}

func digestNode(n *Node) NodeDigest {
	d := NodeDigest{
		Kind:      n.Kind.String(),
		Mandatory: n.Mandatory,
	}
	if !n.Name.IsZero() {
		d.Name = n.Name.String()
	}
	switch n.Kind {
	case KindLeaf, KindLeafList:
		d.Type = n.ValueType.String()
	case KindList:
		for _, k := range n.Keys {
			d.Keys = append(d.Keys, k.String())
		}
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, digestNode(c))
	}
	return d
}
