package schema

import "strings"

// AsciiTree renders the tree in pyang-like notation. The output is
// deterministic: child order is tree order. noTypes suppresses the leaf
// type column.
func (t *Tree) AsciiTree(noTypes bool) string {
	var b strings.Builder
	children := t.Root.Children
	for i, c := range children {
		writeAscii(&b, c, "", i == len(children)-1, "", noTypes)
	}
	return b.String()
}

func writeAscii(b *strings.Builder, n *Node, indent string, last bool, parentModule string, noTypes bool) {
	b.WriteString(indent)
	b.WriteString("+--")
	switch n.Kind {
	case KindChoice:
		b.WriteString(flags(n))
		b.WriteString(" (")
		b.WriteString(displayName(n, parentModule))
		b.WriteByte(')')
		if !n.Mandatory {
			b.WriteByte('?')
		}
	case KindCase:
		b.WriteString(":(")
		b.WriteString(displayName(n, parentModule))
		b.WriteByte(')')
	default:
		b.WriteString(flags(n))
		b.WriteByte(' ')
		b.WriteString(displayName(n, parentModule))
		switch n.Kind {
		case KindContainer:
			if n.Presence {
				b.WriteByte('!')
			}
		case KindLeaf:
			if !n.Mandatory && !isListKey(n) {
				b.WriteByte('?')
			}
			if !noTypes {
				b.WriteString("   ")
				b.WriteString(n.Type)
			}
		case KindLeafList:
			b.WriteByte('*')
			if !noTypes {
				b.WriteString("   ")
				b.WriteString(n.Type)
			}
		case KindList:
			b.WriteByte('*')
			if len(n.Keys) > 0 {
				b.WriteString(" [")
				for i, k := range n.Keys {
					if i > 0 {
						b.WriteByte(' ')
					}
					b.WriteString(k.Local)
				}
				b.WriteByte(']')
			}
		}
	}
	b.WriteByte('\n')
	childIndent := indent + "|  "
	if last {
		childIndent = indent + "   "
	}
	for i, c := range n.Children {
		writeAscii(b, c, childIndent, i == len(n.Children)-1, n.Name.Module, noTypes)
	}
}

func flags(n *Node) string {
	if n.Config {
		return "rw"
	}
	return "ro"
}

// displayName prefixes the module only at module boundaries.
func displayName(n *Node, parentModule string) string {
	if n.Name.Module != parentModule {
		return n.Name.String()
	}
	return n.Name.Local
}

func isListKey(n *Node) bool {
	parent := n.Parent
	if parent == nil || parent.Kind != KindList {
		return false
	}
	return containsQName(parent.Keys, n.Name)
}
