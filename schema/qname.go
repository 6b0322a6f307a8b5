package schema

import "strings"

// QName is a qualified node name: a local name plus the owning module.
// Two QNames are equal only when both components match; a local name alone
// never identifies a node, since augmentation mixes modules under one
// parent.
type QName struct {
	Module string
	Local  string
}

// String renders the canonical "module:local" form, or just the local name
// when the module is empty.
func (q QName) String() string {
	if q.Module == "" {
		return q.Local
	}
	return q.Module + ":" + q.Local
}

// IsZero reports whether q is the zero QName.
func (q QName) IsZero() bool { return q.Module == "" && q.Local == "" }

// Compare orders QNames by module, then local name.
func Compare(a, b QName) int {
	if c := strings.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	return strings.Compare(a.Local, b.Local)
}
