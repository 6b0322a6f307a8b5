package schema

// Statement is one node of a compiled module statement tree, the contract
// with the statement-level parser that produced it. The builder consumes
// statement trees; it never parses module text itself.
type Statement struct {
	Keyword       string
	Argument      string
	Substatements []*Statement
}

// Find returns the first substatement with the given keyword, or nil.
func (s *Statement) Find(keyword string) *Statement {
	for _, sub := range s.Substatements {
		if sub.Keyword == keyword {
			return sub
		}
	}
	return nil
}

// FindAll returns every substatement with the given keyword, in order.
func (s *Statement) FindAll(keyword string) []*Statement {
	var out []*Statement
	for _, sub := range s.Substatements {
		if sub.Keyword == keyword {
			out = append(out, sub)
		}
	}
	return out
}

// Arg returns the argument of the first substatement with the given
// keyword, or "" when absent.
func (s *Statement) Arg(keyword string) string {
	if sub := s.Find(keyword); sub != nil {
		return sub.Argument
	}
	return ""
}

// Module pairs a module's identity with its compiled statement tree.
type Module struct {
	Name      string
	Namespace string
	Statement *Statement
}
