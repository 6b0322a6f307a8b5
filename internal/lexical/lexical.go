// Package lexical implements the fixed token rules shared by the schema
// path, data path, instance identifier and resource identifier grammars.
//
// Token rules:
//
//	identifier       = (ALPHA / "_") *(ALPHA / DIGIT / "_" / "." / "-")
//	qualified-name   = [identifier ":"] identifier
//	predicate        = "[" *ws (predicate-expr / pos) *ws "]"
//	predicate-expr   = (qualified-name / ".") *ws "=" *ws quoted-literal
//	quoted-literal   = DQUOTE *(not DQUOTE) DQUOTE / SQUOTE *(not SQUOTE) SQUOTE
//	ws               = SP / HTAB / CR / LF
//	unsigned-integer = 1*DIGIT
//	decimal          = 1*DIGIT ["." 1*DIGIT] / "." 1*DIGIT
//
// Each rule matches a maximal run at the current offset or reports no match
// without moving the offset. No-match is a local signal; syntax errors are
// the calling parser's concern.
package lexical

// Scanner walks an input string one token rule at a time.
type Scanner struct {
	input string
	pos   int
}

// NewScanner returns a scanner positioned at the start of input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// EOF reports whether the whole input has been consumed.
func (s *Scanner) EOF() bool { return s.pos >= len(s.input) }

// Rest returns the unconsumed remainder of the input.
func (s *Scanner) Rest() string { return s.input[s.pos:] }

func (s *Scanner) peek() (byte, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

// Literal consumes the exact byte c.
func (s *Scanner) Literal(c byte) bool {
	if b, ok := s.peek(); ok && b == c {
		s.pos++
		return true
	}
	return false
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool { return isAlpha(b) || b == '_' }

func isIdentRest(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_' || b == '.' || b == '-'
}

// Identifier matches a schema identifier.
func (s *Scanner) Identifier() (string, bool) {
	b, ok := s.peek()
	if !ok || !isIdentStart(b) {
		return "", false
	}
	start := s.pos
	s.pos++
	for {
		b, ok := s.peek()
		if !ok || !isIdentRest(b) {
			break
		}
		s.pos++
	}
	return s.input[start:s.pos], true
}

// QualifiedName matches an optionally prefixed identifier. The returned
// prefix is empty when the name is bare. A trailing ":" with no identifier
// after it is not consumed.
func (s *Scanner) QualifiedName() (prefix, local string, ok bool) {
	first, ok := s.Identifier()
	if !ok {
		return "", "", false
	}
	mark := s.pos
	if s.Literal(':') {
		second, ok := s.Identifier()
		if ok {
			return first, second, true
		}
		// "name:" followed by a non-identifier is just "name".
		s.pos = mark
	}
	return "", first, true
}

// Whitespace consumes a run of space, tab, carriage return and newline.
func (s *Scanner) Whitespace() {
	for {
		b, ok := s.peek()
		if !ok || (b != ' ' && b != '\t' && b != '\r' && b != '\n') {
			return
		}
		s.pos++
	}
}

// UnsignedInteger matches one or more decimal digits.
func (s *Scanner) UnsignedInteger() (string, bool) {
	start := s.pos
	for {
		b, ok := s.peek()
		if !ok || !isDigit(b) {
			break
		}
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return s.input[start:s.pos], true
}

// Decimal matches digits["."digits] or "."digits.
func (s *Scanner) Decimal() (string, bool) {
	start := s.pos
	_, hasInt := s.UnsignedInteger()
	mark := s.pos
	if s.Literal('.') {
		if _, ok := s.UnsignedInteger(); !ok {
			s.pos = mark
			if !hasInt {
				s.pos = start
				return "", false
			}
		}
	} else if !hasInt {
		s.pos = start
		return "", false
	}
	return s.input[start:s.pos], true
}

// QuotedLiteral matches a single- or double-quoted string. There is no
// escape processing: a double-quoted literal may contain single quotes and
// vice versa, but never its own delimiter.
func (s *Scanner) QuotedLiteral() (string, bool) {
	b, ok := s.peek()
	if !ok || (b != '"' && b != '\'') {
		return "", false
	}
	quote := b
	start := s.pos
	s.pos++
	for {
		b, ok := s.peek()
		if !ok {
			s.pos = start
			return "", false
		}
		s.pos++
		if b == quote {
			return s.input[start+1 : s.pos-1], true
		}
	}
}
