package lexer

import "math"

// Scanner performs lexical analysis on imp source.
type Scanner struct {
	source []byte
	cursor int
	line   int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
}

// Next returns the next token from the source. End of input produces
// KindEOF; a character no rule matches produces KindError so callers can
// tell a lexical failure apart from a finished program.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Line: uint32(s.line)}
	}

	start := s.cursor
	ch := s.source[s.cursor]

	if isDigit(ch) {
		return s.scanNumber()
	}

	if isAlpha(ch) {
		return s.scanIdentifier()
	}

	// '==' lexes as a single token; a lone '=' is assignment.
	if ch == '=' && s.peek() == '=' {
		s.cursor += 2
		return Token{Kind: KindEq, Offset: uint32(start), Length: 2, Line: uint32(s.line)}
	}

	s.cursor++
	kind := KindError
	switch ch {
	case '+':
		kind = KindPlus
	case '-':
		kind = KindMinus
	case '*':
		kind = KindStar
	case '/':
		kind = KindSlash
	case '=':
		kind = KindAssign
	case '<':
		kind = KindLess
	case '>':
		kind = KindGreater
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case ';':
		kind = KindSemicolon
	}

	return Token{Kind: kind, Offset: uint32(start), Length: 1, Line: uint32(s.line)}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			s.cursor++
		} else if ch == '\n' {
			s.line++
			s.cursor++
		} else {
			break
		}
	}
}

// scanNumber consumes a maximal run of decimal digits. The value is
// accumulated here only to detect int64 overflow without allocating; the
// emitter re-reads the digits when it needs the value.
func (s *Scanner) scanNumber() Token {
	start := s.cursor
	var val int64
	overflow := false
	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		d := int64(s.source[s.cursor] - '0')
		if val > (math.MaxInt64-d)/10 {
			overflow = true
		} else {
			val = val*10 + d
		}
		s.cursor++
	}

	kind := KindNumber
	if overflow {
		kind = KindOverflow
	}
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) && isIdent(s.source[s.cursor]) {
		s.cursor++
	}

	literal := s.source[start:s.cursor]
	kind := KindIdentifier
	switch string(literal) {
	case "let":
		kind = KindLet
	case "if":
		kind = KindIf
	case "else":
		kind = KindElse
	case "while":
		kind = KindWhile
	case "print":
		kind = KindPrint
	}

	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdent(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
