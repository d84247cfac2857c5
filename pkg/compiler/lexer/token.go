package lexer

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError    // unrecognized character
	KindOverflow // integer literal does not fit in int64
	KindNumber
	KindIdentifier
	KindLet
	KindIf
	KindElse
	KindWhile
	KindPrint
	KindPlus      // +
	KindMinus     // -
	KindStar      // *
	KindSlash     // /
	KindAssign    // =
	KindEq        // ==
	KindLess      // <
	KindGreater   // >
	KindLParen    // (
	KindRParen    // )
	KindSemicolon // ;
)

var kindNames = [...]string{
	KindEOF:        "end of input",
	KindError:      "illegal character",
	KindOverflow:   "oversized number",
	KindNumber:     "number",
	KindIdentifier: "identifier",
	KindLet:        "'let'",
	KindIf:         "'if'",
	KindElse:       "'else'",
	KindWhile:      "'while'",
	KindPrint:      "'print'",
	KindPlus:       "'+'",
	KindMinus:      "'-'",
	KindStar:       "'*'",
	KindSlash:      "'/'",
	KindAssign:     "'='",
	KindEq:         "'=='",
	KindLess:       "'<'",
	KindGreater:    "'>'",
	KindLParen:     "'('",
	KindRParen:     "')'",
	KindSemicolon:  "';'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown token"
}

// Token represents a lexical unit pointing back to the source.
// Kept small so the scanner produces tokens without allocating.
type Token struct {
	Kind   Kind
	Offset uint32
	Length uint32
	Line   uint32
}

// Text returns the source text the token covers.
func (t Token) Text(src []byte) string {
	return string(src[t.Offset : t.Offset+t.Length])
}
