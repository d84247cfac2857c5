package ast

import "github.com/agenthands/imp/pkg/compiler/lexer"

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
}

// Expr represents an expression that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
}

// BinOp identifies a binary operator.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLess
	OpGreater
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	}
	return "?"
}

// NumberLiteral: a decimal integer constant. Value is resolved by the
// parser; the scanner has already rejected literals that overflow int64.
type NumberLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *NumberLiteral) Pos() lexer.Token { return n.Token }
func (n *NumberLiteral) exprNode()        {}

// Identifier: a variable reference.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) Pos() lexer.Token { return i.Token }
func (i *Identifier) exprNode()        {}

// BinaryExpr: LEFT op RIGHT.
type BinaryExpr struct {
	Token lexer.Token // the operator token
	Op    BinOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() lexer.Token { return b.Token }
func (b *BinaryExpr) exprNode()        {}

// LetStmt: let NAME = EXPR ;
type LetStmt struct {
	Token lexer.Token // the 'let' token
	Name  string
	Value Expr
}

func (l *LetStmt) Pos() lexer.Token { return l.Token }
func (l *LetStmt) stmtNode()        {}

// AssignStmt: NAME = EXPR ;
type AssignStmt struct {
	Token lexer.Token // the target identifier token
	Name  string
	Value Expr
}

func (a *AssignStmt) Pos() lexer.Token { return a.Token }
func (a *AssignStmt) stmtNode()        {}

// IfStmt: if COND BLOCK [else BLOCK]. Else is nil when absent.
type IfStmt struct {
	Token lexer.Token // the 'if' token
	Cond  Expr
	Then  []Statement
	Else  []Statement
}

func (i *IfStmt) Pos() lexer.Token { return i.Token }
func (i *IfStmt) stmtNode()        {}

// WhileStmt: while COND BLOCK.
type WhileStmt struct {
	Token lexer.Token // the 'while' token
	Cond  Expr
	Body  []Statement
}

func (w *WhileStmt) Pos() lexer.Token { return w.Token }
func (w *WhileStmt) stmtNode()        {}

// PrintStmt: print EXPR ;
type PrintStmt struct {
	Token lexer.Token // the 'print' token
	Value Expr
}

func (p *PrintStmt) Pos() lexer.Token { return p.Token }
func (p *PrintStmt) stmtNode()        {}
