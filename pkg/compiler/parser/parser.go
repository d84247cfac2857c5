package parser

import (
	"fmt"
	"strconv"

	"github.com/agenthands/imp/pkg/compiler/ast"
	"github.com/agenthands/imp/pkg/compiler/lexer"
)

// Parser consumes tokens from a scanner with one token of lookahead and
// builds the program AST. The first structural mismatch aborts the whole
// parse; there is no error recovery.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	src     []byte
}

func NewParser(s *lexer.Scanner, src []byte) *Parser {
	p := &Parser{
		scanner: s,
		src:     src,
	}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.scanner.Next()
}

// Parse returns the full statement sequence or the first error encountered.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

// expect consumes the current token if it has the wanted kind and fails
// with a descriptive error otherwise.
func (p *Parser) expect(kind lexer.Kind) error {
	if p.curTok.Kind != kind {
		return p.errUnexpected(kind.String())
	}
	p.nextToken()
	return nil
}

// errUnexpected builds a parse error naming what was wanted and what the
// scanner actually produced. Lexical failure tokens get their own wording
// so a stray character is never mistaken for end of input.
func (p *Parser) errUnexpected(wanted string) error {
	switch p.curTok.Kind {
	case lexer.KindError:
		return fmt.Errorf("line %d: illegal character %q", p.curTok.Line, p.curTok.Text(p.src))
	case lexer.KindOverflow:
		return fmt.Errorf("line %d: integer literal %s overflows a 64-bit integer", p.curTok.Line, p.curTok.Text(p.src))
	}
	return fmt.Errorf("line %d: expected %s, got %s", p.curTok.Line, wanted, p.curTok.Kind)
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Kind {
	case lexer.KindLet:
		return p.parseLetStmt()
	case lexer.KindIdentifier:
		return p.parseAssignStmt()
	case lexer.KindIf:
		return p.parseIfStmt()
	case lexer.KindWhile:
		return p.parseWhileStmt()
	case lexer.KindPrint:
		return p.parsePrintStmt()
	default:
		return nil, p.errUnexpected("a statement")
	}
}

func (p *Parser) parseLetStmt() (ast.Statement, error) {
	letTok := p.curTok
	p.nextToken() // skip 'let'

	if p.curTok.Kind != lexer.KindIdentifier {
		return nil, p.errUnexpected("identifier after 'let'")
	}
	name := p.curTok.Text(p.src)
	p.nextToken()

	if err := p.expect(lexer.KindAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.LetStmt{Token: letTok, Name: name, Value: value}, nil
}

func (p *Parser) parseAssignStmt() (ast.Statement, error) {
	nameTok := p.curTok
	name := nameTok.Text(p.src)
	p.nextToken()

	if err := p.expect(lexer.KindAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.AssignStmt{Token: nameTok, Name: name, Value: value}, nil
}

func (p *Parser) parseIfStmt() (ast.Statement, error) {
	ifTok := p.curTok
	p.nextToken() // skip 'if'

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBranch []ast.Statement
	if p.curTok.Kind == lexer.KindElse {
		p.nextToken() // skip 'else'
		elseBranch, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{Token: ifTok, Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) parseWhileStmt() (ast.Statement, error) {
	whileTok := p.curTok
	p.nextToken() // skip 'while'

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{Token: whileTok, Cond: cond, Body: body}, nil
}

func (p *Parser) parsePrintStmt() (ast.Statement, error) {
	printTok := p.curTok
	p.nextToken() // skip 'print'

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.PrintStmt{Token: printTok, Value: value}, nil
}

// parseBlock reads either a single statement or a parenthesized statement
// sequence. The language uses '(' ... ')' for multi-statement blocks.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if p.curTok.Kind != lexer.KindLParen {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return []ast.Statement{stmt}, nil
	}

	p.nextToken() // skip '('
	var stmts []ast.Statement
	for p.curTok.Kind != lexer.KindRParen {
		if p.curTok.Kind == lexer.KindEOF {
			return nil, p.errUnexpected("')' to close block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.nextToken() // skip ')'

	return stmts, nil
}

// Expression precedence ladder, loosest to tightest:
// comparison -> additive -> multiplicative -> primary. Every binary tier
// is left-associative.

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.curTok.Kind {
		case lexer.KindEq:
			op = ast.OpEq
		case lexer.KindLess:
			op = ast.OpLess
		case lexer.KindGreater:
			op = ast.OpGreater
		default:
			return expr, nil
		}
		opTok := p.curTok
		p.nextToken()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Token: opTok, Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.curTok.Kind {
		case lexer.KindPlus:
			op = ast.OpAdd
		case lexer.KindMinus:
			op = ast.OpSub
		default:
			return expr, nil
		}
		opTok := p.curTok
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Token: opTok, Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.curTok.Kind {
		case lexer.KindStar:
			op = ast.OpMul
		case lexer.KindSlash:
			op = ast.OpDiv
		default:
			return expr, nil
		}
		opTok := p.curTok
		p.nextToken()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Token: opTok, Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.curTok.Kind {
	case lexer.KindNumber:
		tok := p.curTok
		val, err := strconv.ParseInt(tok.Text(p.src), 10, 64)
		if err != nil {
			// The scanner guarantees the digits fit in int64.
			return nil, fmt.Errorf("line %d: bad integer literal %s", tok.Line, tok.Text(p.src))
		}
		p.nextToken()
		return &ast.NumberLiteral{Token: tok, Value: val}, nil
	case lexer.KindIdentifier:
		tok := p.curTok
		p.nextToken()
		return &ast.Identifier{Token: tok, Name: tok.Text(p.src)}, nil
	case lexer.KindLParen:
		p.nextToken() // skip '('
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.KindRParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errUnexpected("an expression")
	}
}
