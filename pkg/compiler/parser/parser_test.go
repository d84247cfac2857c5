package parser_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/agenthands/imp/pkg/compiler/ast"
	"github.com/agenthands/imp/pkg/compiler/lexer"
	"github.com/agenthands/imp/pkg/compiler/parser"
)

func parse(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	b := []byte(src)
	s := lexer.NewScanner(b)
	p := parser.NewParser(s, b)
	return p.Parse()
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parse(t, src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return prog
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{
			name:    "valid let",
			src:     "let x = 1;",
			wantErr: false,
		},
		{
			name:    "valid assignment",
			src:     "x = 1 + 2;",
			wantErr: false,
		},
		{
			name:    "valid if else",
			src:     "if x < 1 print x; else print 0;",
			wantErr: false,
		},
		{
			name:    "valid while with block",
			src:     "while x < 3 ( print x; x = x + 1; )",
			wantErr: false,
		},
		{
			name:    "missing semicolon",
			src:     "let x = 1",
			wantErr: true,
		},
		{
			name:    "missing initializer",
			src:     "let x;",
			wantErr: true,
		},
		{
			name:    "let without identifier",
			src:     "let 5 = 1;",
			wantErr: true,
		},
		{
			name:    "unclosed block",
			src:     "while x < 3 ( print x;",
			wantErr: true,
		},
		{
			name:    "unclosed parenthesized expression",
			src:     "print (1 + 2;",
			wantErr: true,
		},
		{
			name:    "dangling else",
			src:     "else print 1;",
			wantErr: true,
		},
		{
			name:    "missing operand",
			src:     "print 1 + ;",
			wantErr: true,
		},
		{
			name:    "bare expression statement",
			src:     "1 + 2;",
			wantErr: true,
		},
		{
			name:    "illegal character",
			src:     "let x = 1 @ 2;",
			wantErr: true,
		},
		{
			name:    "oversized literal",
			src:     "let x = 99999999999999999999;",
			wantErr: true,
		},
		{
			name:    "empty program",
			src:     "",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.src)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let x = 1", "expected ';', got end of input"},
		{"let 5 = 1;", "identifier after 'let'"},
		{"let x = 1 @ 2;", `illegal character "@"`},
		{"print 99999999999999999999;", "overflows a 64-bit integer"},
	}

	for _, tt := range tests {
		_, err := parse(t, tt.src)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tt.src)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Parse(%q) error = %q, want it to mention %q", tt.src, err, tt.want)
		}
	}
}

// stripTokens zeroes out token position data so structural comparisons only
// look at the shape of the tree.
func stripTokens(prog *ast.Program) {
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		switch x := e.(type) {
		case *ast.NumberLiteral:
			x.Token = lexer.Token{}
		case *ast.Identifier:
			x.Token = lexer.Token{}
		case *ast.BinaryExpr:
			x.Token = lexer.Token{}
			walkExpr(x.Left)
			walkExpr(x.Right)
		}
	}
	var walkStmts func([]ast.Statement)
	walkStmts = func(stmts []ast.Statement) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.LetStmt:
				s.Token = lexer.Token{}
				walkExpr(s.Value)
			case *ast.AssignStmt:
				s.Token = lexer.Token{}
				walkExpr(s.Value)
			case *ast.IfStmt:
				s.Token = lexer.Token{}
				walkExpr(s.Cond)
				walkStmts(s.Then)
				walkStmts(s.Else)
			case *ast.WhileStmt:
				s.Token = lexer.Token{}
				walkExpr(s.Cond)
				walkStmts(s.Body)
			case *ast.PrintStmt:
				s.Token = lexer.Token{}
				walkExpr(s.Value)
			}
		}
	}
	walkStmts(prog.Statements)
}

func assertTree(t *testing.T, src string, want *ast.Program) {
	t.Helper()
	got := mustParse(t, src)
	stripTokens(got)
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("Parse(%q) tree mismatch:\n%s", src, strings.Join(diff, "\n"))
	}
}

func TestPrecedence(t *testing.T) {
	// x + y * 2 groups as x + (y * 2).
	assertTree(t, "print x + y * 2;", &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{
				Value: &ast.BinaryExpr{
					Op:   ast.OpAdd,
					Left: &ast.Identifier{Name: "x"},
					Right: &ast.BinaryExpr{
						Op:    ast.OpMul,
						Left:  &ast.Identifier{Name: "y"},
						Right: &ast.NumberLiteral{Value: 2},
					},
				},
			},
		},
	})

	// a < b + 1 groups as a < (b + 1).
	assertTree(t, "print a < b + 1;", &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{
				Value: &ast.BinaryExpr{
					Op:   ast.OpLess,
					Left: &ast.Identifier{Name: "a"},
					Right: &ast.BinaryExpr{
						Op:    ast.OpAdd,
						Left:  &ast.Identifier{Name: "b"},
						Right: &ast.NumberLiteral{Value: 1},
					},
				},
			},
		},
	})
}

func TestLeftAssociativity(t *testing.T) {
	// 8 - 4 - 2 groups as (8 - 4) - 2.
	assertTree(t, "print 8 - 4 - 2;", &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{
				Value: &ast.BinaryExpr{
					Op: ast.OpSub,
					Left: &ast.BinaryExpr{
						Op:    ast.OpSub,
						Left:  &ast.NumberLiteral{Value: 8},
						Right: &ast.NumberLiteral{Value: 4},
					},
					Right: &ast.NumberLiteral{Value: 2},
				},
			},
		},
	})
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	// (x + y) * 2 keeps the addition inside.
	assertTree(t, "print (x + y) * 2;", &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{
				Value: &ast.BinaryExpr{
					Op: ast.OpMul,
					Left: &ast.BinaryExpr{
						Op:    ast.OpAdd,
						Left:  &ast.Identifier{Name: "x"},
						Right: &ast.Identifier{Name: "y"},
					},
					Right: &ast.NumberLiteral{Value: 2},
				},
			},
		},
	})
}

func TestBlockForms(t *testing.T) {
	// A single statement counts as a block.
	prog := mustParse(t, "if x < 1 print x;")
	ifStmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Statements[0])
	}
	if len(ifStmt.Then) != 1 {
		t.Errorf("expected a 1-statement then block, got %d", len(ifStmt.Then))
	}
	if ifStmt.Else != nil {
		t.Errorf("expected absent else branch, got %d statements", len(ifStmt.Else))
	}

	// Parenthesized blocks hold ordered sequences.
	prog = mustParse(t, "if x < 1 ( print x; x = x + 1; ) else ( print 0; )")
	ifStmt = prog.Statements[0].(*ast.IfStmt)
	if len(ifStmt.Then) != 2 {
		t.Errorf("expected a 2-statement then block, got %d", len(ifStmt.Then))
	}
	if len(ifStmt.Else) != 1 {
		t.Errorf("expected a 1-statement else block, got %d", len(ifStmt.Else))
	}
}

func TestComparisonChainsLeftAssociative(t *testing.T) {
	// All comparison operators share a tier: a < b == c groups as (a < b) == c.
	assertTree(t, "print a < b == c;", &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{
				Value: &ast.BinaryExpr{
					Op: ast.OpEq,
					Left: &ast.BinaryExpr{
						Op:    ast.OpLess,
						Left:  &ast.Identifier{Name: "a"},
						Right: &ast.Identifier{Name: "b"},
					},
					Right: &ast.Identifier{Name: "c"},
				},
			},
		},
	})
}
