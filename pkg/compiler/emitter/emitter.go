package emitter

import (
	"encoding/binary"

	"github.com/agenthands/imp/pkg/compiler/ast"
	"github.com/agenthands/imp/pkg/vm"
)

// Emitter compiles a statement sequence into a flat bytecode program in a
// single post-order walk. Jump targets are always pushed on the operand
// stack ahead of the jump opcode; forward targets are backpatched into the
// push's operand bytes once the destination offset is known.
//
// Compilation cannot fail: variable addresses are allocated on first
// reference, declarations and plain assignments included.
type Emitter struct {
	code     []byte
	vars     map[string]int64
	nextAddr int64
}

func NewEmitter() *Emitter {
	return &Emitter{
		vars: make(map[string]int64),
	}
}

// Emit compiles the program and returns the owned bytecode, always
// terminated by a halt instruction.
func (e *Emitter) Emit(prog *ast.Program) []byte {
	e.emitStatements(prog.Statements)
	e.emit(vm.OP_HALT)
	return e.code
}

// Vars returns the variable table built during compilation: name to
// memory address, dense from zero in order of first reference.
func (e *Emitter) Vars() map[string]int64 {
	return e.vars
}

func (e *Emitter) emitStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		e.emitStatement(stmt)
	}
}

func (e *Emitter) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		e.emitStore(s.Name, s.Value)
	case *ast.AssignStmt:
		e.emitStore(s.Name, s.Value)
	case *ast.IfStmt:
		e.emitIf(s)
	case *ast.WhileStmt:
		e.emitWhile(s)
	case *ast.PrintStmt:
		e.emitExpr(s.Value)
		e.emit(vm.OP_PRINT)
	}
}

// emitStore compiles NAME = EXPR. The store instruction pops the value and
// then the address, so the address goes on the stack first.
func (e *Emitter) emitStore(name string, value ast.Expr) {
	e.emitPush(e.addr(name))
	e.emitExpr(value)
	e.emit(vm.OP_STORE)
}

func (e *Emitter) emitIf(s *ast.IfStmt) {
	e.emitExpr(s.Cond)
	elsePatch := e.emitBranchIfFalse()

	e.emitStatements(s.Then)
	endPatch := e.emitBranch()

	e.patch(elsePatch, int64(len(e.code)))
	e.emitStatements(s.Else)
	e.patch(endPatch, int64(len(e.code)))
}

func (e *Emitter) emitWhile(s *ast.WhileStmt) {
	start := int64(len(e.code))

	e.emitExpr(s.Cond)
	exitPatch := e.emitBranchIfFalse()

	e.emitStatements(s.Body)
	e.emitPush(start)
	e.emit(vm.OP_JMP)

	e.patch(exitPatch, int64(len(e.code)))
}

func (e *Emitter) emitExpr(expr ast.Expr) {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		e.emitPush(x.Value)

	case *ast.Identifier:
		e.emitPush(e.addr(x.Name))
		e.emit(vm.OP_LOAD)

	case *ast.BinaryExpr:
		// a > b lowers to b < a by compiling the right operand first.
		if x.Op == ast.OpGreater {
			e.emitExpr(x.Right)
			e.emitExpr(x.Left)
			e.emit(vm.OP_LT)
			return
		}

		e.emitExpr(x.Left)
		e.emitExpr(x.Right)
		switch x.Op {
		case ast.OpAdd:
			e.emit(vm.OP_ADD)
		case ast.OpSub:
			e.emit(vm.OP_SUB)
		case ast.OpMul:
			e.emit(vm.OP_MUL)
		case ast.OpDiv:
			e.emit(vm.OP_DIV)
		case ast.OpEq:
			e.emit(vm.OP_EQ)
		case ast.OpLess:
			e.emit(vm.OP_LT)
		}
	}
}

// addr resolves a variable name to its memory address, allocating the next
// dense address on first reference.
func (e *Emitter) addr(name string) int64 {
	if addr, ok := e.vars[name]; ok {
		return addr
	}
	addr := e.nextAddr
	e.vars[name] = addr
	e.nextAddr++
	return addr
}

func (e *Emitter) emit(op uint8) {
	e.code = append(e.code, op)
}

func (e *Emitter) emitInt64(v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	e.code = append(e.code, buf[:]...)
}

func (e *Emitter) emitPush(v int64) {
	e.emit(vm.OP_PUSH)
	e.emitInt64(v)
}

// emitBranch emits an unconditional branch with a placeholder target and
// returns the offset of the operand bytes to patch.
func (e *Emitter) emitBranch() int {
	e.emit(vm.OP_PUSH)
	pos := len(e.code)
	e.emitInt64(0)
	e.emit(vm.OP_JMP)
	return pos
}

// emitBranchIfFalse emits a branch taken when the value on top of the
// stack is zero. The conditional jump fires on non-zero, so the condition
// is inverted with an equality test against zero before the target push.
// Returns the offset of the placeholder operand bytes.
func (e *Emitter) emitBranchIfFalse() int {
	e.emitPush(0)
	e.emit(vm.OP_EQ)
	e.emit(vm.OP_PUSH)
	pos := len(e.code)
	e.emitInt64(0)
	e.emit(vm.OP_JMP_IF)
	return pos
}

// patch overwrites placeholder operand bytes with the resolved target.
func (e *Emitter) patch(pos int, target int64) {
	binary.LittleEndian.PutUint64(e.code[pos:pos+8], uint64(target))
}
