package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrInvalidOpcode  = errors.New("vm: invalid opcode")
	ErrOutOfMemory    = errors.New("vm: out of memory")
	ErrDivisionByZero = errors.New("vm: division by zero")
	ErrTruncated      = errors.New("vm: truncated program")
)

// Machine executes a single bytecode program. It owns its stack, memory
// and program counter for its whole lifetime; the only mutations are the
// defined instruction effects. A halted machine stays halted.
type Machine struct {
	pc         int
	stack      []int64
	program    []byte
	memory     map[int64]int64
	stackLimit int
	running    bool
	halted     bool

	// Out receives one "Output: <n>" line per print instruction.
	Out io.Writer
}

// NewMachine creates a machine for the given bytecode with a positive
// operand-stack capacity bound.
func NewMachine(program []byte, stackLimit int) *Machine {
	return &Machine{
		stack:      make([]int64, 0, stackLimit),
		program:    program,
		memory:     make(map[int64]int64),
		stackLimit: stackLimit,
		Out:        os.Stdout,
	}
}

func (m *Machine) push(v int64) error {
	if len(m.stack) >= m.stackLimit {
		return ErrStackOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop() (int64, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *Machine) fetch() (uint8, error) {
	if m.pc >= len(m.program) {
		return 0, fmt.Errorf("%w: no opcode at offset %d", ErrTruncated, m.pc)
	}
	op := m.program[m.pc]
	m.pc++
	return op, nil
}

func (m *Machine) fetchInt64() (int64, error) {
	if m.pc+8 > len(m.program) {
		return 0, fmt.Errorf("%w: operand runs past end at offset %d", ErrTruncated, m.pc)
	}
	v := int64(binary.LittleEndian.Uint64(m.program[m.pc : m.pc+8]))
	m.pc += 8
	return v, nil
}

// jumpTo validates a popped jump target against the program bounds and
// moves the program counter there.
func (m *Machine) jumpTo(addr int64) error {
	if addr < 0 || addr >= int64(len(m.program)) {
		return fmt.Errorf("%w: jump target %d", ErrOutOfMemory, addr)
	}
	m.pc = int(addr)
	return nil
}

// ExecuteNext runs a single instruction. It reports false once the machine
// has executed halt; any error is fatal and leaves the machine stopped.
func (m *Machine) ExecuteNext() (bool, error) {
	if m.halted {
		return false, nil
	}

	op, err := m.fetch()
	if err != nil {
		return false, err
	}

	switch op {
	case OP_PUSH:
		v, err := m.fetchInt64()
		if err != nil {
			return false, err
		}
		if err := m.push(v); err != nil {
			return false, err
		}

	case OP_POP:
		if _, err := m.pop(); err != nil {
			return false, err
		}

	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		b, err := m.pop()
		if err != nil {
			return false, err
		}
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		var v int64
		switch op {
		case OP_ADD:
			v = a + b
		case OP_SUB:
			v = a - b
		case OP_MUL:
			v = a * b
		case OP_DIV:
			if b == 0 {
				return false, ErrDivisionByZero
			}
			v = a / b
		}
		if err := m.push(v); err != nil {
			return false, err
		}

	case OP_LOAD:
		addr, err := m.pop()
		if err != nil {
			return false, err
		}
		// Unset addresses read as zero.
		if err := m.push(m.memory[addr]); err != nil {
			return false, err
		}

	case OP_STORE:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		addr, err := m.pop()
		if err != nil {
			return false, err
		}
		m.memory[addr] = v

	case OP_JMP:
		addr, err := m.pop()
		if err != nil {
			return false, err
		}
		if err := m.jumpTo(addr); err != nil {
			return false, err
		}

	case OP_JMP_IF:
		addr, err := m.pop()
		if err != nil {
			return false, err
		}
		cond, err := m.pop()
		if err != nil {
			return false, err
		}
		if cond != 0 {
			if err := m.jumpTo(addr); err != nil {
				return false, err
			}
		}

	case OP_EQ, OP_LT, OP_LE, OP_GE:
		b, err := m.pop()
		if err != nil {
			return false, err
		}
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		var hit bool
		switch op {
		case OP_EQ:
			hit = a == b
		case OP_LT:
			hit = a < b
		case OP_LE:
			hit = a <= b
		case OP_GE:
			hit = a >= b
		}
		var v int64
		if hit {
			v = 1
		}
		if err := m.push(v); err != nil {
			return false, err
		}

	case OP_PRINT:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(m.Out, "Output: %d\n", v)

	case OP_HALT:
		m.running = false
		m.halted = true
		return false, nil

	default:
		return false, fmt.Errorf("%w 0x%02X at offset %d", ErrInvalidOpcode, op, m.pc-1)
	}

	return true, nil
}

// Run drives ExecuteNext until halt or the first fatal error.
func (m *Machine) Run() error {
	m.running = true
	for m.running {
		more, err := m.ExecuteNext()
		if err != nil {
			m.running = false
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

// Halted reports whether the machine has executed a halt instruction.
func (m *Machine) Halted() bool {
	return m.halted
}

// PC returns the current program counter.
func (m *Machine) PC() int {
	return m.pc
}

// Stack returns the operand stack, bottom first.
func (m *Machine) Stack() []int64 {
	return m.stack
}

// Memory returns the address to value mapping written so far.
func (m *Machine) Memory() map[int64]int64 {
	return m.memory
}
