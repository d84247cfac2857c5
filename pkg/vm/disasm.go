package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Disassemble writes one line per instruction to w in the form
//
//	<offset> <mnemonic> [operand]
//
// It fails on an unknown opcode byte or a push whose operand runs past the
// end of the buffer, so a clean disassembly also proves every instruction
// starts on a valid boundary.
func Disassemble(program []byte, w io.Writer) error {
	for i := 0; i < len(program); {
		op := program[i]
		name := OpName(op)
		if name == "" {
			return fmt.Errorf("%w 0x%02X at offset %d", ErrInvalidOpcode, op, i)
		}

		if op == OP_PUSH {
			if i+9 > len(program) {
				return fmt.Errorf("%w: operand runs past end at offset %d", ErrTruncated, i+1)
			}
			v := int64(binary.LittleEndian.Uint64(program[i+1 : i+9]))
			fmt.Fprintf(w, "%4d %-12s %d\n", i, name, v)
			i += 9
			continue
		}

		fmt.Fprintf(w, "%4d %s\n", i, name)
		i++
	}
	return nil
}

// InstructionOffsets returns the starting offset of every instruction in
// the program, or an error if the buffer does not decode cleanly.
func InstructionOffsets(program []byte) ([]int, error) {
	var offsets []int
	for i := 0; i < len(program); {
		op := program[i]
		if OpName(op) == "" {
			return nil, fmt.Errorf("%w 0x%02X at offset %d", ErrInvalidOpcode, op, i)
		}
		offsets = append(offsets, i)
		if op == OP_PUSH {
			if i+9 > len(program) {
				return nil, fmt.Errorf("%w: operand runs past end at offset %d", ErrTruncated, i+1)
			}
			i += 9
		} else {
			i++
		}
	}
	return offsets, nil
}
