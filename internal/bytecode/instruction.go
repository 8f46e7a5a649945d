package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Make encodes a single instruction: the opcode byte, followed by its
// 2-byte big-endian operand when the opcode takes one.
func Make(op OpCode, operand int) []byte {
	if !HasOperand(op) {
		return []byte{byte(op)}
	}
	buf := make([]byte, 3)
	buf[0] = byte(op)
	binary.BigEndian.PutUint16(buf[1:], uint16(operand))
	return buf
}

// ReadOperand decodes the 2-byte big-endian operand starting at code[pos].
func ReadOperand(code []byte, pos int) uint16 {
	return binary.BigEndian.Uint16(code[pos : pos+2])
}

// Disassemble renders code as a human-readable instruction listing. Const
// and name operands are rendered via constRepr/names when available;
// pretty-printing is deliberately minimal, covering the opcode table
// itself rather than a general disassembler UI.
func Disassemble(code []byte, constReprs []string, names []string) string {
	var sb strings.Builder
	pos := 0
	for pos < len(code) {
		op := OpCode(code[pos])
		line := fmt.Sprintf("%04d %s", pos, op)

		if HasOperand(op) {
			operand := int(ReadOperand(code, pos+1))
			line += fmt.Sprintf(" %d%s", operand, operandHint(op, operand, constReprs, names))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		pos += Width(op)
	}
	return sb.String()
}

func operandHint(op OpCode, operand int, constReprs, names []string) string {
	switch op {
	case LoadConst:
		if operand >= 0 && operand < len(constReprs) {
			return fmt.Sprintf(" (%s)", constReprs[operand])
		}
	case StoreName, LoadName, LoadAttr, StoreAttr:
		if operand >= 0 && operand < len(names) {
			return fmt.Sprintf(" (%s)", names[operand])
		}
	}
	return ""
}
