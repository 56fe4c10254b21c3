package bytecode

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Checksum computes the 32-bit FNV-1a hash (prime 0x01000193, offset
// 0x811c9dc5 — hash/fnv.New32a implements exactly these constants) over the
// canonical serialization described in spec section 4.4: var_count, then
// each instruction as "opcode_int:operand;", then each constant in its
// tagged form, then each global name, each section separated by "|".
func Checksum(b *Bytecode) uint32 {
	h := fnv.New32a()
	h.Write([]byte(canonicalForm(b)))
	return h.Sum32()
}

func canonicalForm(b *Bytecode) string {
	var sb strings.Builder

	sb.WriteString(strconv.Itoa(b.VarCount))
	sb.WriteByte('|')

	for _, ins := range b.Instructions {
		sb.WriteString(strconv.Itoa(int(ins.Op)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(ins.Operand))
		sb.WriteByte(';')
	}
	sb.WriteByte('|')

	for _, c := range b.Constants {
		switch c.Kind {
		case ConstNone:
			sb.WriteString("m;")
		case ConstNumber:
			sb.WriteString("d:")
			sb.WriteString(strconv.FormatFloat(c.Number, 'g', -1, 64))
			sb.WriteByte(';')
		case ConstBool:
			sb.WriteString("b:")
			if c.Bool {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
			sb.WriteByte(';')
		case ConstString:
			sb.WriteString("s:")
			sb.WriteString(strconv.Itoa(len(c.Str)))
			sb.WriteByte(':')
			sb.WriteString(c.Str)
			sb.WriteByte(';')
		case ConstSeries:
			sb.WriteString("r:")
			sb.WriteString(strconv.Itoa(len(c.SeriesName)))
			sb.WriteByte(':')
			sb.WriteString(c.SeriesName)
			sb.WriteByte(';')
		case ConstFuncRef:
			sb.WriteString("f:")
			sb.WriteString(strconv.Itoa(len(c.Str)))
			sb.WriteByte(':')
			sb.WriteString(c.Str)
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(c.Argc))
			sb.WriteByte(';')
		}
	}
	sb.WriteByte('|')

	for _, g := range b.Globals {
		sb.WriteString(g)
		sb.WriteByte(';')
	}

	return sb.String()
}
