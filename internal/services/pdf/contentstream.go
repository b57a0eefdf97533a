package pdf

import (
	"strconv"
	"strings"
)

// operand is a value on the content stream operand stack.
type operand struct {
	str   []byte
	num   float64
	isStr bool
	isNum bool
	arr   []operand
	isArr bool
}

// kerningSpace is the TJ adjustment, in thousandths of an em, treated as a
// word gap.
const kerningSpace = -250

// TextFromContentStream returns the text shown by a decoded page content
// stream. Text objects and line moves become line breaks. Strings are
// decoded as single-byte text, so composite (CID) fonts are not readable.
func TextFromContentStream(data []byte) string {
	var out strings.Builder
	var operands []operand
	var arrays [][]operand

	newline := func() {
		s := out.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			out.WriteByte('\n')
		}
	}
	write := func(b []byte) {
		for _, c := range b {
			out.WriteRune(rune(c))
		}
	}
	push := func(op operand) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], op)
			return
		}
		operands = append(operands, op)
	}
	lastString := func() []byte {
		for i := len(operands) - 1; i >= 0; i-- {
			if operands[i].isStr {
				return operands[i].str
			}
		}
		return nil
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := readLiteralString(data[i:])
			push(operand{str: s, isStr: true})
			i += n
		case c == '<':
			if i+1 < len(data) && data[i+1] == '<' {
				i += 2
				continue
			}
			s, n := readHexString(data[i:])
			push(operand{str: s, isStr: true})
			i += n
		case c == '>':
			i++
		case c == '[':
			arrays = append(arrays, nil)
			i++
		case c == ']':
			if n := len(arrays); n > 0 {
				arr := arrays[n-1]
				arrays = arrays[:n-1]
				push(operand{arr: arr, isArr: true})
			}
			i++
		case c == '/':
			j := i + 1
			for j < len(data) && isRegular(data[j]) {
				j++
			}
			push(operand{})
			i = j
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(data) && (data[j] == '.' || (data[j] >= '0' && data[j] <= '9')) {
				j++
			}
			v, _ := strconv.ParseFloat(string(data[i:j]), 64)
			push(operand{num: v, isNum: true})
			i = j
		default:
			j := i
			for j < len(data) && isRegular(data[j]) {
				j++
			}
			if j == i {
				// Unexpected delimiter such as '{' or '}'
				i++
				continue
			}
			op := string(data[i:j])
			i = j

			switch op {
			case "BT", "T*":
				newline()
			case "Tj":
				write(lastString())
			case "'", "\"":
				newline()
				write(lastString())
			case "TJ":
				if n := len(operands); n > 0 && operands[n-1].isArr {
					for _, el := range operands[n-1].arr {
						switch {
						case el.isStr:
							write(el.str)
						case el.isNum && el.num < kerningSpace:
							if s := out.String(); len(s) > 0 && !strings.HasSuffix(s, " ") {
								out.WriteByte(' ')
							}
						}
					}
				}
			case "Td", "TD":
				if n := len(operands); n >= 2 && operands[n-1].isNum && operands[n-1].num != 0 {
					newline()
				}
			case "ID":
				i = skipInlineImage(data, i)
			}
			operands = operands[:0]
		}
	}

	return strings.TrimSpace(out.String())
}

// skipInlineImage returns the offset just past the EI operator that ends
// inline image data starting at from.
func skipInlineImage(data []byte, from int) int {
	for j := from; j+1 < len(data); j++ {
		if data[j] != 'E' || data[j+1] != 'I' {
			continue
		}
		if j > 0 && isWhitespace(data[j-1]) && (j+2 == len(data) || isWhitespace(data[j+2])) {
			return j + 2
		}
	}
	return len(data)
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

// readLiteralString reads a balanced (...) string starting at data[0] and
// returns its decoded bytes and the number of input bytes consumed.
func readLiteralString(data []byte) ([]byte, int) {
	var out []byte
	depth := 0
	i := 0
	for i < len(data) {
		c := data[i]
		switch c {
		case '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return out, i
			}
			out = append(out, c)
		case '\\':
			i++
			if i >= len(data) {
				return out, i
			}
			e := data[i]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := 0
					j := 0
					for j < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7' {
						v = v*8 + int(data[i]-'0')
						i++
						j++
					}
					out = append(out, byte(v))
					continue
				}
				out = append(out, e)
			}
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out, i
}

// readHexString reads a <...> string starting at data[0].
func readHexString(data []byte) ([]byte, int) {
	var digits []byte
	i := 1
	for i < len(data) && data[i] != '>' {
		if isHexDigit(data[i]) {
			digits = append(digits, data[i])
		}
		i++
	}
	if i < len(data) {
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for j := 0; j < len(digits); j += 2 {
		v, _ := strconv.ParseUint(string(digits[j:j+2]), 16, 8)
		out = append(out, byte(v))
	}
	return out, i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
