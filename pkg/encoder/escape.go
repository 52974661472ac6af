package encoder

import "bytes"

// escapeStrings rewrites HTML-significant characters inside JSON string
// literals according to flags. It relies on the input being valid JSON: every
// quote inside a string is already backslash escaped.
func escapeStrings(in []byte, flags Flags) []byte {
	if !flags.Has(HexTag) && !flags.Has(HexAmp) && !flags.Has(HexApos) && !flags.Has(HexQuot) {
		return in
	}

	var out bytes.Buffer
	out.Grow(len(in))

	inString := false
	for i := 0; i < len(in); i++ {
		c := in[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = false
			out.WriteByte(c)
		case '\\':
			if i+1 >= len(in) {
				out.WriteByte(c)
				continue
			}
			next := in[i+1]
			i++
			if next == '"' && flags.Has(HexQuot) {
				out.WriteString(`\u0022`)
				continue
			}
			out.WriteByte(c)
			out.WriteByte(next)
		case '<':
			writeEscaped(&out, c, flags.Has(HexTag), `\u003C`)
		case '>':
			writeEscaped(&out, c, flags.Has(HexTag), `\u003E`)
		case '&':
			writeEscaped(&out, c, flags.Has(HexAmp), `\u0026`)
		case '\'':
			writeEscaped(&out, c, flags.Has(HexApos), `\u0027`)
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}

func writeEscaped(out *bytes.Buffer, c byte, enabled bool, escaped string) {
	if enabled {
		out.WriteString(escaped)
		return
	}
	out.WriteByte(c)
}
