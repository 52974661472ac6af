package encoder

// Flags controls how the final document is written. The values line up with
// the json_encode option bits frameworks commonly pass around, so an integer
// taken from a view variable can be used as is.
type Flags int

const (
	// HexTag escapes < and > inside strings as \u003C and \u003E.
	HexTag Flags = 1
	// HexAmp escapes & inside strings as \u0026.
	HexAmp Flags = 2
	// HexApos escapes ' inside strings as \u0027.
	HexApos Flags = 4
	// HexQuot escapes " inside strings as \u0022.
	HexQuot Flags = 8
	// UnescapedSlashes is accepted for compatibility. Slashes are never
	// escaped.
	UnescapedSlashes Flags = 64
	// PrettyPrint indents the document with four spaces.
	PrettyPrint Flags = 128

	// HTMLSafe is the default flag set: every HTML-significant character in a
	// string is hex escaped.
	HTMLSafe = HexTag | HexApos | HexAmp | HexQuot
)

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}
