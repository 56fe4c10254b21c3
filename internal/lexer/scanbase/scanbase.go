// Package scanbase holds the rune-scanning primitives shared by all three
// dialect lexers: a forward-scan cursor over a rune slice with one- and
// two-character lookahead, in the style of informatter-nilan/lexer/lexer.go
// generalized so save/restore of the scan position is possible (needed for
// the parser's one-token lookahead, spec section 4.1).
package scanbase

// Base is embedded by each dialect's Lexer. It owns the cursor state only;
// token production, keyword tables and whitespace/comment rules are
// dialect-specific and live in each lexer package.
type Base struct {
	Characters   []rune
	Position     int
	ReadPosition int
	Current      rune
	Line         int
	Column       int
}

// New creates a Base positioned at the first character of input.
func New(input string) Base {
	b := Base{Characters: []rune(input)}
	b.ReadChar()
	return b
}

// IsFinished reports whether the cursor has consumed all input.
func (b *Base) IsFinished() bool {
	return b.ReadPosition >= len(b.Characters)
}

// advance moves Position to ReadPosition and bumps ReadPosition/Column.
func (b *Base) advance() {
	b.Position = b.ReadPosition
	b.ReadPosition++
	b.Column++
}

// ReadChar consumes the next character into Current, or rune(0) at EOF.
func (b *Base) ReadChar() {
	if b.IsFinished() {
		b.Current = 0
	} else {
		b.Current = b.Characters[b.ReadPosition]
	}
	b.advance()
}

// Peek returns the character at ReadPosition without consuming it.
func (b *Base) Peek() rune {
	if b.IsFinished() {
		return 0
	}
	return b.Characters[b.ReadPosition]
}

// PeekNext returns the character one past ReadPosition without consuming
// anything.
func (b *Base) PeekNext() rune {
	next := b.ReadPosition + 1
	if next >= len(b.Characters) {
		return 0
	}
	return b.Characters[next]
}

// IsMatch consumes the next character and returns true if it equals
// expected, leaving the cursor untouched otherwise. Used for two-character
// operators ("==", "<=", ":=", ...).
func (b *Base) IsMatch(expected rune) bool {
	if b.IsFinished() {
		return false
	}
	if b.Characters[b.ReadPosition] == expected {
		b.ReadPosition++
		return true
	}
	return false
}

// NewLine records a newline: bumps the line counter and resets Column.
func (b *Base) NewLine() {
	b.Line++
	b.Column = 0
}

// IsIdentStart reports whether r can start an identifier: ASCII letters,
// underscore, or any non-ASCII rune (code point >= 0x80) — the latter lets
// CJK identifiers (Hithink scripts commonly use Chinese variable names)
// survive unchanged, per spec section 4.1.
func IsIdentStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r >= 0x80
}

// IsIdentContinue reports whether r can continue an identifier: the above
// plus ASCII digits.
func IsIdentContinue(r rune) bool {
	return IsIdentStart(r) || IsDigit(r)
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
