package render

import (
	"bytes"
	"strings"
)

// CommentStyle selects how doc comments are written.
type CommentStyle int

const (
	// CommentJSDoc writes /** ... */ blocks.
	CommentJSDoc CommentStyle = iota
	// CommentTripleSlash writes /// lines.
	CommentTripleSlash
	// CommentLine writes // lines.
	CommentLine
)

// Source accumulates generated source text with indentation tracking. Every
// renderer embeds one; it knows nothing about any particular language beyond
// the indent unit and comment style it was created with.
type Source struct {
	buf     bytes.Buffer
	unit    string
	level   int
	comment CommentStyle

	// pendingBlank is set by Blank and flushed before the next line, so
	// blank lines never trail a file or double up.
	pendingBlank bool
}

// NewSource returns a Source that indents by unit.
func NewSource(unit string, comment CommentStyle) *Source {
	return &Source{unit: unit, comment: comment}
}

// Line writes the concatenation of parts as one indented line.
func (s *Source) Line(parts ...string) {
	text := strings.Join(parts, "")
	if s.pendingBlank && s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.pendingBlank = false
	if text != "" {
		for i := 0; i < s.level; i++ {
			s.buf.WriteString(s.unit)
		}
		s.buf.WriteString(text)
	}
	s.buf.WriteByte('\n')
}

// Blank requests a blank line before the next line written.
func (s *Source) Blank() {
	s.pendingBlank = true
}

// Indent runs body one level deeper.
func (s *Source) Indent(body func()) {
	s.level++
	body()
	s.level--
}

// Block writes header followed by " {", the indented body, and a closing
// "}" followed by trailer.
func (s *Source) Block(header, trailer string, body func()) {
	s.Line(header, " {")
	s.pendingBlank = false
	s.Indent(body)
	s.pendingBlank = false
	s.Line("}", trailer)
}

// Description writes text as a doc comment. Empty text writes nothing.
func (s *Source) Description(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.Comment(strings.Split(text, "\n")...)
}

// Comment writes lines as a doc comment in the source's comment style.
func (s *Source) Comment(lines ...string) {
	if len(lines) == 0 {
		return
	}
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimRight(l, " \t\r")
	}
	lines = trimmed
	switch s.comment {
	case CommentJSDoc:
		if len(lines) == 1 {
			s.Line("/** ", lines[0], " */")
			return
		}
		s.Line("/**")
		for _, l := range lines {
			s.Line(strings.TrimRight(" * "+l, " "))
		}
		s.Line(" */")
	case CommentTripleSlash:
		for _, l := range lines {
			s.Line(strings.TrimRight("/// "+l, " "))
		}
	default:
		for _, l := range lines {
			s.Line(strings.TrimRight("// "+l, " "))
		}
	}
}

// Bytes returns the accumulated source.
func (s *Source) Bytes() []byte {
	return s.buf.Bytes()
}

// String returns the accumulated source as a string.
func (s *Source) String() string {
	return s.buf.String()
}
