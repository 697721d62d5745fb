package document

import (
	"strings"
	"unicode/utf8"
)

// Accessor abstracts a text buffer with rows and columns. The engine
// depends on this interface only, never on a concrete editor API.
type Accessor interface {
	// Path returns the document's file path, or "" for unsaved buffers.
	Path() string
	// LineCount returns the number of lines.
	LineCount() int
	// TextForRow returns the text of one line without its newline.
	// Out-of-range rows yield "".
	TextForRow(row int) string
	// TextInRange returns the text covered by the range.
	TextInRange(r Range) string
}

// StringDocument is an Accessor over an in-memory string, for tests and
// hosts that hold whole buffers.
type StringDocument struct {
	path  string
	lines []string
}

// NewStringDocument creates a document from raw content. Lines are split
// on "\n"; a single trailing newline does not count as an extra line.
func NewStringDocument(path, content string) *StringDocument {
	content = strings.TrimSuffix(content, "\n")
	return &StringDocument{
		path:  path,
		lines: strings.Split(content, "\n"),
	}
}

// Path implements Accessor.
func (d *StringDocument) Path() string {
	return d.path
}

// LineCount implements Accessor.
func (d *StringDocument) LineCount() int {
	return len(d.lines)
}

// TextForRow implements Accessor.
func (d *StringDocument) TextForRow(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

// TextInRange implements Accessor.
func (d *StringDocument) TextInRange(r Range) string {
	if ComparePositions(r.Start, r.End) > 0 {
		return ""
	}

	if r.Start.Row == r.End.Row {
		line := d.TextForRow(r.Start.Row)
		return line[colToByte(line, r.Start.Col):colToByte(line, r.End.Col)]
	}

	var b strings.Builder
	for row := r.Start.Row; row <= r.End.Row && row < len(d.lines); row++ {
		line := d.TextForRow(row)
		switch row {
		case r.Start.Row:
			b.WriteString(line[colToByte(line, r.Start.Col):])
		case r.End.Row:
			b.WriteString("\n")
			b.WriteString(line[:colToByte(line, r.End.Col)])
		default:
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}

// colToByte converts a character column to a byte index into line.
// Negative columns clamp to 0; columns past the end clamp to the line
// length.
func colToByte(line string, col int) int {
	if col <= 0 {
		return 0
	}
	for i := range line {
		if col == 0 {
			return i
		}
		col--
	}
	return len(line)
}

// byteToCol converts a byte index into line to a character column.
func byteToCol(line string, i int) int {
	if i > len(line) {
		i = len(line)
	}
	return utf8.RuneCountInString(line[:i])
}
