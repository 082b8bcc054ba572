package yaml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shapestone/yamlkit/pkg/fault"
)

// renderScalar renders one native scalar value. The returned inline text
// goes on the current line; for block scalar styles the inline part is the
// header and more holds the indented content lines.
func (d *dumper) renderScalar(v interface{}, level int, inFlow, isKey bool) (inline, more string, skip bool, err error) {
	t, found := d.schema.typeFor(v)
	if !found || t.Represent == nil {
		if d.opts.SkipInvalid {
			return "", "", true, nil
		}
		return "", "", false, fault.Newf(fault.Unrepresentable, fault.Mark{},
			"cannot represent a %T value", v)
	}

	text, err := t.Represent(v, d.opts.Styles[t.Tag])
	if err != nil {
		return "", "", false, fault.Newf(fault.Unrepresentable, fault.Mark{}, "%v", err)
	}

	if t.Tag == yamlTagPrefix+"str" {
		inline, more = d.renderString(text, level, inFlow, isKey)
		return inline, more, false, nil
	}

	// The 'empty' null style dumps as a truly absent scalar.
	if text == "" {
		return "", "", false, nil
	}

	// Non-string scalars dump plain; when the text would not resolve back
	// to the same type, an explicit tag pins it.
	if rt := d.schema.resolveScalar(text); rt == nil || rt.Tag != t.Tag {
		return shorthandTag(t.Tag) + " " + text, "", false, nil
	}
	return text, "", false, nil
}

// renderString picks the output style for a string: plain when the text
// would scan back as the same string, quoted otherwise, with long or
// multi-line text promoted to block styles where the context allows.
func (d *dumper) renderString(s string, level int, inFlow, isKey bool) (inline, more string) {
	if s == "" {
		return "''", ""
	}

	if isKey || inFlow {
		switch {
		case d.plainSafe(s, inFlow):
			return s, ""
		case singleSafe(s):
			return quoteSingle(s), ""
		default:
			return quoteDouble(s), ""
		}
	}

	avail := d.opts.LineWidth - level*d.opts.Indent
	fits := d.opts.LineWidth <= 0 || len(s) <= avail
	multiline := strings.ContainsRune(s, '\n')

	switch {
	case !multiline && fits && d.plainSafe(s, false):
		return s, ""
	case multiline && blockSafe(s):
		return d.blockScalar(s, level)
	case !multiline && !fits && foldable(s):
		return d.foldedScalar(s, level, avail)
	case !multiline && singleSafe(s):
		return quoteSingle(s), ""
	default:
		return quoteDouble(s), ""
	}
}

// plainSafe reports whether s survives a round trip as a plain scalar:
// no construct the scanner treats specially, and no text an implicit
// resolver would claim for another type.
func (d *dumper) plainSafe(s string, inFlow bool) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return false
	}
	if strings.IndexByte("-?:,[]{}#&*!|>'\"%@`", s[0]) >= 0 {
		return false
	}
	if strings.ContainsAny(s, "\n\r\t") {
		return false
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") || strings.Contains(s, " #") {
		return false
	}
	if inFlow && strings.ContainsAny(s, ",[]{}:") {
		return false
	}
	for _, r := range s {
		if r != ' ' && !unicode.IsPrint(r) {
			return false
		}
	}
	rt := d.schema.resolveScalar(s)
	return rt != nil && rt.Tag == yamlTagPrefix+"str"
}

// singleSafe reports whether s can be single-quoted: printable, one line.
func singleSafe(s string) bool {
	for _, r := range s {
		if r != ' ' && !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// blockSafe reports whether a literal block scalar reproduces s exactly.
// Lines holding only blanks scan back as empty lines, so they disqualify,
// as does text with no content at all.
func blockSafe(s string) bool {
	if strings.Contains(s, "\r") || strings.TrimRight(s, "\n") == "" {
		return false
	}
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && !unicode.IsPrint(r) {
			return false
		}
	}
	for _, line := range strings.Split(s, "\n") {
		if line != "" && strings.TrimLeft(line, " \t") == "" {
			return false
		}
	}
	return true
}

// foldable reports whether a folded block reproduces s exactly: wrapping
// breaks at single spaces, so runs of spaces or boundary spaces are out.
func foldable(s string) bool {
	if !strings.Contains(s, " ") || strings.Contains(s, "  ") {
		return false
	}
	if s != strings.TrimSpace(s) {
		return false
	}
	for _, r := range s {
		if r != ' ' && !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// blockScalar renders s as a literal block: the header (chomping indicator
// chosen from the trailing newlines, plus an explicit indentation digit
// when the first non-empty line starts with a space, since auto-detection
// would misread that space as block indentation) and the indented content.
func (d *dumper) blockScalar(s string, level int) (header, body string) {
	trailing := len(s) - len(strings.TrimRight(s, "\n"))

	header = "|"
	if strings.HasPrefix(strings.TrimLeft(s, "\n"), " ") {
		header += strconv.Itoa(d.opts.Indent)
	}
	switch trailing {
	case 0:
		header += "-"
	case 1:
	default:
		header += "+"
	}

	content := s
	if trailing > 0 {
		content = s[:len(s)-1]
	}
	return header, d.indentLines(content, bodyLevel(level))
}

// bodyLevel keeps block scalar content indented past its header line. At
// the document root the header sits at column one, so the body must still
// step in or the scanner would end the block immediately.
func bodyLevel(level int) int {
	if level == 0 {
		return 1
	}
	return level
}

// foldedScalar renders a long single-line string as a strip-chomped folded
// block, greedily wrapping at spaces.
func (d *dumper) foldedScalar(s string, level, avail int) (header, body string) {
	if avail < 1 {
		avail = 1
	}
	var lines []string
	words := strings.Split(s, " ")
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > avail {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return ">-", d.indentLines(strings.Join(lines, "\n"), bodyLevel(level))
}

// indentLines prefixes every non-empty line of s with the indentation of
// the given level.
func (d *dumper) indentLines(s string, level int) string {
	ind := d.indent(level)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = ind + line
		}
	}
	return strings.Join(lines, "\n")
}

func quoteSingle(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteDouble(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\x00':
			b.WriteString(`\0`)
		default:
			switch {
			case r == ' ' || unicode.IsPrint(r):
				b.WriteRune(r)
			case r <= 0xff:
				fmt.Fprintf(&b, `\x%02x`, r)
			case r <= 0xffff:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// shorthandTag renders a tag in its most compact explicit form.
func shorthandTag(tag string) string {
	if strings.HasPrefix(tag, yamlTagPrefix) {
		return "!!" + tag[len(yamlTagPrefix):]
	}
	if strings.HasPrefix(tag, "!") {
		return tag
	}
	return "!<" + tag + ">"
}
