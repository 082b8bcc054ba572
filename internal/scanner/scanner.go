package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// Scanner lexes a complete in-memory document stream into tokens. It is
// single-use: create one per Scan call.
type Scanner struct {
	src  string
	name string

	pos  int // byte offset into src
	line int // 1-based
	col  int // 1-based, counted in runes

	tokens     []Token
	indents    []int // stack of indentation widths, always starts [0]
	flowDepth  int   // nesting depth of [ ] { }
	lineIndent int   // indentation of the current line (block context)
}

// Scan lexes src into a token stream. name is attached to every mark so
// errors reference the source (typically a file name); it may be empty.
// Scanning stops at the first lexical fault.
func Scan(src, name string) ([]Token, error) {
	src = strings.TrimPrefix(src, "\ufeff")
	s := &Scanner{
		src:     src,
		name:    name,
		line:    1,
		col:     1,
		indents: []int{0},
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s.tokens, nil
}

func (s *Scanner) scan() error {
	for !s.eof() {
		if s.flowDepth == 0 && s.col == 1 {
			skipped, err := s.scanLineStart()
			if err != nil {
				return err
			}
			if skipped {
				continue
			}
			if s.eof() {
				break
			}
		}
		if err := s.scanToken(); err != nil {
			return err
		}
	}

	// Close any open indentation levels at end of input.
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(TokenDedent, "", ast.Plain, s.mark())
	}
	return nil
}

// scanLineStart measures the indentation of a fresh line in block context,
// emitting Indent/Dedent tokens as the level changes. Blank lines, comment
// lines, directives, and document markers are handled here. Returns true
// when the whole line was consumed and the caller should restart the loop.
func (s *Scanner) scanLineStart() (bool, error) {
	n := 0
	for s.ch() == ' ' {
		s.pos++
		s.col++
		n++
	}

	c := s.ch()

	// A tab may only appear in indentation when the rest of the line is
	// blank or a comment.
	if c == '\t' {
		j := 0
		for s.at(j) == ' ' || s.at(j) == '\t' {
			j++
		}
		if rest := s.at(j); rest == '#' || rest == '\n' || rest == '\r' || rest == 0 {
			s.skipToLineEnd()
			s.consumeNewline()
			return true, nil
		}
		return false, fault.New(fault.Scanner,
			"found a tab character where an indentation space is expected", s.mark())
	}

	switch {
	case c == 0:
		return true, nil

	case c == '\n' || c == '\r':
		s.consumeNewline()
		return true, nil

	case c == '#':
		s.skipToLineEnd()
		s.consumeNewline()
		return true, nil

	case c == '%' && n == 0:
		start := s.mark()
		text := s.captureToLineEnd()
		s.emit(TokenDirective, text, ast.Plain, start)
		s.consumeNewline()
		return true, nil

	case n == 0 && s.hasDocMarker("---"):
		s.popAllIndents()
		start := s.mark()
		s.advanceASCII(3)
		s.emit(TokenDocStart, "---", ast.Plain, start)
		s.lineIndent = 0
		return false, nil

	case n == 0 && s.hasDocMarker("..."):
		s.popAllIndents()
		start := s.mark()
		s.advanceASCII(3)
		s.emit(TokenDocEnd, "...", ast.Plain, start)
		s.lineIndent = 0
		return false, nil
	}

	s.lineIndent = n
	top := s.indents[len(s.indents)-1]
	if n > top {
		s.indents = append(s.indents, n)
		s.emit(TokenIndent, "", ast.Plain, s.mark())
	} else if n < top {
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > n {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(TokenDedent, "", ast.Plain, s.mark())
		}
		if s.indents[len(s.indents)-1] != n {
			return false, fault.Newf(fault.Parser, s.mark(),
				"inconsistent indentation: %d spaces do not align with any open block", n)
		}
	}
	return false, nil
}

// scanToken lexes one token (or consumes insignificant whitespace) at the
// current position.
func (s *Scanner) scanToken() error {
	for s.ch() == ' ' || s.ch() == '\t' {
		s.pos++
		s.col++
	}
	if s.eof() {
		return nil
	}

	c := s.ch()
	switch c {
	case '\n', '\r':
		if s.flowDepth == 0 {
			start := s.mark()
			s.emit(TokenNewline, "", ast.Plain, start)
		}
		s.consumeNewline()
		return nil

	case '#':
		s.skipToLineEnd()
		return nil

	case '{':
		s.emitIndicator(TokenLBrace, "{")
		s.flowDepth++
		return nil

	case '}':
		s.emitIndicator(TokenRBrace, "}")
		if s.flowDepth > 0 {
			s.flowDepth--
		}
		return nil

	case '[':
		s.emitIndicator(TokenLBracket, "[")
		s.flowDepth++
		return nil

	case ']':
		s.emitIndicator(TokenRBracket, "]")
		if s.flowDepth > 0 {
			s.flowDepth--
		}
		return nil

	case ',':
		s.emitIndicator(TokenComma, ",")
		return nil

	case '-':
		if s.isBoundary(s.at(1)) {
			s.emitIndicator(TokenDash, "-")
			return nil
		}
		return s.scanPlain()

	case '?':
		if s.isBoundary(s.at(1)) {
			s.emitIndicator(TokenQuestion, "?")
			return nil
		}
		return s.scanPlain()

	case ':':
		if s.isColonIndicator() {
			s.emitIndicator(TokenColon, ":")
			return nil
		}
		return s.scanPlain()

	case '&':
		return s.scanAnchorProperty(TokenAnchor, "anchor")

	case '*':
		return s.scanAnchorProperty(TokenAlias, "alias")

	case '!':
		return s.scanTag()

	case '"':
		return s.scanDoubleQuoted()

	case '\'':
		return s.scanSingleQuoted()

	case '|':
		if s.flowDepth > 0 {
			return fault.New(fault.Scanner,
				"block scalars are not allowed inside flow collections", s.mark())
		}
		return s.scanBlockScalar(ast.Literal)

	case '>':
		if s.flowDepth > 0 {
			return fault.New(fault.Scanner,
				"block scalars are not allowed inside flow collections", s.mark())
		}
		return s.scanBlockScalar(ast.Folded)

	case '@', '`':
		return fault.Newf(fault.Scanner, s.mark(),
			"reserved indicator %q cannot start a plain scalar", string(c))

	case '%':
		return fault.New(fault.Scanner,
			"directive indicator '%' is only allowed at the start of a line", s.mark())

	default:
		return s.scanPlain()
	}
}

// scanPlain lexes an unquoted scalar. Plain scalars end at the line break,
// at ": " (colon followed by space or end of line), at " #" (comment), and,
// in flow context, at any flow indicator.
func (s *Scanner) scanPlain() error {
	start := s.mark()
	var out []byte

	for !s.eof() {
		c := s.ch()
		if c == '\n' || c == '\r' {
			break
		}
		if c == ':' {
			nx := s.at(1)
			if s.isBoundary(nx) {
				break
			}
			if s.flowDepth > 0 && isFlowIndicator(nx) {
				break
			}
		}
		if s.flowDepth > 0 && isFlowIndicator(c) {
			break
		}
		if c == ' ' || c == '\t' {
			j := 0
			for s.at(j) == ' ' || s.at(j) == '\t' {
				j++
			}
			if s.at(j) == '#' {
				break
			}
		}
		out = s.appendRune(out)
	}

	text := strings.TrimRight(string(out), " \t")
	s.emit(TokenScalar, text, ast.Plain, start)
	return nil
}

// scanAnchorProperty lexes &name or *name. Names are [a-zA-Z0-9_-]+.
func (s *Scanner) scanAnchorProperty(kind, what string) error {
	start := s.mark()
	s.pos++
	s.col++

	var name []byte
	for isNameChar(s.ch()) {
		name = append(name, s.ch())
		s.pos++
		s.col++
	}
	if len(name) == 0 {
		return fault.Newf(fault.Scanner, start, "%s name expected", what)
	}
	s.emit(kind, string(name), ast.Plain, start)
	return nil
}

// scanTag lexes a tag property as written: !name, !!name, !handle!name, a
// bare !, or a verbatim !<...>. Shorthand expansion happens in the parser,
// which knows the active %TAG directives.
func (s *Scanner) scanTag() error {
	start := s.mark()
	var out []byte
	out = append(out, '!')
	s.pos++
	s.col++

	if s.ch() == '<' {
		out = append(out, '<')
		s.pos++
		s.col++
		for {
			c := s.ch()
			if c == 0 || c == '\n' || c == '\r' {
				return fault.New(fault.Scanner,
					"unexpected end of a verbatim tag; '>' expected", s.mark())
			}
			out = s.appendRune(out)
			if c == '>' {
				break
			}
		}
		s.emit(TokenTag, string(out), ast.Plain, start)
		return nil
	}

	for {
		c := s.ch()
		if c == 0 || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		if isFlowIndicator(c) {
			break
		}
		out = s.appendRune(out)
	}
	s.emit(TokenTag, string(out), ast.Plain, start)
	return nil
}

// scanDoubleQuoted lexes a double-quoted scalar, decoding escape sequences
// and folding embedded line breaks (a single break becomes a space, k
// breaks become k-1 newlines). A backslash before the line break joins the
// lines without any separator.
func (s *Scanner) scanDoubleQuoted() error {
	start := s.mark()
	s.pos++
	s.col++

	var out []byte
	for {
		if s.eof() {
			return fault.New(fault.Scanner,
				"unexpected end of input within a double-quoted scalar", s.mark())
		}
		c := s.ch()

		if c == '"' {
			s.pos++
			s.col++
			break
		}

		if c == '\\' {
			nx := s.at(1)
			if nx == '\n' || nx == '\r' {
				// Escaped line break: join without separator.
				s.pos++
				s.col++
				s.consumeNewline()
				for s.ch() == ' ' || s.ch() == '\t' {
					s.pos++
					s.col++
				}
				continue
			}
			decoded, err := s.scanEscape()
			if err != nil {
				return err
			}
			out = utf8.AppendRune(out, decoded)
			continue
		}

		if c == '\n' || c == '\r' {
			out = s.foldQuotedBreaks(out)
			if s.eof() {
				return fault.New(fault.Scanner,
					"unexpected end of input within a double-quoted scalar", s.mark())
			}
			continue
		}

		out = s.appendRune(out)
	}

	s.emit(TokenScalar, string(out), ast.DoubleQuoted, start)
	return nil
}

// scanEscape decodes one backslash escape sequence, with the cursor on the
// backslash. Returns the decoded rune.
func (s *Scanner) scanEscape() (rune, error) {
	escStart := s.mark()
	s.pos++
	s.col++
	c := s.ch()
	s.pos++
	s.col++

	switch c {
	case '0':
		return '\x00', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 't', '\t':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'v':
		return '\v', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	case 'e':
		return '\x1b', nil
	case ' ':
		return ' ', nil
	case '"':
		return '"', nil
	case '/':
		return '/', nil
	case '\\':
		return '\\', nil
	case 'N':
		return '\u0085', nil
	case '_':
		return '\u00a0', nil
	case 'L':
		return '\u2028', nil
	case 'P':
		return '\u2029', nil
	case 'x':
		return s.scanHexEscape(2, escStart)
	case 'u':
		return s.scanHexEscape(4, escStart)
	case 'U':
		return s.scanHexEscape(8, escStart)
	default:
		return 0, fault.Newf(fault.Scanner, escStart,
			"unknown escape sequence \\%s in a double-quoted scalar", string(c))
	}
}

func (s *Scanner) scanHexEscape(length int, escStart fault.Mark) (rune, error) {
	var code rune
	for i := 0; i < length; i++ {
		d := hexValue(s.ch())
		if d < 0 {
			return 0, fault.Newf(fault.Scanner, escStart,
				"expected %d hexadecimal digits in escape sequence", length)
		}
		code = code*16 + rune(d)
		s.pos++
		s.col++
	}
	return code, nil
}

// scanSingleQuoted lexes a single-quoted scalar. The only escape is the
// doubled quote; line breaks fold the same way as in double-quoted scalars.
func (s *Scanner) scanSingleQuoted() error {
	start := s.mark()
	s.pos++
	s.col++

	var out []byte
	for {
		if s.eof() {
			return fault.New(fault.Scanner,
				"unexpected end of input within a single-quoted scalar", s.mark())
		}
		c := s.ch()

		if c == '\'' {
			s.pos++
			s.col++
			if s.ch() == '\'' {
				out = append(out, '\'')
				s.pos++
				s.col++
				continue
			}
			break
		}

		if c == '\n' || c == '\r' {
			out = s.foldQuotedBreaks(out)
			if s.eof() {
				return fault.New(fault.Scanner,
					"unexpected end of input within a single-quoted scalar", s.mark())
			}
			continue
		}

		out = s.appendRune(out)
	}

	s.emit(TokenScalar, string(out), ast.SingleQuoted, start)
	return nil
}

// foldQuotedBreaks consumes a run of line breaks (and the indentation of
// each continuation line) inside a quoted scalar, appending the folded
// separator: one break folds to a space, k breaks fold to k-1 newlines.
// Trailing spaces before the break are stripped.
func (s *Scanner) foldQuotedBreaks(out []byte) []byte {
	for len(out) > 0 && (out[len(out)-1] == ' ' || out[len(out)-1] == '\t') {
		out = out[:len(out)-1]
	}
	breaks := 0
	for s.ch() == '\n' || s.ch() == '\r' {
		s.consumeNewline()
		breaks++
		for s.ch() == ' ' || s.ch() == '\t' {
			s.pos++
			s.col++
		}
	}
	if breaks == 1 {
		out = append(out, ' ')
	} else {
		for i := 1; i < breaks; i++ {
			out = append(out, '\n')
		}
	}
	return out
}

// scanBlockScalar lexes a literal (|) or folded (>) block scalar, including
// its header (optional explicit indentation digit and chomping indicator)
// and all of its content lines. The token carries the fully decoded text.
func (s *Scanner) scanBlockScalar(style ast.Style) error {
	start := s.mark()
	baseIndent := s.lineIndent
	s.pos++
	s.col++

	const (
		chompClip = iota
		chompStrip
		chompKeep
	)
	chomp := chompClip
	explicit := 0
	for i := 0; i < 2; i++ {
		c := s.ch()
		if c >= '1' && c <= '9' && explicit == 0 {
			explicit = int(c - '0')
		} else if c == '-' {
			chomp = chompStrip
		} else if c == '+' {
			chomp = chompKeep
		} else {
			break
		}
		s.pos++
		s.col++
	}

	for s.ch() == ' ' || s.ch() == '\t' {
		s.pos++
		s.col++
	}
	if s.ch() == '#' {
		s.skipToLineEnd()
	}
	if c := s.ch(); c != 0 && c != '\n' && c != '\r' {
		return fault.New(fault.Scanner,
			"unexpected characters after a block scalar indicator", s.mark())
	}
	s.consumeNewline()

	blockIndent := 0
	if explicit > 0 {
		blockIndent = baseIndent + explicit
	}

	var lines []string
	for !s.eof() {
		n := 0
		for s.ch() == ' ' {
			s.pos++
			s.col++
			n++
		}
		c := s.ch()

		if c == '\n' || c == '\r' {
			lines = append(lines, "")
			s.consumeNewline()
			continue
		}
		if c == 0 {
			break
		}

		if blockIndent == 0 {
			if n <= baseIndent {
				s.rewindSpaces(n)
				break
			}
			blockIndent = n
		} else if n < blockIndent {
			if n <= baseIndent {
				s.rewindSpaces(n)
				break
			}
			return fault.New(fault.Scanner,
				"bad indentation within a block scalar", s.mark())
		}

		text := strings.Repeat(" ", n-blockIndent) + s.captureToLineEnd()
		lines = append(lines, text)
		s.consumeNewline()
	}

	// Split off trailing blank lines; chomping decides their fate.
	trailing := 0
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing++
	}

	var body string
	if style == ast.Literal {
		body = strings.Join(lines, "\n")
	} else {
		body = foldLines(lines)
	}

	var content string
	switch {
	case body == "" && trailing == 0:
		content = ""
	case chomp == chompStrip:
		content = strings.TrimRight(body, "\n")
	case chomp == chompKeep && body == "":
		content = strings.Repeat("\n", trailing)
	case chomp == chompKeep:
		content = body + strings.Repeat("\n", trailing+1)
	default: // clip
		content = strings.TrimRight(body, "\n") + "\n"
	}

	s.emit(TokenScalar, content, style, start)
	s.emit(TokenNewline, "", ast.Plain, s.mark())
	return nil
}

// foldLines implements block folding: a single line break between two
// non-empty, non-indented lines becomes a space; k blank lines become k
// newlines; breaks adjacent to more-indented lines stay literal.
func foldLines(lines []string) string {
	var b strings.Builder
	written := false
	prevMoreIndented := false
	pendingBlanks := 0

	for _, line := range lines {
		if line == "" {
			pendingBlanks++
			continue
		}
		moreIndented := line[0] == ' ' || line[0] == '\t'

		if written {
			if pendingBlanks > 0 {
				b.WriteString(strings.Repeat("\n", pendingBlanks))
			} else if prevMoreIndented || moreIndented {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		} else if pendingBlanks > 0 {
			b.WriteString(strings.Repeat("\n", pendingBlanks))
		}

		b.WriteString(line)
		written = true
		prevMoreIndented = moreIndented
		pendingBlanks = 0
	}
	return b.String()
}

// Cursor helpers

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

// ch returns the byte at the cursor, or 0 at end of input.
func (s *Scanner) ch() byte {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

// at returns the byte n positions past the cursor, or 0 past end of input.
func (s *Scanner) at(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *Scanner) mark() fault.Mark {
	return fault.Mark{Name: s.name, Line: s.line, Column: s.col, Offset: s.pos, Buffer: s.src}
}

// appendRune appends the rune at the cursor to out and advances past it.
func (s *Scanner) appendRune(out []byte) []byte {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	out = utf8.AppendRune(out, r)
	s.pos += size
	s.col++
	return out
}

// advanceASCII advances n single-byte characters.
func (s *Scanner) advanceASCII(n int) {
	s.pos += n
	s.col += n
}

// rewindSpaces backs the cursor up over n just-consumed spaces.
func (s *Scanner) rewindSpaces(n int) {
	s.pos -= n
	s.col -= n
}

// consumeNewline advances past \n, \r\n, or \r, updating line accounting.
// It is a no-op at end of input.
func (s *Scanner) consumeNewline() {
	switch s.ch() {
	case '\r':
		s.pos++
		if s.ch() == '\n' {
			s.pos++
		}
	case '\n':
		s.pos++
	default:
		return
	}
	s.line++
	s.col = 1
}

// skipToLineEnd advances to (not past) the next line break.
func (s *Scanner) skipToLineEnd() {
	for !s.eof() && s.ch() != '\n' && s.ch() != '\r' {
		_, size := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += size
		s.col++
	}
}

// captureToLineEnd returns the text from the cursor to the line break and
// advances to the break.
func (s *Scanner) captureToLineEnd() string {
	start := s.pos
	s.skipToLineEnd()
	return s.src[start:s.pos]
}

func (s *Scanner) emit(kind, text string, style ast.Style, start fault.Mark) {
	s.tokens = append(s.tokens, Token{Kind: kind, Text: text, Style: style, Start: start, End: s.mark()})
}

// emitIndicator emits a single-character indicator token and advances past it.
func (s *Scanner) emitIndicator(kind, text string) {
	start := s.mark()
	s.pos++
	s.col++
	s.emit(kind, text, ast.Plain, start)
}

func (s *Scanner) popAllIndents() {
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(TokenDedent, "", ast.Plain, s.mark())
	}
}

// hasDocMarker reports whether the cursor sits on marker followed by a
// space, tab, line break, or end of input.
func (s *Scanner) hasDocMarker(marker string) bool {
	if !strings.HasPrefix(s.src[s.pos:], marker) {
		return false
	}
	nx := s.at(len(marker))
	return nx == 0 || nx == ' ' || nx == '\t' || nx == '\n' || nx == '\r'
}

// isBoundary reports whether c terminates an indicator: whitespace, a line
// break, end of input, or (in flow context) a flow indicator.
func (s *Scanner) isBoundary(c byte) bool {
	if c == 0 || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
		return true
	}
	return s.flowDepth > 0 && isFlowIndicator(c)
}

// isColonIndicator decides whether ':' at the cursor is a mapping value
// indicator. It is when followed by a boundary, or when it immediately
// follows a quoted scalar ("key":value in JSON-like flow).
func (s *Scanner) isColonIndicator() bool {
	if s.isBoundary(s.at(1)) {
		return true
	}
	if len(s.tokens) > 0 {
		last := s.tokens[len(s.tokens)-1]
		if last.Kind == TokenScalar &&
			(last.Style == ast.SingleQuoted || last.Style == ast.DoubleQuoted) &&
			last.End.Offset == s.pos {
			return true
		}
	}
	return false
}

func isFlowIndicator(c byte) bool {
	return c == ',' || c == '[' || c == ']' || c == '{' || c == '}'
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_' || c == '-'
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
