// tokengen.go — line-oriented token generator over the whole input buffer.
//
// The generator slurps the entire source at construction so that pass 1 and
// pass 2 can both walk it even when the input is a pipe, strips X-BASIC line
// numbers (keeping them for goto/gosub label resolution), captures #c..#endc
// passthrough blocks, and supports unbounded token push-back plus a rewind
// to the start of the input.
package bas2c

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edwingeng/deque"
)

// TokenGen produces Tokens from an X-BASIC source text.
type TokenGen struct {
	buf string // whole input, truncated at an ASCII SUB
	fp  int    // read offset into buf

	line    string // remainder of the current line
	curline string // current line as read, for diagnostics
	prelen  int    // line length before the previous token
	curlen  int    // line length before the current token

	lineno     int // physical line number
	baslineno  int // BASIC line number (explicit or counted)
	golineno   int // pending goto/gosub label, consumable once
	firstToken bool

	pass    int
	cindent int // -1 disables the BASIC-line-as-comment mode
	verbose bool

	// NoComment suppresses emission of full-line BASIC comments while the
	// translator is between function bodies.
	NoComment bool

	// VerboseOut receives the pass-2 echo of each input line.
	VerboseOut io.Writer

	ccode  strings.Builder // pending passthrough output (#c blocks, -c comments)
	cached deque.Deque     // pushed-back tokens

	exfns *ExFuncTable // library-function names resolve to keyword codes
}

// NewTokenGen reads all of r and returns a generator positioned at the
// start. cindent < 0 disables source-line comment injection; otherwise each
// line is recorded as a /*===...===*/ comment indented by cindent tabs.
func NewTokenGen(r io.Reader, cindent int, verbose bool) (*TokenGen, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := string(data)
	if i := strings.IndexByte(src, '\x1a'); i >= 0 {
		src = src[:i]
	}
	g := &TokenGen{
		buf:        src,
		cindent:    cindent,
		verbose:    verbose,
		VerboseOut: os.Stderr,
	}
	g.Rewind()
	return g, nil
}

// SetPass selects the translation pass (verbose echo happens on pass 2).
func (g *TokenGen) SetPass(pass int) { g.pass = pass }

// SetExFuncs attaches the library-function registry so that registered
// spellings lex as keyword tokens.
func (g *TokenGen) SetExFuncs(t *ExFuncTable) { g.exfns = t }

// Rewind restores the generator to the start of the input.
func (g *TokenGen) Rewind() {
	g.fp = 0
	g.line = ""
	g.curline = ""
	g.lineno = 0
	g.baslineno = 0
	g.golineno = 0
	g.firstToken = true
	g.NoComment = false
	g.ccode.Reset()
	g.prelen = 0
	g.curlen = 0
	g.cached = deque.NewDeque()
}

// readline loads the next physical line into g.line. It strips a leading
// BASIC line number, records the -c comment line, and echoes the line when
// verbose pass-2 output is enabled. Returns false at end of input.
func (g *TokenGen) readline() bool {
	g.golineno = 0
	g.firstToken = true
	if g.fp >= len(g.buf) {
		g.line = ""
		g.curline = ""
		return false
	}
	end := strings.IndexByte(g.buf[g.fp:], '\n')
	if end < 0 {
		g.line = g.buf[g.fp:]
		g.fp = len(g.buf)
	} else {
		g.line = g.buf[g.fp : g.fp+end+1]
		g.fp += end + 1
	}
	g.curline = g.line

	g.lineno++
	g.baslineno++
	if g.cindent >= 0 && len(g.line) > 0 {
		g.ccode.WriteString(strings.Repeat("\t", g.cindent))
		g.ccode.WriteString("/*===" + stripComment(g.line) + "===*/\n")
	}
	if g.verbose && g.pass == 2 {
		fmt.Fprint(g.VerboseOut, g.line)
	}

	// An optional leading integer is the BASIC line number.
	i := 0
	for i < len(g.line) && (g.line[i] == ' ' || g.line[i] == '\t') {
		i++
	}
	j := i
	num := 0
	for j < len(g.line) && g.line[j] >= '0' && g.line[j] <= '9' {
		num = num*10 + int(g.line[j]-'0')
		j++
	}
	if j > i {
		g.golineno = num
		g.baslineno = num
		for j < len(g.line) && (g.line[j] == ' ' || g.line[j] == '\t') {
			j++
		}
		g.line = g.line[j:]
	}
	return true
}

// getline reads a new line if the current one is exhausted, folding
// #c..#endc blocks into the passthrough buffer, and trims leading blanks.
func (g *TokenGen) getline() string {
	if g.line == "" {
		g.readline()
		if strings.HasPrefix(g.line, "#c") {
			for g.readline() {
				if strings.HasPrefix(g.line, "#endc") {
					break
				}
				g.ccode.WriteString(g.line)
			}
			g.readline()
		}
	}
	g.line = strings.TrimLeft(g.line, " \t\r")
	g.prelen = len(g.line)
	g.curlen = len(g.line)
	return g.line
}

// GoLineNo returns the label number of the current line, once; further
// calls return 0 until the next numbered line is read.
func (g *TokenGen) GoLineNo() int {
	r := g.golineno
	g.golineno = 0
	return r
}

// LineNo renders the position for diagnostics as "physical (basic)".
func (g *TokenGen) LineNo() string {
	return fmt.Sprintf("%d (%d)", g.lineno, g.baslineno)
}

// CurLine returns the current source line, and PreLen the length of the
// line remainder before the token last fetched; both feed the caret in
// diagnostics.
func (g *TokenGen) CurLine() string { return g.curline }
func (g *TokenGen) PreLen() int     { return g.prelen }

// CCode drains the pending passthrough output.
func (g *TokenGen) CCode() string {
	r := g.ccode.String()
	g.ccode.Reset()
	return r
}

// stripComment removes comment markers and line ends so a BASIC line can be
// embedded inside a C comment.
func stripComment(line string) string {
	r := strings.ReplaceAll(line, "/*", "")
	r = strings.ReplaceAll(r, "*/", "")
	r = strings.ReplaceAll(r, "\r", "")
	r = strings.ReplaceAll(r, "\n", "")
	return r
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlnum(c byte) bool  { return isAlpha(c) || isDigit(c) }
func isHexDig(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

// get scans one token from the current line.
func (g *TokenGen) get() *Token {
	if g.getline() == "" {
		return makeKeyword(KwEOF)
	}
	if g.line[0] == '\r' {
		g.line = g.line[1:]
	}
	if g.line == "\n" {
		g.line = ""
		return makeKeyword(KwEOL)
	}
	if strings.HasPrefix(g.line, "/*") {
		// Full-line comments survive as C comments; anything later on a
		// line collapses to end-of-line.
		if g.firstToken && !g.NoComment {
			comment := "/*" + stripComment(g.line) + "*/\n"
			g.line = "\n"
			return makeComment(comment)
		}
		g.line = ""
		return makeKeyword(KwEOL)
	}

	g.firstToken = false

	line := g.line
	c := line[0]
	p := 1
	peek := func() byte {
		if p < len(line) {
			return line[p]
		}
		return 0
	}

	switch {
	case c == '"': // string literal
		s := "\""
		for {
			ch := peek()
			if ch == 0 || ch == '\n' {
				s += "\"" // close an unterminated literal at end of line
				break
			}
			p++
			s += string(ch)
			if ch == '"' {
				break
			}
		}
		g.line = line[p:]
		return makeStr(s)

	case c == '\'': // character literal
		ch := peek()
		if ch != 0 && ch != '\n' && ch != '\'' {
			p++
			if peek() == '\'' {
				p++
				g.line = line[p:]
				return makeInt("'" + string(ch) + "'")
			}
		}

	case c == '&': // &H / &O / &B radix literals
		switch lower(peek()) {
		case 'h':
			p++
			s := "0x"
			for isHexDig(peek()) {
				s += string(peek())
				p++
			}
			g.line = line[p:]
			return makeInt(s)
		case 'o':
			p++
			s := "0"
			for peek() >= '0' && peek() <= '7' {
				s += string(peek())
				p++
			}
			g.line = line[p:]
			return makeInt(s)
		case 'b':
			p++
			s := "0b"
			for peek() == '0' || peek() == '1' {
				s += string(peek())
				p++
			}
			g.line = line[p:]
			return makeInt(s)
		}

	case isDigit(c) || c == '.': // numeric literal
		s := string(c)
		for isDigit(peek()) {
			s += string(peek())
			p++
		}
		if ch := peek(); ch == '.' || ch == 'e' || ch == 'E' || ch == '#' {
			if peek() == '.' {
				p++
				s += "."
				for isDigit(peek()) {
					s += string(peek())
					p++
				}
			}
			if ch := peek(); ch == 'e' || ch == 'E' {
				p++
				s += string(ch)
				if ch := peek(); ch == '-' || ch == '+' {
					s += string(ch)
					p++
				}
				for isDigit(peek()) {
					s += string(peek())
					p++
				}
			}
			if peek() == '#' {
				s += "#"
				p++
			}
			g.line = line[p:]
			return makeFloat(s)
		}
		// Leading zeros would read as octal in C.
		for len(s) > 1 && s[0] == '0' {
			s = s[1:]
		}
		g.line = line[p:]
		return makeInt(s)

	case isAlpha(c) || c == '_': // identifier or reserved word
		s := string(c)
		for {
			ch := peek()
			if !(isAlnum(ch) || ch == '_' || ch == '$') {
				break
			}
			s += string(ch)
			p++
		}
		g.line = line[p:]
		low := strings.ToLower(s)
		if kw := FindKeyword(low); kw != KwNone {
			return makeKeyword(kw)
		}
		if kw := g.exfns.Find(low); kw != KwNone {
			return makeKeyword(kw)
		}
		// '$' is not a legal C identifier character.
		return makeVariable(strings.ReplaceAll(s, "$", "S"))

	default:
		if kw, l := FindOperator(line); kw != KwNone {
			g.line = line[l:]
			return makeKeyword(kw)
		}
	}

	g.line = line[1:]
	return makeSymbol(c)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Fetch returns the next token, preferring pushed-back ones.
func (g *TokenGen) Fetch() *Token {
	g.prelen = g.curlen
	g.curlen = len(g.line)
	if g.cached.Empty() {
		return g.get()
	}
	return g.cached.PopBack().(*Token)
}

// Unfetch pushes t back; any number of tokens may be pending.
func (g *TokenGen) Unfetch(t *Token) {
	g.cached.PushBack(t)
	g.curlen = g.prelen
}

// Skip advances past the remainder of the current statement: everything up
// to the next ':', end of line, or end of input.
func (g *TokenGen) Skip() {
	for {
		t := g.Fetch()
		if t.IsSymbol(':') || t.IsKeyword(KwEOL) || t.IsKeyword(KwEOF) {
			return
		}
	}
}
