// translator.go — the two-pass driver.
//
// Pass 1 consumes every statement, discarding the rendered text but
// recording labels, subroutine targets, variable declarations, function
// signatures and the string-temporary high-water mark. Pass 2 rewinds the
// lexer and emits the C program. Both passes share the statement dispatcher
// (stmt.go) and the expression parser (expr.go).
package bas2c

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Flag is the translation option bit set.
type Flag int

const (
	FDebug      Flag = 1 << iota // debug mode
	FUndefErr                    // calls to unknown functions are errors
	FNoBInit                     // substitute exit() for b_init()/b_exit()
	FBasComment                  // insert each BASIC line as a C comment
	FVerbose                     // echo each input line during pass 2
	FBCCompat                    // BC.X-compatible expression rendering
)

// Translator converts one X-BASIC source to C.
type Translator struct {
	flag  Flag
	gen   *TokenGen
	exfns *ExFuncTable
	nsp   *NameSpace

	pass   int
	labels map[int]struct{}
	subrs  map[int]struct{}
	groups map[string]struct{}

	strtmp    int
	strtmpMax int
	initmp    int
	bexit     string

	nest      []byte
	indentcnt int

	iname  string
	errw   io.Writer
	status int
}

// New builds a translator over the source r. The exfns registry may be nil
// when no definition file was loaded.
func New(r io.Reader, exfns *ExFuncTable, flag Flag, cindent int) (*Translator, error) {
	ci := -1
	if flag&FBasComment != 0 {
		ci = cindent
	}
	gen, err := NewTokenGen(r, ci, flag&FVerbose != 0)
	if err != nil {
		return nil, err
	}
	gen.SetExFuncs(exfns)
	tr := &Translator{
		flag:   flag,
		gen:    gen,
		exfns:  exfns,
		nsp:    NewNameSpace(),
		labels: make(map[int]struct{}),
		subrs:  make(map[int]struct{}),
		groups: make(map[string]struct{}),
		errw:   os.Stderr,
		bexit:  "b_exit",
	}
	if flag&FNoBInit != 0 {
		tr.bexit = "exit"
	}
	return tr, nil
}

// SetErrOutput redirects diagnostics (default os.Stderr).
func (tr *Translator) SetErrOutput(w io.Writer) {
	tr.errw = w
	tr.gen.VerboseOut = w
}

// setPass rewinds the whole pipeline for the given pass.
func (tr *Translator) setPass(pass int) {
	tr.pass = pass
	tr.updateStrtmp()
	tr.nsp.SetPass(pass)
	tr.nsp.SetLocal("")
	tr.initmp = 0
	tr.nest = []byte{'M'}
	tr.indentcnt = 0
	tr.gen.SetPass(pass)
	tr.gen.Rewind()
}

// updateStrtmp folds the per-statement temporary counter into the
// high-water mark and resets it.
func (tr *Translator) updateStrtmp() {
	if tr.strtmp > tr.strtmpMax {
		tr.strtmpMax = tr.strtmp
	}
	tr.strtmp = 0
}

// ----- nesting -----

func (tr *Translator) nestTop() byte {
	if len(tr.nest) == 0 {
		return 0
	}
	return tr.nest[len(tr.nest)-1]
}

func (tr *Translator) nestin(mark byte) {
	tr.nest = append(tr.nest, mark)
}

func (tr *Translator) nestout(mark byte) error {
	if tr.nestTop() != mark {
		return nestErr(mark)
	}
	tr.nest = tr.nest[:len(tr.nest)-1]
	tr.indentcnt--
	return nil
}

// nestclose closes a dangling main or subroutine body before a function
// definition or at end of input. An unclosed loop or branch is an error.
func (tr *Translator) nestclose() (string, error) {
	if len(tr.nest) == 1 && tr.nest[0] == 'M' {
		// main ends without an explicit "end"
		r := tr.indentout() + tr.bexit + "(0);\n}\n"
		if err := tr.nestout('M'); err != nil {
			return "", err
		}
		return r, nil
	}
	if len(tr.nest) == 1 && tr.nest[0] == 'S' {
		if err := tr.nestout('S'); err != nil {
			return "", err
		}
		return "}\n", nil
	}
	if len(tr.nest) > 0 {
		return "", nestErr(tr.nestTop())
	}
	return "", nil
}

func (tr *Translator) indentout() string {
	if tr.indentcnt <= 0 {
		return ""
	}
	return strings.Repeat("\t", tr.indentcnt)
}

// ----- token stream helpers -----

// checkSymbol consumes the symbol c if it is next.
func (tr *Translator) checkSymbol(c byte) bool {
	t := tr.gen.Fetch()
	if t.IsSymbol(c) {
		return true
	}
	tr.gen.Unfetch(t)
	return false
}

// checkKeyword consumes the reserved code kw if it is next.
func (tr *Translator) checkKeyword(kw Keyword) bool {
	t := tr.gen.Fetch()
	if t.IsKeyword(kw) {
		return true
	}
	tr.gen.Unfetch(t)
	return false
}

// checkKind consumes and returns the next token when it has kind k.
func (tr *Translator) checkKind(k TokenKind) *Token {
	t := tr.gen.Fetch()
	if t.IsKind(k) {
		return t
	}
	tr.gen.Unfetch(t)
	return nil
}

// checkVarType consumes and returns the next token when it is a type
// keyword.
func (tr *Translator) checkVarType() *Token {
	t := tr.gen.Fetch()
	if t.IsVarType() {
		return t
	}
	tr.gen.Unfetch(t)
	return nil
}

// nextSymbol requires the symbol c.
func (tr *Translator) nextSymbol(c byte) error {
	t := tr.gen.Fetch()
	if !t.IsSymbol(c) {
		return &SyntaxError{Msg: fmt.Sprintf("missing %c", c)}
	}
	return nil
}

// nextKeyword requires the reserved code kw.
func (tr *Translator) nextKeyword(kw Keyword) error {
	t := tr.gen.Fetch()
	if !t.IsKeyword(kw) {
		return &SyntaxError{Msg: fmt.Sprintf("missing %s", KeywordName(kw))}
	}
	return nil
}

// nextKind requires a token of kind k and returns its payload.
func (tr *Translator) nextKind(k TokenKind) (string, error) {
	t := tr.gen.Fetch()
	if !t.IsKind(k) {
		return "", errSyntax()
	}
	return t.Val, nil
}

// ----- pass-2 emission helpers -----

// gendefine renders the global definitions and subroutine prototypes.
func (tr *Translator) gendefine() string {
	r := tr.nsp.Definitions("")
	for _, l := range sortedInts(tr.subrs) {
		r += fmt.Sprintf("void S%06d(void);\n", l)
	}
	return r
}

// genlabel renders a goto label or opens a subroutine body when the current
// line number is a recorded target.
func (tr *Translator) genlabel() (string, error) {
	l := tr.gen.GoLineNo()
	if l == 0 {
		return "", nil
	}
	if _, ok := tr.labels[l]; ok {
		return fmt.Sprintf("L%06d:\n", l), nil
	}
	if _, ok := tr.subrs[l]; ok {
		tr.gen.NoComment = false
		r, err := tr.nestclose()
		if err != nil {
			return "", err
		}
		tr.nestin('S')
		r += "\n/***************************/\n"
		tr.indentcnt++
		r += fmt.Sprintf("void S%06d(void)\n{\n", l)
		return r, nil
	}
	return "", nil
}

func sortedInts(set map[int]struct{}) []int {
	r := make([]int, 0, len(set))
	for l := range set {
		r = append(r, l)
	}
	sort.Ints(r)
	return r
}

func sortedStrings(set map[string]struct{}) []string {
	r := make([]string, 0, len(set))
	for s := range set {
		r = append(r, s)
	}
	sort.Strings(r)
	return r
}

// ----- diagnostics -----

var errorTag = color.New(color.FgRed)

// report prints a diagnostic with a caret under the failing token, latches a
// non-zero exit status and resynchronizes the lexer at the next statement
// separator.
func (tr *Translator) report(err error) {
	tr.status = 1
	fmt.Fprintf(tr.errw, "%s:%s: %s %s\n", tr.iname, tr.gen.LineNo(), errorTag.Sprint("error:"), err.Error())
	cur := tr.gen.CurLine()
	if len(cur) > 0 {
		fmt.Fprint(tr.errw, cur)
		if !strings.HasSuffix(cur, "\n") {
			fmt.Fprintln(tr.errw)
		}
		col := len(cur) - tr.gen.PreLen()
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(tr.errw, "%s^\n", strings.Repeat(" ", col))
	}
	tr.gen.Skip()
}

// ----- driver -----

// Run translates the source to out. name labels diagnostics (use "<stdin>"
// for standard input). The return value is the process exit status: 0 on
// success, 1 when any diagnostic was reported.
func (tr *Translator) Run(out io.Writer, name string) int {
	tr.iname = name

	// pass 1: discovery
	tr.setPass(1)
	for {
		_, eof, err := tr.statement()
		if err != nil {
			var nserr *NameSpaceError
			if errors.As(err, &nserr) {
				tr.report(err)
			} else {
				// syntax errors re-surface on pass 2
				tr.gen.Skip()
			}
			continue
		}
		if eof {
			break
		}
	}

	// pass 2: emission
	tr.setPass(2)
	fmt.Fprintf(out, "#include <basic0.h>\n")
	fmt.Fprintf(out, "#include <string.h>\n")
	if tr.flag&FNoBInit != 0 {
		fmt.Fprintf(out, "#include <stdlib.h>\n")
	}
	for _, g := range sortedStrings(tr.groups) {
		fmt.Fprintf(out, "#include <%s.h>\n", strings.ToLower(g))
	}
	fmt.Fprintf(out, "\n%s", tr.gendefine())
	for i := 0; i < tr.strtmpMax; i++ {
		fmt.Fprintf(out, "static unsigned char strtmp%d[258];\n", i)
	}
	fmt.Fprintf(out, "\n/******** program start ********/\n")
	fmt.Fprintf(out, "void main(int b_argc, char *b_argv[])\n{\n")
	if tr.flag&FNoBInit == 0 {
		fmt.Fprintf(out, "\tb_init();\n")
	}
	for {
		tr.indentcnt = len(tr.nest)
		s, eof, err := tr.statement()
		if err != nil {
			tr.report(err)
			continue
		}
		fmt.Fprint(out, tr.gen.CCode())
		lbl, err := tr.genlabel()
		if err != nil {
			tr.report(err)
			continue
		}
		fmt.Fprint(out, lbl)
		if eof {
			break
		}
		indent := tr.indentout()
		for s != "" {
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				break
			}
			fmt.Fprintf(out, "%s%s\n", indent, s[:nl])
			s = s[nl+1:]
		}
	}
	if nc, err := tr.nestclose(); err != nil {
		tr.report(err)
	} else {
		fmt.Fprint(out, nc)
	}

	return tr.status
}
