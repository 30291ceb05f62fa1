// stmt.go — statement dispatcher and code emitter.
//
// statement consumes exactly one X-BASIC statement from the token stream
// and returns its C rendering. Pass 1 calls it for discovery (the rendering
// is discarded), pass 2 for emission; both passes route through the same
// code so the token consumption is identical.
package bas2c

import (
	"fmt"
	"strconv"
)

// statement translates one statement. The second result is true at end of
// input.
func (tr *Translator) statement() (string, bool, error) {
	for tr.checkSymbol(':') {
	}
	if tr.checkKeyword(KwEOF) {
		return "", true, nil
	}

	tr.updateStrtmp()

	if s := tr.checkVarType(); s != nil {
		return "", false, tr.defvar(VarType(s.Code))
	}
	if s := tr.checkKind(TkKeyword); s != nil {
		out, err := tr.keywordStmt(Keyword(s.Code))
		return out, false, err
	}
	if s := tr.checkKind(TkSymbol); s != nil {
		out, err := tr.closeBrace(s)
		return out, false, err
	}
	if s := tr.checkKind(TkComment); s != nil {
		return s.Val, false, nil
	}

	// assignment, or an expression statement (function call)
	r := tr.gen.Fetch()
	v, err := tr.lvalue(r, true, false)
	if err != nil {
		return "", false, err
	}
	if v != nil {
		out, err := tr.assign(v)
		return out, false, err
	}
	r = tr.gen.Fetch()
	c, err := tr.fncall(r)
	if err != nil {
		return "", false, err
	}
	if c == nil {
		return "", false, errSyntax()
	}
	return c.Val + ";\n", false, nil
}

// assign renders "lvalue = value". Arrays copy from a freshly registered
// static-const temporary, strings go through b_strncpy, scalars assign
// directly.
func (tr *Translator) assign(v *Variable) (string, error) {
	if err := tr.nextKeyword(KwEq); err != nil {
		return "", err
	}
	x, err := tr.initvar(v.Type)
	if err != nil {
		return "", err
	}
	switch {
	case v.IsArray():
		decl := tr.nsp.Find(v.Name, false)
		if decl == nil {
			return "", errSyntax()
		}
		name := fmt.Sprintf("_initmp%04d", tr.initmp)
		tr.initmp++
		if _, err := tr.nsp.Define(name, ToConst(v.Type), decl.Arg, x, false, false, false); err != nil {
			return "", err
		}
		return "memcpy(" + v.Name + ", " + name + ", sizeof(" + v.Name + "));\n", nil
	case v.IsStr():
		return "b_strncpy(sizeof(" + v.Name + "), " + v.Name + ", " + x + ");\n", nil
	}
	return v.Name + " = " + x + ";\n", nil
}

// keywordStmt routes a statement that begins with a reserved word.
func (tr *Translator) keywordStmt(kw Keyword) (string, error) {
	switch kw {
	case KwEOL:
		if top := tr.nestTop(); top == 'i' || top == 'e' {
			// a one-statement then/else clause ends with the line
			if err := tr.nestout(top); err != nil {
				return "", err
			}
			return "}\n", nil
		}
		return "", nil

	case KwDim:
		ty := VtInt
		if t := tr.checkVarType(); t != nil {
			ty = VarType(t.Code)
		}
		return "", tr.defvar(ty)

	case KwPrint, KwLprint:
		return tr.printStmt(kw)

	case KwInput:
		return tr.inputStmt()

	case KwLinput:
		return tr.linputStmt()

	case KwIf:
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		if err := tr.nextKeyword(KwThen); err != nil {
			return "", err
		}
		tr.nestin(tr.braceMark('I', 'i'))
		return "if (" + x.Val + ") {\n", nil

	case KwElse:
		return tr.elseStmt()

	case KwFor:
		v, err := tr.lvalue(nil, false, true)
		if err != nil {
			return "", err
		}
		if v == nil {
			return "", errSyntax()
		}
		if err := tr.nextKeyword(KwEq); err != nil {
			return "", err
		}
		from, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		if err := tr.nextKeyword(KwTo); err != nil {
			return "", err
		}
		to, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		tr.nestin('f')
		return "for (" + v.Name + " = " + from.Val + "; " + v.Name + " <= " + to.Val + "; " + v.Name + "++) {\n", nil

	case KwNext:
		if err := tr.nestout('f'); err != nil {
			return "", err
		}
		return "}\n", nil

	case KwWhile:
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		tr.nestin('w')
		return "while (" + x.Val + ") {\n", nil

	case KwEndwhile:
		if err := tr.nestout('w'); err != nil {
			return "", err
		}
		return "}\n", nil

	case KwRepeat:
		tr.nestin('r')
		return "do {\n", nil

	case KwUntil:
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		if err := tr.nestout('r'); err != nil {
			return "", err
		}
		return "} while (!(" + x.Val + "));\n", nil

	case KwSwitch:
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		tr.nestin('s')
		return "switch (" + x.Val + ") {\n", nil

	case KwCase:
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		tr.indentcnt--
		return "case " + x.Val + ":\n", nil

	case KwDefault:
		tr.indentcnt--
		return "default:\n", nil

	case KwEndswitch:
		if err := tr.nestout('s'); err != nil {
			return "", err
		}
		return "}\n", nil

	case KwGoto:
		l, err := tr.lineTarget()
		if err != nil {
			return "", err
		}
		if tr.pass == 1 {
			tr.labels[l] = struct{}{}
		}
		return fmt.Sprintf("goto L%06d;\n", l), nil

	case KwGosub:
		l, err := tr.lineTarget()
		if err != nil {
			return "", err
		}
		if tr.pass == 1 {
			tr.subrs[l] = struct{}{}
		}
		return fmt.Sprintf("S%06d();\n", l), nil

	case KwFunc:
		return tr.funcStmt()

	case KwEndfunc:
		tr.nsp.SetLocal("")
		if err := tr.nestout('F'); err != nil {
			return "", err
		}
		tr.gen.NoComment = true
		return "}\n", nil

	case KwReturn:
		if tr.checkSymbol('(') {
			x, err := tr.expr()
			if err != nil {
				return "", err
			}
			if err := tr.nextSymbol(')'); err != nil {
				return "", err
			}
			if x != nil {
				return "return " + x.Val + ";\n", nil
			}
			return "return 0;\n", nil
		}
		if tr.nestTop() == 'S' && len(tr.nest) == 1 {
			// the subroutine body ends here
			if err := tr.nestout('S'); err != nil {
				return "", err
			}
			tr.gen.NoComment = true
			return "return;\n}\n", nil
		}
		return "return;\n", nil

	case KwBreak:
		tr.checkSymbol(';')
		return "break;\n", nil

	case KwContinue:
		return "continue;\n", nil

	case KwLocate:
		return tr.locateStmt()

	case KwError:
		// the error statement is dropped, surviving only as a comment
		return "/* error " + tr.gen.Fetch().Val + " */\n", nil

	case KwEnd:
		out := tr.bexit + "(0);\n"
		if tr.nestTop() == 'M' && len(tr.nest) == 1 {
			if err := tr.nestout('M'); err != nil {
				return "", err
			}
			tr.gen.NoComment = true
			out += "}\n"
		}
		return out, nil
	}

	if r, err := tr.exfncall(kw, false); err != nil {
		return "", err
	} else if r != nil {
		return r.Val + ";\n", nil
	}
	return "", errSyntax()
}

// braceMark picks the braced or one-statement nesting marker depending on
// whether a '{' follows.
func (tr *Translator) braceMark(braced, plain byte) byte {
	if tr.checkSymbol('{') {
		return braced
	}
	return plain
}

// lineTarget reads a goto/gosub line-number operand.
func (tr *Translator) lineTarget() (int, error) {
	v, err := tr.nextKind(TkInt)
	if err != nil {
		return 0, err
	}
	l, err := strconv.Atoi(v)
	if err != nil {
		return 0, errSyntax()
	}
	return l, nil
}

func (tr *Translator) printStmt(kw Keyword) (string, error) {
	lp := ""
	if kw == KwLprint {
		lp = "l"
	}
	out := ""
	crlf := true
	if tr.checkKeyword(KwUsing) {
		f, err := tr.expr()
		if err != nil {
			return "", err
		}
		if f == nil || !f.IsKind(TkStr) {
			return "", &SyntaxError{Msg: "missing format string for using"}
		}
		if err := tr.nextSymbol(';'); err != nil {
			return "", err
		}
		out += "b_s" + lp + "print(using(strtmp" + strconv.Itoa(tr.strtmp) + "," + f.Val
		tr.strtmp++
		for {
			x, err := tr.expr()
			if err != nil {
				return "", err
			}
			if x != nil {
				if x.IsKind(TkStr) {
					out += "," + x.Val
				} else {
					out += ",(double)(" + x.Val + ")"
				}
			}
			if !tr.checkSymbol(',') {
				break
			}
		}
		out += "));\n"
		crlf = !tr.checkSymbol(';')
	} else {
		for {
			x, err := tr.expr()
			if err != nil {
				return "", err
			}
			if x != nil {
				switch {
				case x.IsKind(TkStr):
					out += "b_s" + lp + "print(" + x.Val + ");\n"
				case x.IsKind(TkFloat):
					out += "b_f" + lp + "print(" + x.Val + ");\n"
				default:
					out += "b_i" + lp + "print(" + x.Val + ");\n"
				}
				crlf = true
			} else if tr.checkKeyword(KwTab) {
				if err := tr.nextSymbol('('); err != nil {
					return "", err
				}
				x, err := tr.need(tr.expr)
				if err != nil {
					return "", err
				}
				if err := tr.nextSymbol(')'); err != nil {
					return "", err
				}
				out += "b_t" + lp + "print(" + x.Val + ");\n"
				crlf = true
			}
			if tr.checkSymbol(';') {
				crlf = false
			} else if tr.checkSymbol(',') {
				out += "b_s" + lp + "print(STRTAB);\n"
				crlf = false
			} else {
				break
			}
		}
	}
	if crlf {
		out += "b_s" + lp + "print(STRCRLF);\n"
	}
	return out, nil
}

func (tr *Translator) inputStmt() (string, error) {
	pstr := "\"? \""
	if p := tr.checkKind(TkStr); p != nil {
		pstr = p.Val
		if tr.checkSymbol(';') {
			pstr += " \"? \""
		} else if err := tr.nextSymbol(','); err != nil {
			return "", err
		}
	}
	out := "b_input(" + pstr
	for {
		a, err := tr.lvalue(nil, false, false)
		if err != nil {
			return "", err
		}
		if a == nil {
			return "", errSyntax()
		}
		if a.IsStr() {
			out += ", sizeof(" + a.Name + "), " + a.Name
		} else {
			var at string
			switch BaseType(a.Type) {
			case VtInt:
				at = "0x204"
			case VtChar:
				at = "0x201"
			case VtFloat:
				at = "0x208"
			default:
				return "", errSyntax()
			}
			out += ", " + at + ", &" + a.Name
		}
		if !tr.checkSymbol(',') {
			break
		}
	}
	return out + ", -1);\n", nil
}

func (tr *Translator) linputStmt() (string, error) {
	out := ""
	if p := tr.checkKind(TkStr); p != nil {
		if err := tr.nextSymbol(';'); err != nil {
			return "", err
		}
		out += "b_sprint(" + p.Val + ");\n"
	}
	a, err := tr.lvalue(nil, false, false)
	if err != nil {
		return "", err
	}
	if a == nil || !a.IsStr() {
		return "", &SyntaxError{Msg: "linput needs a str variable"}
	}
	return out + "b_linput(" + a.Name + ", sizeof(" + a.Name + "));\n", nil
}

func (tr *Translator) elseStmt() (string, error) {
	out := ""
	if tr.nestTop() == 'e' {
		// the inner else clause ends here
		if err := tr.nestout('e'); err != nil {
			return "", err
		}
		out += "}\n"
	}
	if err := tr.nestout('i'); err != nil {
		return "", err
	}
	if tr.checkKeyword(KwIf) {
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		if err := tr.nextKeyword(KwThen); err != nil {
			return "", err
		}
		tr.nestin(tr.braceMark('I', 'i'))
		return out + "} else if (" + x.Val + ") {\n", nil
	}
	tr.nestin(tr.braceMark('E', 'e'))
	return out + "} else {\n", nil
}

// closeBrace handles a statement that begins with '}': the end of a braced
// then/else clause, possibly chaining into else / else if.
func (tr *Translator) closeBrace(s *Token) (string, error) {
	if s.Code != '}' {
		return "", errSyntax()
	}
	out := ""
	if top := tr.nestTop(); top == 'i' || top == 'e' {
		// a one-statement clause nested inside the braced one ends first
		if err := tr.nestout(top); err != nil {
			return "", err
		}
		out = "}\n"
	}
	if tr.nestTop() == 'E' {
		if err := tr.nestout('E'); err != nil {
			return "", err
		}
		return out + "}\n", nil
	}
	if err := tr.nestout('I'); err != nil {
		return "", err
	}
	if !tr.checkKeyword(KwElse) {
		return out + "}\n", nil
	}
	if tr.checkKeyword(KwIf) {
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		if err := tr.nextKeyword(KwThen); err != nil {
			return "", err
		}
		tr.nestin(tr.braceMark('I', 'i'))
		return out + "} else if (" + x.Val + ") {\n", nil
	}
	tr.nestin(tr.braceMark('E', 'e'))
	return out + "} else {\n", nil
}

func (tr *Translator) locateStmt() (string, error) {
	out := ""
	x, err := tr.expr()
	if err != nil {
		return "", err
	}
	if x != nil {
		if err := tr.nextSymbol(','); err != nil {
			return "", err
		}
		y, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		out = "locate(" + x.Val + ", " + y.Val + ");\n"
	} else if err := tr.nextSymbol(','); err != nil {
		return "", err
	}
	if tr.checkSymbol(',') {
		c, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		out += "b_csw(" + c.Val + ");\n"
	}
	return out, nil
}

// funcStmt handles a user function definition header.
func (tr *Translator) funcStmt() (string, error) {
	tr.gen.NoComment = false

	// return type defaults to int
	fty := VtInt
	if t := tr.checkVarType(); t != nil {
		fty = VarType(t.Code)
	}

	fname, err := tr.nextKind(TkVariable)
	if err != nil {
		return "", err
	}
	tr.nsp.SetLocal(fname)

	arg := ""
	if err := tr.nextSymbol('('); err != nil {
		return "", err
	}
	if tr.checkSymbol(')') {
		arg = "void"
	} else {
		for {
			vn, err := tr.nextKind(TkVariable)
			if err != nil {
				return "", err
			}
			vty := VtInt
			if tr.checkSymbol(';') {
				t := tr.checkVarType()
				if t == nil {
					return "", errSyntax()
				}
				vty = VarType(t.Code)
			}
			va := ""
			if IsStrType(vty) {
				va = "[32+1]"
			}
			v, err := tr.nsp.Define(vn, vty, va, "", false, true, false)
			if err != nil {
				return "", err
			}
			if v == nil {
				return "", errSyntax()
			}
			arg += v.TypeName(false) + " " + vn + va
			if !tr.checkSymbol(',') {
				break
			}
			arg += ", "
		}
		if err := tr.nextSymbol(')'); err != nil {
			return "", err
		}
	}

	// the function name itself lives in the global scope
	v, err := tr.nsp.Define(fname, fty, arg, "", true, false, true)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", errSyntax()
	}

	out, err := tr.nestclose()
	if err != nil {
		return "", err
	}
	tr.nestin('F')
	out += "\n/***************************/\n"
	out += v.TypeName(true) + " " + fname + "(" + arg + ")\n{\n"
	if tr.pass != 1 {
		out += tr.nsp.Definitions(fname)
	}
	return out, nil
}

// lvalue parses an assignable target: a scalar, an array element, a whole
// array (assignment only), or a string subscript yielding a char. In
// assignment or for-loop position an undeclared scalar is auto-declared as
// a global int. Returns nil when the tokens do not form an lvalue, leaving
// the stream positioned for a function-call attempt.
func (tr *Translator) lvalue(varTok *Token, islet, isfor bool) (*Variable, error) {
	unfetch := varTok != nil
	if varTok == nil {
		varTok = tr.gen.Fetch()
	}
	if !varTok.IsKind(TkVariable) {
		if unfetch {
			tr.gen.Unfetch(varTok)
		}
		return nil, nil
	}
	v := tr.nsp.Find(varTok.Val, false)
	x := tr.gen.Fetch()
	if x.IsSymbol('(') {
		tr.gen.Unfetch(x)
		if v == nil || !v.IsArray() {
			tr.gen.Unfetch(varTok)
			return nil, nil // a function call, not an array element
		}
	} else {
		tr.gen.Unfetch(x)
		if v == nil {
			if !islet && !isfor {
				if unfetch {
					tr.gen.Unfetch(varTok)
				}
				return nil, nil
			}
			if _, err := tr.nsp.Define(varTok.Val, VtInt, "", "", false, false, true); err != nil {
				return nil, err
			}
			v = tr.nsp.Find(varTok.Val, false)
			if v == nil {
				return nil, errSyntax()
			}
		}
	}
	ty := v.Type
	sub := ""
	if v.IsArray() {
		if tr.checkSymbol('(') {
			sub = "["
			for {
				a, err := tr.expr()
				if err != nil {
					return nil, err
				}
				if a != nil {
					sub += a.Val
				}
				if !tr.checkSymbol(',') {
					break
				}
				sub += "]["
			}
			if err := tr.nextSymbol(')'); err != nil {
				return nil, err
			}
			sub += "]"
			ty = BaseType(ty)
		} else if !islet {
			// a whole array can only appear on the left of an assignment
			if unfetch {
				tr.gen.Unfetch(varTok)
			}
			return nil, nil
		}
	}
	if IsStrType(ty) {
		if tr.checkSymbol('[') {
			a, err := tr.need(tr.expr)
			if err != nil {
				return nil, err
			}
			if err := tr.nextSymbol(']'); err != nil {
				return nil, err
			}
			sub += "[" + a.Val + "]"
			ty = VtChar
		}
	}
	return &Variable{Name: v.Name + sub, Type: ty}, nil
}

// defvar declares one or more comma-separated variables of base type ty.
func (tr *Translator) defvar(ty VarType) error {
	for {
		vn, err := tr.nextKind(TkVariable)
		if err != nil {
			return err
		}
		s := ""
		rty := ty
		if tr.checkSymbol('(') {
			// parenthesized dimensions make an array, with or without dim
			rty = ToArray(ty)
			for {
				d, err := tr.need(tr.expr)
				if err != nil {
					return err
				}
				s += "[(" + d.Val + ")+1]"
				if !tr.checkSymbol(',') {
					break
				}
			}
			if err := tr.nextSymbol(')'); err != nil {
				return err
			}
		}
		if IsStrType(ty) {
			if tr.checkSymbol('[') {
				d, err := tr.need(tr.expr)
				if err != nil {
					return err
				}
				s += "[" + d.Val + "+1]"
				if err := tr.nextSymbol(']'); err != nil {
					return err
				}
			} else {
				s += "[32+1]" // default str buffer size
			}
		}
		x := ""
		if tr.checkKeyword(KwEq) {
			x, err = tr.initvar(rty)
			if err != nil {
				return err
			}
		}
		if _, err := tr.nsp.Define(vn, rty, s, x, false, false, false); err != nil {
			return err
		}
		if !tr.checkSymbol(',') {
			return nil
		}
	}
}

// initvar reads an initializer: a brace-delimited literal for arrays, a
// single expression otherwise.
func (tr *Translator) initvar(ty VarType) (string, error) {
	if !IsArrayType(ty) {
		x, err := tr.need(tr.expr)
		if err != nil {
			return "", err
		}
		return x.Val, nil
	}
	if err := tr.nextSymbol('{'); err != nil {
		return "", err
	}
	n := "{"
	depth := 1
	for depth > 0 {
		switch {
		case tr.checkSymbol('{'):
			n += "{"
			depth++
		case tr.checkSymbol('}'):
			n += "}"
			depth--
		default:
			if a := tr.checkKind(TkSymbol); a != nil {
				n += string(byte(a.Code))
			} else if tr.checkKeyword(KwEOL) {
				n += "\n"
			} else if a := tr.checkKind(TkComment); a != nil {
				n += a.Val
			} else {
				x, err := tr.need(tr.expr)
				if err != nil {
					return "", err
				}
				n += x.Val
			}
		}
	}
	return n, nil
}

// fncall renders a call to a user-defined (or, unless -u is set, unknown)
// function.
func (tr *Translator) fncall(varTok *Token) (*Token, error) {
	unfetch := varTok == nil
	if varTok == nil {
		varTok = tr.gen.Fetch()
	}
	if !varTok.IsKind(TkVariable) {
		if unfetch {
			tr.gen.Unfetch(varTok)
		}
		return nil, nil
	}
	v := tr.nsp.Find(varTok.Val, false)
	if v == nil && tr.pass != 1 && tr.flag&FUndefErr != 0 {
		return nil, &SyntaxError{Msg: "call to undefined function " + varTok.Val}
	}
	arg := ""
	if err := tr.nextSymbol('('); err != nil {
		return nil, err
	}
	for {
		a, err := tr.expr()
		if err != nil {
			return nil, err
		}
		if a != nil {
			arg += a.Val
		}
		if !tr.checkSymbol(',') {
			break
		}
		arg += ", "
	}
	if err := tr.nextSymbol(')'); err != nil {
		return nil, err
	}
	rty := TkFunction
	if v != nil {
		rty = TokenKind(v.Type)
	}
	return makeToken(rty, varTok.Val+"("+arg+")"), nil
}
