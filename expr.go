// expr.go — recursive-descent expression parser.
//
// Each level returns a Token whose payload is the C rendering of the
// reduced subtree and whose kind is the computed type. A nil token with a
// nil error means "no expression starts here", which callers use to try
// other alternatives. Rendering honors either X-BASIC semantics (bitwise
// operators cast to int, comparisons negate to yield -1 for true) or the
// BC-compatible mode that emits the operators untouched.
package bas2c

import "fmt"

// expr parses one expression at the lowest precedence level.
func (tr *Translator) expr() (*Token, error) {
	return tr.opXor()
}

// need runs a parser level and turns "no expression" into a syntax error.
func (tr *Translator) need(f func() (*Token, error)) (*Token, error) {
	x, err := f()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, errSyntax()
	}
	return x, nil
}

func (tr *Translator) opXor() (*Token, error) {
	r, err := tr.opOr()
	if r == nil || err != nil {
		return r, err
	}
	for tr.checkKeyword(KwXor) {
		a, err := tr.need(tr.opOr)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " ^ (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " ^ " + a.Val)
		}
	}
	return r, nil
}

func (tr *Translator) opOr() (*Token, error) {
	r, err := tr.opAnd()
	if r == nil || err != nil {
		return r, err
	}
	for tr.checkKeyword(KwOr) {
		a, err := tr.need(tr.opAnd)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " | (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " | " + a.Val)
		}
	}
	return r, nil
}

func (tr *Translator) opAnd() (*Token, error) {
	r, err := tr.opNot()
	if r == nil || err != nil {
		return r, err
	}
	for tr.checkKeyword(KwAnd) {
		a, err := tr.need(tr.opNot)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " & (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " & " + a.Val)
		}
	}
	return r, nil
}

func (tr *Translator) opNot() (*Token, error) {
	m := tr.gen.Fetch()
	if !m.IsKeyword(KwNot) {
		tr.gen.Unfetch(m)
		return tr.cmp()
	}
	r, err := tr.need(tr.opNot)
	if err != nil {
		return nil, err
	}
	if r.ResultType(nil) == 0 {
		return nil, errSyntax()
	}
	if tr.flag&FBCCompat == 0 {
		return makeInt("(~((int)" + r.Val + "))"), nil
	}
	return makeInt("!" + r.Val), nil
}

func (tr *Translator) cmp() (*Token, error) {
	r, err := tr.shrshl()
	if r == nil || err != nil {
		return r, err
	}
	for {
		m := tr.gen.Fetch()
		var ms, mt string
		switch {
		case m.IsKeyword(KwEq):
			ms, mt = "==", "0x3d20"
		case m.IsKeyword(KwNe):
			ms, mt = "!=", "0x3c3e"
		case m.IsKeyword(KwGt):
			ms, mt = ">", "0x3e20"
		case m.IsKeyword(KwLt):
			ms, mt = "<", "0x3c20"
		case m.IsKeyword(KwGe):
			ms, mt = ">=", "0x3e3d"
		case m.IsKeyword(KwLe):
			ms, mt = "<=", "0x3c3d"
		default:
			tr.gen.Unfetch(m)
			return r, nil
		}
		a, err := tr.need(tr.shrshl)
		if err != nil {
			return nil, err
		}
		var v string
		if r.IsKind(TkStr) {
			if !a.IsKind(TkStr) {
				return nil, &SyntaxError{Msg: "type mismatch in string comparison"}
			}
			// BASIC true is -1; the operator travels encoded in two bytes.
			v = "b_strcmp(" + r.Val + ", " + mt + ", " + a.Val + ")"
			if tr.flag&FBCCompat == 0 {
				v = "((" + v + ")?-1:0)"
			}
		} else {
			if a.IsKind(TkStr) {
				return nil, &SyntaxError{Msg: "type mismatch in string comparison"}
			}
			v = r.Val + " " + ms + " " + a.Val
			if tr.flag&FBCCompat == 0 {
				v = "-(" + v + ")"
			}
		}
		r = makeInt(v)
	}
}

func (tr *Translator) shrshl() (*Token, error) {
	r, err := tr.addsub()
	if r == nil || err != nil {
		return r, err
	}
	for {
		m := tr.gen.Fetch()
		var ms string
		switch {
		case m.IsKeyword(KwShr):
			ms = ">>"
		case m.IsKeyword(KwShl):
			ms = "<<"
		default:
			tr.gen.Unfetch(m)
			return r, nil
		}
		a, err := tr.need(tr.addsub)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " " + ms + " (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " " + ms + " " + a.Val)
		}
	}
}

func (tr *Translator) addsub() (*Token, error) {
	r, err := tr.opMod()
	if r == nil || err != nil {
		return r, err
	}
	if r.IsKind(TkStr) {
		// '+' on a str operand starts string concatenation
		if !tr.checkKeyword(KwPlus) {
			return r, nil
		}
		v := fmt.Sprintf("b_stradd(strtmp%d, %s, ", tr.strtmp, r.Val)
		tr.strtmp++
		for {
			a, err := tr.need(tr.opMod)
			if err != nil {
				return nil, err
			}
			if !a.IsKind(TkStr) {
				return nil, &SyntaxError{Msg: "string expected in concatenation"}
			}
			v += a.Val + ", "
			if !tr.checkKeyword(KwPlus) {
				break
			}
		}
		return makeStr(v + "-1)"), nil
	}
	for {
		m := tr.gen.Fetch()
		var ms string
		switch {
		case m.IsKeyword(KwPlus):
			ms = "+"
		case m.IsKeyword(KwMinus):
			ms = "-"
		default:
			tr.gen.Unfetch(m)
			return r, nil
		}
		a, err := tr.need(tr.opMod)
		if err != nil {
			return nil, err
		}
		rty := r.ResultType(a)
		if rty == 0 {
			return nil, errSyntax()
		}
		v := r.Val + " " + ms + " " + a.Val
		if tr.flag&FBCCompat == 0 {
			v = "(" + v + ")"
		}
		r = makeToken(rty, v)
	}
}

func (tr *Translator) opMod() (*Token, error) {
	r, err := tr.yen()
	if r == nil || err != nil {
		return r, err
	}
	for tr.checkKeyword(KwMod) {
		a, err := tr.need(tr.yen)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " % (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " % " + a.Val)
		}
	}
	return r, nil
}

// yen parses the integer-division operator '\'.
func (tr *Translator) yen() (*Token, error) {
	r, err := tr.muldiv()
	if r == nil || err != nil {
		return r, err
	}
	for tr.checkKeyword(KwYen) {
		a, err := tr.need(tr.muldiv)
		if err != nil {
			return nil, err
		}
		if r.ResultType(a) == 0 {
			return nil, errSyntax()
		}
		if tr.flag&FBCCompat == 0 {
			r = makeInt("((int)" + r.Val + " / (int)" + a.Val + ")")
		} else {
			r = makeInt(r.Val + " / " + a.Val)
		}
	}
	return r, nil
}

func (tr *Translator) muldiv() (*Token, error) {
	r, err := tr.posneg()
	if r == nil || err != nil {
		return r, err
	}
	for {
		m := tr.gen.Fetch()
		var ms string
		switch {
		case m.IsKeyword(KwMul):
			ms = "*"
		case m.IsKeyword(KwDiv):
			ms = "/"
		default:
			tr.gen.Unfetch(m)
			return r, nil
		}
		a, err := tr.need(tr.posneg)
		if err != nil {
			return nil, err
		}
		rty := r.ResultType(a)
		if rty == 0 {
			return nil, errSyntax()
		}
		v := r.Val + " " + ms + " " + a.Val
		if tr.flag&FBCCompat == 0 {
			v = "(" + v + ")"
		}
		r = makeToken(rty, v)
	}
}

func (tr *Translator) posneg() (*Token, error) {
	m := tr.gen.Fetch()
	var ms string
	switch {
	case m.IsKeyword(KwPlus):
		ms = "+"
	case m.IsKeyword(KwMinus):
		ms = "-"
	default:
		tr.gen.Unfetch(m)
		return tr.paren()
	}
	r, err := tr.need(tr.posneg)
	if err != nil {
		return nil, err
	}
	rty := r.ResultType(nil)
	if rty == 0 {
		return nil, errSyntax()
	}
	return makeToken(rty, ms+r.Val), nil
}

func (tr *Translator) paren() (*Token, error) {
	if !tr.checkSymbol('(') {
		return tr.atom()
	}
	r, err := tr.need(tr.expr)
	if err != nil {
		return nil, err
	}
	if err := tr.nextSymbol(')'); err != nil {
		return nil, err
	}
	return makeToken(r.Kind, "("+r.Val+")"), nil
}

func (tr *Translator) atom() (*Token, error) {
	r := tr.gen.Fetch()
	if r.IsConst() {
		return r, nil
	}
	if r.IsKind(TkKeyword) {
		v, err := tr.exfncall(Keyword(r.Code), true)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
		tr.gen.Unfetch(r)
		return nil, nil
	}
	v, err := tr.lvalue(r, false, false)
	if err != nil {
		return nil, err
	}
	if v != nil {
		return makeToken(TokenKind(v.Type), v.Name), nil
	}
	return tr.fncall(nil)
}
