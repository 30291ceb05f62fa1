package bas2c

// TokenKind classifies a lexical or reduced token. The constant-kind values
// (Int..Str) share their numeric values with the corresponding type keywords
// and variable base types, so kinds and types convert directly.
type TokenKind int

const (
	TkSymbol   TokenKind = 0
	TkInt      TokenKind = 1
	TkChar     TokenKind = 2
	TkFloat    TokenKind = 3
	TkStr      TokenKind = 4
	TkKeyword  TokenKind = 5
	TkVariable TokenKind = 6
	TkFunction TokenKind = 7
	TkComment  TokenKind = 8
	TkError    TokenKind = -1
)

// Token is an immutable lexer or expression-reduction result. For Symbol and
// Keyword tokens Code carries the character or keyword code; for every other
// kind Val carries the C rendering of the token.
type Token struct {
	Kind TokenKind
	Val  string
	Code int
}

func makeToken(kind TokenKind, val string) *Token { return &Token{Kind: kind, Val: val} }
func makeSymbol(c byte) *Token                    { return &Token{Kind: TkSymbol, Code: int(c)} }
func makeInt(val string) *Token                   { return &Token{Kind: TkInt, Val: val} }
func makeFloat(val string) *Token                 { return &Token{Kind: TkFloat, Val: val} }
func makeStr(val string) *Token                   { return &Token{Kind: TkStr, Val: val} }
func makeKeyword(kw Keyword) *Token               { return &Token{Kind: TkKeyword, Code: int(kw)} }
func makeVariable(val string) *Token              { return &Token{Kind: TkVariable, Val: val} }
func makeComment(val string) *Token               { return &Token{Kind: TkComment, Val: val} }

// IsConst reports whether the token is a literal constant (Int..Str).
func (t *Token) IsConst() bool { return t.Kind >= TkInt && t.Kind <= TkStr }

// IsKind reports whether the token has kind k.
func (t *Token) IsKind(k TokenKind) bool { return t.Kind == k }

// IsSymbol reports whether the token is the symbol character c.
func (t *Token) IsSymbol(c byte) bool { return t.Kind == TkSymbol && t.Code == int(c) }

// IsKeyword reports whether the token is the reserved code kw.
func (t *Token) IsKeyword(kw Keyword) bool { return t.Kind == TkKeyword && t.Code == int(kw) }

// IsVarType reports whether the token is one of the type keywords int, char,
// float or str.
func (t *Token) IsVarType() bool {
	return t.Kind == TkKeyword && t.Code >= int(KwInt) && t.Code <= int(KwStr)
}

// ResultType computes the kind of an arithmetic result combining t with a
// (a may be nil for unary use). Str operands yield 0, which callers treat as
// a type error; char promotes to int; mixing int and float yields float.
func (t *Token) ResultType(a *Token) TokenKind {
	if t.Kind == TkStr {
		return 0
	}
	rty := t.Kind
	if rty == TkChar {
		rty = TkInt
	}
	if a != nil {
		if a.Kind == TkStr {
			return 0
		}
		aty := a.Kind
		if aty == TkChar {
			aty = TkInt
		}
		if rty != aty {
			rty = TkFloat
		}
	}
	return rty
}
