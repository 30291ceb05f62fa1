// libcall.go — expander for built-in and external library-function calls.
//
// A call site is matched against the descriptor loaded from the definition
// file: the X-BASIC signature drives token consumption (framing symbols,
// argument expressions, optional slots), and the C-side template renders the
// final call, inserting addresses, sizeofs and string work buffers.
package bas2c

import (
	"fmt"
	"strings"
)

// nasi is passed for omitted optional arguments ("NASI" in Shift JIS).
const nasi = "0x4e415349"

// exfncall expands a library-function call when kw names one; (nil, nil)
// means kw is a reserved word but not a library function. isexpr requires
// the function to return a value.
func (tr *Translator) exfncall(kw Keyword, isexpr bool) (*Token, error) {
	nt := tr.gen.Fetch() // peek for the special-case spellings

	// int(...) is the conversion function, not the type keyword
	if kw == KwInt && nt.IsSymbol('(') {
		kw = tr.exfns.Find("int$$")
	}

	ex := tr.exfns.Get(kw)
	if ex == nil {
		tr.gen.Unfetch(nt)
		return nil, nil
	}

	switch {
	case ex.Name == "date$" && nt.IsKeyword(KwEq):
		ex = tr.exfns.Get(tr.exfns.Find("date$$")) // date$= assigns
	case ex.Name == "time$" && nt.IsKeyword(KwEq):
		ex = tr.exfns.Get(tr.exfns.Find("time$$")) // time$= assigns
	default:
		if ex.Name == "inkey$" && nt.IsSymbol('(') {
			ex = tr.exfns.Get(tr.exfns.Find("inkey$$"))
		} else if ex.Name == "color" && nt.IsSymbol('[') {
			ex = tr.exfns.Get(tr.exfns.Find("color$$"))
		}
		tr.gen.Unfetch(nt)
	}
	if ex == nil {
		return nil, errSyntax()
	}

	// remember the group for the #include lines
	if ex.Group != "" {
		tr.groups[ex.Group] = struct{}{}
	}

	rty := TkInt
	switch ex.Type {
	case "I":
		rty = TkInt
	case "C":
		rty = TkChar
	case "F":
		rty = TkFloat
	case "S":
		rty = TkStr
	default:
		if isexpr {
			return nil, &SyntaxError{Msg: ex.Name + " does not return a value"}
		}
	}

	fn := ex.Name
	if ex.CFunc != "" {
		fn = ex.CFunc
	}

	// walk the X-BASIC signature, collecting rendered arguments
	var av []string
	a := ex.Arg
argloop:
	for len(a) > 0 {
		switch {
		case strings.IndexByte("([])", a[0]) >= 0:
			if err := tr.nextSymbol(a[0]); err != nil {
				return nil, err
			}

		case a[0] == ',':
			if !tr.checkSymbol(',') {
				// every remaining optional slot was omitted
				a = a[1:]
				for len(a) > 0 {
					switch {
					case strings.IndexByte("ISCFN", a[0]) >= 0 && len(a) > 1 && a[1] == '-':
						av = append(av, nasi)
						a = a[2:]
					case a[0] == ',':
						a = a[1:]
					case strings.IndexByte("([])", a[0]) >= 0:
						if err := tr.nextSymbol(a[0]); err != nil {
							return nil, err
						}
						a = a[1:]
					default:
						return nil, errSyntax()
					}
				}
				break argloop
			}

		case strings.IndexByte("ISCFN", a[0]) >= 0:
			if len(a) > 1 && a[1] == 'A' {
				// array passed by name; must be a declared array
				a = a[1:]
				vn, err := tr.nextKind(TkVariable)
				if err != nil {
					return nil, err
				}
				va := tr.nsp.Find(vn, false)
				if va == nil || !va.IsArray() {
					return nil, &SyntaxError{Msg: vn + " is not an array"}
				}
				av = append(av, vn)
			} else {
				x, err := tr.expr()
				if err != nil {
					return nil, err
				}
				if x == nil {
					if len(a) < 2 || a[1] != '-' {
						return nil, errSyntax()
					}
					switch ex.Name {
					case "exit":
						av = append(av, "0") // exit() means exit(0)
					case "pi":
						av = append(av, "")
					default:
						av = append(av, nasi)
					}
					a = a[1:]
				} else {
					if ex.Name == "str$" && x.IsKind(TkFloat) {
						fn = "b_strfS"
					} else if ex.Name == "abs" && x.IsKind(TkFloat) {
						fn = "fabs"
						rty = TkFloat
					}
					av = append(av, x.Val)
				}
			}
		}
		a = a[1:]
	}

	// render the call from the C-side template
	arg := ""
	i := 0
	for ca := ex.CArg; len(ca) > 0; ca = ca[1:] {
		switch ca[0] {
		case ',':
			arg += ","
		case '#':
			if i < 1 || i > len(av) {
				return nil, errSyntax()
			}
			arg += "sizeof(" + av[i-1] + ")"
		case '@':
			if i < 1 || i > len(av) {
				return nil, errSyntax()
			}
			arg += "sizeof(" + av[i-1] + "[0])"
		case '&':
			if i >= len(av) {
				return nil, errSyntax()
			}
			arg += "&" + av[i]
			i++
		case '%':
			if i < len(av) {
				arg += av[i]
			}
			i++
		case '$':
			arg += fmt.Sprintf("strtmp%d", tr.strtmp)
			tr.strtmp++
		}
	}
	return makeToken(rty, fn+"("+arg+")"), nil
}
