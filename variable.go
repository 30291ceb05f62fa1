package bas2c

// VarType encodes a variable's base type (low nibble, same values as the
// type keywords) plus the Array and StaticConst modifier bits.
type VarType int

const (
	VtInt   VarType = VarType(KwInt)
	VtChar  VarType = VarType(KwChar)
	VtFloat VarType = VarType(KwFloat)
	VtStr   VarType = VarType(KwStr)

	VtArray       VarType = 0x10
	VtStaticConst VarType = 0x20
)

// IsStrType reports whether t is exactly the str base type.
func IsStrType(t VarType) bool { return t == VtStr }

// IsArrayType reports whether t carries the array bit (or higher).
func IsArrayType(t VarType) bool { return t >= VtArray }

// ToArray adds the array bit to t.
func ToArray(t VarType) VarType { return t | VtArray }

// ToConst adds the static-const bit to t.
func ToConst(t VarType) VarType { return t | VtStaticConst }

// BaseType strips the modifier bits from t.
func BaseType(t VarType) VarType { return t & 0xf }

// Variable is a declared name: a scalar, an array, a string buffer, or a
// user function (Func true; Type is then the return type and Arg the C
// parameter list). FuncArg marks function formal parameters, which are not
// re-emitted as local definitions.
type Variable struct {
	Name    string
	Type    VarType
	Arg     string // array dimensions / str buffer suffix / function params
	Init    string
	Func    bool
	FuncArg bool
}

// NewVariable builds a plain variable entry.
func NewVariable(name string, ty VarType, arg, init string) *Variable {
	return &Variable{Name: name, Type: ty, Arg: arg, Init: init}
}

// IsStr reports whether the variable is a plain str.
func (v *Variable) IsStr() bool { return v.Type == VtStr }

// IsArray reports whether the variable is an array.
func (v *Variable) IsArray() bool { return v.Type >= VtArray }

// TypeName renders the C type of the variable. fnres selects the spelling
// used for a function result, where str becomes a pointer.
func (v *Variable) TypeName(fnres bool) string {
	if fnres && v.Type == VtStr {
		return "unsigned char *"
	}
	switch BaseType(v.Type) {
	case VtInt:
		return "int"
	case VtChar:
		return "unsigned char"
	case VtFloat:
		return "double"
	case VtStr:
		return "unsigned char"
	}
	return ""
}

// TypeQual renders the storage qualifier: static const for frozen
// initializer temporaries, static for file-scope definitions.
func (v *Variable) TypeQual(global bool) string {
	if v.Type >= VtStaticConst {
		return "static const "
	}
	if global {
		return "static "
	}
	return ""
}

// Definition renders the C definition line for the variable, or "" for
// function formal parameters (which appear in the parameter list instead).
func (v *Variable) Definition(global bool) string {
	if v.FuncArg {
		return ""
	}
	if v.Func {
		return v.TypeName(true) + " " + v.Name + "(" + v.Arg + ");\n"
	}
	r := v.TypeQual(global) + v.TypeName(false) + " " + v.Name + v.Arg
	if v.Init != "" {
		r += " = " + v.Init
	}
	return r + ";\n"
}
