package bas2c

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// translateDef runs a full two-pass translation of src with an optional
// definition-file text, returning the emitted C and the exit status.
func translateDef(t *testing.T, src, def string, flag Flag) (string, int) {
	t.Helper()
	exfns := NewExFuncTable()
	if def != "" {
		if err := exfns.Load(strings.NewReader(def)); err != nil {
			t.Fatalf("Load def: %v", err)
		}
	}
	tr, err := New(strings.NewReader(src), exfns, flag, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr.SetErrOutput(io.Discard)
	var out bytes.Buffer
	status := tr.Run(&out, "test.bas")
	return out.String(), status
}

func translate(t *testing.T, src string, flag Flag) string {
	t.Helper()
	out, status := translateDef(t, src, "", flag)
	if status != 0 {
		t.Fatalf("translation failed; output:\n%s", out)
	}
	return out
}

func wantLine(t *testing.T, out, frag string) {
	t.Helper()
	if !strings.Contains(out, frag) {
		t.Fatalf("output does not contain %q:\n%s", frag, out)
	}
}

// exprOut translates "r = <expr>" with a few predeclared variables and
// returns the rendering of the right-hand side.
func exprOut(t *testing.T, expr string, flag Flag) string {
	t.Helper()
	src := "int a=1,b=2\nfloat f=0.5\nstr s=\"x\",u=\"y\"\nr=" + expr + "\n"
	out := translate(t, src, flag)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimLeft(line, "\t")
		if strings.HasPrefix(line, "r = ") {
			return strings.TrimSuffix(strings.TrimPrefix(line, "r = "), ";")
		}
	}
	t.Fatalf("no assignment to r in output:\n%s", out)
	return ""
}

func Test_Expr_Arithmetic_Default(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a+b", "(a + b)"},
		{"a-b*2", "(a - (b * 2))"},
		{"a*b", "(a * b)"},
		{"a/b", "(a / b)"},
		{"a\\b", "((int)a / (int)b)"},
		{"a mod b", "((int)a % (int)b)"},
		{"a shl 2", "((int)a << (int)2)"},
		{"a shr 1", "((int)a >> (int)1)"},
		{"a and b", "((int)a & (int)b)"},
		{"a or b", "((int)a | (int)b)"},
		{"a xor b", "((int)a ^ (int)b)"},
		{"not a", "(~((int)a))"},
		{"-a", "-a"},
		{"+a", "+a"},
		{"(a+b)*2", "(((a + b)) * 2)"},
	}
	for _, c := range cases {
		if got := exprOut(t, c.in, 0); got != c.want {
			t.Errorf("%s => %q, want %q", c.in, got, c.want)
		}
	}
}

func Test_Expr_Arithmetic_BCCompat(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a+b", "a + b"},
		{"a\\b", "a / b"},
		{"a mod b", "a % b"},
		{"a shl 2", "a << 2"},
		{"a and b", "a & b"},
		{"a or b", "a | b"},
		{"a xor b", "a ^ b"},
		{"not a", "!a"},
	}
	for _, c := range cases {
		if got := exprOut(t, c.in, FBCCompat); got != c.want {
			t.Errorf("%s => %q, want %q", c.in, got, c.want)
		}
	}
}

func Test_Expr_Comparisons_Negate_By_Default(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a=b", "-(a == b)"},
		{"a<>b", "-(a != b)"},
		{"a>b", "-(a > b)"},
		{"a<b", "-(a < b)"},
		{"a>=b", "-(a >= b)"},
		{"a<=b", "-(a <= b)"},
	}
	for _, c := range cases {
		if got := exprOut(t, c.in, 0); got != c.want {
			t.Errorf("%s => %q, want %q", c.in, got, c.want)
		}
	}
	if got := exprOut(t, "a=b", FBCCompat); got != "a == b" {
		t.Errorf("BC compare => %q", got)
	}
}

func Test_Expr_String_Compare_Encodings(t *testing.T) {
	cases := []struct{ in, want string }{
		{"s=u", "((b_strcmp(s, 0x3d20, u))?-1:0)"},
		{"s<>u", "((b_strcmp(s, 0x3c3e, u))?-1:0)"},
		{"s<=u", "((b_strcmp(s, 0x3c3d, u))?-1:0)"},
		{"s>=u", "((b_strcmp(s, 0x3e3d, u))?-1:0)"},
		{"s>u", "((b_strcmp(s, 0x3e20, u))?-1:0)"},
		{"s<u", "((b_strcmp(s, 0x3c20, u))?-1:0)"},
	}
	for _, c := range cases {
		if got := exprOut(t, c.in, 0); got != c.want {
			t.Errorf("%s => %q, want %q", c.in, got, c.want)
		}
	}
}

func Test_Expr_String_Compare_BCCompat(t *testing.T) {
	if got := exprOut(t, "s=u", FBCCompat); got != "b_strcmp(s, 0x3d20, u)" {
		t.Errorf("BC string compare => %q", got)
	}
}

func Test_Expr_Int_Float_Promotion(t *testing.T) {
	// a float operand makes the print call a b_fprint
	out := translate(t, "int a=1\nfloat f=0.5\nprint a+f\n", 0)
	wantLine(t, out, "b_fprint((a + f));")
	out = translate(t, "int a=1,b=2\nprint a+b\n", 0)
	wantLine(t, out, "b_iprint((a + b));")
}

func Test_Expr_Str_In_Arithmetic_Is_Error(t *testing.T) {
	for _, src := range []string{
		"str s=\"x\"\nr=s*2\n",
		"str s=\"x\"\nr=1+s\n",
		"str s=\"x\"\nr=not s\n",
		"str s=\"x\"\nint a=1\nr=s=a\n",
	} {
		if _, status := translateDef(t, src, "", 0); status == 0 {
			t.Errorf("no error for %q", src)
		}
	}
}
