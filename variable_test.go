package bas2c

import "testing"

func Test_Variable_Definitions(t *testing.T) {
	cases := []struct {
		v      *Variable
		global bool
		want   string
	}{
		{NewVariable("a1", VtInt, "", ""), false, "int a1;\n"},
		{NewVariable("a1", VtInt, "", ""), true, "static int a1;\n"},
		{NewVariable("a2", VtFloat, "", "1234"), false, "double a2 = 1234;\n"},
		{NewVariable("a3", ToArray(VtChar), "[10]", ""), false, "unsigned char a3[10];\n"},
		{NewVariable("s", VtStr, "[32+1]", "\"hi\""), true, "static unsigned char s[32+1] = \"hi\";\n"},
		{NewVariable("tmp", ToConst(ToArray(VtInt)), "[(3)+1]", "{1,2,3}"), true, "static const int tmp[(3)+1] = {1,2,3};\n"},
	}
	for _, c := range cases {
		if got := c.v.Definition(c.global); got != c.want {
			t.Errorf("Definition(%v) of %s = %q, want %q", c.global, c.v.Name, got, c.want)
		}
	}
}

func Test_Variable_Function_Definition(t *testing.T) {
	fn := &Variable{Name: "add", Type: VtInt, Arg: "int a, int b", Func: true}
	if got := fn.Definition(true); got != "int add(int a, int b);\n" {
		t.Fatalf("function prototype = %q", got)
	}
	sfn := &Variable{Name: "name", Type: VtStr, Arg: "void", Func: true}
	if got := sfn.Definition(true); got != "unsigned char * name(void);\n" {
		t.Fatalf("str function prototype = %q", got)
	}
}

func Test_Variable_FuncArg_Not_Emitted(t *testing.T) {
	v := &Variable{Name: "x", Type: VtInt, FuncArg: true}
	if got := v.Definition(false); got != "" {
		t.Fatalf("funcarg definition = %q, want empty", got)
	}
}

func Test_Variable_Type_Bits(t *testing.T) {
	if !IsArrayType(ToArray(VtFloat)) {
		t.Error("ToArray lost the array bit")
	}
	if BaseType(ToConst(ToArray(VtChar))) != VtChar {
		t.Error("BaseType did not strip modifier bits")
	}
	if IsStrType(ToArray(VtStr)) {
		t.Error("an array of str is not a plain str")
	}
}
