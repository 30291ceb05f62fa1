package bas2c

import (
	"strings"
	"testing"
)

const testDef = `[BASIC]
I abs (I) : (%)
S str$ (I) : b_striS($,%)
I int$$ (F) : b_int(%)
F pi (I-) : (%)
  exit (I-) : (%)
S mid$ (S,I,I-) : b_midS($,%,%,%)
  console (I,I,I-) : b_console(%,%,%)
S inkey$ : b_inkeyS($)
I inkey$$ (I) : b_inkey0(%)
S date$ : b_dateS($)
  date$$ S : b_setdateS(%)
  color (I-) : b_color(%)
I color$$ [I] : b_color0(%)
[MOUSE]
I msstat (IA) : b_msstat(%,#)
`

func libTranslate(t *testing.T, src string) string {
	t.Helper()
	out, status := translateDef(t, src, testDef, 0)
	if status != 0 {
		t.Fatalf("translation failed; output:\n%s", out)
	}
	return out
}

func Test_LibCall_Simple(t *testing.T) {
	out := libTranslate(t, "a=abs(5)\n")
	wantLine(t, out, "\ta = abs(5);\n")
	wantLine(t, out, "#include <basic.h>\n")
}

func Test_LibCall_Abs_Float_Becomes_Fabs(t *testing.T) {
	out := libTranslate(t, "float f=0.5\nprint abs(f)\n")
	// fabs returns a float, so the print call switches too
	wantLine(t, out, "\tb_fprint(fabs(f));\n")
}

func Test_LibCall_StrS_Float_Becomes_Strf(t *testing.T) {
	out := libTranslate(t, "print str$(2.5)\n")
	wantLine(t, out, "\tb_sprint(b_strfS(strtmp0,2.5));\n")
	out = libTranslate(t, "print str$(7)\n")
	wantLine(t, out, "\tb_sprint(b_striS(strtmp0,7));\n")
}

func Test_LibCall_Int_Paren_Routes_To_Conversion(t *testing.T) {
	out := libTranslate(t, "a=int(2.5)\n")
	wantLine(t, out, "\ta = b_int(2.5);\n")
}

func Test_LibCall_Pi_And_Exit_Specials(t *testing.T) {
	out := libTranslate(t, "float f\nf=pi()\nexit()\n")
	wantLine(t, out, "\tf = pi();\n")
	wantLine(t, out, "\texit(0);\n")
}

func Test_LibCall_Omitted_Optional_Args_Use_NASI(t *testing.T) {
	out := libTranslate(t, "str s=\"hello\"\nstr r\nr=mid$(s, 2)\n")
	wantLine(t, out, "b_midS(strtmp0,s,2,0x4e415349)")
	out = libTranslate(t, "console(1,2)\n")
	wantLine(t, out, "\tb_console(1,2,0x4e415349);\n")
}

func Test_LibCall_All_Args_Present(t *testing.T) {
	out := libTranslate(t, "console(1,2,3)\n")
	wantLine(t, out, "\tb_console(1,2,3);\n")
}

func Test_LibCall_InkeyS_Forms(t *testing.T) {
	out := libTranslate(t, "str k\nk=inkey$\n")
	wantLine(t, out, "b_inkeyS(strtmp0)")
	out = libTranslate(t, "a=inkey$(0)\n")
	wantLine(t, out, "\ta = b_inkey0(0);\n")
}

func Test_LibCall_DateS_Read_And_Assign(t *testing.T) {
	out := libTranslate(t, "str d\nd=date$\n")
	wantLine(t, out, "b_strncpy(sizeof(d), d, b_dateS(strtmp0));\n")
	out = libTranslate(t, "date$=\"2024-01-01\"\n")
	wantLine(t, out, "\tb_setdateS(\"2024-01-01\");\n")
}

func Test_LibCall_Color_Bracket_Form(t *testing.T) {
	out := libTranslate(t, "color [3]\n")
	wantLine(t, out, "\tb_color0(3);\n")
	out = libTranslate(t, "color (1)\n")
	wantLine(t, out, "\tb_color(1);\n")
}

func Test_LibCall_Array_By_Name_With_Sizeof(t *testing.T) {
	out := libTranslate(t, "dim int buf(4)\na=msstat(buf)\n")
	wantLine(t, out, "\ta = b_msstat(buf,sizeof(buf));\n")
	wantLine(t, out, "#include <mouse.h>\n")
}

func Test_LibCall_Array_By_Name_Requires_Array(t *testing.T) {
	if _, status := translateDef(t, "int x\na=msstat(x)\n", testDef, 0); status == 0 {
		t.Fatal("msstat accepted a scalar argument")
	}
}

func Test_LibCall_Void_Function_In_Expression_Is_Error(t *testing.T) {
	if _, status := translateDef(t, "a=console(1,2,3)\n", testDef, 0); status == 0 {
		t.Fatal("void function accepted in expression position")
	}
}

func Test_LibCall_Group_Include_Order(t *testing.T) {
	out := libTranslate(t, "a=abs(1)\ndim int buf(4)\nb=msstat(buf)\n")
	bi := strings.Index(out, "#include <basic.h>")
	mi := strings.Index(out, "#include <mouse.h>")
	if bi < 0 || mi < 0 || bi > mi {
		t.Fatalf("group includes missing or unsorted:\n%s", out)
	}
}
