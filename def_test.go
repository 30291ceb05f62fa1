package bas2c

import (
	"strings"
	"testing"
)

func Test_Def_Load_Full_Line(t *testing.T) {
	tbl := NewExFuncTable()
	def := "[BASIC]\nS mid$ (S,I,I-) : b_midS($,%,%,%)\n"
	if err := tbl.Load(strings.NewReader(def)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	fn := tbl.Get(tbl.Find("mid$"))
	if fn == nil {
		t.Fatal("mid$ not registered")
	}
	if fn.Type != "S" || fn.Arg != "(S,I,I-)" || fn.CFunc != "b_midS" || fn.CArg != "$,%,%,%" || fn.Group != "BASIC" {
		t.Fatalf("descriptor = %+v", fn)
	}
}

func Test_Def_Load_Void_And_Default_CFunc(t *testing.T) {
	tbl := NewExFuncTable()
	def := "[BASIC]\n  exit (I-) : (%)\nI abs (I) : (%)\n"
	if err := tbl.Load(strings.NewReader(def)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ex := tbl.Get(tbl.Find("exit"))
	if ex == nil || ex.Type != "" || ex.CFunc != "" {
		t.Fatalf("exit descriptor = %+v", ex)
	}
	ab := tbl.Get(tbl.Find("abs"))
	if ab == nil || ab.Type != "I" {
		t.Fatalf("abs descriptor = %+v", ab)
	}
}

func Test_Def_Load_Group_Switches(t *testing.T) {
	tbl := NewExFuncTable()
	def := "[BASIC]\nI rnd () : b_rnd()\n[MOUSE]\nI mouse (I-) : b_mouse(%)\n"
	if err := tbl.Load(strings.NewReader(def)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g := tbl.Get(tbl.Find("rnd")).Group; g != "BASIC" {
		t.Errorf("rnd group = %q", g)
	}
	if g := tbl.Get(tbl.Find("mouse")).Group; g != "MOUSE" {
		t.Errorf("mouse group = %q", g)
	}
}

func Test_Def_Load_Skips_Malformed_Lines(t *testing.T) {
	tbl := NewExFuncTable()
	def := strings.Join([]string{
		"# a stray remark",
		"",
		"I broken_no_colon (I)",
		"I broken_no_parens (I) : b_x",
		"I good (I) : b_good(%)",
		"",
	}, "\n")
	if err := tbl.Load(strings.NewReader(def)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Find("broken_no_colon") != KwNone || tbl.Find("broken_no_parens") != KwNone {
		t.Fatal("malformed lines were registered")
	}
	if tbl.Find("good") == KwNone {
		t.Fatal("valid line after malformed ones was dropped")
	}
}

func Test_Def_Load_Empty_Arg_Signature(t *testing.T) {
	tbl := NewExFuncTable()
	def := "[BASIC]\nS date$ : b_dateS($)\n  date$$ S : b_setdateS(%)\n"
	if err := tbl.Load(strings.NewReader(def)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fn := tbl.Get(tbl.Find("date$")); fn == nil || fn.Arg != "" {
		t.Fatalf("date$ descriptor = %+v", fn)
	}
	if fn := tbl.Get(tbl.Find("date$$")); fn == nil || fn.Arg != "S" {
		t.Fatalf("date$$ descriptor = %+v", fn)
	}
}

func Test_Def_Shipped_File_Loads(t *testing.T) {
	tbl := NewExFuncTable()
	if err := tbl.LoadFile("bas2c.def"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	for _, name := range []string{"abs", "str$", "int$$", "pi", "exit", "inkey$", "inkey$$", "msstat", "stick"} {
		if tbl.Find(name) == KwNone {
			t.Errorf("%s missing from the shipped bas2c.def", name)
		}
	}
}
