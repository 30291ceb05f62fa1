package bas2c

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Nest_Messages(t *testing.T) {
	cases := []struct {
		mark byte
		want string
	}{
		{'f', "for - next"},
		{'w', "while - endwhile"},
		{'r', "repeat - until"},
		{'s', "switch - endswitch"},
		{'F', "func - endfunc"},
		{'i', "if - then - else"},
		{'I', "if - then - else"},
		{'e', "if - then - else"},
		{'E', "if - then - else"},
		{'M', "block nesting"},
	}
	for _, c := range cases {
		err := nestErr(c.mark)
		var ne *NestError
		if !errors.As(err, &ne) {
			t.Fatalf("nestErr(%c) is not a *NestError", c.mark)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("nestErr(%c) = %q, want substring %q", c.mark, err.Error(), c.want)
		}
	}
}

func Test_Errors_Types_Are_Distinct(t *testing.T) {
	var se *SyntaxError
	var ne *NestError
	var me *NameSpaceError
	if errors.As(errSyntax(), &ne) || errors.As(nestErr('f'), &se) {
		t.Fatal("error families must not satisfy each other")
	}
	err := error(&NameSpaceError{Name: "a"})
	if !errors.As(err, &me) {
		t.Fatal("NameSpaceError lost through the error interface")
	}
	if me.Name != "a" {
		t.Fatalf("Name = %q", me.Name)
	}
}
