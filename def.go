// def.go — loader for the external library-function definition file
// (bas2c.def). Each [GROUP] section holds lines of the form
//
//	T name arg : [cfunc](carg)
//
// where T is the return-type letter (I/S/C/F, or blank for void), arg is the
// X-BASIC signature over "ISCFN", "A" (array) and "-" (optional), and carg
// is the C argument template over "%&#@$,". Lines that do not match the
// grammar are skipped silently.
package bas2c

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Load reads definition lines from r into the table.
func (t *ExFuncTable) Load(r io.Reader) error {
	grp := ""
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		p := 0
		next := func() byte {
			if p < len(line) {
				return line[p]
			}
			return 0
		}
		skipSpace := func() {
			for next() == ' ' || next() == '\t' {
				p++
			}
		}

		// [GROUP] section header
		if next() == '[' {
			p++
			end := strings.IndexByte(line[p:], ']')
			if end >= 0 {
				grp = line[p : p+end]
			}
			continue
		}

		// return type letter, when present
		typ := ""
		if isAlpha(next()) {
			typ = string(next())
			p++
		}
		skipSpace()

		// X-BASIC function name
		if !(isAlpha(next()) || next() == '_') {
			continue
		}
		start := p
		for isAlnum(next()) || next() == '_' || next() == '$' {
			p++
		}
		name := line[start:p]
		skipSpace()

		// X-BASIC argument signature
		arg := ""
		if next() == '(' || next() == '[' {
			arg += string(next())
			p++
		}
		for isAlnum(next()) || next() == ',' || next() == '-' {
			arg += string(next())
			p++
		}
		if next() == ')' || next() == ']' {
			arg += string(next())
			p++
		}
		skipSpace()

		if next() != ':' {
			continue
		}
		p++
		skipSpace()

		// C function name, when it differs from the X-BASIC one
		cfunc := ""
		if isAlpha(next()) || next() == '_' {
			start = p
			for isAlnum(next()) || next() == '_' {
				p++
			}
			cfunc = line[start:p]
		}

		// C argument template
		if next() != '(' {
			continue
		}
		p++
		carg := ""
		for strings.IndexByte("#@&$%,", next()) >= 0 && next() != 0 {
			carg += string(next())
			p++
		}
		if next() != ')' {
			continue
		}

		t.add(&ExFunc{Type: typ, Name: name, Arg: arg, CFunc: cfunc, CArg: carg, Group: grp})
	}
	return sc.Err()
}

// LoadFile loads one definition file by path.
func (t *ExFuncTable) LoadFile(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return t.Load(fh)
}

// LoadDefault tries the conventional definition file locations: bas2c.def
// and BC.DEF in the working directory, then the path in $BAS2CDEF. Returns
// os.ErrNotExist when none is found.
func (t *ExFuncTable) LoadDefault() error {
	for _, path := range []string{"bas2c.def", "BC.DEF"} {
		if err := t.LoadFile(path); err == nil {
			return nil
		}
	}
	if path := os.Getenv("BAS2CDEF"); path != "" {
		return t.LoadFile(path)
	}
	return os.ErrNotExist
}
