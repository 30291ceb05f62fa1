// Command bas2c translates X-BASIC sources for the Sharp X68000 into C
// programs that link against the basic0 runtime library.
//
// Usage:
//
//	bas2c [-Dunvbi][-c[tabs]][-o output.c] input.bas [output.c]
//
// "-" as the input reads standard input. Without -o, the output path is the
// input path with its extension replaced by ".c". The -i flag starts an
// interactive preview that re-translates the accumulated program after each
// entered line.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/peterh/liner"

	bas2c "github.com/yunkya2/bas2c-x68k"
)

const (
	appName     = "bas2c"
	historyFile = ".bas2c_history"
	promptMain  = "==> "
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-Dunvbi][-c[tabs]][-o output.c] input.bas [output.c]\n", appName)
}

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	var flag bas2c.Flag
	cindent := 0
	foname := ""
	interactive := false

	// getopt has no optional-argument options; a bare -c means the default
	// comment indent column of 7.
	args := make([]string, 0, len(argv))
	for _, a := range argv {
		if a == "-c" {
			a = "-c7"
		}
		args = append(args, a)
	}

	opts, optind, err := getopt.Getopts(args, "Dunvbic:o:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		usage()
		return 2
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'D':
			flag |= bas2c.FDebug
		case 'u':
			flag |= bas2c.FUndefErr
		case 'n':
			flag |= bas2c.FNoBInit
		case 'v':
			flag |= bas2c.FVerbose
		case 'b':
			flag |= bas2c.FBCCompat
		case 'i':
			interactive = true
		case 'c':
			flag |= bas2c.FBasComment
			n, err := strconv.Atoi(opt.Value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: invalid -c value %q\n", appName, opt.Value)
				usage()
				return 2
			}
			cindent = n
		case 'o':
			foname = opt.Value
		}
	}
	rest := args[optind:]

	exfns := bas2c.NewExFuncTable()
	if err := exfns.LoadDefault(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot load bas2c.def\n", appName)
	}

	if interactive {
		return repl(exfns, flag, cindent)
	}

	if len(rest) < 1 {
		usage()
		return 2
	}
	finame := rest[0]
	if foname == "" && len(rest) > 1 {
		foname = rest[1]
	}
	if finame != "-" && foname == "" {
		foname = strings.TrimSuffix(finame, filepath.Ext(finame)) + ".c"
	}

	var in io.Reader = os.Stdin
	name := "<stdin>"
	if finame != "-" {
		fh, err := os.Open(finame)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s file not found\n", appName, finame)
			return 1
		}
		defer fh.Close()
		in = fh
		name = finame
	}

	out := os.Stdout
	if foname != "" && foname != "-" {
		fo, err := os.Create(foname)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot create output file %s\n", appName, foname)
			return 1
		}
		defer fo.Close()
		out = fo
	}

	tr, err := bas2c.New(in, exfns, flag, cindent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return tr.Run(out, name)
}

// -----------------------------------------------------------------------------
// interactive preview
// -----------------------------------------------------------------------------

// repl accumulates statements and re-translates the whole buffer after each
// accepted line, printing the resulting C. Rejected lines (those that make
// the program invalid) are dropped from the buffer.
func repl(exfns *bas2c.ExFuncTable, flag bas2c.Flag, cindent int) int {
	fmt.Printf("bas2c %s interactive preview\nCtrl+D exits. Type :quit to exit, :clear to start over.\n", bas2c.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var buf strings.Builder
	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			fmt.Println()
			return 0
		}
		switch strings.TrimSpace(line) {
		case ":quit":
			return 0
		case ":clear":
			buf.Reset()
			continue
		case "":
			continue
		}

		probe := buf.String() + line + "\n"
		tr, err := bas2c.New(strings.NewReader(probe), exfns, flag, cindent)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%v", err))
			continue
		}
		var out, diag strings.Builder
		tr.SetErrOutput(&diag)
		if tr.Run(&out, "<repl>") != 0 {
			fmt.Fprint(os.Stderr, color.RedString("%s", diag.String()))
			continue
		}
		buf.WriteString(line + "\n")
		fmt.Print(out.String())
		ln.AppendHistory(line)
	}
}
