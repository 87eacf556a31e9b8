/*
Glri is an interactive GLR parser REPL.

It reads commands from stdin, using GNU readline-style editing and history
when attached to a TTY, falling back to a direct line reader otherwise.

Usage:

	glri [flags]

The flags are:

	-d, --direct
		Force reading directly from the console instead of using
		GNU readline based routines, even if launched in a TTY.

Once started, the REPL supports:

	:grammar <type>      select a predefined grammar (simple, math, lua, programming)
	:load <file>         load a grammar from a YAML grammar file
	:verbose on|off      toggle diagnostic trace output
	:parse <text>        tokenize and parse text against the current grammar
	:tree                redisplay the last parse result as an indented tree
	:render              redisplay the last parse result as reconstructed source
	:quit                exit the REPL
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/glr"
	"github.com/dekarrin/glr/internal/glr/grammarfile"
	"github.com/dekarrin/glr/internal/glr/predefined"
	"github.com/dekarrin/glr/internal/glr/renderer"
	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/dekarrin/glr/internal/input"
)

const (
	ExitSuccess = iota
	ExitInitError
)

var forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")

// session holds the REPL's mutable state across commands.
type session struct {
	eng         *glr.Engine
	lexer       predefined.Pair
	grammarType predefined.Type
	verbose     bool
	lastTrees   []types.ParseTree
}

func main() {
	pflag.Parse()

	var reader interface {
		ReadCommand() (string, error)
		Close() error
	}

	useReadline := !*forceDirect && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if useReadline {
		rl, err := input.NewInteractiveReader()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitInitError)
		}
		reader = rl
	} else {
		reader = input.NewDirectReader(os.Stdin)
	}
	defer reader.Close()

	sess := &session{eng: glr.New(glr.DefaultConfig())}

	fmt.Println("glri: GLR parsing REPL. Type :grammar <type> to begin, :quit to exit.")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}

		if !strings.HasPrefix(line, ":") {
			fmt.Println("unrecognized input; REPL commands start with ':' (try :parse <text>)")
			continue
		}

		if handleCommand(sess, line) {
			return
		}
	}
}

// handleCommand executes one REPL command line and returns whether the
// REPL should exit.
func handleCommand(sess *session, line string) bool {
	fields, err := shellquote.Split(line[1:])
	if err != nil || len(fields) == 0 {
		fmt.Println("could not parse command")
		return false
	}

	cmd := fields[0]
	rest := fields[1:]

	switch cmd {
	case "quit", "exit":
		return true

	case "grammar":
		if len(rest) != 1 {
			fmt.Println("usage: :grammar <simple|math|lua|programming>")
			return false
		}
		pair, err := predefined.Get(predefined.Type(rest[0]))
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return false
		}
		sess.lexer = pair
		sess.grammarType = predefined.Type(rest[0])
		sess.eng = glr.New(glr.DefaultConfig())
		sess.eng.Reset(pair.Grammar)
		sess.eng.SetVerbose(sess.verbose)
		if sess.verbose {
			sess.eng.RegisterTraceListener(func(msg string) { fmt.Fprintf(os.Stderr, "trace: %s\n", msg) })
		}
		fmt.Printf("grammar set to %q\n", rest[0])

	case "load":
		if len(rest) != 1 {
			fmt.Println("usage: :load <file.yaml>")
			return false
		}
		g, err := grammarfile.Load(rest[0])
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return false
		}
		sess.eng.Reset(g)
		fmt.Printf("grammar loaded from %s\n", rest[0])

	case "verbose":
		if len(rest) != 1 || (rest[0] != "on" && rest[0] != "off") {
			fmt.Println("usage: :verbose on|off")
			return false
		}
		sess.verbose = rest[0] == "on"
		sess.eng.SetVerbose(sess.verbose)
		if sess.verbose {
			sess.eng.RegisterTraceListener(func(msg string) { fmt.Fprintf(os.Stderr, "trace: %s\n", msg) })
		}

	case "parse":
		if sess.lexer.Lexer == nil {
			fmt.Println("no tokenizer selected; use :grammar first")
			return false
		}
		text := strings.Join(rest, " ")
		stream, err := sess.lexer.Lexer.Lex(strings.NewReader(text))
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return false
		}
		trees, err := sess.eng.Parse(stream)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return false
		}
		sess.lastTrees = trees
		fmt.Printf("%d parse tree(s) found\n", len(trees))

	case "tree":
		printTrees(sess.lastTrees, false)

	case "render":
		printTrees(sess.lastTrees, true)

	default:
		fmt.Printf("unknown command %q\n", cmd)
	}

	return false
}

func printTrees(trees []types.ParseTree, render bool) {
	if len(trees) == 0 {
		fmt.Println("no parse result yet")
		return
	}
	for i, t := range trees {
		fmt.Printf("--- tree %d ---\n", i+1)
		if render {
			fmt.Println(renderer.Render(t))
		} else {
			fmt.Println(t.String())
		}
	}
}
