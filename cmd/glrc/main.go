/*
Glrc is a batch GLR parser driver.

It reads a predefined grammar type, tokenizes and parses an input file
against it, and writes the resulting parse tree (or, with --render, a
reconstructed source string) to an output file or stdout.

Usage:

	glrc [flags] <grammar_type> <input_file> [output_file]

grammar_type is one of: simple, math, lua, programming.

The flags are:

	-r, --render
		Print a reconstructed source string instead of an indented tree.

	-v, --verbose
		Print diagnostic trace output to stderr.

	-c, --config FILE
		Load engine ceilings and sync tokens from a TOML config file.

	--cache DIR
		Cache the built automaton under DIR, keyed by grammar content hash,
		and reuse it on subsequent runs against the same grammar.

Exit code 0 on success, 1 on parse failure or missing input.
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/glr"
	"github.com/dekarrin/glr/internal/glr/cache"
	"github.com/dekarrin/glr/internal/glr/config"
	"github.com/dekarrin/glr/internal/glr/predefined"
	"github.com/dekarrin/glr/internal/glr/renderer"
	"github.com/dekarrin/glr/internal/version"
)

const (
	ExitSuccess = iota
	ExitParseError
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "V", false, "Gives the version info")
	flagRender  = pflag.BoolP("render", "r", false, "Reconstruct source text instead of printing the tree")
	flagVerbose = pflag.BoolP("verbose", "v", false, "Print diagnostic trace output to stderr")
	flagConfig  = pflag.StringP("config", "c", "", "Load engine config from the given TOML file")
	flagCache   = pflag.String("cache", "", "Cache the built automaton under this directory")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "USAGE: glrc [flags] <grammar_type> <input_file> [output_file]")
		returnCode = ExitParseError
		return
	}

	grammarType := predefined.Type(args[0])
	inputFile := args[1]
	var outputFile string
	if len(args) > 2 {
		outputFile = args[2]
	}

	cfg := glr.DefaultConfig()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	colorize := isatty.IsTerminal(os.Stderr.Fd())

	eng := glr.New(cfg)
	if *flagVerbose {
		eng.SetVerbose(true)
		eng.RegisterTraceListener(func(msg string) {
			prefix := time.Now().Format("15:04:05")
			if colorize {
				fmt.Fprintf(os.Stderr, "\x1b[2m%s\x1b[0m %s\n", prefix, msg)
			} else {
				fmt.Fprintf(os.Stderr, "%s %s\n", prefix, msg)
			}
		})
	}

	pair, err := predefined.Get(grammarType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	eng.Reset(pair.Grammar)

	buildStart := time.Now()

	if *flagCache != "" {
		key := cache.KeyFor(pair.Grammar)
		if dfa, ok, cacheErr := cache.Load(*flagCache, key); cacheErr == nil && ok {
			eng.AdoptDFA(dfa)
		}
	}

	if err := eng.Build(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if *flagCache != "" {
		if dfa, buildErr := eng.GetDFA(); buildErr == nil {
			if storeErr := cache.Store(*flagCache, cache.KeyFor(pair.Grammar), *dfa, eng.ID()); storeErr != nil && *flagVerbose {
				fmt.Fprintf(os.Stderr, "WARN: cache store failed: %s\n", storeErr.Error())
			}
		}
	}

	if *flagVerbose {
		fmt.Fprintf(os.Stderr, "built in %s\n", humanize.RelTime(buildStart, time.Now(), "", ""))
	}

	in, err := os.Open(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}
	defer in.Close()

	stream, err := pair.Lexer.Lex(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}

	trees, err := eng.Parse(stream)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer f.Close()
		out = f
	}

	for _, tree := range trees {
		if *flagRender {
			fmt.Fprintln(out, renderer.Render(tree))
		} else {
			fmt.Fprintln(out, tree.String())
		}
	}
}
