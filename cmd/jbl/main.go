// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jbl reads JSON documents, converts them to the binary encoding of
// package jbl, and operates on the result.
//
// Usage:
//
//	jbl fmt [--pretty] [file]        # reformat a document
//	jbl at <pointer> [file]          # print the value at a JSON pointer
//	jbl patch <patch-file> [file]    # apply a JSON Patch
//	jbl merge <patch-file> [file]    # apply a JSON Merge Patch
//	jbl digest [file]                # print the digest of the encoding
//
// Input is read from the named file, or from stdin if it is omitted.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/patch"
	"github.com/spf13/pflag"
)

type command struct {
	name  string
	nargs int // required arguments before the optional input file
	run   func(env *env, args []string) error
}

var commands = []command{
	{"fmt", 0, runFmt},
	{"at", 1, runAt},
	{"patch", 1, runPatch},
	{"merge", 1, runMerge},
	{"digest", 0, runDigest},
}

type env struct {
	opts   jbl.Options
	pretty bool
	out    jbl.Sink
	log    *slog.Logger
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "jbl: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string, stdout io.Writer) error {
	var e env
	var verbose, jwcc bool

	fs := pflag.NewFlagSet("jbl", pflag.ContinueOnError)
	fs.BoolVar(&e.pretty, "pretty", false, "indent output")
	fs.BoolVar(&jwcc, "jwcc", false, "accept comments and trailing commas in input")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	fs.Usage = func() { printUsage(fs) }
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	e.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	e.opts = jbl.Options{AllowComments: jwcc, AllowTrailingCommas: jwcc}
	e.out = jbl.NewWriterSink(stdout)

	args := fs.Args()
	if len(args) == 0 {
		printUsage(fs)
		return errors.New("no command given")
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		rest := args[1:]
		if len(rest) < c.nargs || len(rest) > c.nargs+1 {
			return fmt.Errorf("%s: wrong number of arguments", c.name)
		}
		e.log.Debug("running command", "command", c.name, "args", rest)
		return c.run(&e, rest)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: jbl [flags] <command> [args...]

Commands:
  fmt [file]                 reformat a document
  at <pointer> [file]        print the value at a JSON pointer
  patch <patch-file> [file]  apply a JSON Patch (RFC 6902)
  merge <patch-file> [file]  apply a JSON Merge Patch (RFC 7396)
  digest [file]              print the BLAKE3 digest of the encoding

Flags:
%s`, fs.FlagUsages())
}

// input parses the document named by the optional trailing argument, or
// stdin if there is none.
func (e *env) input(args []string, nargs int) (*jbl.Value, error) {
	var data []byte
	var err error
	if len(args) > nargs {
		data, err = os.ReadFile(args[nargs])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, err
	}
	v, err := jbl.ParseWith(data, e.opts)
	if err != nil {
		return nil, err
	}
	e.log.Debug("parsed input", "bytes", len(data), "encoded", v.Size(), "type", v.Type())
	return v, nil
}

func (e *env) print(v *jbl.Value) error {
	if err := v.WriteJSON(e.out, e.pretty); err != nil {
		return err
	}
	return e.out.Write([]byte("\n"))
}

func runFmt(e *env, args []string) error {
	v, err := e.input(args, 0)
	if err != nil {
		return err
	}
	return e.print(v)
}

func runAt(e *env, args []string) error {
	v, err := e.input(args, 1)
	if err != nil {
		return err
	}
	elt, err := v.At(args[0])
	if err != nil {
		return err
	}
	return e.print(elt)
}

func runPatch(e *env, args []string) error {
	return e.edit(args, patch.ApplyValueJSON)
}

func runMerge(e *env, args []string) error {
	return e.edit(args, patch.MergeValue)
}

func (e *env) edit(args []string, apply func(*jbl.Value, []byte) error) error {
	p, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	v, err := e.input(args, 1)
	if err != nil {
		return err
	}
	if err := apply(v, p); err != nil {
		return err
	}
	e.log.Debug("applied patch", "file", args[0], "encoded", v.Size())
	return e.print(v)
}

func runDigest(e *env, args []string) error {
	v, err := e.input(args, 0)
	if err != nil {
		return err
	}
	return e.out.Write(fmt.Appendf(nil, "%x\n", v.Digest()))
}
