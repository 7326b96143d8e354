// Command asdfinfo pretty-prints an ASDF file's tree, mirroring the
// teacher's dumpFS walk (main.go/dumpfs.go) over fs.WalkDir but walking a
// Value View's mapping/sequence structure instead of a filesystem.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	asdf "github.com/jhunkeler/libasdf-sub000"
	"github.com/jhunkeler/libasdf-sub000/internal/logconf"
	"github.com/jhunkeler/libasdf-sub000/value"
)

func main() {
	var logLevel string
	var noMmap bool
	pflag.StringVar(&logLevel, "log-level", "", "override ASDF_LOG_LEVEL (NONE, TRACE, DEBUG, INFO, WARN, ERROR, FATAL)")
	pflag.BoolVar(&noMmap, "no-mmap", false, "never mmap blocks or the tree stream")
	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [--log-level LEVEL] [--no-mmap] FILENAME\n", os.Args[0])
		os.Exit(1)
	}
	filename := pflag.Arg(0)

	var opts []asdf.Option
	if logLevel != "" {
		level := logconf.FromString(logLevel)
		opts = append(opts, asdf.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))))
	}
	if noMmap {
		opts = append(opts, asdf.WithoutMmap())
	}

	f, err := asdf.Open(filename, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening %s: %v\n", filename, err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("# File:             %s\n", filename)
	fmt.Printf("# ASDF version:     %s\n", f.AsdfVersion())
	fmt.Printf("# Standard version: %s\n", f.StandardVersion())

	n, err := f.BlockCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error counting blocks: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("# Blocks:           %d\n", n)
	fmt.Println("# ----")

	dumpTree(f.Tree(), 0)
}

// dumpTree walks v's mapping/sequence structure depth-first, printing each
// node's path, structural kind, and (once inferred) scalar value — the
// Value-View analogue of the teacher's fs.WalkDir-driven dumpFS.
func dumpTree(v *value.View, depth int) {
	pad := indent(depth)
	switch v.StructuralKind() {
	case value.KindMapping:
		fmt.Printf("%s%s (mapping)\n", pad, displayPath(v))
		for _, child := range v.Pairs() {
			dumpTree(child, depth+1)
		}
	case value.KindSequence:
		fmt.Printf("%s%s (sequence)\n", pad, displayPath(v))
		for child := range v.Values() {
			dumpTree(child, depth+1)
		}
	case value.KindScalar:
		fmt.Printf("%s%s = %s (%s)\n", pad, displayPath(v), scalarRepr(v), v.Kind())
	default:
		fmt.Printf("%s%s (%s)\n", pad, displayPath(v), v.StructuralKind())
	}
}

func indent(depth int) string {
	b := make([]byte, depth*4)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func displayPath(v *value.View) string {
	if v.Path() == "" {
		return "/"
	}
	return v.Path()
}

// scalarRepr prints the scalar's raw YAML text (not AsString, which is
// valid for KindString only) alongside its inferred Kind.
func scalarRepr(v *value.View) string {
	if v.IsNull() {
		return "null"
	}
	return v.Node().Value
}
