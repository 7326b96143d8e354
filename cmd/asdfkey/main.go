// Command asdfkey resolves one tree path in an ASDF file and prints its
// inferred scalar value and type, grounded on original_source's
// examples/asdf_dump_key.c (which resolves a datakey via asdf_get_* and
// prints its value) but generalized from that file's hardcoded print
// methods to value.View's generic scalar inference.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	asdf "github.com/jhunkeler/libasdf-sub000"
	"github.com/jhunkeler/libasdf-sub000/value"
)

func usage(prog string) {
	fmt.Fprintf(os.Stderr, "%s [--no-mmap] FILENAME DATAKEY\n", prog)
	fmt.Fprintf(os.Stderr, "Arguments:\n")
	fmt.Fprintf(os.Stderr, "    FILENAME   required    path to ASDF file\n")
	fmt.Fprintf(os.Stderr, "    DATAKEY    required    tree path to a scalar, e.g. /meta/author\n")
}

func main() {
	var noMmap bool
	pflag.BoolVar(&noMmap, "no-mmap", false, "never mmap blocks or the tree stream")
	pflag.Parse()

	if pflag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "not enough arguments")
		usage(os.Args[0])
		os.Exit(1)
	}
	filename := pflag.Arg(0)
	datakey := pflag.Arg(1)
	if datakey == "" {
		fmt.Fprintln(os.Stderr, "data key is required, and cannot be empty")
		os.Exit(1)
	}

	fmt.Printf("# File:     %s\n", filename)
	fmt.Printf("# Data key: %s\n", datakey)

	var opts []asdf.Option
	if noMmap {
		opts = append(opts, asdf.WithoutMmap())
	}
	f, err := asdf.Open(filename, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening asdf file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	v := f.Tree().Get(datakey)
	if !v.Valid() {
		fmt.Fprintf(os.Stderr, "error reading value at %q: not found\n", datakey)
		os.Exit(1)
	}

	switch v.StructuralKind() {
	case value.KindMapping, value.KindSequence:
		fmt.Printf("# %s is a %s, not a scalar; use asdfinfo to dump it\n", datakey, v.StructuralKind())
		os.Exit(1)
	}

	if v.IsNull() {
		fmt.Println("null (null)")
		return
	}

	// Node().Value carries the scalar's raw YAML text regardless of its
	// inferred Kind; AsString is reserved for the KindString case only.
	fmt.Printf("%s (%s)\n", v.Node().Value, v.Kind())
}
