// Command asdfndarray dumps an ndarray node's full contents through the
// Tile Engine, grounded on original_source's examples/asdf_dump_ndarray.c
// (open file, resolve datakey, decompress the backing block if needed,
// print every element either by index or row) but reading through
// ndarray.ReadTile/File.ReadTile rather than a raw pointer plus a
// hand-picked decompress_* function, since the Tile Engine already owns
// decompression and byte-order conversion.
package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	asdf "github.com/jhunkeler/libasdf-sub000"
	"github.com/jhunkeler/libasdf-sub000/ndarray"
)

func usage(prog string) {
	fmt.Fprintf(os.Stderr, "%s [--method index|row] [--origin N,N,...] [--shape N,N,...] [--dtype TYPE] [--no-mmap] FILENAME DATAKEY\n", prog)
	fmt.Fprintf(os.Stderr, "Arguments:\n")
	fmt.Fprintf(os.Stderr, "    FILENAME   required    path to ASDF file\n")
	fmt.Fprintf(os.Stderr, "    DATAKEY    required    tree path to a core/ndarray-* node\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "    --origin   optional    comma-separated tile origin, one per dimension [default: all zero]\n")
	fmt.Fprintf(os.Stderr, "    --shape    optional    comma-separated tile shape, one per dimension [default: full array]\n")
	fmt.Fprintf(os.Stderr, "    --dtype    optional    convert elements to this type instead of the array's native datatype\n")
}

func main() {
	var method, originFlag, shapeFlag, dtypeFlag string
	var noMmap bool
	pflag.StringVar(&method, "method", "index", "dump method: index or row")
	pflag.StringVar(&originFlag, "origin", "", "comma-separated tile origin, one per dimension")
	pflag.StringVar(&shapeFlag, "shape", "", "comma-separated tile shape, one per dimension")
	pflag.StringVar(&dtypeFlag, "dtype", "", "convert elements to this datatype")
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
	switch method {
	case "index", "row":
	default:
		fmt.Fprintf(os.Stderr, "unknown dump method %q\n", method)
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
		fmt.Fprintf(os.Stderr, "error reading ndarray from %q: not found\n", datakey)
		os.Exit(1)
	}

	md, err := f.NdarrayMetadata(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ndarray data from %q: %v\n", datakey, err)
		os.Exit(1)
	}

	fmt.Println("# DATA")
	fmt.Printf("# Dimensions: %d\n", len(md.Shape))
	fmt.Printf("# Shape: %s\n", shapeRepr(md.Shape))

	origin, err := parseDims(originFlag, len(md.Shape), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --origin: %v\n", err)
		os.Exit(1)
	}
	shape := md.Shape
	if shapeFlag != "" {
		shape, err = parseDims(shapeFlag, len(md.Shape), 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --shape: %v\n", err)
			os.Exit(1)
		}
	}

	dstType := md.Datatype
	if dtypeFlag != "" {
		dstType, err = parseDatatype(dtypeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --dtype: %v\n", err)
			os.Exit(1)
		}
	}

	if originFlag != "" || shapeFlag != "" {
		fmt.Printf("# Tile origin: %s shape: %s\n", shapeRepr(origin), shapeRepr(shape))
	}

	out, overflow, err := f.ReadTile(md, origin, shape, dstType, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ndarray tile from %q: %v\n", datakey, err)
		os.Exit(1)
	}
	if overflow {
		fmt.Println("# Warning: one or more elements overflowed during conversion")
	}
	fmt.Println("# ----")

	showNdarray(dstType, shape, out, method)
}

// parseDims parses a comma-separated list of dimension sizes, defaulting
// to a slice of ndim copies of fill when s is empty.
func parseDims(s string, ndim int, fill uint64) ([]uint64, error) {
	if s == "" {
		out := make([]uint64, ndim)
		for i := range out {
			out[i] = fill
		}
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != ndim {
		return nil, fmt.Errorf("expected %d dimensions, got %d", ndim, len(parts))
	}
	out := make([]uint64, ndim)
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func parseDatatype(name string) (ndarray.Datatype, error) {
	switch strings.ToLower(name) {
	case "int8":
		return ndarray.TypeInt8, nil
	case "uint8":
		return ndarray.TypeUint8, nil
	case "int16":
		return ndarray.TypeInt16, nil
	case "uint16":
		return ndarray.TypeUint16, nil
	case "int32":
		return ndarray.TypeInt32, nil
	case "uint32":
		return ndarray.TypeUint32, nil
	case "int64":
		return ndarray.TypeInt64, nil
	case "uint64":
		return ndarray.TypeUint64, nil
	case "float32":
		return ndarray.TypeFloat32, nil
	case "float64":
		return ndarray.TypeFloat64, nil
	default:
		return ndarray.TypeUnknown, fmt.Errorf("unrecognized or unsupported datatype %q", name)
	}
}

func shapeRepr(shape []uint64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", s)
	}
	b.WriteByte(']')
	return b.String()
}

// showNdarray prints every element of a row-major, native-byte-order
// buffer, treating the first two shape dimensions as rows/columns
// (matching asdf_dump_ndarray.c's show_ndarray, which only ever indexes
// ndarray->shape[0] and shape[1]) and flattening any remaining trailing
// dimensions into the column count.
func showNdarray(dt ndarray.Datatype, shape []uint64, data []byte, method string) {
	elsize := dt.ElementSize()
	if elsize == 0 {
		fmt.Fprintln(os.Stderr, "unsupported datatype for display")
		return
	}

	rows, cols := uint64(1), uint64(1)
	if len(shape) > 0 {
		rows = shape[0]
	}
	if len(shape) > 1 {
		cols = 1
		for _, s := range shape[1:] {
			cols *= s
		}
	} else if len(shape) == 1 {
		rows, cols = 1, shape[0]
	}

	col := 0
	for row := uint64(0); row < rows; row++ {
		for c := uint64(0); c < cols; c++ {
			idx := row*cols + c
			off := int(idx) * elsize
			elem := data[off : off+elsize]
			printValue(dt, elem, row, c, method)
			if method == "row" {
				col++
				if col >= 8 {
					fmt.Println()
					col = 0
				}
			}
		}
	}
	fmt.Println()
}

func printValue(dt ndarray.Datatype, elem []byte, row, col uint64, method string) {
	repr := formatElem(dt, elem)
	switch method {
	case "row":
		if col == 0 {
			fmt.Printf("\nRow %d\n", row)
		}
		fmt.Printf("%s ", repr)
	default:
		fmt.Printf("[%4d][%4d] = %s\n", row, col, repr)
	}
}

func formatElem(dt ndarray.Datatype, b []byte) string {
	switch dt {
	case ndarray.TypeInt8, ndarray.TypeBool8:
		return fmt.Sprintf("%8d", int8(b[0]))
	case ndarray.TypeUint8:
		return fmt.Sprintf("%8d", b[0])
	case ndarray.TypeInt16:
		return fmt.Sprintf("%8d", int16(binary.NativeEndian.Uint16(b)))
	case ndarray.TypeUint16:
		return fmt.Sprintf("%8d", binary.NativeEndian.Uint16(b))
	case ndarray.TypeInt32:
		return fmt.Sprintf("%8d", int32(binary.NativeEndian.Uint32(b)))
	case ndarray.TypeUint32:
		return fmt.Sprintf("%8d", binary.NativeEndian.Uint32(b))
	case ndarray.TypeInt64:
		return fmt.Sprintf("%8d", int64(binary.NativeEndian.Uint64(b)))
	case ndarray.TypeUint64:
		return fmt.Sprintf("%8d", binary.NativeEndian.Uint64(b))
	case ndarray.TypeFloat32:
		return fmt.Sprintf("%12g", math.Float32frombits(binary.NativeEndian.Uint32(b)))
	case ndarray.TypeFloat64:
		return fmt.Sprintf("%12g", math.Float64frombits(binary.NativeEndian.Uint64(b)))
	default:
		return "?"
	}
}
