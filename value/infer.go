package value

import (
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// infer reclassifies a Scalar-kind View into one of String, Bool, Null,
// Int{8,16,32,64}, UInt{8,16,32,64}, Float, Double, or Extension,
// memoizing the result, per spec §4.4's ordered rules.
func (v *View) infer() {
	if v.inferred {
		return
	}
	v.inferred = true

	if v.kind != KindScalar {
		v.inferKind = v.kind
		return
	}
	n := v.node
	text := n.Value

	// Rule 1: quoted/literal/folded style forces String.
	switch n.Style {
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle, yaml.LiteralStyle, yaml.FoldedStyle:
		v.inferKind = KindString
		v.scalar.s = text
		return
	}

	// Rule 2: an explicit YAML Common Schema tag is honored; parse
	// failure is reported but does not fall back to heuristics.
	if tag := explicitCommonTag(n); tag != "" {
		v.inferFromTag(tag, text)
		return
	}

	// Rule 3: plain style, no tag -> core-schema heuristics in order.
	if isNullLiteral(text) {
		v.inferKind = KindNull
		return
	}
	if b, ok := boolLiteral(text); ok {
		v.inferKind = KindBool
		v.scalar.b = b
		return
	}
	if v.inferIntLiteral(text) {
		return
	}
	if v.inferFloatLiteral(text) {
		return
	}
	v.inferKind = KindString
	v.scalar.s = text
}

// explicitCommonTag returns the short common-schema tag name ("null",
// "bool", "int", "float", "str") if n carries one of the YAML Common
// Schema's explicit tags, else "".
func explicitCommonTag(n *yaml.Node) string {
	switch n.Tag {
	case "!!null":
		return "null"
	case "!!bool":
		return "bool"
	case "!!int":
		return "int"
	case "!!float":
		return "float"
	case "!!str":
		return "str"
	}
	return ""
}

func (v *View) inferFromTag(tag, text string) {
	switch tag {
	case "null":
		v.inferKind = KindNull
	case "bool":
		if b, ok := boolLiteral(text); ok {
			v.inferKind = KindBool
			v.scalar.b = b
		} else {
			v.inferKind = KindUnknown
			v.inferErr = ErrParseFailure
		}
	case "int":
		if !v.inferIntLiteral(text) {
			v.inferKind = KindUnknown
			v.inferErr = ErrParseFailure
		}
	case "float":
		if !v.inferFloatLiteral(text) {
			v.inferKind = KindUnknown
			v.inferErr = ErrParseFailure
		}
	case "str":
		v.inferKind = KindString
		v.scalar.s = text
	}
}

func isNullLiteral(s string) bool {
	switch s {
	case "null", "Null", "NULL", "~", "":
		return true
	}
	return false
}

func boolLiteral(s string) (bool, bool) {
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

// inferIntLiteral attempts to parse text as an integer (base 0, so
// 0x/0o/0b prefixes are honored like strtoll/strtoull), choosing the
// narrowest signed or unsigned width that fits, preferring unsigned when
// the value is non-negative. Returns false (without mutating inferKind)
// if text is not an integer literal.
func (v *View) inferIntLiteral(text string) bool {
	if text == "" {
		return false
	}
	if s, err := strconv.ParseInt(text, 0, 64); err == nil {
		if s >= 0 {
			v.classifyUint(uint64(s))
		} else {
			v.classifyInt(s)
		}
		return true
	}
	if u, err := strconv.ParseUint(text, 0, 64); err == nil {
		v.classifyUint(u)
		return true
	}
	return false
}

func (v *View) classifyInt(s int64) {
	v.scalar.i = s
	switch {
	case s >= math.MinInt8 && s <= math.MaxInt8:
		v.inferKind = KindInt8
	case s >= math.MinInt16 && s <= math.MaxInt16:
		v.inferKind = KindInt16
	case s >= math.MinInt32 && s <= math.MaxInt32:
		v.inferKind = KindInt32
	default:
		v.inferKind = KindInt64
	}
}

func (v *View) classifyUint(u uint64) {
	v.scalar.u = u
	switch {
	case u <= math.MaxUint8:
		v.inferKind = KindUint8
	case u <= math.MaxUint16:
		v.inferKind = KindUint16
	case u <= math.MaxUint32:
		v.inferKind = KindUint32
	default:
		v.inferKind = KindUint64
	}
}

// inferFloatLiteral attempts to parse text as a float, tagging it Float
// if the value round-trips losslessly through single precision, else
// Double. Returns false if text is not a float literal.
func (v *View) inferFloatLiteral(text string) bool {
	if text == "" {
		return false
	}
	switch strings.ToLower(text) {
	case ".nan", "nan":
		v.scalar.f64 = math.NaN()
		v.inferKind = KindDouble
		return true
	case ".inf", "+.inf", "inf", "+inf":
		v.scalar.f64 = math.Inf(1)
		v.inferKind = KindDouble
		return true
	case "-.inf", "-inf":
		v.scalar.f64 = math.Inf(-1)
		v.inferKind = KindDouble
		return true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false
	}
	v.scalar.f64 = f
	if float64(float32(f)) == f {
		v.scalar.f32 = float32(f)
		v.inferKind = KindFloat
	} else {
		v.inferKind = KindDouble
	}
	return true
}
