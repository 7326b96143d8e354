package value

import (
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
)

func mustView(t *testing.T, yamlSrc string) *View {
	t.Helper()
	doc, err := yamltree.Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("yamltree.Parse: %v", err)
	}
	return FromDocument(nil, doc)
}

func TestInferCoreSchemaHeuristics(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want Kind
	}{
		{"null keyword", "v: null", KindNull},
		{"null tilde", "v: ~", KindNull},
		{"null empty", "v:", KindNull},
		{"bool true", "v: true", KindBool},
		{"bool False", "v: False", KindBool},
		{"non-negative int narrows to uint8", "v: 5", KindUint8},
		{"int negative narrows to int8", "v: -5", KindInt8},
		{"int negative needs int16", "v: -200", KindInt16},
		{"int negative needs int32", "v: -70000", KindInt32},
		{"int negative needs int64", "v: -5000000000", KindInt64},
		{"uint narrows to uint16", "v: 5000", KindUint16},
		{"uint narrows to uint32", "v: 300000", KindUint32},
		{"uint narrows to uint64", "v: 5000000000", KindUint64},
		{"hex int", "v: 0x10", KindUint8},
		{"float narrows to float32", "v: 1.5", KindFloat},
		{"float needs double", "v: 1.23456789012345", KindDouble},
		{"nan", "v: .nan", KindDouble},
		{"inf", "v: .inf", KindDouble},
		{"neg inf", "v: -.inf", KindDouble},
		{"bare string", "v: hello", KindString},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root := mustView(t, c.yaml)
			got := root.Get("/v").Kind()
			if got != c.want {
				t.Fatalf("Kind() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestInferQuotedStyleForcesString(t *testing.T) {
	root := mustView(t, `v: "123"`)
	v := root.Get("/v")
	if got := v.Kind(); got != KindString {
		t.Fatalf("Kind() = %v, want KindString", got)
	}
	s, err := v.AsString()
	if err != nil || s != "123" {
		t.Fatalf("AsString() = %q, %v", s, err)
	}
}

func TestInferExplicitTagOverridesHeuristics(t *testing.T) {
	root := mustView(t, "v: !!str 123")
	v := root.Get("/v")
	if got := v.Kind(); got != KindString {
		t.Fatalf("Kind() = %v, want KindString (explicit !!str tag)", got)
	}
}

func TestInferExplicitTagParseFailureLatchesError(t *testing.T) {
	root := mustView(t, "v: !!int not-a-number")
	v := root.Get("/v")
	if got := v.Kind(); got != KindUnknown {
		t.Fatalf("Kind() = %v, want KindUnknown", got)
	}
	if v.InferError() != ErrParseFailure {
		t.Fatalf("InferError() = %v, want ErrParseFailure", v.InferError())
	}
}

func TestInferIsMemoized(t *testing.T) {
	root := mustView(t, "v: 42")
	v := root.Get("/v")
	first := v.Kind()
	v.node.Value = "not-a-number-anymore" // mutating after the fact must not change the memoized result
	second := v.Kind()
	if first != second {
		t.Fatalf("Kind() changed after memoization: %v -> %v", first, second)
	}
}
