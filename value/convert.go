package value

import "math"

// Kind returns the View's fully inferred Kind, triggering inference on
// first call (memoized thereafter).
func (v *View) Kind() Kind {
	v.infer()
	return v.inferKind
}

// InferError returns the error latched during type inference (e.g. an
// explicit tag that failed to parse), if any.
func (v *View) InferError() error {
	v.infer()
	return v.inferErr
}

func (v *View) isIntKind() bool {
	switch v.Kind() {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

func (v *View) isUintKind() bool {
	switch v.Kind() {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

// signedValue returns the View's stored numeric value as an int64,
// honoring the spec §9 open-question decision to reject values beyond
// int64 range outright rather than silently reinterpreting them: an
// unsigned value greater than MaxInt64 returns math.MaxInt64 with an
// OverflowError.
func (v *View) signedValue() (int64, error) {
	switch {
	case v.isIntKind():
		return v.scalar.i, nil
	case v.isUintKind():
		if v.scalar.u <= math.MaxInt64 {
			return int64(v.scalar.u), nil
		}
		return math.MaxInt64, &OverflowError{Kind: "int64", Value: int64(math.MaxInt64)}
	default:
		return 0, ErrTypeMismatch
	}
}

// unsignedValue returns the View's stored numeric value as a uint64.
// Signed→unsigned conversions require nonnegativity (spec §4.4); a
// negative signed value is truncated to 0 with an OverflowError.
func (v *View) unsignedValue() (uint64, error) {
	switch {
	case v.isUintKind():
		return v.scalar.u, nil
	case v.isIntKind():
		if v.scalar.i >= 0 {
			return uint64(v.scalar.i), nil
		}
		return 0, &OverflowError{Kind: "uint64", Value: uint64(0)}
	default:
		return 0, ErrTypeMismatch
	}
}

func clampSigned[T ~int8 | ~int16 | ~int32 | ~int64](v int64, lo, hi int64, kind string) (T, error) {
	if v >= lo && v <= hi {
		return T(v), nil
	}
	clamped := hi
	if v < lo {
		clamped = lo
	}
	return T(clamped), &OverflowError{Kind: kind, Value: T(clamped)}
}

func clampUnsigned[T ~uint8 | ~uint16 | ~uint32 | ~uint64](v uint64, hi uint64, kind string) (T, error) {
	if v <= hi {
		return T(v), nil
	}
	return T(hi), &OverflowError{Kind: kind, Value: T(hi)}
}

// AsInt64 returns the View's value as an int64, per signedValue.
func (v *View) AsInt64() (int64, error) { return v.signedValue() }

// AsInt32 narrows to int32, clamping with an OverflowError on overflow.
func (v *View) AsInt32() (int32, error) {
	s, err := v.signedValue()
	if err != nil {
		c, _ := clampSigned[int32](s, math.MinInt32, math.MaxInt32, "int32")
		return c, err
	}
	return clampSigned[int32](s, math.MinInt32, math.MaxInt32, "int32")
}

// AsInt16 narrows to int16.
func (v *View) AsInt16() (int16, error) {
	s, err := v.signedValue()
	if err != nil {
		c, _ := clampSigned[int16](s, math.MinInt16, math.MaxInt16, "int16")
		return c, err
	}
	return clampSigned[int16](s, math.MinInt16, math.MaxInt16, "int16")
}

// AsInt8 narrows to int8.
func (v *View) AsInt8() (int8, error) {
	s, err := v.signedValue()
	if err != nil {
		c, _ := clampSigned[int8](s, math.MinInt8, math.MaxInt8, "int8")
		return c, err
	}
	return clampSigned[int8](s, math.MinInt8, math.MaxInt8, "int8")
}

// AsUint64 returns the View's value as a uint64, per unsignedValue. This
// honors the spec §9 asymmetry: unsigned requests are not capped at
// int64's range the way signed requests are.
func (v *View) AsUint64() (uint64, error) { return v.unsignedValue() }

// AsUint32 narrows to uint32.
func (v *View) AsUint32() (uint32, error) {
	u, err := v.unsignedValue()
	if err != nil {
		c, _ := clampUnsigned[uint32](u, math.MaxUint32, "uint32")
		return c, err
	}
	return clampUnsigned[uint32](u, math.MaxUint32, "uint32")
}

// AsUint16 narrows to uint16.
func (v *View) AsUint16() (uint16, error) {
	u, err := v.unsignedValue()
	if err != nil {
		c, _ := clampUnsigned[uint16](u, math.MaxUint16, "uint16")
		return c, err
	}
	return clampUnsigned[uint16](u, math.MaxUint16, "uint16")
}

// AsUint8 narrows to uint8.
func (v *View) AsUint8() (uint8, error) {
	u, err := v.unsignedValue()
	if err != nil {
		c, _ := clampUnsigned[uint8](u, math.MaxUint8, "uint8")
		return c, err
	}
	return clampUnsigned[uint8](u, math.MaxUint8, "uint8")
}

// AsDouble returns the View's value as a float64. Valid for Float and
// Double kinds.
func (v *View) AsDouble() (float64, error) {
	switch v.Kind() {
	case KindFloat, KindDouble:
		return v.scalar.f64, nil
	default:
		return 0, ErrTypeMismatch
	}
}

// AsFloat returns the View's value as a float32. From a Double-kinded
// View this requires the value to round-trip losslessly through single
// precision, else an OverflowError is returned alongside the truncated
// float32 value.
func (v *View) AsFloat() (float32, error) {
	switch v.Kind() {
	case KindFloat:
		return v.scalar.f32, nil
	case KindDouble:
		f32 := float32(v.scalar.f64)
		if float64(f32) == v.scalar.f64 {
			return f32, nil
		}
		return f32, &OverflowError{Kind: "float32", Value: f32}
	default:
		return 0, ErrTypeMismatch
	}
}

// AsBool accepts a stored Bool directly, and also a stored UInt8 equal
// to 0 or 1, per spec §4.4.
func (v *View) AsBool() (bool, error) {
	switch v.Kind() {
	case KindBool:
		return v.scalar.b, nil
	case KindUint8:
		if v.scalar.u == 0 {
			return false, nil
		}
		if v.scalar.u == 1 {
			return true, nil
		}
		return false, ErrTypeMismatch
	default:
		return false, ErrTypeMismatch
	}
}

// AsString returns the View's value as a string. Valid for String kind
// only; no numeric-to-string coercion is performed.
func (v *View) AsString() (string, error) {
	if v.Kind() != KindString {
		return "", ErrTypeMismatch
	}
	return v.scalar.s, nil
}

// IsNull reports whether the View's inferred kind is Null.
func (v *View) IsNull() bool { return v.Kind() == KindNull }
