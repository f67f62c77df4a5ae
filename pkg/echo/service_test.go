package echo

import (
	"context"
	"math"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	t.Run("bool", func(t *testing.T) {
		for _, v := range []bool{true, false} {
			if got := svc.TestBool(ctx, v); got != v {
				t.Errorf("TestBool(%t) = %t", v, got)
			}
		}
	})

	t.Run("signed extremes", func(t *testing.T) {
		if got := svc.TestInt8(ctx, math.MinInt8); got != math.MinInt8 {
			t.Errorf("TestInt8(min) = %d", got)
		}
		if got := svc.TestInt16(ctx, math.MaxInt16); got != math.MaxInt16 {
			t.Errorf("TestInt16(max) = %d", got)
		}
		if got := svc.TestInt32(ctx, math.MinInt32); got != math.MinInt32 {
			t.Errorf("TestInt32(min) = %d", got)
		}
		if got := svc.TestInt64(ctx, math.MaxInt64); got != math.MaxInt64 {
			t.Errorf("TestInt64(max) = %d", got)
		}
	})

	t.Run("unsigned extremes", func(t *testing.T) {
		if got := svc.TestUint8(ctx, math.MaxUint8); got != math.MaxUint8 {
			t.Errorf("TestUint8(max) = %d", got)
		}
		if got := svc.TestUint16(ctx, math.MaxUint16); got != math.MaxUint16 {
			t.Errorf("TestUint16(max) = %d", got)
		}
		if got := svc.TestUint32(ctx, math.MaxUint32); got != math.MaxUint32 {
			t.Errorf("TestUint32(max) = %d", got)
		}
		if got := svc.TestUint64(ctx, math.MaxUint64); got != uint64(math.MaxUint64) {
			t.Errorf("TestUint64(max) = %d", got)
		}
	})

	t.Run("floats", func(t *testing.T) {
		if got := svc.TestFloat32(ctx, math.Pi); got != float32(math.Pi) {
			t.Errorf("TestFloat32(pi) = %f", got)
		}
		if got := svc.TestFloat64(ctx, math.SmallestNonzeroFloat64); got != math.SmallestNonzeroFloat64 {
			t.Errorf("TestFloat64(smallest) = %g", got)
		}
	})
}

func TestStructRoundTrip(t *testing.T) {
	svc := NewService()

	in := AllPrimitives{
		Bool:    true,
		Int8:    -8,
		Int16:   -16,
		Int32:   -32,
		Int64:   -64,
		Uint8:   8,
		Uint16:  16,
		Uint32:  32,
		Uint64:  64,
		Float32: 0.5,
		Float64: 2.5,
	}

	if got := svc.TestStruct(context.Background(), in); got != in {
		t.Errorf("TestStruct() = %+v, want %+v", got, in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	inputs := []string{"", "Hello", "héllo", "日本語"}
	ops := map[string]func(context.Context, string) string{
		"utf8 dynamic":    svc.TestUTF8DynamicString,
		"utf16le dynamic": svc.TestUTF16LEDynamicString,
		"utf16be dynamic": svc.TestUTF16BEDynamicString,
		"utf8 fixed":      svc.TestUTF8FixedString,
		"utf16le fixed":   svc.TestUTF16LEFixedString,
		"utf16be fixed":   svc.TestUTF16BEFixedString,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				if got := op(ctx, in); got != in {
					t.Errorf("%s(%q) = %q", name, in, got)
				}
			}
		})
	}
}

func TestArrayRoundTrip(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	t.Run("fixed", func(t *testing.T) {
		in := [FixedArrayLen]uint32{0, 1, 2, 3, 4, 5, 6, math.MaxUint32}
		if got := svc.TestFixedArray(ctx, in); got != in {
			t.Errorf("TestFixedArray() = %v, want %v", got, in)
		}
	})

	dynamic := map[string]func(context.Context, []uint32) []uint32{
		"1-byte length": svc.TestDynamicArray1Byte,
		"2-byte length": svc.TestDynamicArray2Bytes,
		"4-byte length": svc.TestDynamicArray4Bytes,
	}

	for name, op := range dynamic {
		t.Run(name, func(t *testing.T) {
			in := []uint32{1, 2, 3}
			got := op(ctx, in)
			if len(got) != len(in) {
				t.Fatalf("%s: len = %d, want %d", name, len(got), len(in))
			}
			for i := range in {
				if got[i] != in[i] {
					t.Errorf("%s: [%d] = %d, want %d", name, i, got[i], in[i])
				}
			}
		})
	}
}

func TestFireAndForgetDoesNotPanic(t *testing.T) {
	svc := NewService()
	svc.TestFireAndForgetUint64(context.Background(), math.MaxUint64)
}
