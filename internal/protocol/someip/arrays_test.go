package someip

import (
	"bytes"
	"testing"

	"github.com/openmotive/someip-echo/pkg/echo"
)

func TestFixedArrayWireFormat(t *testing.T) {
	data := []byte{
		0, 0, 0, 0, // Item 0.
		1, 1, 1, 1, // Item 1.
		2, 2, 2, 2, // Item 2.
		3, 3, 3, 3, // Item 3.
		4, 4, 4, 4, // Item 4.
		5, 5, 5, 5, // Item 5.
		6, 6, 6, 6, // Item 6.
		7, 7, 7, 7, // Item 7.
	}

	got, err := DecodeFixedArray(data)
	if err != nil {
		t.Fatalf("DecodeFixedArray() error: %v", err)
	}
	want := [echo.FixedArrayLen]uint32{
		0x00000000, 0x01010101, 0x02020202, 0x03030303,
		0x04040404, 0x05050505, 0x06060606, 0x07070707,
	}
	if got != want {
		t.Errorf("DecodeFixedArray() = %v, want %v", got, want)
	}

	if enc := EncodeFixedArray(got); !bytes.Equal(enc, data) {
		t.Errorf("EncodeFixedArray() = % X, want % X", enc, data)
	}

	if _, err := DecodeFixedArray(data[:28]); err == nil {
		t.Error("expected error for short fixed array payload")
	}
}

func TestDynamicArrayWireFormat(t *testing.T) {
	want := []uint32{0x01010101, 0x02020202}

	tests := []struct {
		name            string
		lengthFieldSize int
		data            []byte
	}{
		{"1-byte length", 1, []byte{8, 1, 1, 1, 1, 2, 2, 2, 2}},
		{"2-byte length", 2, []byte{0, 8, 1, 1, 1, 1, 2, 2, 2, 2}},
		{"4-byte length", 4, []byte{0, 0, 0, 8, 1, 1, 1, 1, 2, 2, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDynamicArray(tt.data, tt.lengthFieldSize)
			if err != nil {
				t.Fatalf("DecodeDynamicArray() error: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("[%d] = 0x%08X, want 0x%08X", i, got[i], want[i])
				}
			}

			enc, err := EncodeDynamicArray(got, tt.lengthFieldSize)
			if err != nil {
				t.Fatalf("EncodeDynamicArray() error: %v", err)
			}
			if !bytes.Equal(enc, tt.data) {
				t.Errorf("EncodeDynamicArray() = % X, want % X", enc, tt.data)
			}
		})
	}
}

func TestDynamicArrayErrors(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		if _, err := DecodeDynamicArray([]byte{12, 1, 1, 1, 1}, 1); err == nil {
			t.Error("expected error for length field mismatch")
		}
	})

	t.Run("not element aligned", func(t *testing.T) {
		if _, err := DecodeDynamicArray([]byte{3, 1, 1, 1}, 1); err == nil {
			t.Error("expected error for byte count not divisible by 4")
		}
	})

	t.Run("unsupported length field size", func(t *testing.T) {
		if _, err := DecodeDynamicArray([]byte{0, 0, 0}, 3); err == nil {
			t.Error("expected error for 3-byte length field")
		}
	})

	t.Run("overflowing 1-byte length field", func(t *testing.T) {
		big := make([]uint32, 64) // 256 bytes
		if _, err := EncodeDynamicArray(big, 1); err == nil {
			t.Error("expected error for array exceeding 1-byte length field")
		}
	})
}

func TestAllPrimitivesRoundTrip(t *testing.T) {
	in := echo.AllPrimitives{
		Bool:    true,
		Int8:    -1,
		Int16:   -2,
		Int32:   -3,
		Int64:   -4,
		Uint8:   1,
		Uint16:  2,
		Uint32:  3,
		Uint64:  4,
		Float32: 1.5,
		Float64: -2.5,
	}

	data := EncodeAllPrimitives(in)
	if len(data) != allPrimitivesLen {
		t.Fatalf("encoded length = %d, want %d", len(data), allPrimitivesLen)
	}

	got, err := DecodeAllPrimitives(data)
	if err != nil {
		t.Fatalf("DecodeAllPrimitives() error: %v", err)
	}
	if got != in {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}

	if _, err := DecodeAllPrimitives(data[:len(data)-1]); err == nil {
		t.Error("expected error for truncated struct payload")
	}
}
