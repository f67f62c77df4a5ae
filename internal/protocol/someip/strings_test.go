package someip

import (
	"bytes"
	"testing"
)

func TestDecodeDynamicStringWireVectors(t *testing.T) {
	// Byte vectors as produced by a CommonAPI SOME/IP peer.
	tests := []struct {
		name string
		enc  StringEncoding
		data []byte
		want string
	}{
		{
			name: "utf16le",
			enc:  UTF16LE,
			data: []byte{
				0x00, 0x00, 0x00, 0x0E, // Length.
				0xFF, 0xFE, // LE BOM.
				0x48, 0x00, 0x65, 0x00, 0x6C, 0x00, 0x6C, 0x00, 0x6F, 0x00, // "Hello".
				0x00, 0x00, // Terminator.
			},
			want: "Hello",
		},
		{
			name: "utf16be",
			enc:  UTF16BE,
			data: []byte{
				0x00, 0x00, 0x00, 0x0E,
				0xFE, 0xFF,
				0x00, 0x48, 0x00, 0x65, 0x00, 0x6C, 0x00, 0x6C, 0x00, 0x6F,
				0x00, 0x00,
			},
			want: "Hello",
		},
		{
			name: "utf8",
			enc:  UTF8,
			data: []byte{
				0x00, 0x00, 0x00, 0x09,
				0xEF, 0xBB, 0xBF,
				'H', 'e', 'l', 'l', 'o', 0x00,
			},
			want: "Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDynamicString(tt.data, tt.enc)
			if err != nil {
				t.Fatalf("DecodeDynamicString() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeDynamicString() = %q, want %q", got, tt.want)
			}

			// Encoding the decoded value must reproduce the wire bytes.
			if enc := EncodeDynamicString(got, tt.enc); !bytes.Equal(enc, tt.data) {
				t.Errorf("EncodeDynamicString() = % X, want % X", enc, tt.data)
			}
		})
	}
}

func TestFixedStringWireVectors(t *testing.T) {
	t.Run("utf8 width 9", func(t *testing.T) {
		data := []byte{0xEF, 0xBB, 0xBF, 'H', 'e', 'l', 'l', 'o', 0x00}
		got, err := DecodeFixedString(data, UTF8, FixedStringUTF8Len)
		if err != nil {
			t.Fatalf("DecodeFixedString() error: %v", err)
		}
		if got != "Hello" {
			t.Errorf("DecodeFixedString() = %q", got)
		}

		enc, err := EncodeFixedString(got, UTF8, FixedStringUTF8Len)
		if err != nil {
			t.Fatalf("EncodeFixedString() error: %v", err)
		}
		if !bytes.Equal(enc, data) {
			t.Errorf("EncodeFixedString() = % X, want % X", enc, data)
		}
	})

	t.Run("utf16le width 14", func(t *testing.T) {
		data := []byte{
			0xFF, 0xFE,
			0x48, 0x00, 0x65, 0x00, 0x6C, 0x00, 0x6C, 0x00, 0x6F, 0x00,
			0x00, 0x00,
		}
		got, err := DecodeFixedString(data, UTF16LE, FixedStringUTF16Len)
		if err != nil {
			t.Fatalf("DecodeFixedString() error: %v", err)
		}
		if got != "Hello" {
			t.Errorf("DecodeFixedString() = %q", got)
		}
	})

	t.Run("short content is zero padded", func(t *testing.T) {
		enc, err := EncodeFixedString("Hi", UTF8, FixedStringUTF8Len)
		if err != nil {
			t.Fatalf("EncodeFixedString() error: %v", err)
		}
		if len(enc) != FixedStringUTF8Len {
			t.Fatalf("len = %d, want %d", len(enc), FixedStringUTF8Len)
		}
		got, err := DecodeFixedString(enc, UTF8, FixedStringUTF8Len)
		if err != nil {
			t.Fatalf("DecodeFixedString() error: %v", err)
		}
		if got != "Hi" {
			t.Errorf("round trip = %q, want %q", got, "Hi")
		}
	})

	t.Run("oversize content rejected", func(t *testing.T) {
		if _, err := EncodeFixedString("too long for nine", UTF8, FixedStringUTF8Len); err == nil {
			t.Error("expected error for oversize fixed string")
		}
	})
}

func TestDecodeStringErrors(t *testing.T) {
	t.Run("wrong BOM", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00, 0x04, 0xFF, 0xFE, 0x00, 0x00}
		if _, err := DecodeDynamicString(data, UTF16BE); err == nil {
			t.Error("expected error for LE BOM on BE decode")
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00, 0x63, 0xEF, 0xBB, 0xBF, 0x00}
		if _, err := DecodeDynamicString(data, UTF8); err == nil {
			t.Error("expected error for wrong length field")
		}
	})

	t.Run("missing terminator", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00, 0x05, 0xEF, 0xBB, 0xBF, 'h', 'i'}
		if _, err := DecodeDynamicString(data, UTF8); err == nil {
			t.Error("expected error for missing NUL terminator")
		}
	})

	t.Run("invalid utf8 content", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00, 0x06, 0xEF, 0xBB, 0xBF, 0xC3, 0x28, 0x00}
		if _, err := DecodeDynamicString(data, UTF8); err == nil {
			t.Error("expected error for invalid UTF-8 bytes")
		}
	})
}

func TestUTF16SupplementaryPlanes(t *testing.T) {
	// Surrogate pairs must survive the round trip.
	const s = "𝄞 clef"
	for _, enc := range []StringEncoding{UTF16LE, UTF16BE} {
		data := EncodeDynamicString(s, enc)
		got, err := DecodeDynamicString(data, enc)
		if err != nil {
			t.Fatalf("%s: decode error: %v", enc, err)
		}
		if got != s {
			t.Errorf("%s: round trip = %q, want %q", enc, got, s)
		}
	}
}
