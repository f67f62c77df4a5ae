package someip

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// StringEncoding selects the on-wire text encoding of a string payload.
type StringEncoding int

const (
	UTF8 StringEncoding = iota
	UTF16LE
	UTF16BE
)

func (e StringEncoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "invalid"
	}
}

// Fixed-length string widths of the echo catalogue, in bytes, covering BOM,
// content, and terminator.
const (
	FixedStringUTF8Len  = 9
	FixedStringUTF16Len = 14
)

// bom returns the byte-order mark for the encoding.
func (e StringEncoding) bom() []byte {
	switch e {
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	default:
		return []byte{0xEF, 0xBB, 0xBF}
	}
}

// terminatorLen returns the NUL terminator width for the encoding.
func (e StringEncoding) terminatorLen() int {
	if e == UTF8 {
		return 1
	}
	return 2
}

// DecodeDynamicString decodes a dynamic-length string payload: a u32 byte
// count followed by BOM, content, and NUL terminator.
func DecodeDynamicString(data []byte, enc StringEncoding) (string, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("dynamic string payload too short for length field: %d bytes", len(data))
	}
	length := binary.BigEndian.Uint32(data[:4])
	if int(length) != len(data)-4 {
		return "", fmt.Errorf("dynamic string length field %d does not match payload size %d", length, len(data)-4)
	}
	return decodeStringBody(data[4:], enc)
}

// EncodeDynamicString encodes a string as a dynamic-length payload.
func EncodeDynamicString(s string, enc StringEncoding) []byte {
	body := encodeStringBody(s, enc)
	buf := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	return append(buf, body...)
}

// DecodeFixedString decodes a fixed-length string payload of exactly width
// bytes: BOM, content, NUL terminator, zero padding up to width.
func DecodeFixedString(data []byte, enc StringEncoding, width int) (string, error) {
	if len(data) != width {
		return "", fmt.Errorf("fixed string payload must be %d bytes, got %d", width, len(data))
	}
	return decodeStringBody(data, enc)
}

// EncodeFixedString encodes a string as a fixed-length payload of exactly
// width bytes, right-padded with zeros. Returns an error if the encoded
// form does not fit.
func EncodeFixedString(s string, enc StringEncoding, width int) ([]byte, error) {
	body := encodeStringBody(s, enc)
	if len(body) > width {
		return nil, fmt.Errorf("string %q needs %d bytes in %s, exceeds fixed width %d", s, len(body), enc, width)
	}
	buf := make([]byte, width)
	copy(buf, body)
	return buf, nil
}

// decodeStringBody decodes BOM + content + terminator (+ optional zero
// padding for fixed-width strings).
func decodeStringBody(data []byte, enc StringEncoding) (string, error) {
	bom := enc.bom()
	if len(data) < len(bom) {
		return "", fmt.Errorf("string payload too short for %s BOM", enc)
	}
	for i, b := range bom {
		if data[i] != b {
			return "", fmt.Errorf("missing or wrong %s BOM", enc)
		}
	}
	rest := data[len(bom):]

	if enc == UTF8 {
		// Content runs to the first NUL.
		end := -1
		for i, b := range rest {
			if b == 0x00 {
				end = i
				break
			}
		}
		if end < 0 {
			return "", fmt.Errorf("%s string is missing its NUL terminator", enc)
		}
		content := rest[:end]
		if !utf8.Valid(content) {
			return "", fmt.Errorf("string payload is not valid UTF-8")
		}
		return string(content), nil
	}

	// UTF-16: content runs to the first aligned zero code unit.
	if len(rest)%2 != 0 {
		return "", fmt.Errorf("%s string payload has odd byte count", enc)
	}
	units := make([]uint16, 0, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		var u uint16
		if enc == UTF16LE {
			u = binary.LittleEndian.Uint16(rest[i : i+2])
		} else {
			u = binary.BigEndian.Uint16(rest[i : i+2])
		}
		if u == 0 {
			return string(utf16.Decode(units)), nil
		}
		units = append(units, u)
	}
	return "", fmt.Errorf("%s string is missing its NUL terminator", enc)
}

// encodeStringBody encodes BOM + content + terminator.
func encodeStringBody(s string, enc StringEncoding) []byte {
	body := append([]byte{}, enc.bom()...)

	if enc == UTF8 {
		body = append(body, s...)
		return append(body, 0x00)
	}

	for _, u := range utf16.Encode([]rune(s)) {
		if enc == UTF16LE {
			body = append(body, byte(u), byte(u>>8))
		} else {
			body = append(body, byte(u>>8), byte(u))
		}
	}
	return append(body, 0x00, 0x00)
}
