package someip

import (
	"encoding/binary"
	"fmt"

	"github.com/openmotive/someip-echo/pkg/echo"
)

// u32 array codecs. Elements are big-endian. The fixed-length variant has
// no length field; dynamic variants carry a byte-count prefix of 1, 2, or
// 4 bytes.

// DecodeFixedArray decodes the fixed-length array payload.
func DecodeFixedArray(data []byte) ([echo.FixedArrayLen]uint32, error) {
	var out [echo.FixedArrayLen]uint32
	if len(data) != echo.FixedArrayLen*4 {
		return out, fmt.Errorf("fixed array payload must be %d bytes, got %d", echo.FixedArrayLen*4, len(data))
	}
	for i := range out {
		out[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return out, nil
}

// EncodeFixedArray encodes the fixed-length array payload.
func EncodeFixedArray(v [echo.FixedArrayLen]uint32) []byte {
	buf := make([]byte, echo.FixedArrayLen*4)
	for i, u := range v {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], u)
	}
	return buf
}

// DecodeDynamicArray decodes a dynamic-length array payload whose byte
// count is carried in a prefix of lengthFieldSize bytes (1, 2, or 4).
func DecodeDynamicArray(data []byte, lengthFieldSize int) ([]uint32, error) {
	if len(data) < lengthFieldSize {
		return nil, fmt.Errorf("dynamic array payload too short for %d-byte length field", lengthFieldSize)
	}

	var byteCount int
	switch lengthFieldSize {
	case 1:
		byteCount = int(data[0])
	case 2:
		byteCount = int(binary.BigEndian.Uint16(data[:2]))
	case 4:
		byteCount = int(binary.BigEndian.Uint32(data[:4]))
	default:
		return nil, fmt.Errorf("unsupported array length field size %d", lengthFieldSize)
	}

	body := data[lengthFieldSize:]
	if byteCount != len(body) {
		return nil, fmt.Errorf("array length field %d does not match payload size %d", byteCount, len(body))
	}
	if byteCount%4 != 0 {
		return nil, fmt.Errorf("array byte count %d is not a multiple of the element size", byteCount)
	}

	out := make([]uint32, byteCount/4)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(body[i*4 : i*4+4])
	}
	return out, nil
}

// EncodeDynamicArray encodes a dynamic-length array payload with a byte
// count prefix of lengthFieldSize bytes. Returns an error if the byte
// count does not fit into the length field.
func EncodeDynamicArray(v []uint32, lengthFieldSize int) ([]byte, error) {
	byteCount := len(v) * 4

	var max int
	switch lengthFieldSize {
	case 1:
		max = 0xFF
	case 2:
		max = 0xFFFF
	case 4:
		max = 0x7FFFFFFF
	default:
		return nil, fmt.Errorf("unsupported array length field size %d", lengthFieldSize)
	}
	if byteCount > max {
		return nil, fmt.Errorf("array of %d bytes exceeds %d-byte length field", byteCount, lengthFieldSize)
	}

	buf := make([]byte, lengthFieldSize, lengthFieldSize+byteCount)
	switch lengthFieldSize {
	case 1:
		buf[0] = byte(byteCount)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(byteCount))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(byteCount))
	}

	for _, u := range v {
		var el [4]byte
		binary.BigEndian.PutUint32(el[:], u)
		buf = append(buf, el[:]...)
	}
	return buf, nil
}
