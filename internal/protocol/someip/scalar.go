package someip

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/openmotive/someip-echo/pkg/echo"
)

// Scalar payload codecs. Every scalar is big-endian on the wire and the
// payload must contain exactly the scalar, nothing more.

func DecodeBool(data []byte) (bool, error) {
	if len(data) != 1 {
		return false, fmt.Errorf("bool payload must be 1 byte, got %d", len(data))
	}
	return data[0] != 0, nil
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

func DecodeUint8(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, fmt.Errorf("uint8 payload must be 1 byte, got %d", len(data))
	}
	return data[0], nil
}

func EncodeUint8(v uint8) []byte {
	return []byte{v}
}

func DecodeUint16(data []byte) (uint16, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("uint16 payload must be 2 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint16(data), nil
}

func EncodeUint16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

func DecodeUint32(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("uint32 payload must be 4 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

func EncodeUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func DecodeUint64(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("uint64 payload must be 8 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func DecodeInt8(data []byte) (int8, error) {
	v, err := DecodeUint8(data)
	return int8(v), err
}

func EncodeInt8(v int8) []byte {
	return EncodeUint8(uint8(v))
}

func DecodeInt16(data []byte) (int16, error) {
	v, err := DecodeUint16(data)
	return int16(v), err
}

func EncodeInt16(v int16) []byte {
	return EncodeUint16(uint16(v))
}

func DecodeInt32(data []byte) (int32, error) {
	v, err := DecodeUint32(data)
	return int32(v), err
}

func EncodeInt32(v int32) []byte {
	return EncodeUint32(uint32(v))
}

func DecodeInt64(data []byte) (int64, error) {
	v, err := DecodeUint64(data)
	return int64(v), err
}

func EncodeInt64(v int64) []byte {
	return EncodeUint64(uint64(v))
}

func DecodeFloat32(data []byte) (float32, error) {
	v, err := DecodeUint32(data)
	if err != nil {
		return 0, fmt.Errorf("float32 payload: %w", err)
	}
	return math.Float32frombits(v), nil
}

func EncodeFloat32(v float32) []byte {
	return EncodeUint32(math.Float32bits(v))
}

func DecodeFloat64(data []byte) (float64, error) {
	v, err := DecodeUint64(data)
	if err != nil {
		return 0, fmt.Errorf("float64 payload: %w", err)
	}
	return math.Float64frombits(v), nil
}

func EncodeFloat64(v float64) []byte {
	return EncodeUint64(math.Float64bits(v))
}

// allPrimitivesLen is the wire size of the AllPrimitives struct: fields are
// laid out in declaration order with no padding.
const allPrimitivesLen = 1 + 1 + 2 + 4 + 8 + 1 + 2 + 4 + 8 + 4 + 8

// DecodeAllPrimitives decodes the struct-of-all-primitives payload.
func DecodeAllPrimitives(data []byte) (echo.AllPrimitives, error) {
	if len(data) != allPrimitivesLen {
		return echo.AllPrimitives{}, fmt.Errorf("struct payload must be %d bytes, got %d", allPrimitivesLen, len(data))
	}

	var v echo.AllPrimitives
	v.Bool = data[0] != 0
	v.Int8 = int8(data[1])
	v.Int16 = int16(binary.BigEndian.Uint16(data[2:4]))
	v.Int32 = int32(binary.BigEndian.Uint32(data[4:8]))
	v.Int64 = int64(binary.BigEndian.Uint64(data[8:16]))
	v.Uint8 = data[16]
	v.Uint16 = binary.BigEndian.Uint16(data[17:19])
	v.Uint32 = binary.BigEndian.Uint32(data[19:23])
	v.Uint64 = binary.BigEndian.Uint64(data[23:31])
	v.Float32 = math.Float32frombits(binary.BigEndian.Uint32(data[31:35]))
	v.Float64 = math.Float64frombits(binary.BigEndian.Uint64(data[35:43]))
	return v, nil
}

// EncodeAllPrimitives encodes the struct-of-all-primitives payload.
func EncodeAllPrimitives(v echo.AllPrimitives) []byte {
	buf := make([]byte, allPrimitivesLen)
	if v.Bool {
		buf[0] = 0x01
	}
	buf[1] = uint8(v.Int8)
	binary.BigEndian.PutUint16(buf[2:4], uint16(v.Int16))
	binary.BigEndian.PutUint32(buf[4:8], uint32(v.Int32))
	binary.BigEndian.PutUint64(buf[8:16], uint64(v.Int64))
	buf[16] = v.Uint8
	binary.BigEndian.PutUint16(buf[17:19], v.Uint16)
	binary.BigEndian.PutUint32(buf[19:23], v.Uint32)
	binary.BigEndian.PutUint64(buf[23:31], v.Uint64)
	binary.BigEndian.PutUint32(buf[31:35], math.Float32bits(v.Float32))
	binary.BigEndian.PutUint64(buf[35:43], math.Float64bits(v.Float64))
	return buf
}
