// Package echo defines the echo operation catalogue answered by the test
// service and its reference implementation.
//
// The catalogue is closed: it covers every payload type the wire format can
// carry (scalars, a struct of all scalars, strings in three encodings with
// fixed and dynamic length, and u32 arrays with fixed and dynamic length)
// plus one fire-and-forget operation. Every two-way operation returns its
// input unchanged; operations cannot fail.
package echo

import "context"

// FixedArrayLen is the element count of the fixed-length array operation.
const FixedArrayLen = 8

// AllPrimitives aggregates one field of every primitive type the service
// echoes. Field order matches the wire layout of the struct payload.
type AllPrimitives struct {
	Bool    bool
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64
}

// Contract is the fixed set of operations the test service answers.
//
// There is no error path at this layer: invalid input is structurally
// prevented by the typed decoding upstream, so implementations must accept
// any value of the parameter type.
type Contract interface {
	TestBool(ctx context.Context, v bool) bool
	TestInt8(ctx context.Context, v int8) int8
	TestInt16(ctx context.Context, v int16) int16
	TestInt32(ctx context.Context, v int32) int32
	TestInt64(ctx context.Context, v int64) int64
	TestUint8(ctx context.Context, v uint8) uint8
	TestUint16(ctx context.Context, v uint16) uint16
	TestUint32(ctx context.Context, v uint32) uint32
	TestUint64(ctx context.Context, v uint64) uint64
	TestFloat32(ctx context.Context, v float32) float32
	TestFloat64(ctx context.Context, v float64) float64

	TestStruct(ctx context.Context, v AllPrimitives) AllPrimitives

	TestUTF8DynamicString(ctx context.Context, v string) string
	TestUTF16LEDynamicString(ctx context.Context, v string) string
	TestUTF16BEDynamicString(ctx context.Context, v string) string
	TestUTF8FixedString(ctx context.Context, v string) string
	TestUTF16LEFixedString(ctx context.Context, v string) string
	TestUTF16BEFixedString(ctx context.Context, v string) string

	TestFixedArray(ctx context.Context, v [FixedArrayLen]uint32) [FixedArrayLen]uint32
	TestDynamicArray1Byte(ctx context.Context, v []uint32) []uint32
	TestDynamicArray2Bytes(ctx context.Context, v []uint32) []uint32
	TestDynamicArray4Bytes(ctx context.Context, v []uint32) []uint32

	// TestFireAndForgetUint64 has no reply channel; it only observes its
	// input.
	TestFireAndForgetUint64(ctx context.Context, v uint64)
}
