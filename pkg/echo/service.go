package echo

import (
	"context"

	"github.com/openmotive/someip-echo/internal/logger"
)

// Service is the reference Contract implementation: every two-way operation
// echoes its input back unchanged, the fire-and-forget operation logs it.
type Service struct{}

// NewService creates the echo service implementation.
func NewService() *Service {
	return &Service{}
}

var _ Contract = (*Service)(nil)

func (s *Service) TestBool(ctx context.Context, v bool) bool {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestInt8(ctx context.Context, v int8) int8 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestInt16(ctx context.Context, v int16) int16 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestInt32(ctx context.Context, v int32) int32 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestInt64(ctx context.Context, v int64) int64 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUint8(ctx context.Context, v uint8) uint8 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUint16(ctx context.Context, v uint16) uint16 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUint32(ctx context.Context, v uint32) uint32 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUint64(ctx context.Context, v uint64) uint64 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestFloat32(ctx context.Context, v float32) float32 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestFloat64(ctx context.Context, v float64) float64 {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestStruct(ctx context.Context, v AllPrimitives) AllPrimitives {
	logger.DebugCtx(ctx, "echo struct")
	return v
}

func (s *Service) TestUTF8DynamicString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUTF16LEDynamicString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUTF16BEDynamicString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUTF8FixedString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUTF16LEFixedString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestUTF16BEFixedString(ctx context.Context, v string) string {
	logger.DebugCtx(ctx, "echo", "value", v)
	return v
}

func (s *Service) TestFixedArray(ctx context.Context, v [FixedArrayLen]uint32) [FixedArrayLen]uint32 {
	logger.DebugCtx(ctx, "echo array", "len", len(v))
	return v
}

func (s *Service) TestDynamicArray1Byte(ctx context.Context, v []uint32) []uint32 {
	logger.DebugCtx(ctx, "echo array", "len", len(v))
	return v
}

func (s *Service) TestDynamicArray2Bytes(ctx context.Context, v []uint32) []uint32 {
	logger.DebugCtx(ctx, "echo array", "len", len(v))
	return v
}

func (s *Service) TestDynamicArray4Bytes(ctx context.Context, v []uint32) []uint32 {
	logger.DebugCtx(ctx, "echo array", "len", len(v))
	return v
}

// TestFireAndForgetUint64 only observes its input; there is no reply.
func (s *Service) TestFireAndForgetUint64(ctx context.Context, v uint64) {
	logger.InfoCtx(ctx, "fire-and-forget received", "value", v)
}
