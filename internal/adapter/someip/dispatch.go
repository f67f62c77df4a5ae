package someip

import (
	"context"
	"net"
	"time"

	"github.com/openmotive/someip-echo/internal/logger"
	wire "github.com/openmotive/someip-echo/internal/protocol/someip"
	"github.com/openmotive/someip-echo/pkg/echo"
)

// operation decodes a request payload, invokes the contract, and encodes
// the reply payload.
type operation func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error)

// dispatchTable maps method IDs to their operations. The fire-and-forget
// method is absent on purpose: it is handled before two-way dispatch.
var dispatchTable = map[uint16]operation{
	wire.MethodTestBool: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeBool(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeBool(c.TestBool(ctx, v)), nil
	},
	wire.MethodTestInt8: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeInt8(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeInt8(c.TestInt8(ctx, v)), nil
	},
	wire.MethodTestInt16: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeInt16(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeInt16(c.TestInt16(ctx, v)), nil
	},
	wire.MethodTestInt32: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeInt32(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeInt32(c.TestInt32(ctx, v)), nil
	},
	wire.MethodTestInt64: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeInt64(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeInt64(c.TestInt64(ctx, v)), nil
	},
	wire.MethodTestUint8: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeUint8(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeUint8(c.TestUint8(ctx, v)), nil
	},
	wire.MethodTestUint16: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeUint16(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeUint16(c.TestUint16(ctx, v)), nil
	},
	wire.MethodTestUint32: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeUint32(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeUint32(c.TestUint32(ctx, v)), nil
	},
	wire.MethodTestUint64: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeUint64(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeUint64(c.TestUint64(ctx, v)), nil
	},
	wire.MethodTestFloat32: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFloat32(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFloat32(c.TestFloat32(ctx, v)), nil
	},
	wire.MethodTestFloat64: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFloat64(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFloat64(c.TestFloat64(ctx, v)), nil
	},
	wire.MethodTestStruct: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeAllPrimitives(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeAllPrimitives(c.TestStruct(ctx, v)), nil
	},
	wire.MethodTestUTF8Dynamic: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicString(payload, wire.UTF8)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicString(c.TestUTF8DynamicString(ctx, v), wire.UTF8), nil
	},
	wire.MethodTestUTF16LEDynamic: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicString(payload, wire.UTF16LE)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicString(c.TestUTF16LEDynamicString(ctx, v), wire.UTF16LE), nil
	},
	wire.MethodTestUTF16BEDynamic: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicString(payload, wire.UTF16BE)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicString(c.TestUTF16BEDynamicString(ctx, v), wire.UTF16BE), nil
	},
	wire.MethodTestUTF8Fixed: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFixedString(payload, wire.UTF8, wire.FixedStringUTF8Len)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFixedString(c.TestUTF8FixedString(ctx, v), wire.UTF8, wire.FixedStringUTF8Len)
	},
	wire.MethodTestUTF16LEFixed: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFixedString(payload, wire.UTF16LE, wire.FixedStringUTF16Len)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFixedString(c.TestUTF16LEFixedString(ctx, v), wire.UTF16LE, wire.FixedStringUTF16Len)
	},
	wire.MethodTestUTF16BEFixed: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFixedString(payload, wire.UTF16BE, wire.FixedStringUTF16Len)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFixedString(c.TestUTF16BEFixedString(ctx, v), wire.UTF16BE, wire.FixedStringUTF16Len)
	},
	wire.MethodTestFixedArray: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeFixedArray(payload)
		if err != nil {
			return nil, err
		}
		return wire.EncodeFixedArray(c.TestFixedArray(ctx, v)), nil
	},
	wire.MethodTestDynArray1Byte: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicArray(payload, 1)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicArray(c.TestDynamicArray1Byte(ctx, v), 1)
	},
	wire.MethodTestDynArray2Bytes: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicArray(payload, 2)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicArray(c.TestDynamicArray2Bytes(ctx, v), 2)
	},
	wire.MethodTestDynArray4Bytes: func(ctx context.Context, c echo.Contract, payload []byte) ([]byte, error) {
		v, err := wire.DecodeDynamicArray(payload, 4)
		if err != nil {
			return nil, err
		}
		return wire.EncodeDynamicArray(c.TestDynamicArray4Bytes(ctx, v), 4)
	},
}

// handleDatagram processes one request datagram and returns the response
// bytes, or nil when no response must be sent (fire-and-forget, undecodable
// noise, or non-request messages).
func (s *Server) handleDatagram(ctx context.Context, data []byte, clientAddr *net.UDPAddr) []byte {
	header, payload, err := wire.DecodeMessage(data)
	if err != nil {
		// Undecodable datagrams include port-liveness probes; drop quietly.
		logger.Debug("Dropping undecodable datagram", "client_addr", clientAddr.String(), "size", len(data), "error", err)
		return nil
	}

	cc := logger.NewCallContext(clientAddr.IP.String())
	cc.Method = wire.MethodName(header.MethodID)
	cc.Instance = bindingInstance
	cc.SessionID = header.SessionID
	ctx = logger.WithContext(ctx, cc)

	start := time.Now()
	response, code := s.dispatch(ctx, header, payload)
	if s.metrics != nil {
		s.metrics.RecordRequest(cc.Method, code.String(), time.Since(start))
	}

	return response
}

// bindingInstance is the instance label attached to dispatch log lines.
const bindingInstance = "test.TestService"

// dispatch validates the header, runs the operation, and builds the
// response message. The returned code reflects the outcome even when no
// response is produced.
func (s *Server) dispatch(ctx context.Context, header wire.Header, payload []byte) ([]byte, wire.ReturnCode) {
	reply := func(code wire.ReturnCode, replyPayload []byte) []byte {
		msgType := wire.TypeResponse
		if code != wire.ReturnOK {
			msgType = wire.TypeError
			replyPayload = nil
		}
		return wire.EncodeMessage(wire.Header{
			ServiceID:        header.ServiceID,
			MethodID:         header.MethodID,
			ClientID:         header.ClientID,
			SessionID:        header.SessionID,
			ProtocolVersion:  wire.ProtocolVersion1,
			InterfaceVersion: wire.EchoInterfaceVersion,
			MessageType:      msgType,
			ReturnCode:       code,
		}, replyPayload)
	}

	switch header.MessageType {
	case wire.TypeRequest, wire.TypeRequestNoReturn:
	default:
		logger.DebugCtx(ctx, "Ignoring non-request message", "message_type", header.MessageType.String())
		return nil, wire.ReturnNotOK
	}

	if header.ProtocolVersion != wire.ProtocolVersion1 {
		logger.WarnCtx(ctx, "Wrong protocol version", "got", header.ProtocolVersion)
		return reply(wire.ReturnWrongProtocolVersion, nil), wire.ReturnWrongProtocolVersion
	}
	if header.ServiceID != wire.EchoServiceID {
		logger.WarnCtx(ctx, "Request for unknown service", "service_id", header.ServiceID)
		return reply(wire.ReturnUnknownService, nil), wire.ReturnUnknownService
	}
	if header.InterfaceVersion != wire.EchoInterfaceVersion {
		logger.WarnCtx(ctx, "Wrong interface version", "got", header.InterfaceVersion)
		return reply(wire.ReturnWrongInterfaceVersion, nil), wire.ReturnWrongInterfaceVersion
	}

	// The fire-and-forget operation never produces a reply, not even on a
	// malformed payload.
	if header.MethodID == wire.MethodTestFireAndForget {
		v, err := wire.DecodeUint64(payload)
		if err != nil {
			logger.WarnCtx(ctx, "Malformed fire-and-forget payload", "error", err)
			return nil, wire.ReturnMalformedMessage
		}
		s.contract.TestFireAndForgetUint64(ctx, v)
		return nil, wire.ReturnOK
	}

	op, ok := dispatchTable[header.MethodID]
	if !ok {
		logger.WarnCtx(ctx, "Request for unknown method", "method_id", header.MethodID)
		if header.MessageType == wire.TypeRequestNoReturn {
			return nil, wire.ReturnUnknownMethod
		}
		return reply(wire.ReturnUnknownMethod, nil), wire.ReturnUnknownMethod
	}

	replyPayload, err := op(ctx, s.contract, payload)
	if err != nil {
		logger.WarnCtx(ctx, "Malformed request payload", "error", err)
		if header.MessageType == wire.TypeRequestNoReturn {
			return nil, wire.ReturnMalformedMessage
		}
		return reply(wire.ReturnMalformedMessage, nil), wire.ReturnMalformedMessage
	}

	if header.MessageType == wire.TypeRequestNoReturn {
		return nil, wire.ReturnOK
	}
	return reply(wire.ReturnOK, replyPayload), wire.ReturnOK
}
