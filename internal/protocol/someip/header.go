// Package someip implements the SOME/IP on-wire message format used by the
// echo test service: the 16-byte message header and the payload codecs for
// every type in the echo catalogue.
//
// All multi-byte fields are big-endian. References:
//   - AUTOSAR PRS_SOMEIPProtocol (header layout, message types, return codes)
package someip

import (
	"encoding/binary"
	"fmt"
)

// HeaderLen is the size of a SOME/IP message header in bytes.
const HeaderLen = 16

// ProtocolVersion1 is the only protocol version this implementation speaks.
const ProtocolVersion1 = 0x01

// MessageType classifies a SOME/IP message.
type MessageType uint8

const (
	// TypeRequest expects a response.
	TypeRequest MessageType = 0x00

	// TypeRequestNoReturn is a fire-and-forget request; no response is sent.
	TypeRequestNoReturn MessageType = 0x01

	// TypeResponse answers a TypeRequest.
	TypeResponse MessageType = 0x80

	// TypeError answers a TypeRequest that could not be served.
	TypeError MessageType = 0x81
)

func (t MessageType) String() string {
	switch t {
	case TypeRequest:
		return "REQUEST"
	case TypeRequestNoReturn:
		return "REQUEST_NO_RETURN"
	case TypeResponse:
		return "RESPONSE"
	case TypeError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
	}
}

// ReturnCode reports the outcome of a request.
type ReturnCode uint8

const (
	ReturnOK                    ReturnCode = 0x00
	ReturnNotOK                 ReturnCode = 0x01
	ReturnUnknownService        ReturnCode = 0x02
	ReturnUnknownMethod         ReturnCode = 0x03
	ReturnNotReady              ReturnCode = 0x04
	ReturnMalformedMessage      ReturnCode = 0x09
	ReturnWrongProtocolVersion  ReturnCode = 0x07
	ReturnWrongInterfaceVersion ReturnCode = 0x08
)

func (c ReturnCode) String() string {
	switch c {
	case ReturnOK:
		return "OK"
	case ReturnNotOK:
		return "NOT_OK"
	case ReturnUnknownService:
		return "UNKNOWN_SERVICE"
	case ReturnUnknownMethod:
		return "UNKNOWN_METHOD"
	case ReturnNotReady:
		return "NOT_READY"
	case ReturnMalformedMessage:
		return "MALFORMED_MESSAGE"
	case ReturnWrongProtocolVersion:
		return "WRONG_PROTOCOL_VERSION"
	case ReturnWrongInterfaceVersion:
		return "WRONG_INTERFACE_VERSION"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(c))
	}
}

// Header is the 16-byte SOME/IP message header.
//
// Length covers everything after the length field itself: the 8 remaining
// header bytes plus the payload.
type Header struct {
	ServiceID        uint16
	MethodID         uint16
	Length           uint32
	ClientID         uint16
	SessionID        uint16
	ProtocolVersion  uint8
	InterfaceVersion uint8
	MessageType      MessageType
	ReturnCode       ReturnCode
}

// PayloadLen returns the payload size implied by the length field.
func (h *Header) PayloadLen() int {
	if h.Length < 8 {
		return 0
	}
	return int(h.Length - 8)
}

// Encode serializes the header into a fresh 16-byte slice.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], h.ServiceID)
	binary.BigEndian.PutUint16(buf[2:4], h.MethodID)
	binary.BigEndian.PutUint32(buf[4:8], h.Length)
	binary.BigEndian.PutUint16(buf[8:10], h.ClientID)
	binary.BigEndian.PutUint16(buf[10:12], h.SessionID)
	buf[12] = h.ProtocolVersion
	buf[13] = h.InterfaceVersion
	buf[14] = uint8(h.MessageType)
	buf[15] = uint8(h.ReturnCode)
	return buf
}

// EncodeMessage serializes a header with the given payload appended,
// fixing up the length field to match.
func EncodeMessage(h Header, payload []byte) []byte {
	h.Length = uint32(8 + len(payload))
	return append(h.Encode(), payload...)
}

// DecodeMessage parses a datagram into its header and payload.
// The payload slice aliases the input buffer.
func DecodeMessage(data []byte) (Header, []byte, error) {
	if len(data) < HeaderLen {
		return Header{}, nil, fmt.Errorf("message too short: %d bytes, need at least %d", len(data), HeaderLen)
	}

	h := Header{
		ServiceID:        binary.BigEndian.Uint16(data[0:2]),
		MethodID:         binary.BigEndian.Uint16(data[2:4]),
		Length:           binary.BigEndian.Uint32(data[4:8]),
		ClientID:         binary.BigEndian.Uint16(data[8:10]),
		SessionID:        binary.BigEndian.Uint16(data[10:12]),
		ProtocolVersion:  data[12],
		InterfaceVersion: data[13],
		MessageType:      MessageType(data[14]),
		ReturnCode:       ReturnCode(data[15]),
	}

	if h.Length < 8 {
		return Header{}, nil, fmt.Errorf("invalid length field %d: must cover the 8 trailing header bytes", h.Length)
	}

	payloadLen := h.PayloadLen()
	if len(data)-HeaderLen < payloadLen {
		return Header{}, nil, fmt.Errorf("truncated payload: length field implies %d bytes, got %d", payloadLen, len(data)-HeaderLen)
	}

	return h, data[HeaderLen : HeaderLen+payloadLen], nil
}
