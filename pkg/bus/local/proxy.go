package local

import (
	"net"
	"strconv"
	"sync/atomic"
	"time"

	wire "github.com/openmotive/someip-echo/internal/protocol/someip"
)

// probeTimeout bounds a single availability check. Well under the
// default polling interval so a dead endpoint cannot stall the poll loop.
const probeTimeout = 50 * time.Millisecond

// proxy checks availability by exercising the wire: it sends a request
// for a method the service does not implement and treats any reply as
// proof the endpoint is up. A closed or unbound socket yields silence.
type proxy struct {
	runtime *Runtime
	key     string
	session atomic.Uint32
}

func (p *proxy) Available() bool {
	port := p.runtime.endpointPort(p.key)
	if port == 0 {
		return false
	}

	target := net.JoinHostPort(p.runtime.config.Address, strconv.Itoa(port))
	conn, err := net.Dial("udp", target)
	if err != nil {
		return false
	}
	defer conn.Close()

	probe := wire.EncodeMessage(wire.Header{
		ServiceID:        wire.EchoServiceID,
		MethodID:         0x0000,
		ClientID:         0x0000,
		SessionID:        uint16(p.session.Add(1)),
		ProtocolVersion:  wire.ProtocolVersion1,
		InterfaceVersion: wire.EchoInterfaceVersion,
		MessageType:      wire.TypeRequest,
		ReturnCode:       wire.ReturnOK,
	}, nil)

	if _, err := conn.Write(probe); err != nil {
		return false
	}
	if err := conn.SetReadDeadline(time.Now().Add(probeTimeout)); err != nil {
		return false
	}

	reply := make([]byte, wire.HeaderLen)
	n, err := conn.Read(reply)
	return err == nil && n >= wire.HeaderLen
}
