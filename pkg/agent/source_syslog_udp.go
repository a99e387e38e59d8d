package agent

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// udpReadDeadline bounds each ReadFromUDP call so Serve can notice a
// cancelled context promptly instead of blocking forever.
const udpReadDeadline = 250 * time.Millisecond

// SyslogUDPSource binds a UDP socket and turns each datagram into an Event.
type SyslogUDPSource struct {
	opts wire.SyslogUDPOptions
	conn *net.UDPConn
}

// NewSyslogUDPSource constructs an unbound syslog_udp source.
func NewSyslogUDPSource(opts wire.SyslogUDPOptions) *SyslogUDPSource {
	return &SyslogUDPSource{opts: opts}
}

func (s *SyslogUDPSource) Bind(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port)))
	if err != nil {
		return fmt.Errorf("resolve syslog_udp source address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("bind syslog_udp source %s:%d: %w", s.opts.Host, s.opts.Port, err)
	}
	s.conn = conn
	return nil
}

func (s *SyslogUDPSource) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *SyslogUDPSource) Serve(ctx context.Context, out chan<- wire.Event, stats *PipelineStats) {
	buf := make([]byte, 64*1024)
	for ctx.Err() == nil {
		_ = s.conn.SetReadDeadline(time.Now().Add(udpReadDeadline))
		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
		if n == 0 {
			continue
		}

		stats.IncRecv()
		evt := wire.NewEvent(string(buf[:n]), peer.String())
		select {
		case out <- evt:
		default:
			stats.IncDroppedQueueFull()
		}
	}
}
