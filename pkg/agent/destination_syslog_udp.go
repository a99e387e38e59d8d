package agent

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// rfc3164Timestamp is the BSD syslog timestamp format.
const rfc3164Timestamp = "Jan _2 15:04:05"

// SyslogUDPDestination emits one UDP datagram per Event, framed as
// "<PRI>TIMESTAMP HOST APPNAME: RAW".
type SyslogUDPDestination struct {
	opts     wire.SyslogUDPOptions
	hostname string
	conn     net.Conn
}

// NewSyslogUDPDestination constructs an undialed syslog_udp destination.
func NewSyslogUDPDestination(opts wire.SyslogUDPOptions) *SyslogUDPDestination {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "observix-agent"
	}
	return &SyslogUDPDestination{opts: opts, hostname: hostname}
}

func (d *SyslogUDPDestination) Dial(ctx context.Context) error {
	conn, err := net.Dial("udp", net.JoinHostPort(d.opts.Host, strconv.Itoa(d.opts.Port)))
	if err != nil {
		return fmt.Errorf("dial syslog_udp destination %s:%d: %w", d.opts.Host, d.opts.Port, err)
	}
	d.conn = conn
	return nil
}

func (d *SyslogUDPDestination) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Send writes each event as its own datagram, best-effort: no read, no
// ack, no timeout. It keeps sending the remainder of the batch even after
// a write error, returning the count of datagrams written and the last
// error observed.
func (d *SyslogUDPDestination) Send(ctx context.Context, events []wire.Event) (int, error) {
	var sent int
	var lastErr error
	for _, evt := range events {
		ts := evt.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		frame := fmt.Sprintf("<%d>%s %s %s: %s", d.opts.PRI, ts.Format(rfc3164Timestamp), d.hostname, d.opts.AppName, evt.Raw)
		if _, err := d.conn.Write([]byte(frame)); err != nil {
			lastErr = fmt.Errorf("send syslog_udp datagram: %w", err)
			continue
		}
		sent++
	}
	return sent, lastErr
}
