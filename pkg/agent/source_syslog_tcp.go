package agent

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/observix/observix/pkg/wire"
)

// SyslogTCPSource accepts TCP connections and treats each newline-delimited
// line as one Event, for inputs that need a reliable transport.
type SyslogTCPSource struct {
	opts     wire.SyslogTCPOptions
	listener net.Listener
	conns    sync.WaitGroup
}

// NewSyslogTCPSource constructs an unbound syslog_tcp source.
func NewSyslogTCPSource(opts wire.SyslogTCPOptions) *SyslogTCPSource {
	return &SyslogTCPSource{opts: opts}
}

func (s *SyslogTCPSource) Bind(ctx context.Context) error {
	lis, err := net.Listen("tcp", net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port)))
	if err != nil {
		return fmt.Errorf("bind syslog_tcp source %s:%d: %w", s.opts.Host, s.opts.Port, err)
	}
	s.listener = lis
	return nil
}

func (s *SyslogTCPSource) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.conns.Wait()
	return err
}

func (s *SyslogTCPSource) Serve(ctx context.Context, out chan<- wire.Event, stats *PipelineStats) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.conns.Add(1)
		go s.handleConn(ctx, conn, out, stats)
	}
}

func (s *SyslogTCPSource) handleConn(ctx context.Context, conn net.Conn, out chan<- wire.Event, stats *PipelineStats) {
	defer s.conns.Done()
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	peer := conn.RemoteAddr().String()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		stats.IncRecv()
		evt := wire.NewEvent(line, peer)
		select {
		case out <- evt:
		default:
			stats.IncDroppedQueueFull()
		}
	}
}
