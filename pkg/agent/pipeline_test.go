package agent

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observix/observix/pkg/wire"
)

// freeUDPPort grabs an ephemeral port by binding and immediately closing a
// UDP socket, following the usual net/http-test trick for picking a free
// port deterministically enough for a short-lived test.
func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func mustOpts(t *testing.T, host string, port int) []byte {
	t.Helper()
	b, err := json.Marshal(wire.SyslogUDPOptions{Host: host, Port: port, PRI: 13, AppName: "observix"})
	require.NoError(t, err)
	return b
}

// TestPipelineRawForwarderScenario sends three datagrams to a syslog_udp
// source with batch_max_events=2 and asserts they arrive unchanged and in
// order at a syslog_udp destination, and that recv and sent_events are 3.
func TestPipelineRawForwarderScenario(t *testing.T) {
	srcPort := freeUDPPort(t)
	dstPort := freeUDPPort(t)

	dstConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: dstPort})
	require.NoError(t, err)
	defer dstConn.Close()

	spec := wire.PipelineSpec{
		Source:          wire.SourceSpec{Kind: wire.SourceSyslogUDP, Options: mustOpts(t, "127.0.0.1", srcPort)},
		Processor:       wire.ProcessorSpec{Mode: wire.ProcessorRaw},
		Destination:     wire.DestinationSpec{Kind: wire.DestinationSyslogUDP, Options: mustOpts(t, "127.0.0.1", dstPort)},
		BatchMaxEvents:  2,
		BatchMaxSeconds: 1.0,
	}

	p, err := NewPipeline("p1", 1, spec, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Start(ctx))
	require.Equal(t, StateRunning, p.State())
	defer p.Stop(2 * time.Second)

	var mu sync.Mutex
	var received []string
	go func() {
		buf := make([]byte, 4096)
		for {
			_ = dstConn.SetReadDeadline(time.Now().Add(3 * time.Second))
			n, _, err := dstConn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			mu.Lock()
			received = append(received, string(buf[:n]))
			mu.Unlock()
		}
	}()

	srcAddr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: srcPort}
	conn, err := net.DialUDP("udp", nil, srcAddr)
	require.NoError(t, err)
	defer conn.Close()

	for _, line := range []string{"a", "b", "c"} {
		_, err := conn.Write([]byte(line))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 3
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, want := range []string{"a", "b", "c"} {
		assert.True(t, strings.HasSuffix(received[i], ": "+want), "datagram %d = %q", i, received[i])
		assert.True(t, strings.HasPrefix(received[i], "<13>"))
	}

	snap := p.Stats()
	assert.EqualValues(t, 3, snap.Recv)
	assert.EqualValues(t, 3, snap.SentEvents)
}

func TestPipelineFailedStateOnBindFailure(t *testing.T) {
	spec := wire.PipelineSpec{
		Source:          wire.SourceSpec{Kind: wire.SourceSyslogUDP, Options: mustOpts(t, "256.256.256.256", 1)},
		Processor:       wire.ProcessorSpec{Mode: wire.ProcessorRaw},
		Destination:     wire.DestinationSpec{Kind: wire.DestinationSyslogUDP, Options: mustOpts(t, "127.0.0.1", freeUDPPort(t))},
		BatchMaxEvents:  1,
		BatchMaxSeconds: 1.0,
	}

	p, err := NewPipeline("p-bad", 1, spec, 10)
	require.NoError(t, err)

	err = p.Start(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateFailed, p.State())
}

func TestPipelineStopDrainsBeforeDeadline(t *testing.T) {
	srcPort := freeUDPPort(t)
	dstPort := freeUDPPort(t)

	dstConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: dstPort})
	require.NoError(t, err)
	defer dstConn.Close()

	spec := wire.PipelineSpec{
		Source:          wire.SourceSpec{Kind: wire.SourceSyslogUDP, Options: mustOpts(t, "127.0.0.1", srcPort)},
		Processor:       wire.ProcessorSpec{Mode: wire.ProcessorRaw},
		Destination:     wire.DestinationSpec{Kind: wire.DestinationSyslogUDP, Options: mustOpts(t, "127.0.0.1", dstPort)},
		BatchMaxEvents:  100,
		BatchMaxSeconds: 30,
	}

	p, err := NewPipeline("p-drain", 1, spec, 10)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: srcPort})
	require.NoError(t, err)
	_, err = conn.Write([]byte("drain-me"))
	require.NoError(t, err)
	conn.Close()

	time.Sleep(50 * time.Millisecond) // let the datagram land in the queue
	p.Stop(2 * time.Second)

	assert.Equal(t, StateStopped, p.State())
	assert.EqualValues(t, 1, p.Stats().SentEvents)
}
