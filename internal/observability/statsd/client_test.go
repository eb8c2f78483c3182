package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLine(t *testing.T) {
	t.Parallel()

	c := &Client{
		prefix: "reportd",
		global: map[string]string{"env": "prod", "service": "reportd"},
	}

	tests := []struct {
		name  string
		value string
		kind  string
		tags  map[string]string
		want  string
	}{
		{
			name: "report.execution", value: "1", kind: "c",
			tags: map[string]string{"kind": "personal", " result ": " success "},
			want: "reportd.report.execution:1|c|#env:prod,kind:personal,result:success,service:reportd",
		},
		{
			name: "scheduler tick", value: "2", kind: "c",
			tags: map[string]string{"env": "stage", "": "dropped"},
			want: "reportd.scheduler_tick:2|c|#env:stage,service:reportd",
		},
		{
			name: "report/stage..duration.", value: "12.5", kind: "ms",
			want: "reportd.report_stage.duration:12.5|ms|#env:prod,service:reportd",
		},
		{name: "  ", value: "1", kind: "c", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.line(tt.name, tt.value, tt.kind, tt.tags))
		})
	}
}

func TestQualifyWithoutPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "reaper.cleanup", qualify("", ".reaper.cleanup"))
	assert.Empty(t, qualify("reportd", "..."))
}

func TestClientSendsDatagrams(t *testing.T) {
	t.Parallel()

	listener, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: listener.LocalAddr().String(),
		Prefix:  ".reportd.",
	})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	client.Timing("report.stage_duration", 1500*time.Microsecond, map[string]string{"stage": "document"})

	buf := make([]byte, 512)
	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := listener.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "reportd.report.stage_duration:1.5|ms|#stage:document", string(buf[:n]))
}

func TestClientClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}
	require.True(t, client.Enabled())
	require.NoError(t, client.Close())
	assert.False(t, client.Enabled())
	require.NoError(t, client.Close())

	// Emits after close are dropped rather than blocking on the pipe.
	client.Count("report.execution", 1, nil)

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	require.NoError(t, nilClient.Close())
	nilClient.Gauge("reaper.cleanup", 1, nil)
}

func TestNewClientDisabled(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	client, err = NewClient(Config{Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}
