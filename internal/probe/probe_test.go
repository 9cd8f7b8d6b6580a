package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeReachableTarget(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	p := New(2 * time.Second)
	result, err := p.Probe(context.Background(), listener.Addr().String())
	require.NoError(t, err)
	assert.True(t, result.Alive)
	assert.GreaterOrEqual(t, result.LatencyMs, int64(0))
}

func TestProbeUnreachableTargetIsNotAnError(t *testing.T) {
	// Grab a port that nothing listens on any more.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	p := New(500 * time.Millisecond)
	result, err := p.Probe(context.Background(), address)
	require.NoError(t, err)
	assert.False(t, result.Alive)
	assert.Zero(t, result.LatencyMs)
}

func TestProbeEmptyTargetFails(t *testing.T) {
	p := New(time.Second)
	_, err := p.Probe(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNormalizeTarget(t *testing.T) {
	address, err := normalizeTarget("8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8:53", address)

	address, err = normalizeTarget("example.com:443")
	require.NoError(t, err)
	assert.Equal(t, "example.com:443", address)

	address, err = normalizeTarget("::1")
	require.NoError(t, err)
	assert.Equal(t, "[::1]:53", address)
}

func TestNewClampsTimeout(t *testing.T) {
	p := New(0)
	assert.Equal(t, 2*time.Second, p.Timeout())
}
