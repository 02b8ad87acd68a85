package netutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateIPv4(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		addrs []string
		want  string
	}{
		{name: "first private wins", addrs: []string{"9.30.1.2", "10.17.3.4", "10.0.0.1"}, want: "10.17.3.4"},
		{name: "ignores ipv6", addrs: []string{"fe80::1", "10.1.1.1"}, want: "10.1.1.1"},
		{name: "ignores look-alikes", addrs: []string{"110.1.1.1", "10.1.1", "10.1.1.1"}, want: "10.1.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PrivateIPv4(tt.addrs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PrivateIPv4([]string{"9.30.1.2", "192.168.1.1"})
	assert.ErrorIs(t, err, ErrPrivateIPNotFound)
}

func TestParseAddresses(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"9.30.1.2", "10.17.3.4"}, ParseAddresses(" 9.30.1.2 10.17.3.4 \n"))
	assert.Empty(t, ParseAddresses("\n"))
}

func TestIsLocalHost(t *testing.T) {
	t.Parallel()
	assert.True(t, IsLocalHost("localhost"))
	assert.True(t, IsLocalHost("127.0.0.1"))
	assert.False(t, IsLocalHost("inf-node.example.com"))

	if name, err := os.Hostname(); err == nil {
		assert.True(t, IsLocalHost(name))
	}
}

func TestLocalIPv4Addresses(t *testing.T) {
	t.Parallel()
	addrs, err := LocalIPv4Addresses()
	require.NoError(t, err)
	assert.Contains(t, addrs, "127.0.0.1")
}
