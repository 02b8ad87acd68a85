package ssh

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/pem"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func generateKey(t *testing.T) (ssh.Signer, []byte) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer, pem.EncodeToMemory(block)
}

// startServer runs an SSH server accepting password "secret" that answers
// each exec request with handler's output and exit status.
func startServer(t *testing.T, handler func(cmd string) (string, uint32)) (string, int) {
	t.Helper()
	hostKey, _ := generateKey(t)

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(_ ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if string(password) == "secret" {
				return nil, nil
			}
			return nil, assert.AnError
		},
	}
	cfg.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, cfg, handler)
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, handler func(string) (string, uint32)) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			return
		}
		go func() {
			defer func() { _ = ch.Close() }()
			for req := range chReqs {
				if req.Type != "exec" {
					_ = req.Reply(false, nil)
					continue
				}
				cmdLen := binary.BigEndian.Uint32(req.Payload[:4])
				cmd := string(req.Payload[4 : 4+cmdLen])
				_ = req.Reply(true, nil)

				out, status := handler(cmd)
				_, _ = ch.Write([]byte(out))
				statusPayload := make([]byte, 4)
				binary.BigEndian.PutUint32(statusPayload, status)
				_, _ = ch.SendRequest("exit-status", false, statusPayload)
				return
			}
		}()
	}
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()
	_, key := generateKey(t)

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{name: "nil", cfg: nil, want: "config cannot be nil"},
		{name: "no host", cfg: &Config{User: "root", Password: "x"}, want: "config host cannot be empty"},
		{name: "no user", cfg: &Config{Host: "h", Password: "x"}, want: "config user cannot be empty"},
		{name: "no auth", cfg: &Config{Host: "h", User: "root"}, want: "config requires a password or a private key"},
		{name: "bad key", cfg: &Config{Host: "h", User: "root", PrivateKey: []byte("nope")}, want: "failed to parse private key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	c, err := NewClient(&Config{Host: "10.0.0.5", User: "root", PrivateKey: key})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:22", c.Address())
	assert.Equal(t, defaultMaxRetries, c.config.MaxRetries)
}

func TestExecute_Password(t *testing.T) {
	t.Parallel()
	host, port := startServer(t, func(cmd string) (string, uint32) {
		return "ran: " + cmd, 0
	})

	c, err := NewClient(&Config{Host: host, Port: port, User: "root", Password: "secret"})
	require.NoError(t, err)

	out, err := c.Execute(context.Background(), "hostname -I")
	require.NoError(t, err)
	assert.Equal(t, "ran: hostname -I", out)
}

func TestExecute_NonZeroExit(t *testing.T) {
	t.Parallel()
	host, port := startServer(t, func(string) (string, uint32) {
		return "no such file", 2
	})

	c, err := NewClient(&Config{Host: host, Port: port, User: "root", Password: "secret"})
	require.NoError(t, err)

	out, err := c.Execute(context.Background(), "cat /missing")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.ExitStatus)
	assert.Equal(t, "no such file", out)
}

func TestExecute_WrongPasswordIsNotRetried(t *testing.T) {
	t.Parallel()
	host, port := startServer(t, func(string) (string, uint32) { return "", 0 })

	c, err := NewClient(&Config{
		Host: host, Port: port, User: "root", Password: "wrong",
		MaxRetries: 3, RetryDelay: time.Hour,
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Execute(context.Background(), "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not retrying")
	assert.Less(t, time.Since(start), time.Minute)
}

func TestExecute_UnreachableHonoursContext(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	c, err := NewClient(&Config{Host: "127.0.0.1", Port: addr.Port, User: "root", Password: "x", RetryDelay: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = c.Execute(ctx, "true")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
