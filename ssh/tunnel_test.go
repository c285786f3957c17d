package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/DachengChen/paiSchema/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "test")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

func TestBuildAuthMethods(t *testing.T) {
	_, err := buildAuthMethods(config.SSHConfig{})
	require.Error(t, err)

	methods, err := buildAuthMethods(config.SSHConfig{Password: "pw"})
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	methods, err = buildAuthMethods(config.SSHConfig{KeyPath: writeKey(t), Password: "pw"})
	require.NoError(t, err)
	assert.Len(t, methods, 2)

	_, err = buildAuthMethods(config.SSHConfig{KeyPath: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "read ssh key")
}

func TestNewTunnel(t *testing.T) {
	_, err := NewTunnel(config.SSHConfig{Password: "pw"}, "db", 5432, nil)
	assert.ErrorContains(t, err, "ssh host is required")

	tun, err := NewTunnel(config.SSHConfig{Host: "bastion", User: "me", Password: "pw"}, "db", 5432, nil)
	require.NoError(t, err)
	assert.Equal(t, "bastion:22", tun.sshAddr)
	assert.Equal(t, "db:5432", tun.remoteAddr)
	tun.Stop()
	tun.Stop()
}

func TestKnownHosts(t *testing.T) {
	_, err := NewTunnel(config.SSHConfig{
		Host: "bastion", Password: "pw",
		KnownHostsPath: filepath.Join(t.TempDir(), "nope"),
	}, "db", 5432, nil)
	assert.ErrorContains(t, err, "load known hosts")

	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	_, err = NewTunnel(config.SSHConfig{Host: "bastion", Password: "pw", KnownHostsPath: path}, "db", 5432, nil)
	assert.NoError(t, err)
}
