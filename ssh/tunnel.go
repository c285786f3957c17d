// Package ssh implements SSH local port forwarding so the DDL dry-run
// database can sit behind a bastion host.
//
// Design decisions:
//   - Uses golang.org/x/crypto/ssh for the SSH client.
//   - Allocates a random local port ("127.0.0.1:0") to avoid conflicts.
//   - The tunnel runs in a background goroutine and is stopped
//     via the Stop method (which closes the listener).
//   - Host keys are verified against a known_hosts file when one is
//     configured; otherwise any host key is accepted and a warning logged.
package ssh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"

	"github.com/DachengChen/paiSchema/config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Addr represents host:port of the local tunnel endpoint.
type Addr struct {
	Host string
	Port int
}

// Tunnel manages an SSH local port forward.
type Tunnel struct {
	sshConfig  *ssh.ClientConfig
	sshAddr    string // e.g. "bastion:22"
	remoteAddr string // e.g. "db-host:5432"
	logger     *slog.Logger

	client   *ssh.Client
	listener net.Listener
	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

// NewTunnel creates a tunnel configuration (does not connect yet).
func NewTunnel(cfg config.SSHConfig, remoteHost string, remotePort int, logger *slog.Logger) (*Tunnel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	authMethods, err := buildAuthMethods(cfg)
	if err != nil {
		return nil, err
	}
	hostKeys, err := hostKeyCallback(cfg, logger)
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}

	return &Tunnel{
		sshConfig: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            authMethods,
			HostKeyCallback: hostKeys,
		},
		sshAddr:    net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		remoteAddr: net.JoinHostPort(remoteHost, strconv.Itoa(remotePort)),
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// Start opens the SSH connection and starts forwarding.
// Returns the local address to connect pgx to.
func (t *Tunnel) Start(ctx context.Context) (*Addr, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.sshAddr)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", t.sshAddr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, t.sshAddr, t.sshConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", t.sshAddr, err)
	}
	t.client = ssh.NewClient(c, chans, reqs)

	// Listen on random local port
	t.listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.client.Close()
		return nil, fmt.Errorf("local listen: %w", err)
	}

	tcpAddr := t.listener.Addr().(*net.TCPAddr)
	localAddr := &Addr{Host: "127.0.0.1", Port: tcpAddr.Port}
	t.logger.Info("ssh tunnel started",
		slog.String("via", t.sshAddr),
		slog.String("remote", t.remoteAddr),
		slog.Int("local_port", tcpAddr.Port))

	t.wg.Add(1)
	go t.acceptLoop()

	return localAddr, nil
}

// Stop tears down the tunnel. It is safe to call more than once.
func (t *Tunnel) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		if t.listener != nil {
			t.listener.Close()
		}
		t.wg.Wait()
		if t.client != nil {
			t.client.Close()
		}
	})
}

// acceptLoop accepts local connections and forwards them through SSH.
func (t *Tunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		localConn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		t.wg.Add(1)
		go t.forward(localConn)
	}
}

// forward pipes data between local and remote connections.
func (t *Tunnel) forward(localConn net.Conn) {
	defer t.wg.Done()
	defer localConn.Close()

	remoteConn, err := t.client.Dial("tcp", t.remoteAddr)
	if err != nil {
		t.logger.Warn("ssh forward failed", slog.String("remote", t.remoteAddr), slog.String("error", err.Error()))
		return
	}
	defer remoteConn.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(remoteConn, localConn)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(localConn, remoteConn)
		done <- struct{}{}
	}()
	<-done
}

// buildAuthMethods creates SSH auth methods from config. A private key
// comes first; a password is offered as a fallback.
func buildAuthMethods(cfg config.SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.KeyPath != "" {
		keyBytes, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", cfg.KeyPath, err)
		}

		var signer ssh.Signer
		if cfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(cfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(keyBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("parse ssh key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH authentication methods configured (set postgres.ssh.key_path or postgres.ssh.password)")
	}

	return methods, nil
}

func hostKeyCallback(cfg config.SSHConfig, logger *slog.Logger) (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsPath == "" {
		logger.Warn("ssh host key verification disabled; set postgres.ssh.known_hosts to enable it",
			slog.String("host", cfg.Host))
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(cfg.KnownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", cfg.KnownHostsPath, err)
	}
	return cb, nil
}
