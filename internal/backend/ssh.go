// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// SSHBackend executes commands over SSH. One instance is bound to one host;
// every Execute dials a fresh connection so a broken session never leaks
// into the next poll cycle.
type SSHBackend struct {
	host    *models.Host
	profile *models.SSHProfile
	logger  *logger.Logger
}

// NewSSH creates the SSH execution backend for a Linux host.
func NewSSH(host *models.Host, log *logger.Logger) (*SSHBackend, error) {
	if host.SSH == nil {
		return nil, fmt.Errorf("host %s has no ssh profile", host.Name)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SSHBackend{
		host:    host,
		profile: host.SSH,
		logger:  log.Named("ssh-backend").With("host", host.Name),
	}, nil
}

// Execute dials the host, runs command in a single session, and returns the
// raw stdout text.
func (b *SSHBackend) Execute(ctx context.Context, command string) (string, error) {
	config, err := b.clientConfig()
	if err != nil {
		return "", err
	}

	port := b.profile.Port
	if port == 0 {
		port = models.DefaultSSHPort
	}
	addr := net.JoinHostPort(b.host.IP, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, ConnectTimeout)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: dial %s: %v", ErrTimeout, addr, err)
		}
		return "", fmt.Errorf("%w: dial %s: %v", ErrConnect, addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		if isAuthErr(err) {
			return "", fmt.Errorf("%w: %s: %v", ErrAuth, addr, err)
		}
		return "", fmt.Errorf("%w: handshake with %s: %v", ErrConnect, addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("%w: session on %s: %v", ErrConnect, addr, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	// ssh sessions carry no deadline of their own; enforce the command
	// timeout by tearing down the whole connection.
	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		client.Close()
		<-done
		return "", fmt.Errorf("%w: %s: %v", ErrTimeout, addr, ctx.Err())
	case <-time.After(CommandTimeout):
		client.Close()
		<-done
		return "", fmt.Errorf("%w: command on %s exceeded %s", ErrTimeout, addr, CommandTimeout)
	case err = <-done:
	}

	return finishExec(stdout.String(), stderr.String(), err)
}

// clientConfig builds the ssh.ClientConfig from the host profile. Host keys
// are not verified: fleet hosts are declared in configuration, matching the
// trust model of the management network.
func (b *SSHBackend) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if b.profile.PrivateKey != "" {
		key, err := os.ReadFile(b.profile.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: read private key: %v", ErrAuth, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: parse private key: %v", ErrAuth, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	} else {
		auth = append(auth, ssh.Password(b.profile.Password))
	}

	return &ssh.ClientConfig{
		User:            b.profile.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         ConnectTimeout,
	}, nil
}

// finishExec applies the output contract: error output with no usable
// stdout is a command failure, anything else returns the stdout text.
func finishExec(stdout, stderr string, runErr error) (string, error) {
	if stderr != "" && stdout == "" {
		return "", fmt.Errorf("%w: %s", ErrCommand, strings.TrimSpace(stderr))
	}
	if runErr != nil && stdout == "" {
		return "", fmt.Errorf("%w: %v", ErrCommand, runErr)
	}
	return stdout, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isAuthErr recognizes the handshake failure the ssh package reports when
// every auth method was rejected.
func isAuthErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "permission denied")
}
