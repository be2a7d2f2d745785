package xrserve

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// CertProvider makes certFile and keyFile exist and be loadable as a
// TLS server key pair. Implementations decide how the files come to be.
type CertProvider interface {
	Ensure(certFile, keyFile string) error
}

var _ CertProvider = OpensslProvider{}

// OpensslProvider shells out to openssl for a self-signed certificate:
// 4096-bit RSA, 365 days, CN=localhost, no passphrase.
type OpensslProvider struct {
	// Openssl is the command prefix to invoke, e.g.
	// {"openssl"} or {"docker", "run", "--rm", "-v", ..., "openssl"}.
	// Empty means {"openssl"}.
	Openssl []string
}

// Ensure is a no-op when both files already exist. Existence is the
// only check: no expiry or key-match validation, delete the files to
// force regeneration.
func (p OpensslProvider) Ensure(certFile, keyFile string) error {
	_, certErr := os.Stat(certFile)
	_, keyErr := os.Stat(keyFile)
	if certErr == nil && keyErr == nil {
		slog.Info("certificate files already exist", "cert", certFile, "key", keyFile)
		return nil
	}
	cmd := p.Openssl[:]
	if len(cmd) == 0 {
		cmd = []string{"openssl"}
	}
	cmd = append(cmd, "req", "-x509", "-newkey", "rsa:4096",
		"-keyout", keyFile, "-out", certFile,
		"-days", "365", "-nodes", "-subj", "/CN=localhost")
	slog.Info("generating self-signed certificate", "cmd", cmd)
	out, err := exec.Command(cmd[0], cmd[1:]...).CombinedOutput()
	if err != nil {
		slog.Error("certificate generation failed", "cmd", cmd, "output", string(out), "error", err)
		return fmt.Errorf("generate certificate with %s: %w", cmd[0], err)
	}
	slog.Info("certificate generated", "cert", certFile, "key", keyFile)
	return nil
}
