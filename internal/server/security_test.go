package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCertificate(t *testing.T) (certFile, keyFile string) {
	t.Helper()

	dir := t.TempDir()
	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"Mindweave Test"}},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))

	return certFile, keyFile
}

func TestTLSListener_Listen(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeTestCertificate(t)

	tests := []struct {
		name    string
		cert    string
		key     string
		addr    string
		wantErr string
	}{
		{name: "valid pair", cert: certFile, key: keyFile, addr: "127.0.0.1:0"},
		{name: "missing files", cert: "missing.crt", key: "missing.key", addr: "127.0.0.1:0", wantErr: "failed to load TLS certificate"},
		{name: "bad address", cert: certFile, key: keyFile, addr: "invalid-address", wantErr: "failed to listen"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ln, err := NewTLSListener(tt.cert, tt.key).Listen("tcp", tt.addr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer ln.Close()
		})
	}
}

func TestTLSListener_Handshake(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeTestCertificate(t)
	ln, err := NewTLSListener(certFile, keyFile).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.(*tls.Conn).Handshake()
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // self-signed test certificate
		MinVersion:         tls.VersionTLS10,
		MaxVersion:         tls.VersionTLS11,
	})
	if err == nil {
		conn.Close()
	}
	require.Error(t, err, "TLS 1.1 clients must be refused")
}

func TestPlainListener_Listen(t *testing.T) {
	t.Parallel()

	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	assert.IsType(t, &net.TCPListener{}, ln)

	_, err = NewPlainListener().Listen("tcp", "invalid-address")
	require.Error(t, err)
}

func TestNewSecurityLayer(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &TLSListener{}, NewSecurityLayer("a.crt", "a.key"))
	assert.IsType(t, &PlainListener{}, NewSecurityLayer("", ""))
	assert.IsType(t, &PlainListener{}, NewSecurityLayer("a.crt", ""))
}
