package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when a CA bundle holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

// ClientTLSConfig returns a TLS config trusting the system roots plus the
// certificates in caFile. An empty caFile yields nil, meaning Go defaults.
func ClientTLSConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read CA bundle %s: %w", caFile, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if err := appendCerts(pool, data); err != nil {
		return nil, fmt.Errorf("tlsroots: %s: %w", caFile, err)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// appendCerts adds every CERTIFICATE block of data to pool. Other block
// types, such as a key bundled in the same file, are skipped.
func appendCerts(pool *x509.CertPool, data []byte) error {
	added := 0
	for {
		var block *pem.Block
		if block, data = pem.Decode(data); block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}
	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}
