package cryptoutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePrivateKeyPEM(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey() error = %v", err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ecdsa.GenerateKey() error = %v", err)
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	if err != nil {
		t.Fatalf("x509.MarshalPKCS8PrivateKey() error = %v", err)
	}
	ecDER, err := x509.MarshalECPrivateKey(ecKey)
	if err != nil {
		t.Fatalf("x509.MarshalECPrivateKey() error = %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name: "PKCS8",
			data: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}),
		},
		{
			name: "PKCS1",
			data: pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)}),
		},
		{
			name: "EC",
			data: pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: ecDER}),
		},
		{
			name:    "not PEM",
			data:    []byte("not a key"),
			wantErr: true,
		},
		{
			name:    "unsupported block type",
			data:    pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: []byte{0x30}}),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrivateKeyPEM(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePrivateKeyPEM() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublicKeyPEMRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey() error = %v", err)
	}

	pemBytes, err := EncodePublicKeyPEM(key.Public())
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM() error = %v", err)
	}
	parsed, err := ParsePublicKeyPEM(pemBytes)
	if err != nil {
		t.Fatalf("ParsePublicKeyPEM() error = %v", err)
	}
	got, ok := parsed.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("ParsePublicKeyPEM() type = %T, want *rsa.PublicKey", parsed)
	}
	if !got.Equal(key.Public()) {
		t.Error("ParsePublicKeyPEM() returned a different key")
	}
}

func TestReadKeyFiles(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey() error = %v", err)
	}
	dir := t.TempDir()

	keyPath := filepath.Join(dir, "key.pem")
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("x509.MarshalPKCS8PrivateKey() error = %v", err)
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, err := ReadPrivateKeyFile(keyPath); err != nil {
		t.Errorf("ReadPrivateKeyFile() error = %v", err)
	}

	pubPath := filepath.Join(dir, "key.pub")
	pubPEM, err := EncodePublicKeyPEM(key.Public())
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM() error = %v", err)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, err := ReadPublicKeyFile(pubPath); err != nil {
		t.Errorf("ReadPublicKeyFile() error = %v", err)
	}

	if _, err := ReadPrivateKeyFile(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("ReadPrivateKeyFile() error = nil, want error for missing file")
	}
}
