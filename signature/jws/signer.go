package jws

import (
	"crypto"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/filesign/filesign-go"
)

// Signer produces attestation tokens with the fixed signing method.
type Signer struct {
	// key is the signing key used to produce attestation tokens.
	key *rsa.PrivateKey
}

// NewSigner creates a signer from a private key. Only RSA keys are
// supported, matching the fixed signing method.
func NewSigner(key crypto.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, errors.New("nil signing key")
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported key type %T, attestation tokens are signed with %s", key, SigningMethod.Alg())
	}
	return &Signer{key: rsaKey}, nil
}

// Sign encodes the attestation as a compact signed token.
func (s *Signer) Sign(att *filesign.Attestation) (string, error) {
	claims := packPayload(att)
	if err := claims.Valid(); err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(SigningMethod, claims)
	return token.SignedString(s.key)
}
