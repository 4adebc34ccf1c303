package jws

import (
	"crypto"
	"errors"

	"github.com/golang-jwt/jwt/v4"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/crypto/cryptoutil"
)

// Decode parses the token, verifies its signature against key, and returns
// the decoded attestation. Only the fixed signing algorithm is accepted.
func Decode(tokenString string, key crypto.PublicKey) (*filesign.Attestation, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(validMethods))
	var claims payload
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}); err != nil {
		return nil, err
	}

	// the registered claims are validated by ParseWithClaims; iat presence
	// is our own requirement
	if claims.IssuedAt == nil {
		return nil, errors.New("missing iat")
	}
	return claims.attestation(), nil
}

// UnverifiedKey recovers the public key a token embeds in its own payload,
// without verifying the signature. The decoded segment only locates a
// candidate verification key; trusting it is the caller's decision.
func UnverifiedKey(tokenString string) (crypto.PublicKey, error) {
	var claims payload
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Key == "" {
		return nil, errors.New("no key embedded in token payload")
	}
	return cryptoutil.ParsePublicKeyPEM([]byte(claims.Key))
}
