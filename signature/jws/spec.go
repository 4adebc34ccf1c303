// Package jws encodes and verifies file attestations as compact JWS tokens.
// Tokens are signed with a single fixed asymmetric scheme; a token signed
// with any other algorithm is rejected even when structurally valid.
package jws

import (
	"github.com/golang-jwt/jwt/v4"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/digest"
)

// SigningMethod is the only signing algorithm accepted for attestation
// tokens.
var SigningMethod = jwt.SigningMethodRS256

// validMethods restricts token parsing to the fixed signing algorithm.
var validMethods = []string{SigningMethod.Alg()}

// payload is the claim set of an attestation token. Digest values stay flat
// top-level claims so the token remains readable by generic JWT tooling.
type payload struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Note    string `json:"note,omitempty"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`

	File        string `json:"file"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
	SHA512      string `json:"sha512"`
	CRC32C      string `json:"crc32c"`

	Key       string `json:"key,omitempty"`
	KeyDigest string `json:"keyDigest,omitempty"`

	jwt.RegisteredClaims
}

// packPayload flattens an attestation into the token claim set.
func packPayload(att *filesign.Attestation) *payload {
	return &payload{
		Name:    att.Name,
		Company: att.Company,
		Note:    att.Note,
		Country: att.Country,
		State:   att.State,
		City:    att.City,

		File:        att.File,
		ContentType: att.ContentType,
		Size:        att.Size,
		SHA256:      att.Digests[digest.SHA256],
		SHA512:      att.Digests[digest.SHA512],
		CRC32C:      att.Digests[digest.CRC32C],

		Key:       att.Key,
		KeyDigest: att.KeyDigest,

		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(att.IssuedAt),
		},
	}
}

// attestation converts decoded claims back into an attestation. Digest
// claims that are absent from the token stay absent from the digest set.
func (p *payload) attestation() *filesign.Attestation {
	digests := digest.Set{}
	for alg, value := range map[string]string{
		digest.SHA256: p.SHA256,
		digest.SHA512: p.SHA512,
		digest.CRC32C: p.CRC32C,
	} {
		if value != "" {
			digests[alg] = value
		}
	}

	att := &filesign.Attestation{
		Metadata: filesign.Metadata{
			Name:    p.Name,
			Company: p.Company,
			Note:    p.Note,
			Country: p.Country,
			State:   p.State,
			City:    p.City,
		},
		File:        p.File,
		ContentType: p.ContentType,
		Size:        p.Size,
		Digests:     digests,
		Key:         p.Key,
		KeyDigest:   p.KeyDigest,
	}
	if p.IssuedAt != nil {
		att.IssuedAt = p.IssuedAt.Time
	}
	return att
}
