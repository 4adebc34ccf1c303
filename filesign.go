// Copyright The Filesign Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filesign provides multi-signer attestation for files. Each signer
// records the file's content digests and its own metadata in a signed token,
// stored as one line of a shared sidecar artifact next to the file. Signers
// are independent: a new signature replaces only the same identity's prior
// record and leaves every other record untouched. Verification checks each
// record against the current file state and reports per-signer results plus
// an aggregate verdict.
package filesign

import (
	"context"
	"crypto"
	"errors"
	"sort"
	"time"

	"github.com/filesign/filesign-go/digest"
)

// Metadata carries the optional descriptive attributes a signer may attach
// to an attestation. Empty fields are left out of the signed payload.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Note    string `json:"note,omitempty"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Attestation is the decoded payload of one signer's token.
type Attestation struct {
	Metadata

	// File is the basename of the signed file. Full paths are never
	// recorded in the payload.
	File string

	// ContentType is the media type of the file detected at signing time.
	ContentType string

	// Size is the file size in bytes at signing time.
	Size int64

	// Digests holds the content digests computed at signing time.
	Digests digest.Set

	// IssuedAt is the time the attestation was produced.
	IssuedAt time.Time

	// Key is the signer's public key in PEM form, present only when the
	// signer chose to embed it for self-contained verification. KeyDigest
	// is the sha256 of the PEM bytes.
	Key       string
	KeyDigest string
}

// SignOptions contains parameters for Signer.Sign.
type SignOptions struct {
	// Metadata is attached to the signed payload.
	Metadata Metadata

	// EmbedPublicKey, when non-nil, is recorded in the payload together
	// with its digest, so a verifier without an out-of-band key can still
	// check the token against the signer's self-asserted key.
	EmbedPublicKey crypto.PublicKey

	// SidecarPath overrides the derived "<file>.jwt.sign" sidecar path.
	SidecarPath string
}

// VerifyOptions contains parameters for Verifier.Verify.
type VerifyOptions struct {
	// SignatureSource optionally overrides where signatures are read from.
	// It is treated as a file path if it exists on disk, and as a literal
	// sidecar blob otherwise. When empty, the sidecar path derived from
	// the target file is used.
	SignatureSource string
}

// KeySource records how a verification key was obtained.
type KeySource string

const (
	// KeySourceTrusted marks a key supplied by the caller.
	KeySourceTrusted KeySource = "trusted"

	// KeySourceSelfAsserted marks a key recovered from the token's own
	// payload. A signature that checks out against a self-asserted key
	// proves structural validity only, not key authenticity.
	KeySourceSelfAsserted KeySource = "self-asserted"
)

// Result is the verification outcome for a single signer's record.
type Result struct {
	// Identity is the signer identity the record was filed under.
	Identity string

	// Attestation is the decoded payload, or nil when the token could not
	// be decoded.
	Attestation *Attestation

	// DigestMatch records the comparison outcome per digest algorithm.
	DigestMatch map[string]bool

	// Verified is true when the token decoded against the resolved key and
	// every digest matches the current file state.
	Verified bool

	// KeySource tells whether the record was checked against a trusted or
	// a self-asserted key.
	KeySource KeySource

	// Err is set when the record could not be checked at all, for example
	// on a key resolution or token decode failure. A digest mismatch
	// leaves Err nil, so "checked and failed" stays distinguishable from
	// "could not be checked".
	Err error
}

// Report maps signer identities to their verification results.
type Report map[string]*Result

// Verified reports the aggregate verdict. It is true only when the report
// is non-empty and every signer's attestation verified; an empty signer set
// never verifies vacuously.
func (r Report) Verified() bool {
	if len(r) == 0 {
		return false
	}
	for _, result := range r {
		if result == nil || !result.Verified {
			return false
		}
	}
	return true
}

// VerifiedIdentities returns the identities whose attestations verified,
// sorted for stable output.
func (r Report) VerifiedIdentities() []string {
	return r.identities(true)
}

// FailedIdentities returns the identities whose attestations did not
// verify, sorted for stable output.
func (r Report) FailedIdentities() []string {
	return r.identities(false)
}

func (r Report) identities(verified bool) []string {
	var identities []string
	for identity, result := range r {
		if result != nil && result.Verified == verified {
			identities = append(identities, identity)
		}
	}
	sort.Strings(identities)
	return identities
}

// Signer is a generic interface for attesting a file. The returned string
// is the compact signed token committed to the sidecar artifact.
type Signer interface {
	// Sign attests the file at filePath and commits the resulting record
	// into the sidecar artifact, replacing any prior record filed under
	// the same identity.
	Sign(ctx context.Context, filePath string, opts SignOptions) (string, error)
}

// Verifier is a generic interface for verifying the attestations of a file.
type Verifier interface {
	// Verify checks every signer record found for filePath and returns a
	// per-identity report. One record's failure never aborts verification
	// of the others.
	Verify(ctx context.Context, filePath string, opts VerifyOptions) (Report, error)
}

// Sign attests the file at filePath using the provided signer.
func Sign(ctx context.Context, signer Signer, filePath string, opts SignOptions) (string, error) {
	if signer == nil {
		return "", errors.New("nil signer")
	}
	return signer.Sign(ctx, filePath, opts)
}

// Verify checks every attestation found for filePath using the provided
// verifier and returns the per-signer report.
func Verify(ctx context.Context, verifier Verifier, filePath string, opts VerifyOptions) (Report, error) {
	if verifier == nil {
		return nil, errors.New("nil verifier")
	}
	return verifier.Verify(ctx, filePath, opts)
}

// IsVerified reports whether filePath carries at least one attestation and
// every attestation independently verifies.
func IsVerified(ctx context.Context, verifier Verifier, filePath string, opts VerifyOptions) (bool, error) {
	report, err := Verify(ctx, verifier, filePath, opts)
	if err != nil {
		return false, err
	}
	return report.Verified(), nil
}
