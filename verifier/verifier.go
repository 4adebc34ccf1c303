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

// Package verifier provides an implementation of the filesign.Verifier
// interface. Every signer record is checked independently: the record's
// public key is resolved, its token decoded, the file's digests recomputed
// and compared, and the outcome reported per signer. One record's failure
// never aborts verification of the others.
package verifier

import (
	"context"
	"crypto"
	"errors"
	"io/fs"
	"os"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/config"
	"github.com/filesign/filesign-go/digest"
	"github.com/filesign/filesign-go/dir"
	"github.com/filesign/filesign-go/log"
	"github.com/filesign/filesign-go/sidecar"
	"github.com/filesign/filesign-go/signature/jws"
)

// verifier implements filesign.Verifier.
type verifier struct {
	trusted map[string]crypto.PublicKey
}

// New returns a filesign.Verifier that checks attestations against the
// given identity to public key mapping. Records without a trusted key fall
// back to the key embedded in their own token and are reported as
// self-asserted.
func New(trustedKeys map[string]crypto.PublicKey) filesign.Verifier {
	return &verifier{trusted: trustedKeys}
}

// NewFromConfig returns a filesign.Verifier using the trusted keys
// registered in the user's trustedkeys.json.
func NewFromConfig() (filesign.Verifier, error) {
	keys, err := config.LoadTrustedKeys()
	if err != nil {
		return nil, err
	}
	resolved, err := keys.ResolveAll()
	if err != nil {
		return nil, err
	}
	return New(resolved), nil
}

// Verify checks every signer record found for filePath and returns the
// per-identity report.
func (v *verifier) Verify(ctx context.Context, filePath string, opts filesign.VerifyOptions) (filesign.Report, error) {
	logger := log.GetLogger(ctx)

	store, err := loadStore(filePath, opts.SignatureSource)
	if err != nil {
		return nil, err
	}
	logger.Debugf("verifying %d signer record(s) for %q", store.Len(), filePath)

	report := make(filesign.Report, store.Len())
	for _, record := range store.Records() {
		report[record.Identity] = v.verifyRecord(ctx, filePath, record)
	}
	return report, nil
}

// loadStore resolves the raw signature text: the explicit source when
// given (a path if it exists on disk, a literal sidecar blob otherwise),
// else the sidecar path derived from the target file. A missing sidecar
// yields an empty store, so a briefly absent or mid-replace sidecar reads
// as "no signatures found" rather than an error.
func loadStore(filePath, source string) (*sidecar.Store, error) {
	if source != "" {
		if _, err := os.Stat(source); err == nil {
			blob, err := os.ReadFile(source)
			if err != nil {
				return nil, filesign.SignatureRetrievalError{Msg: err.Error()}
			}
			return sidecar.Parse(blob), nil
		}
		return sidecar.Parse([]byte(source)), nil
	}

	store, err := sidecar.Load(dir.SidecarPath(filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &sidecar.Store{}, nil
		}
		return nil, filesign.SignatureRetrievalError{Msg: err.Error()}
	}
	return store, nil
}

// verifyRecord checks one signer record against the current file state.
// All failures are recorded in the result rather than returned, so the
// caller's per-record loop keeps going.
func (v *verifier) verifyRecord(ctx context.Context, filePath string, record sidecar.Record) *filesign.Result {
	logger := log.GetLogger(ctx)
	result := &filesign.Result{Identity: record.Identity}

	key, source, err := v.resolveKey(record)
	if err != nil {
		logger.Debugf("key resolution failed for %s: %v", record.Identity, err)
		result.Err = err
		return result
	}
	result.KeySource = source

	att, err := jws.Decode(record.Token, key)
	if err != nil {
		logger.Debugf("token decode failed for %s: %v", record.Identity, err)
		result.Err = err
		return result
	}
	result.Attestation = att

	// prefer the caller-supplied path; fall back to the basename recorded
	// in the attestation, resolved against the working directory
	target := filePath
	if _, err := os.Stat(target); err != nil {
		target = att.File
	}
	computed, err := digest.Compute(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Err = filesign.FileNotFoundError{Path: target}
		} else {
			result.Err = err
		}
		return result
	}

	result.DigestMatch = att.Digests.Match(computed)
	verified := len(result.DigestMatch) > 0
	for _, ok := range result.DigestMatch {
		if !ok {
			verified = false
			break
		}
	}
	result.Verified = verified
	return result
}

// resolveKey prefers a caller-supplied trusted key and falls back to the
// key the token embeds in its own payload.
func (v *verifier) resolveKey(record sidecar.Record) (crypto.PublicKey, filesign.KeySource, error) {
	if key, ok := v.trusted[record.Identity]; ok && key != nil {
		return key, filesign.KeySourceTrusted, nil
	}
	key, err := jws.UnverifiedKey(record.Token)
	if err != nil {
		return nil, "", filesign.KeyResolutionError{Identity: record.Identity}
	}
	return key, filesign.KeySourceSelfAsserted, nil
}
