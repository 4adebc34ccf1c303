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

// Package signer provides filesign signing functionality. It implements
// the filesign.Signer interface: it attests a file's content digests in a
// signed token and commits the token into the file's sidecar artifact with
// replace-or-append semantics.
package signer

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	godigest "github.com/opencontainers/go-digest"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/crypto/cryptoutil"
	"github.com/filesign/filesign-go/digest"
	"github.com/filesign/filesign-go/dir"
	"github.com/filesign/filesign-go/log"
	"github.com/filesign/filesign-go/sidecar"
	"github.com/filesign/filesign-go/signature/jws"
)

// defaultContentType is recorded when media type detection fails.
const defaultContentType = "application/octet-stream"

// genericSigner implements filesign.Signer.
type genericSigner struct {
	identity string
	token    *jws.Signer
}

// New returns a filesign.Signer for the given identity and private key.
// The identity must be a non-empty email-shaped string.
func New(identity string, key crypto.PrivateKey) (filesign.Signer, error) {
	if !sidecar.ValidIdentity(identity) {
		return nil, filesign.InvalidIdentityError{Identity: identity}
	}
	tokenSigner, err := jws.NewSigner(key)
	if err != nil {
		return nil, err
	}
	return &genericSigner{
		identity: identity,
		token:    tokenSigner,
	}, nil
}

// NewFromFiles returns a filesign.Signer reading the private key from a
// PEM file.
func NewFromFiles(identity, keyPath string) (filesign.Signer, error) {
	if keyPath == "" {
		return nil, errors.New("key path not specified")
	}
	key, err := cryptoutil.ReadPrivateKeyFile(keyPath)
	if err != nil {
		return nil, err
	}
	return New(identity, key)
}

// Sign attests the file at filePath and commits the resulting record into
// the sidecar artifact, replacing any prior record for the same identity
// and keeping all other signers' records.
func (s *genericSigner) Sign(ctx context.Context, filePath string, opts filesign.SignOptions) (string, error) {
	logger := log.GetLogger(ctx)
	logger.Debugf("signing %q as %s", filePath, s.identity)

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", filesign.FileNotFoundError{Path: filePath}
		}
		return "", err
	}

	digests, err := digest.Compute(filePath)
	if err != nil {
		return "", err
	}

	contentType := defaultContentType
	if mtype, err := mimetype.DetectFile(filePath); err == nil {
		contentType = mtype.String()
	}

	att := &filesign.Attestation{
		Metadata:    opts.Metadata,
		File:        filepath.Base(filePath),
		ContentType: contentType,
		Size:        info.Size(),
		Digests:     digests,
		IssuedAt:    time.Now(),
	}
	if opts.EmbedPublicKey != nil {
		pemBytes, err := cryptoutil.EncodePublicKeyPEM(opts.EmbedPublicKey)
		if err != nil {
			return "", fmt.Errorf("embed public key: %w", err)
		}
		att.Key = string(pemBytes)
		att.KeyDigest = godigest.FromBytes(pemBytes).Encoded()
	}

	token, err := s.token.Sign(att)
	if err != nil {
		return "", err
	}

	sidecarPath := opts.SidecarPath
	if sidecarPath == "" {
		sidecarPath = dir.SidecarPath(filePath)
	}
	if err := sidecar.Update(sidecarPath, sidecar.Record{Identity: s.identity, Token: token}); err != nil {
		return "", err
	}
	logger.Debugf("recorded attestation for %s in %q", s.identity, sidecarPath)
	return token, nil
}
