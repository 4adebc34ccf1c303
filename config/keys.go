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

// Package config provides the ability to load and save trustedkeys.json,
// the persistent mapping from signer identities to their public key files.
// A verifier built from this mapping treats the registered keys as trusted.
package config

import (
	"crypto"
	"errors"
	"fmt"
	"io/fs"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/crypto/cryptoutil"
	"github.com/filesign/filesign-go/dir"
	"github.com/filesign/filesign-go/internal/file"
	"github.com/filesign/filesign-go/sidecar"
)

var errKeyNotFound = errors.New("trusted key not found")

// TrustedKey associates a signer identity with the path of its public key
// PEM file.
type TrustedKey struct {
	Identity string `json:"identity"`
	KeyPath  string `json:"keyPath"`
}

// TrustedKeys reflects the trustedkeys.json file.
type TrustedKeys struct {
	Keys []TrustedKey `json:"keys"`
}

// Add registers a public key file for identity, replacing any previous
// registration. The key file must parse as a public key.
func (t *TrustedKeys) Add(identity, keyPath string) error {
	if !sidecar.ValidIdentity(identity) {
		return filesign.InvalidIdentityError{Identity: identity}
	}
	if _, err := cryptoutil.ReadPublicKeyFile(keyPath); err != nil {
		return fmt.Errorf("key file %q: %w", keyPath, err)
	}
	t.Remove(identity)
	t.Keys = append(t.Keys, TrustedKey{Identity: identity, KeyPath: keyPath})
	return nil
}

// Remove unregisters identity and reports whether a registration existed.
func (t *TrustedKeys) Remove(identity string) bool {
	for i, k := range t.Keys {
		if k.Identity == identity {
			t.Keys = append(t.Keys[:i], t.Keys[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the registration for identity.
func (t *TrustedKeys) Get(identity string) (TrustedKey, error) {
	for _, k := range t.Keys {
		if k.Identity == identity {
			return k, nil
		}
	}
	return TrustedKey{}, fmt.Errorf("%w: %s", errKeyNotFound, identity)
}

// Resolve loads the public key registered for identity.
func (t *TrustedKeys) Resolve(identity string) (crypto.PublicKey, error) {
	k, err := t.Get(identity)
	if err != nil {
		return nil, err
	}
	return cryptoutil.ReadPublicKeyFile(k.KeyPath)
}

// ResolveAll loads every registered key, keyed by identity. The returned
// mapping is what filesign verifiers consume.
func (t *TrustedKeys) ResolveAll() (map[string]crypto.PublicKey, error) {
	keys := make(map[string]crypto.PublicKey, len(t.Keys))
	for _, k := range t.Keys {
		key, err := cryptoutil.ReadPublicKeyFile(k.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("key file %q for %s: %w", k.KeyPath, k.Identity, err)
		}
		keys[k.Identity] = key
	}
	return keys, nil
}

// Save stores the registrations to trustedkeys.json.
func (t *TrustedKeys) Save() error {
	return file.Save(dir.TrustedKeysPath(), t)
}

// LoadTrustedKeys reads trustedkeys.json, returning an empty set when the
// file does not exist.
func LoadTrustedKeys() (*TrustedKeys, error) {
	var keys TrustedKeys
	if err := file.Load(dir.TrustedKeysPath(), &keys); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &TrustedKeys{}, nil
		}
		return nil, err
	}
	return &keys, nil
}
