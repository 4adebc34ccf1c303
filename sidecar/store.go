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

// Package sidecar manages the signature sidecar artifact: an ordered list
// of "<identity> <token>" lines stored next to the signed file, holding at
// most one record per signer identity.
package sidecar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gofrs/flock"

	"github.com/filesign/filesign-go"
	"github.com/filesign/filesign-go/internal/file"
)

// lockExtension is appended to the sidecar path to derive the advisory lock
// file guarding its read-modify-write cycle.
const lockExtension = ".lock"

// Record is one signer's entry in a sidecar artifact.
type Record struct {
	// Identity is the signer's email-shaped identity.
	Identity string

	// Token is the opaque signed token attesting the file state.
	Token string
}

// Store holds the parsed records of one sidecar artifact in file order.
type Store struct {
	records []Record
}

// Parse reads records out of a sidecar blob. Blank lines and lines whose
// first field is not an email-shaped identity are skipped. Carriage returns
// are stripped first, so Windows style line endings are accepted. When the
// blob carries several records for one identity, only the last survives.
func Parse(blob []byte) *Store {
	s := &Store{}
	for _, line := range strings.Split(strings.ReplaceAll(string(blob), "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			continue
		}
		identity := line[:i]
		token := strings.TrimSpace(line[i+1:])
		if token == "" || !ValidIdentity(identity) {
			continue
		}
		s.replaceOrAppend(Record{Identity: identity, Token: token})
	}
	return s
}

// Records returns the records in order. The returned slice is shared with
// the store and must not be modified.
func (s *Store) Records() []Record {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record filed under identity.
func (s *Store) Get(identity string) (Record, bool) {
	for _, r := range s.records {
		if r.Identity == identity {
			return r, true
		}
	}
	return Record{}, false
}

// AddOrReplace removes any prior record filed under the same identity and
// appends r, keeping all other records untouched.
func (s *Store) AddOrReplace(r Record) error {
	if !ValidIdentity(r.Identity) {
		return filesign.InvalidIdentityError{Identity: r.Identity}
	}
	if r.Token == "" || strings.ContainsAny(r.Token, " \t\r\n") {
		return fmt.Errorf("invalid token for signer %q: tokens must be non-empty and free of whitespace", r.Identity)
	}
	s.replaceOrAppend(r)
	return nil
}

func (s *Store) replaceOrAppend(r Record) {
	kept := s.records[:0]
	for _, existing := range s.records {
		if existing.Identity != r.Identity {
			kept = append(kept, existing)
		}
	}
	s.records = append(kept, r)
}

// Marshal renders the store as sidecar file content, one record per line.
func (s *Store) Marshal() []byte {
	var b strings.Builder
	for _, r := range s.records {
		b.WriteString(r.Identity)
		b.WriteByte(' ')
		b.WriteString(r.Token)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Load reads and parses the sidecar artifact at path.
func Load(path string) (*Store, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(blob), nil
}

// Save replaces the sidecar artifact at path with the store's content. The
// content goes to a temporary file first and is moved over the target in a
// single rename, so a reader never observes a partially written artifact.
func (s *Store) Save(path string) error {
	return file.Replace(path, s.Marshal(), 0644)
}

// Update commits an add-or-replace of r into the sidecar at path. The whole
// read-modify-write cycle runs under an advisory lock scoped to the sidecar
// path, so concurrent signers targeting the same file serialize. A missing
// sidecar is treated as empty.
func Update(path string, r Record) error {
	lock := flock.New(path + lockExtension)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock sidecar %q: %w", path, err)
	}
	defer lock.Unlock()

	store, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		store = &Store{}
	}
	if err := store.AddOrReplace(r); err != nil {
		return err
	}
	return store.Save(path)
}
