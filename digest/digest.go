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

// Package digest computes the content digest set used for tamper detection.
// A set always covers two independent cryptographic hash algorithms plus a
// fast checksum, so a record's integrity check is not defeated by attacking
// a single algorithm.
package digest

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	godigest "github.com/opencontainers/go-digest"
)

// Algorithm names as they appear in token payloads and verification reports.
const (
	SHA256 = "sha256"
	SHA512 = "sha512"
	CRC32C = "crc32c"
)

// Algorithms lists the algorithms of a computed set in payload order.
func Algorithms() []string {
	return []string{SHA256, SHA512, CRC32C}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Set maps a digest algorithm name to its hex-encoded value. A set is
// computed fresh from file bytes and never modified afterwards.
type Set map[string]string

// Compute reads the file once and returns its digest set. The returned
// error wraps fs.ErrNotExist when the path does not exist.
func Compute(filePath string) (Set, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sha256 := godigest.SHA256.Digester()
	sha512 := godigest.SHA512.Digester()
	crc := crc32.New(castagnoli)
	if _, err := io.Copy(io.MultiWriter(sha256.Hash(), sha512.Hash(), crc), f); err != nil {
		return nil, fmt.Errorf("digest %q: %w", filePath, err)
	}
	return Set{
		SHA256: sha256.Digest().Encoded(),
		SHA512: sha512.Digest().Encoded(),
		CRC32C: fmt.Sprintf("%08x", crc.Sum32()),
	}, nil
}

// Match compares the recorded set s against a freshly computed set and
// returns the outcome per algorithm. Algorithms missing from s compare
// false: an attestation cannot pass by omitting digests.
func (s Set) Match(computed Set) map[string]bool {
	match := make(map[string]bool, len(computed))
	for _, alg := range Algorithms() {
		want := s[alg]
		match[alg] = want != "" && want == computed[alg]
	}
	return match
}
