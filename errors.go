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

package filesign

import "fmt"

// FileNotFoundError is used when the file to sign or verify does not exist.
type FileNotFoundError struct {
	Path string
}

func (e FileNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("file %q not found", e.Path)
	}
	return "file not found"
}

// InvalidIdentityError is used when a signer identity is empty or not an
// email-shaped string.
type InvalidIdentityError struct {
	Identity string
}

func (e InvalidIdentityError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("invalid signer identity %q, expecting an email address", e.Identity)
	}
	return "signer identity cannot be empty"
}

// KeyResolutionError is used when no usable public key can be found for a
// signer, neither supplied by the caller nor embedded in the token payload.
type KeyResolutionError struct {
	Identity string
}

func (e KeyResolutionError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("no verification key available for signer %q", e.Identity)
	}
	return "no verification key available"
}

// SignatureRetrievalError is used when the signature source exists but
// cannot be read.
type SignatureRetrievalError struct {
	Msg string
}

func (e SignatureRetrievalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unable to retrieve signatures for the given file"
}
