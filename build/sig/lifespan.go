// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sig

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// DefaultVersion is the PFA language version used when none is specified.
const DefaultVersion = "0.8.1"

// Lifespan of a signature in terms of PFA language versions.
// Empty versions are unbounded.
type Lifespan struct {
	// Birth is the first version in which the signature exists.
	Birth string
	// Deprecation is the first version in which using the signature is discouraged.
	Deprecation string
	// Death is the first version in which the signature does not exist anymore.
	Death string
	// Contingency explains what to use instead of a deprecated signature.
	Contingency string
}

// CanonicalVersion returns a version in the format expected by semver,
// that is with a leading v.
func CanonicalVersion(version string) (string, error) {
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", errors.Errorf("invalid PFA version %q", version)
	}
	return v, nil
}

func compare(version, bound string) int {
	v, err := CanonicalVersion(version)
	if err != nil {
		return 0
	}
	b, err := CanonicalVersion(bound)
	if err != nil {
		return 0
	}
	return semver.Compare(v, b)
}

// Alive returns true if the signature exists in a given version.
func (l Lifespan) Alive(version string) bool {
	if l.Birth != "" && compare(version, l.Birth) < 0 {
		return false
	}
	return l.Death == "" || compare(version, l.Death) < 0
}

// Deprecated returns true if the signature is deprecated in a given version.
func (l Lifespan) Deprecated(version string) bool {
	return l.Alive(version) && l.Deprecation != "" && compare(version, l.Deprecation) >= 0
}

// Validate checks the versions of the lifespan.
func (l Lifespan) Validate() error {
	for _, v := range []string{l.Birth, l.Deprecation, l.Death} {
		if v == "" {
			continue
		}
		if _, err := CanonicalVersion(v); err != nil {
			return err
		}
	}
	if l.Deprecation != "" && l.Death != "" && compare(l.Deprecation, l.Death) > 0 {
		return errors.Errorf("deprecation version %s is after death version %s", l.Deprecation, l.Death)
	}
	return nil
}
