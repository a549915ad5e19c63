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

package check

import (
	"strings"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/pkg/errors"
)

// callCache memoizes the resolution of overloaded library functions.
// A nil cache never hits.
type callCache struct {
	lru *simplelru.LRU[string, *sig.Match]
}

func newCallCache(size int) (*callCache, error) {
	if size <= 0 {
		return nil, nil
	}
	lru, err := simplelru.NewLRU[string, *sig.Match](size, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create the call cache")
	}
	return &callCache{lru: lru}, nil
}

// key returns the key of a call given the types of its arguments.
// Calls with function arguments are not cached: their resolution depends
// on signatures which are not part of the key.
func callKey(name string, args []types.Type) (string, bool) {
	var b strings.Builder
	b.WriteString(name)
	for _, arg := range args {
		if arg.Kind() == types.FcnKind {
			return "", false
		}
		b.WriteString("|")
		b.WriteString(arg.String())
	}
	return b.String(), true
}

// match resolves a call, using the cache when possible.
func (cc *callCache) match(name string, sigs sig.Sigs, args []types.Type, version string) (*sig.Match, bool) {
	key, cacheable := callKey(name, args)
	if cc == nil || !cacheable {
		return sigs.Match(args, version)
	}
	if m, ok := cc.lru.Get(key); ok {
		return m, m != nil
	}
	m, ok := sigs.Match(args, version)
	if !ok {
		m = nil
	}
	cc.lru.Add(key, m)
	return m, ok
}

// len returns the number of resolutions in the cache.
func (cc *callCache) len() int {
	if cc == nil {
		return 0
	}
	return cc.lru.Len()
}
