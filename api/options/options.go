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

// Package options specifies options to compile PFA documents.
package options

import (
	"github.com/gx-org/pfa/build/check"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Option modifies the options of a compilation.
	Option func(*Options) error

	// Options of a compilation.
	Options struct {
		// Version of the language in its canonical form (for example v0.8.1).
		Version string
		// Registry of the library functions.
		Registry check.Registry
		// Logger receiving the records of the compilation.
		Logger *zap.Logger
		// Format of the document text.
		Format jsontree.Format
		// CallCacheSize is the number of overload resolutions memoized.
		CallCacheSize int
	}
)

// DefaultCallCacheSize is the size of the call cache if not specified.
const DefaultCallCacheSize = 256

// New returns options given a list of options to apply on the defaults.
func New(opts ...Option) (*Options, error) {
	o := &Options{
		Version:       "v" + sig.DefaultVersion,
		Registry:      stdlib.Default(),
		Logger:        zap.NewNop(),
		Format:        jsontree.Auto,
		CallCacheSize: DefaultCallCacheSize,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithVersion sets the version of the language.
func WithVersion(version string) Option {
	return func(o *Options) error {
		canonical, err := sig.CanonicalVersion(version)
		if err != nil {
			return err
		}
		o.Version = canonical
		return nil
	}
}

// WithRegistry sets the registry of library functions.
func WithRegistry(reg check.Registry) Option {
	return func(o *Options) error {
		if reg == nil {
			return errors.Errorf("nil registry")
		}
		o.Registry = reg
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) error {
		if log == nil {
			log = zap.NewNop()
		}
		o.Logger = log
		return nil
	}
}

// WithFormat sets the format of the document text.
func WithFormat(format jsontree.Format) Option {
	return func(o *Options) error {
		switch format {
		case jsontree.Auto, jsontree.JSON, jsontree.YAML:
			o.Format = format
			return nil
		}
		return errors.Errorf("unknown document format %d", format)
	}
}

// WithCallCache sets the size of the cache of overload resolutions.
// A size of zero disables the cache.
func WithCallCache(size int) Option {
	return func(o *Options) error {
		if size < 0 {
			return errors.Errorf("negative call cache size %d", size)
		}
		o.CallCacheSize = size
		return nil
	}
}

// CheckConfig returns the configuration of the checker.
func (o *Options) CheckConfig() check.Config {
	return check.Config{
		Registry:      o.Registry,
		Version:       o.Version,
		Logger:        o.Logger,
		CallCacheSize: o.CallCacheSize,
	}
}
