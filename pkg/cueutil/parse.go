// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of user CUE files.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures parsing.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every field to have a concrete value. Without it
// optional fields may stay unset, which suits configuration files.
func WithConcrete() Option {
	return func(o *options) { o.concrete = true }
}

// Unify compiles schema and data, unifies data with the schema definition
// at defPath and validates the result.
func Unify(schema string, data []byte, defPath string, opts ...Option) (cue.Value, error) {
	o := resolve(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// DecodeMap validates data like Unify and decodes it into a map, the shape
// viper merges.
func DecodeMap(schema string, data []byte, defPath string, opts ...Option) (map[string]any, error) {
	unified, err := Unify(schema, data, defPath, opts...)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := unified.Decode(&m); err != nil {
		return nil, FormatError(err, resolve(opts).filename)
	}
	return m, nil
}

func resolve(opts []Option) options {
	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
