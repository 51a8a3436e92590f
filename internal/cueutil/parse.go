// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// Result is a decoded document together with the unified CUE value it came from.
type Result[T any] struct {
	Value   T
	Unified cue.Value
}

// ParseAndDecode compiles data, unifies it with the definition named
// definition in schema (e.g. "#Config"), validates the result and decodes it
// into T.
func ParseAndDecode[T any](schema, data []byte, definition string, opts ...Option) (*Result[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	name := o.filename
	if name == "" {
		name = "<input>"
	}

	if int64(len(data)) > o.maxFileSize {
		return nil, fmt.Errorf("%s: file size %d exceeds maximum of %d bytes", name, len(data), o.maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return nil, fmt.Errorf("internal error: schema has no %s definition", definition)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(name))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), name)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, name)
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, name)
	}

	return &Result[T]{Value: value, Unified: unified}, nil
}

// ParseAndDecodeString is ParseAndDecode for a schema held in a string,
// typically one embedded with go:embed.
func ParseAndDecodeString[T any](schema string, data []byte, definition string, opts ...Option) (*Result[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, definition, opts...)
}

// FormatError flattens a CUE error list into "file: field: message" lines.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}
