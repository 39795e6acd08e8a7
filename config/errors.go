package config

import (
	"fmt"

	apperrors "github.com/leeforge/autumn/errors"
)

// ParseError reports a document that is not valid TOML.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse config %s at %d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Kind() apperrors.ErrorType { return apperrors.ErrorTypeConfigParse }

// MergeError reports an overlay key whose shape conflicts with the base:
// a table on one side and a plain value on the other.
type MergeError struct {
	Path string
	Key  string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge config %s: key %q is a table on one side and a value on the other", e.Path, e.Key)
}

func (e *MergeError) Kind() apperrors.ErrorType { return apperrors.ErrorTypeConfigMerge }

// DeserializeError reports a section that does not fit the target type.
type DeserializeError struct {
	Prefix string
	Err    error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("deserialize config section %q: %v", e.Prefix, e.Err)
}

func (e *DeserializeError) Unwrap() error { return e.Err }

func (e *DeserializeError) Kind() apperrors.ErrorType {
	return apperrors.ErrorTypeConfigDeserialize
}

// ValidationError reports a section that decoded but failed validation.
type ValidationError struct {
	Prefix string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate config section %q: %v", e.Prefix, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Kind() apperrors.ErrorType {
	return apperrors.ErrorTypeConfigValidation
}
