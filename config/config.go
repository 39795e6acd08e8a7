package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/leeforge/autumn/env_mode"
	"github.com/leeforge/autumn/json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultPath is the conventional location of the base document.
const DefaultPath = "./config/app.toml"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the base document at path and merges the overlay for env on top
// of it. An unreadable base file is logged and yields an empty Store.
func Load(path string, env env_mode.Env, opts ...Option) (*Store, error) {
	o := newOptions(opts)

	content, err := os.ReadFile(path)
	if err != nil {
		o.Logger.Warn("failed to read configuration file, using empty configuration",
			zap.String("path", path), zap.Error(err))
		return newStore(map[string]any{}, nil, o), nil
	}

	tree, err := parse(path, content)
	if err != nil {
		return nil, err
	}
	files := []string{path}

	overlayPath := env_mode.OverlayPath(path, env)
	overlay, err := os.ReadFile(overlayPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		o.Logger.Debug("no environment profile", zap.String("env", env.String()), zap.String("path", overlayPath))
	case err != nil:
		return nil, &ParseError{Path: overlayPath, Err: err}
	default:
		o.Logger.Info("environment profile active", zap.String("env", env.String()), zap.String("path", overlayPath))
		overlayTree, err := parse(overlayPath, overlay)
		if err != nil {
			return nil, err
		}
		if err := mergeTables(tree, overlayTree, overlayPath, ""); err != nil {
			return nil, err
		}
		files = append(files, overlayPath)
	}

	return newStore(tree, files, o), nil
}

// FromString builds a Store from a single TOML document. No overlay applies.
func FromString(content string, opts ...Option) (*Store, error) {
	tree, err := parse("<string>", []byte(content))
	if err != nil {
		return nil, err
	}
	return newStore(tree, nil, newOptions(opts)), nil
}

// Empty returns a Store with no keys.
func Empty() *Store {
	return &Store{instance: viper.New(), tree: map[string]any{}}
}

func parse(path string, content []byte) (map[string]any, error) {
	tree := make(map[string]any)
	if err := toml.Unmarshal([]byte(interpolate(string(content))), &tree); err != nil {
		parseErr := &ParseError{Path: path, Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			parseErr.Line, parseErr.Column = decodeErr.Position()
		}
		return nil, parseErr
	}
	return tree, nil
}

func newStore(tree map[string]any, files []string, o Options) *Store {
	if o.EnvPrefix != "" {
		applyEnvOverrides(tree, o.EnvPrefix, "")
	}

	v := viper.New()
	if err := v.MergeConfigMap(cloneMap(tree)); err != nil {
		o.Logger.Warn("failed to index configuration", zap.Error(err))
	}
	return &Store{instance: v, tree: tree, files: files}
}

// IsEmpty reports whether the document has no keys.
func (s *Store) IsEmpty() bool {
	return len(s.tree) == 0
}

// Files returns the files merged into the Store, base first.
func (s *Store) Files() []string {
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

// Has reports whether key is present. Keys match case-insensitively when no
// exact match exists.
func (s *Store) Has(key string) bool {
	_, ok := lookupKey(s.tree, key)
	return ok
}

// Get returns the raw value at a dotted key, or nil.
func (s *Store) Get(key string) any {
	v, _ := lookupKey(s.tree, key)
	return cloneValue(v)
}

// Section returns a copy of the table under prefix with keys as written in
// the document. Absent prefixes and plain values yield an empty table.
func (s *Store) Section(prefix string) map[string]any {
	if table, ok := s.Get(prefix).(map[string]any); ok {
		return table
	}
	return map[string]any{}
}

// AllSettings returns a copy of the whole document with keys as written.
func (s *Store) AllSettings() map[string]any {
	return cloneMap(s.tree)
}

// Bind decodes the section under prefix into target. Struct targets get their
// `default` tags applied first, so an absent section decodes to defaults, and
// are validated after decoding.
func (s *Store) Bind(prefix string, target any) error {
	if target == nil {
		return &DeserializeError{Prefix: prefix, Err: errors.New("target is nil")}
	}

	structTarget := isStructPtr(target)
	if structTarget {
		if err := defaults.Set(target); err != nil {
			return &DeserializeError{Prefix: prefix, Err: fmt.Errorf("set defaults: %w", err)}
		}
	}

	var err error
	if prefix == "" {
		err = s.instance.Unmarshal(target)
	} else {
		err = s.instance.UnmarshalKey(prefix, target)
	}
	if err != nil {
		return &DeserializeError{Prefix: prefix, Err: err}
	}

	if structTarget {
		if err := validate.Struct(target); err != nil {
			return &ValidationError{Prefix: prefix, Err: err}
		}
	}
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &ValidationError{Prefix: prefix, Err: err}
		}
	}
	return nil
}

// ExportJSON writes the merged document as indented JSON.
func (s *Store) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.AllSettings())
}

func isStructPtr(target any) bool {
	t := reflect.TypeOf(target)
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// GetPrefix decodes the section under prefix into a new T.
func GetPrefix[T any](s *Store, prefix string) (T, error) {
	var out T
	if err := s.Bind(prefix, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Get decodes the section named by T's ConfigPrefix.
func Get[T Configurable](s *Store) (T, error) {
	var zero T
	return GetPrefix[T](s, zero.ConfigPrefix())
}
