package config

import (
	"os"
	"regexp"
	"strings"
)

// mergeTables deep-merges src into dst. Tables merge recursively, every other
// value in src replaces the one in dst. A table meeting a plain value is an
// error. keyPath is the dotted path of dst, used for error reporting.
func mergeTables(dst, src map[string]any, file, keyPath string) error {
	for key, srcVal := range src {
		full := key
		if keyPath != "" {
			full = keyPath + "." + key
		}

		dstVal, exists := dst[key]
		if !exists {
			dst[key] = cloneValue(srcVal)
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		switch {
		case srcIsMap && dstIsMap:
			if err := mergeTables(dstMap, srcMap, file, full); err != nil {
				return err
			}
		case srcIsMap != dstIsMap:
			return &MergeError{Path: file, Key: full}
		default:
			dst[key] = cloneValue(srcVal)
		}
	}
	return nil
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// lookupKey resolves a dotted key against tree. At each level the longest
// run of segments naming a key wins, so quoted keys containing dots stay
// addressable. Exact key matches are preferred over case-insensitive ones.
func lookupKey(tree map[string]any, key string) (any, bool) {
	if key == "" {
		return tree, true
	}
	return lookupSegments(tree, strings.Split(key, "."))
}

func lookupSegments(table map[string]any, segments []string) (any, bool) {
	for i := len(segments); i > 0; i-- {
		val, ok := tableEntry(table, strings.Join(segments[:i], "."))
		if !ok {
			continue
		}
		if i == len(segments) {
			return val, true
		}
		if nested, isTable := val.(map[string]any); isTable {
			if found, ok := lookupSegments(nested, segments[i:]); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func tableEntry(table map[string]any, name string) (any, bool) {
	if val, ok := table[name]; ok {
		return val, true
	}
	for k, val := range table {
		if strings.EqualFold(k, name) {
			return val, true
		}
	}
	return nil, false
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// interpolate replaces ${VAR} and ${VAR:default} with environment values.
// An unset variable without a default becomes the empty string.
func interpolate(content string) string {
	return placeholder.ReplaceAllStringFunc(content, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(groups[1]); ok {
			return value
		}
		return groups[2]
	})
}

// applyEnvOverrides replaces leaves that have a matching environment variable:
// database.max-conns under prefix APP reads APP_DATABASE_MAX_CONNS.
func applyEnvOverrides(tree map[string]any, envPrefix, keyPath string) {
	replacer := strings.NewReplacer(".", "_", "-", "_")

	for key, val := range tree {
		full := key
		if keyPath != "" {
			full = keyPath + "." + key
		}

		if nested, ok := val.(map[string]any); ok {
			applyEnvOverrides(nested, envPrefix, full)
			continue
		}

		envKey := envPrefix + "_" + strings.ToUpper(replacer.Replace(full))
		if envValue := os.Getenv(envKey); envValue != "" {
			tree[key] = envValue
		}
	}
}
