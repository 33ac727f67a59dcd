package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"tir/internal/errors"
	"tir/internal/names"
)

// DefaultPackStem is the conventional rule pack filename, tried with
// each supported extension during discovery.
const DefaultPackStem = "template-rules"

var packExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// Discover returns the conventional rule pack files present in dir, in
// a fixed extension order.
func Discover(dir string) []string {
	var out []string
	for _, ext := range packExtensions {
		p := filepath.Join(dir, DefaultPackStem+ext)
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// LoadFile reads one rule pack. The format follows the file extension:
// .toml, .yaml/.yml, or .json.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.RulePackInvalid, fmt.Sprintf("cannot read rule pack %s", path), err)
	}
	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, errors.New(errors.RulePackInvalid, fmt.Sprintf("unsupported rule pack format %q in %s", ext, path), nil)
	}
	if err != nil {
		return nil, errors.New(errors.RulePackInvalid, fmt.Sprintf("cannot parse rule pack %s", path), err)
	}
	pack, err := FromRaw(path, raw)
	if err != nil {
		return nil, errors.New(errors.RulePackInvalid, fmt.Sprintf("invalid rule pack %s", path), err)
	}
	return pack, nil
}

// LoadAll loads the given pack files in order.
func LoadAll(paths []string) ([]*Pack, error) {
	packs := make([]*Pack, 0, len(paths))
	for _, p := range paths {
		pack, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// FromRaw builds a pack from decoded data. source is recorded for
// provenance; inline configuration passes a pseudo-path here.
func FromRaw(source string, raw map[string]any) (*Pack, error) {
	p := &Pack{Source: source, Components: map[string]Capabilities{}}
	for key, val := range raw {
		switch key {
		case "package":
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("package must be a string")
			}
			p.Package = s
		case "description":
			if _, ok := val.(string); !ok {
				return nil, fmt.Errorf("description must be a string")
			}
		case "roots":
			list, err := stringList(val)
			if err != nil {
				return nil, fmt.Errorf("roots: %w", err)
			}
			p.Roots = normalizeRoots(list)
		case "components":
			m, ok := asMap(val)
			if !ok {
				return nil, fmt.Errorf("components must be a table")
			}
			for name, rv := range m {
				caps, err := parseCapabilities(rv)
				if err != nil {
					return nil, fmt.Errorf("components.%s: %w", name, err)
				}
				p.Components[names.Canonical(name)] = caps
			}
		default:
			return nil, fmt.Errorf("unknown key %q", key)
		}
	}
	return p, nil
}

func parseCapabilities(rv any) (Capabilities, error) {
	var c Capabilities
	m, ok := asMap(rv)
	if !ok {
		return c, fmt.Errorf("must be a table")
	}
	for k, v := range m {
		switch k {
		case "safeToIgnore":
			b, ok := v.(bool)
			if !ok {
				return c, fmt.Errorf("safeToIgnore must be a bool")
			}
			c.SafeToIgnore = b
		case "disambiguate":
			s, ok := v.(string)
			if !ok || (s != DisambiguateComponent && s != DisambiguateHelper) {
				return c, fmt.Errorf("disambiguate must be %q or %q", DisambiguateComponent, DisambiguateHelper)
			}
			c.Disambiguate = s
		case "acceptsComponentArguments":
			args, err := parseArgumentList(v)
			if err != nil {
				return c, fmt.Errorf("acceptsComponentArguments: %w", err)
			}
			c.ComponentArguments = args
		case "yieldsSafeComponents":
			claims, err := parseYieldClaims(v)
			if err != nil {
				return c, err
			}
			c.YieldsSafeComponents = claims
		case "yieldsArguments":
			aliases, err := parseYieldAliases(v)
			if err != nil {
				return c, err
			}
			c.YieldsArguments = aliases
		default:
			return c, fmt.Errorf("unknown rule %q", k)
		}
	}
	return c, nil
}

func parseArgumentList(v any) ([]ArgumentRule, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array")
	}
	out := make([]ArgumentRule, 0, len(items))
	for i, it := range items {
		switch it := it.(type) {
		case string:
			name := strings.TrimPrefix(it, "@")
			out = append(out, ArgumentRule{Name: name, Interior: name})
		case map[string]any:
			name, _ := it["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("entry %d needs a name", i)
			}
			name = strings.TrimPrefix(name, "@")
			interior := name
			if raw, present := it["interior"]; present {
				s, ok := raw.(string)
				if !ok || s == "" {
					return nil, fmt.Errorf("entry %d: interior must be a non-empty string", i)
				}
				interior = strings.TrimPrefix(s, "@")
			}
			for k := range it {
				if k != "name" && k != "interior" {
					return nil, fmt.Errorf("entry %d: unknown key %q", i, k)
				}
			}
			out = append(out, ArgumentRule{Name: name, Interior: interior})
		default:
			return nil, fmt.Errorf("entry %d must be a string or table", i)
		}
	}
	return out, nil
}

func parseYieldClaims(v any) ([]YieldClaim, error) {
	switch v := v.(type) {
	case bool:
		// Shorthand for a single-slot claim.
		return []YieldClaim{{Self: v}}, nil
	case []any:
		out := make([]YieldClaim, len(v))
		for i, e := range v {
			switch e := e.(type) {
			case bool:
				out[i] = YieldClaim{Self: e}
			case map[string]any:
				props := make(map[string]bool, len(e))
				for pk, pv := range e {
					b, ok := pv.(bool)
					if !ok {
						return nil, fmt.Errorf("yieldsSafeComponents[%d].%s must be a bool", i, pk)
					}
					props[pk] = b
				}
				out[i] = YieldClaim{Props: props}
			default:
				return nil, fmt.Errorf("yieldsSafeComponents[%d] must be a bool or table", i)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("yieldsSafeComponents must be a bool or array")
	}
}

func parseYieldAliases(v any) ([]YieldAlias, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("yieldsArguments must be an array")
	}
	out := make([]YieldAlias, len(items))
	for i, e := range items {
		switch e := e.(type) {
		case string:
			out[i] = YieldAlias{Argument: strings.TrimPrefix(e, "@")}
		case map[string]any:
			props := make(map[string]string, len(e))
			for pk, pv := range e {
				s, ok := pv.(string)
				if !ok {
					return nil, fmt.Errorf("yieldsArguments[%d].%s must be a string", i, pk)
				}
				props[pk] = strings.TrimPrefix(s, "@")
			}
			out[i] = YieldAlias{Props: props}
		default:
			return nil, fmt.Errorf("yieldsArguments[%d] must be a string or table", i)
		}
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array of strings")
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d must be a string", i)
		}
		out[i] = s
	}
	return out, nil
}

func normalizeRoots(roots []string) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		r = filepath.ToSlash(strings.TrimSpace(r))
		out[i] = strings.Trim(r, "/")
	}
	return out
}
