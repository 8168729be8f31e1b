package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vex/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a YAML mapping of
// flag names to values, as written by "vex init".
//
// Keys are flag names in either hyphen or underscore form:
//
//	log-level: debug
//	log_pretty: false
//	bindings:
//	  - world.yaml
//	define:
//	  player.health: 20
//
// Numbers are passed to kong as strings, sequences as lists and mappings as
// "key=value" lists for map flags. Command-line flags override the file.
// A malformed file is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring malformed configuration",
				slog.String("reason", yaml.FormatError(err, false, true)))

			return config{}, nil
		}

		cfg := make(config, len(doc))
		for key, val := range doc {
			if v := flagValue(val); v != nil {
				cfg[key] = v
			}
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}

// flagValue converts a decoded YAML value into a form kong decodes.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case string, bool:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		list := make([]any, 0, len(v))
		for _, elem := range v {
			if s := flagValue(elem); s != nil {
				list = append(list, fmt.Sprint(s))
			}
		}

		return list
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			s := flagValue(v[key])
			if s == nil {
				s = ""
			}

			pairs = append(pairs, key+"="+fmt.Sprint(s))
		}

		return strings.Join(pairs, ";")
	default:
		return fmt.Sprint(v)
	}
}
