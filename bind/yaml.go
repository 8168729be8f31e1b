package bind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/vex/lang"
)

// LoadYAML decodes a YAML mapping from r and binds every scalar it contains
// into env, allocating env if nil.
//
// Nested mappings contribute dotted names and sequence elements contribute
// their index, so
//
//	spawn:
//	  biome: plains
//	  points: [3, 5]
//
// binds spawn.biome, spawn.points.0 and spawn.points.1. Integers and floats
// bind as numbers, booleans as booleans, null as the empty string and
// everything else as its string form.
func LoadYAML(
	ctx context.Context,
	env *lang.Env,
	r io.Reader,
	opts ...Option,
) (*lang.Env, error) {
	o := makeOptions(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	var doc any
	if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
		return nil, ErrDocument.Wrap(err).
			With(slog.String("reason", yaml.FormatError(err, false, true)))
	}

	root, ok := doc.(map[string]any)
	if !ok && doc != nil {
		return nil, ErrDocument.With(
			slog.String("reason", "top level is not a mapping"),
			slog.String("type", fmt.Sprintf("%T", doc)))
	}

	if env == nil {
		env = lang.NewEnv()
	}

	n := flatten(o.prefix, root, func(name string, v lang.Variant) {
		env.BindValue(name, v)
	})

	o.logger.DebugContext(ctx, "loaded yaml bindings",
		slog.Int("bytes", len(data)),
		slog.Int("bindings", n),
		slog.String("prefix", o.prefix))

	return env, nil
}

// LoadYAMLFile is [LoadYAML] reading from the named file.
func LoadYAMLFile(
	ctx context.Context,
	env *lang.Env,
	path string,
	opts ...Option,
) (*lang.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	env, err = LoadYAML(ctx, env, f, opts...)
	if err != nil {
		if e, ok := err.(*lang.Error); ok {
			err = e.With(slog.String("path", path))
		}

		return nil, err
	}

	return env, nil
}

// flatten calls bind for every scalar below v, in sorted key order, and
// returns the number of scalars bound.
func flatten(name string, v any, bind func(string, lang.Variant)) int {
	join := func(key string) string {
		if name == "" || name[len(name)-1] == '.' {
			return name + key
		}

		return name + "." + key
	}

	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		n := 0
		for _, k := range keys {
			n += flatten(join(k), v[k], bind)
		}

		return n

	case []any:
		n := 0
		for i, e := range v {
			n += flatten(join(strconv.Itoa(i)), e, bind)
		}

		return n
	}

	bind(name, scalar(v))

	return 1
}

func scalar(v any) lang.Variant {
	switch v := v.(type) {
	case nil:
		return lang.String("")
	case bool:
		return lang.Bool(v)
	case string:
		return lang.String(v)
	case int:
		return lang.Number(float64(v))
	case int64:
		return lang.Number(float64(v))
	case uint64:
		return lang.Number(float64(v))
	case float64:
		return lang.Number(v)
	case time.Time:
		return lang.String(v.Format(time.RFC3339))
	default:
		return lang.String(fmt.Sprint(v))
	}
}
