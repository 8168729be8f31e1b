package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vex/bind"
	"github.com/ardnew/vex/cli/cmd"
	"github.com/ardnew/vex/lang"
	"github.com/ardnew/vex/log"
)

type bindConfig struct {
	Bindings []string          `help:"YAML binding document(s), searched in the working and config directories and $${VEX_PATH}" placeholder:"FILE" short:"b"`
	Lua      []string          `help:"Lua script(s) whose globals are bound; tick() advances them"                                placeholder:"FILE"`
	Define   map[string]string `help:"Bind NAME to VALUE (number, true, false or string)"                                        placeholder:"NAME=VALUE" short:"D"`
	Host     bool              `default:"false"                                                                                   help:"Bind host facts under host."            negatable:""`
	Env      bool              `default:"false"                                                                                   help:"Bind environment variables under env." negatable:""`
	MaxDepth int               `default:"${maxDepth}"                                                                             help:"Maximum expression nesting depth."`
}

func (*bindConfig) vars() kong.Vars {
	return kong.Vars{
		"maxDepth": strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (*bindConfig) group() kong.Group {
	return kong.Group{Key: "bind", Title: "Binding options"}
}

// start builds the binding environment from every configured source.
// Sources are bound in order: host facts, environment variables, YAML
// documents, Lua scripts and definitions, so later sources shadow earlier
// ones. The returned close func releases the Lua states.
func (f *bindConfig) start(ctx context.Context) (*cmd.Bindings, func(), error) {
	logger := log.Default()
	opts := []bind.Option{bind.WithLogger(logger)}

	env := lang.NewEnv()

	if f.Host {
		bind.Host(env, opts...)
	}

	if f.Env {
		bind.Environ(env, opts...)
	}

	for _, name := range f.Bindings {
		path := findFile(name)
		if _, err := bind.LoadYAMLFile(ctx, env, path, opts...); err != nil {
			return nil, func() {}, cmd.ErrBindingSpec.
				With(slog.String("bindings", path)).
				Wrap(err)
		}
	}

	var (
		scripts []*bind.Lua
		tickers []cmd.Ticker
	)

	release := func() {
		for _, l := range scripts {
			l.Close()
		}
	}

	for _, name := range f.Lua {
		path := findFile(name)

		l, err := bind.NewLuaFile(ctx, path, opts...)
		if err != nil {
			release()

			return nil, func() {}, cmd.ErrBindingSpec.
				With(slog.String("lua", path)).
				Wrap(err)
		}

		l.Bind(env)

		scripts = append(scripts, l)
		tickers = append(tickers, l)
	}

	for name, value := range f.Define {
		if !lang.IsIdentifier(name) {
			release()

			return nil, func() {}, cmd.ErrBindingSpec.
				With(slog.String("define", name+"="+value)).
				With(slog.String("reason", "not an identifier"))
		}

		env.BindValue(name, defineValue(value))
	}

	log.DebugContext(ctx, "bindings ready",
		slog.Int("bindings", env.Len()),
		slog.Int("scripts", len(scripts)),
		slog.Int("max_depth", f.MaxDepth))

	langOpts := []lang.Option{
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithLogger(logger),
	}

	return cmd.NewBindings(env, langOpts, tickers...), release, nil
}

// defineValue converts the value of a --define flag: a number if it parses
// as one, a boolean if it is exactly true or false, and a string otherwise.
func defineValue(s string) lang.Variant {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return lang.Number(f)
	}

	switch s {
	case "true":
		return lang.Bool(true)
	case "false":
		return lang.Bool(false)
	}

	return lang.String(s)
}
