package bind

import (
	"bufio"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ardnew/vex/lang"
)

// Host binds facts about the running process and its host into env:
//
//	host.os       operating system (Go naming)
//	host.arch     architecture (Go naming)
//	host.target   architecture (GNU naming)
//	host.name     hostname
//	host.user     login name of the current user
//	host.home     home directory of the current user
//	host.shell    login shell
//	host.cwd      working directory, read on each evaluation
//	host.time     Unix time in seconds, read on each evaluation
//	host.pid      process ID
//
// Facts that never change are computed at most once per process.
// A nil env is allocated.
func Host(env *lang.Env, opts ...Option) *lang.Env {
	if env == nil {
		env = lang.NewEnv()
	}

	o := makeOptions(append([]Option{WithPrefix("host")}, opts...)...)

	str := func(fn func() string) lang.Producer {
		return lang.Func(func() lang.Variant { return lang.String(fn()) })
	}

	return env.
		Bind(o.prefix+"os", str(func() string { return platform().os })).
		Bind(o.prefix+"arch", str(func() string { return platform().arch })).
		Bind(o.prefix+"target", str(func() string { return target().arch })).
		Bind(o.prefix+"name", str(hostname)).
		Bind(o.prefix+"user", str(func() string { return currentUser().Username })).
		Bind(o.prefix+"home", str(func() string { return currentUser().HomeDir })).
		Bind(o.prefix+"shell", str(shell)).
		Bind(o.prefix+"cwd", str(cwd)).
		Bind(o.prefix+"time", lang.Func(func() lang.Variant {
			return lang.Number(float64(time.Now().UnixNano()) / float64(time.Second))
		})).
		BindNumber(o.prefix+"pid", float64(os.Getpid()))
}

// Environ binds each process environment variable NAME as env.NAME.
// Variables are read when the expression consults them, so changes made
// with os.Setenv after binding are observed.
func Environ(env *lang.Env, opts ...Option) *lang.Env {
	if env == nil {
		env = lang.NewEnv()
	}

	o := makeOptions(append([]Option{WithPrefix("env")}, opts...)...)

	for _, entry := range os.Environ() {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}

		env.Bind(o.prefix+key, func() (lang.Variant, error) {
			v, ok := os.LookupEnv(key)
			if !ok {
				return lang.Variant{}, ErrValue.With(
					slog.String("reason", "environment variable unset"),
					slog.String("variable", key))
			}

			return lang.String(v), nil
		})
	}

	return env
}

type arch struct {
	os, arch string
}

// platform returns the host using Go conventions, honoring the toolchain's
// host overrides.
var platform = sync.OnceValue(func() arch {
	lookup := func(fallback string, keys ...string) string {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				return v
			}
		}

		return fallback
	}

	return arch{
		os:   lookup(runtime.GOOS, "GOHOSTOS", "GOOS"),
		arch: lookup(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
})

// target returns the host using GNU GCC/LLVM naming conventions.
func target() arch {
	t := platform()

	switch t.arch {
	case "386":
		t.arch = "i386"
	case "amd64":
		t.arch = "x86_64"
	case "arm":
		if v, ok := os.LookupEnv("GOARM"); ok {
			v, _, _ = strings.Cut(v, ",")
			switch v = strings.TrimSpace(v); v {
			case "5", "6", "7":
				t.arch = "armv" + v
			}
		}
	case "arm64":
		if t.os != "darwin" {
			t.arch = "aarch64"
		}
	case "mipsle":
		t.arch = "mipsel"
	}

	return t
}

var hostname = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}

	return name
})

var currentUser = sync.OnceValue(func() *user.User {
	u, err := user.Current()
	if err != nil {
		return &user.User{}
	}

	return u
})

var shell = sync.OnceValue(func() string {
	if sh, ok := os.LookupEnv("SHELL"); ok {
		return sh
	}

	name := currentUser().Username
	if name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
})

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		dir, _ = filepath.Abs(".")
	}

	return dir
}
