package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache memoizes compiled programs by source text and options. It is safe
// for concurrent use; each distinct source is compiled at most once even
// when requested concurrently, and compile errors are cached as well.
//
// The zero Cache is ready to use.
type Cache struct {
	entries sync.Map // cacheKey -> *cacheEntry
}

type cacheKey struct {
	source  uint64
	options uint64
}

// cacheEntry tracks the compile state of one source.
type cacheEntry struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// defaultCache backs [CompileCached].
var defaultCache Cache

// CompileCached compiles src through a process-wide [Cache].
func CompileCached(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Program, error) {
	return defaultCache.Compile(ctx, src, opts...)
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.MaxDepth)
	_ = enc.Encode(opts.Fold)

	return xxh3.Hash(buf.Bytes())
}

// Compile returns the cached program for src, compiling it on first use.
// The returned Program logs to the logger given in opts, regardless of which
// caller compiled it first.
func (c *Cache) Compile(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Program, error) {
	want := newProgram(src, opts...)

	key := cacheKey{
		source:  xxh3.HashString(src),
		options: hashOptions(want.opts),
	}

	v, loaded := c.entries.LoadOrStore(key, &cacheEntry{source: src})
	e := v.(*cacheEntry)

	if e.source != src {
		want.logger.TraceContext(ctx, "cache collision",
			slog.Uint64("source_hash", key.source))

		return Compile(ctx, src, opts...)
	}

	e.once.Do(func() {
		e.prog, e.err = Compile(ctx, src, opts...)
	})

	want.logger.TraceContext(ctx, "cache lookup",
		slog.Uint64("source_hash", key.source),
		slog.Bool("hit", loaded),
	)

	if e.err != nil {
		return nil, e.err
	}

	prog := *e.prog
	prog.logger = want.logger

	return &prog, nil
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes all cached programs.
func (c *Cache) Clear() {
	c.entries.Clear()
}
