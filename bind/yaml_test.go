package bind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/vex/lang"
)

const world = `
player:
  name: Steve
  health: 4.5
  inWater: false
spawn:
  points: [3, 5]
  biome: ~
`

func evalIn(t *testing.T, env *lang.Env, src string) lang.Variant {
	t.Helper()

	prog, err := lang.Compile(t.Context(), src)
	require.NoError(t, err)

	v, err := prog.Eval(t.Context(), env)
	require.NoError(t, err)

	return v
}

func TestLoadYAML(t *testing.T) {
	env, err := LoadYAML(t.Context(), nil, strings.NewReader(world))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"player.health",
		"player.inWater",
		"player.name",
		"spawn.biome",
		"spawn.points.0",
		"spawn.points.1",
	}, env.Names())

	v := evalIn(t, env, `player.health < 5 && !player.inWater && player.name == "Steve"`)
	assert.Equal(t, lang.KindBoolean, v.Kind())
	assert.True(t, v.AsBool())

	l, ok := env.Lookup("spawn.points.1")
	require.True(t, ok)

	p, err := l.Resolve()
	require.NoError(t, err)

	n, err := p.AsNumber()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, n, 0)

	l, ok = env.Lookup("spawn.biome")
	require.True(t, ok)

	b, err := l.Resolve()
	require.NoError(t, err)
	assert.Equal(t, lang.KindString, b.Kind())
	assert.False(t, b.AsBool(), "null should bind a falsy empty string")
}

func TestLoadYAMLPrefixAndMerge(t *testing.T) {
	base := lang.NewEnv().BindNumber("limit", 5)

	env, err := LoadYAML(t.Context(), base, strings.NewReader("health: 3\n"),
		WithPrefix("cfg"))
	require.NoError(t, err)
	assert.Same(t, base, env)

	assert.Equal(t, []string{"cfg.health", "limit"}, env.Names())
	assert.True(t, evalIn(t, env, "cfg.health < limit").AsBool())
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"sequence_root", "- a\n- b\n"},
		{"scalar_root", "hello\n"},
		{"malformed", "a: [1, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(t.Context(), nil, strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDocument)
		})
	}
}

func TestLoadYAMLEmpty(t *testing.T) {
	env, err := LoadYAML(t.Context(), nil, strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, env.Len())
}

func TestLoadYAMLFileMissing(t *testing.T) {
	_, err := LoadYAMLFile(t.Context(), nil, t.TempDir()+"/absent.yaml")
	assert.ErrorIs(t, err, lang.ErrReadInput)
}
