package boundaries

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

var valueOpts = cmp.Options{
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}

		return a.Cmp(b) == 0
	}),
	cmpopts.EquateNaNs(),
	cmpopts.EquateEmpty(),
}

func testConfig(tests int) m.GenerationConfig {
	return m.GenerationConfig{
		TestsPerFunction: tests,
		StringLength:     3,
		IntMin:           -10,
		IntMax:           10,
		CollectionSize:   3,
		Seed:             42,
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func valueKeys(values []m.Value) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Key())
	}

	return out
}

func TestIntegerGenerator(t *testing.T) {
	t.Run("boundary values straddle the range", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryInteger}

		got := IntegerGenerator{}.Boundary(p, testConfig(5))
		assert.Equal(t, []string{"int:-11", "int:-10", "int:0", "int:10", "int:11"}, valueKeys(got))
	})

	t.Run("directive bounds win over the config", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryInteger, Bounds: &m.IntBounds{Min: 0, Max: 3}}

		got := IntegerGenerator{}.Boundary(p, testConfig(5))
		assert.Equal(t, []string{"int:-1", "int:0", "int:0", "int:3", "int:4"}, valueKeys(got))
	})

	t.Run("int64 extremes do not overflow", func(t *testing.T) {
		cfg := testConfig(5)
		cfg.IntMin = math.MinInt64
		cfg.IntMax = math.MaxInt64

		got := IntegerGenerator{}.Boundary(m.Parameter{}, cfg)
		assert.Equal(t, "int:-9223372036854775809", got[0].Key())
		assert.Equal(t, "int:9223372036854775808", got[4].Key())

		v, ok := IntegerGenerator{}.Sample(m.Parameter{}, cfg, testRand())
		require.True(t, ok)
		assert.True(t, v.Int.IsInt64())
	})

	t.Run("samples stay inside the range", func(t *testing.T) {
		rng := testRand()

		for range 200 {
			v, ok := IntegerGenerator{}.Sample(m.Parameter{}, testConfig(5), rng)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v.Int.Int64(), int64(-10))
			assert.LessOrEqual(t, v.Int.Int64(), int64(10))
		}
	})

	t.Run("single point range", func(t *testing.T) {
		cfg := testConfig(5)
		cfg.IntMin, cfg.IntMax = 7, 7

		v, _ := IntegerGenerator{}.Sample(m.Parameter{}, cfg, testRand())
		assert.Equal(t, int64(7), v.Int.Int64())
	})
}

func TestFloatGenerator(t *testing.T) {
	got := FloatGenerator{}.Boundary(m.Parameter{}, testConfig(5))
	require.Len(t, got, 6)

	assert.Equal(t, 0.0, got[0].Float)
	assert.Equal(t, -Epsilon, got[1].Float)
	assert.Equal(t, Epsilon, got[2].Float)
	assert.Equal(t, math.MaxFloat64, got[3].Float)
	assert.True(t, math.IsNaN(got[4].Float))
	assert.True(t, math.IsInf(got[5].Float, 1))
	assert.Equal(t, math.Nextafter(1, 2)-1, Epsilon)

	rng := testRand()
	for range 100 {
		v, ok := FloatGenerator{}.Sample(m.Parameter{}, testConfig(5), rng)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v.Float, -10.0)
		assert.LessOrEqual(t, v.Float, 10.0)
	}
}

func TestStringGenerator(t *testing.T) {
	t.Run("boundary values", func(t *testing.T) {
		got := StringGenerator{}.Boundary(m.Parameter{}, testConfig(5))

		want := []string{"", "a", "aaa", "aaaa", " \t\n\r", "\x00é中😀\x7f"}
		require.Len(t, got, len(want))

		for i, w := range want {
			assert.Equal(t, w, got[i].Str)
		}

		assert.True(t, utf8.ValidString(got[5].Str))
	})

	t.Run("length one collapses duplicates", func(t *testing.T) {
		cfg := testConfig(5)
		cfg.StringLength = 1

		got := Dedupe(StringGenerator{}.Boundary(m.Parameter{}, cfg))
		assert.Len(t, got, 5)
	})

	t.Run("samples are letters of the configured length", func(t *testing.T) {
		v, ok := StringGenerator{}.Sample(m.Parameter{}, testConfig(5), testRand())
		require.True(t, ok)
		assert.Len(t, v.Str, 3)
		assert.Regexp(t, "^[a-zA-Z]{3}$", v.Str)
	})
}

func TestCollectionGenerator(t *testing.T) {
	t.Run("sequence of integers by default", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryCollection, Shape: m.ShapeSequence}

		got := CollectionGenerator{}.Boundary(p, testConfig(5))
		require.Len(t, got, 3)
		assert.Equal(t, 0, got[0].Len())
		assert.Equal(t, 1, got[1].Len())
		assert.Equal(t, 3, got[2].Len())
		assert.Equal(t, []string{"int:-11", "int:-10", "int:0"}, valueKeys(got[2].Items))
	})

	t.Run("mapping keys are distinct", func(t *testing.T) {
		p := m.Parameter{
			Category: m.CategoryCollection,
			Shape:    m.ShapeMapping,
			Key:      m.CategoryString,
			Elem:     m.CategoryFloat,
		}

		got := CollectionGenerator{}.Boundary(p, testConfig(5))
		require.Len(t, got, 3)
		assert.Equal(t, []string{`str:"k0"`, `str:"k1"`, `str:"k2"`}, valueKeys(got[2].Keys))
		assert.Equal(t, m.KindFloat, got[2].Items[0].Kind)
	})

	t.Run("boolean keys cap the mapping size", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryCollection, Shape: m.ShapeMapping, Key: m.CategoryBoolean, KeyAnnotation: "bool"}

		v, ok := CollectionGenerator{}.Sample(p, m.GenerationConfig{CollectionSize: 10, StringLength: 1, IntMax: 1}, testRand())
		require.True(t, ok)
		assert.LessOrEqual(t, len(v.Keys), 2)
		assert.Len(t, v.Items, len(v.Keys))
	})

	t.Run("declared unknown element uses the placeholder", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryCollection, ElemAnnotation: "Widget"}

		got := CollectionGenerator{}.Boundary(p, testConfig(5))
		assert.Equal(t, m.KindPlaceholder, got[2].Items[0].Kind)
	})

	t.Run("arrays keep their shape", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryCollection, Shape: m.ShapeArray, Elem: m.CategoryInteger, ElemAnnotation: "int"}

		for _, v := range (CollectionGenerator{}).Boundary(p, testConfig(5)) {
			assert.Equal(t, m.ShapeArray, v.Shape)
		}
	})
}

func TestNullableGenerator(t *testing.T) {
	tests := []struct {
		name  string
		param m.Parameter
		want  []string
	}{
		{"optional int", m.Parameter{Elem: m.CategoryInteger}, []string{"null", "int:0"}},
		{"optional str", m.Parameter{Elem: m.CategoryString}, []string{"null", `str:"a"`}},
		{"pointer to struct", m.Parameter{ElemAnnotation: "Config"}, []string{"null", "object"}},
		{"optional list", m.Parameter{Elem: m.CategoryCollection}, []string{"null", "coll0[]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NullableGenerator{}.Boundary(tt.param, testConfig(5))
			assert.Equal(t, tt.want, valueKeys(got))
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("boundaries are never crowded out", func(t *testing.T) {
		set := Build(IntegerGenerator{}, m.Parameter{}, testConfig(1), testRand())
		assert.Len(t, set.Boundary, 5)
		assert.Empty(t, set.Sampled)
	})

	t.Run("samples fill the remaining slots", func(t *testing.T) {
		set := Build(IntegerGenerator{}, m.Parameter{}, testConfig(8), testRand())
		assert.Len(t, set.Boundary, 5)
		assert.Len(t, set.Sampled, 3)
	})

	t.Run("non sampling categories stop at their boundaries", func(t *testing.T) {
		set := Build(BooleanGenerator{}, m.Parameter{}, testConfig(10), testRand())
		assert.Equal(t, 2, set.Len())
	})

	t.Run("every category is non-empty", func(t *testing.T) {
		for _, category := range m.Categories() {
			set := Build(For(category), m.Parameter{Category: category}, testConfig(1), testRand())
			assert.Positive(t, set.Len(), category.String())
			assert.Equal(t, category, For(category).Category())
		}
	})

	t.Run("same seed same values", func(t *testing.T) {
		p := m.Parameter{Category: m.CategoryCollection}

		first := Build(CollectionGenerator{}, p, testConfig(12), testRand())
		second := Build(CollectionGenerator{}, p, testConfig(12), testRand())

		if diff := cmp.Diff(first, second, valueOpts); diff != "" {
			t.Errorf("Build() mismatch (-first +second):\n%s", diff)
		}
	})
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]m.Value{m.Int(1), m.Float(math.NaN()), m.Int(1), m.Float(math.NaN()), m.Null()})

	want := []m.Value{m.Int(1), m.Float(math.NaN()), m.Null()}
	if diff := cmp.Diff(want, got, valueOpts); diff != "" {
		t.Errorf("Dedupe() mismatch (-want +got):\n%s", diff)
	}
}
