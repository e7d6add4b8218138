package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

func pyHint(annotation string) m.TypeHint {
	return m.TypeHint{Language: m.LanguagePython, Annotation: annotation}
}

func pyDefault(literal string) m.TypeHint {
	return m.TypeHint{Language: m.LanguagePython, Default: literal, HasDefault: true}
}

func goHint(annotation string) m.TypeHint {
	return m.TypeHint{Language: m.LanguageGo, Annotation: annotation}
}

func TestClassifier_Python(t *testing.T) {
	tests := []struct {
		name string
		hint m.TypeHint
		want m.Classification
	}{
		{"int", pyHint("int"), m.Classification{Category: m.CategoryInteger}},
		{"float", pyHint("float"), m.Classification{Category: m.CategoryFloat}},
		{"decimal", pyHint("decimal.Decimal"), m.Classification{Category: m.CategoryFloat}},
		{"str", pyHint("str"), m.Classification{Category: m.CategoryString}},
		{"bool", pyHint("bool"), m.Classification{Category: m.CategoryBoolean}},
		{"quoted", pyHint(`"int"`), m.Classification{Category: m.CategoryInteger}},
		{"optional", pyHint("Optional[str]"), m.Classification{Category: m.CategoryNullable, Elem: m.CategoryString, ElemAnnotation: "str"}},
		{"pipe none", pyHint("int | None"), m.Classification{Category: m.CategoryNullable, Elem: m.CategoryInteger, ElemAnnotation: "int"}},
		{"union none", pyHint("Union[None, float]"), m.Classification{Category: m.CategoryNullable, Elem: m.CategoryFloat, ElemAnnotation: "float"}},
		{"union mixed", pyHint("Union[int, str]"), m.Classification{}},
		{"typing list", pyHint("typing.List[float]"), m.Classification{Category: m.CategoryCollection, Elem: m.CategoryFloat, ElemAnnotation: "float"}},
		{"bare list", pyHint("list"), m.Classification{Category: m.CategoryCollection}},
		{"tuple ellipsis", pyHint("tuple[int, ...]"), m.Classification{Category: m.CategoryCollection, Elem: m.CategoryInteger, ElemAnnotation: "int"}},
		{"dict", pyHint("Dict[str, List[int]]"), m.Classification{
			Category:       m.CategoryCollection,
			Shape:          m.ShapeMapping,
			Key:            m.CategoryString,
			KeyAnnotation:  "str",
			Elem:           m.CategoryCollection,
			ElemAnnotation: "List[int]",
		}},
		{"annotated", pyHint("Annotated[int, Gt(0)]"), m.Classification{Category: m.CategoryInteger}},
		{"literal", pyHint(`Literal["a", "b"]`), m.Classification{Category: m.CategoryString}},
		{"none", pyHint("None"), m.Classification{Category: m.CategoryNullable}},
		{"bytes", pyHint("bytes"), m.Classification{}},
		{"any", pyHint("Any"), m.Classification{}},
		{"class", pyHint("Widget"), m.Classification{}},
		{"absent", pyHint(""), m.Classification{}},
	}

	c := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.hint))
		})
	}
}

func TestClassifier_PythonDefaults(t *testing.T) {
	tests := []struct {
		literal string
		want    m.TypeCategory
	}{
		{"None", m.CategoryNullable},
		{"True", m.CategoryBoolean},
		{"3", m.CategoryInteger},
		{"-7", m.CategoryInteger},
		{"0x1F", m.CategoryInteger},
		{"1_000", m.CategoryInteger},
		{"2.5", m.CategoryFloat},
		{"1e-3", m.CategoryFloat},
		{`"hi"`, m.CategoryString},
		{`f'{x}'`, m.CategoryString},
		{`b"raw"`, m.CategoryUnknown},
		{"[]", m.CategoryCollection},
		{"(1, 2)", m.CategoryCollection},
		{"{}", m.CategoryCollection},
		{"{1, 2}", m.CategoryCollection},
		{"object()", m.CategoryUnknown},
		{"SENTINEL", m.CategoryUnknown},
	}

	c := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(pyDefault(tt.literal)).Category)
		})
	}

	t.Run("mapping default", func(t *testing.T) {
		assert.Equal(t, m.ShapeMapping, c.Classify(pyDefault(`{"a": 1}`)).Shape)
	})
}

func TestClassifier_Priority(t *testing.T) {
	c := NewClassifier()

	t.Run("annotation wins over default", func(t *testing.T) {
		hint := m.TypeHint{Language: m.LanguagePython, Annotation: "float", Default: "1", HasDefault: true}
		assert.Equal(t, m.CategoryFloat, c.Classify(hint).Category)
	})

	t.Run("unusable annotation falls through to default", func(t *testing.T) {
		hint := m.TypeHint{Language: m.LanguagePython, Annotation: "Widget", Default: "True", HasDefault: true}
		assert.Equal(t, m.CategoryBoolean, c.Classify(hint).Category)
	})

	t.Run("classification is idempotent", func(t *testing.T) {
		hint := pyHint("Optional[List[int]]")
		assert.Equal(t, c.Classify(hint), c.Classify(hint))
	})
}

func TestClassifier_Go(t *testing.T) {
	tests := []struct {
		annotation string
		want       m.Classification
	}{
		{"int", m.Classification{Category: m.CategoryInteger}},
		{"uint8", m.Classification{Category: m.CategoryInteger}},
		{"rune", m.Classification{Category: m.CategoryInteger}},
		{"float32", m.Classification{Category: m.CategoryFloat}},
		{"string", m.Classification{Category: m.CategoryString}},
		{"bool", m.Classification{Category: m.CategoryBoolean}},
		{"any", m.Classification{Category: m.CategoryNullable}},
		{"error", m.Classification{Category: m.CategoryNullable}},
		{"interface{}", m.Classification{Category: m.CategoryNullable}},
		{"*string", m.Classification{Category: m.CategoryNullable, Elem: m.CategoryString, ElemAnnotation: "string"}},
		{"*bytes.Buffer", m.Classification{Category: m.CategoryNullable, ElemAnnotation: "bytes.Buffer"}},
		{"[]int", m.Classification{Category: m.CategoryCollection, Elem: m.CategoryInteger, ElemAnnotation: "int"}},
		{"[4]byte", m.Classification{Category: m.CategoryCollection, Shape: m.ShapeArray, Elem: m.CategoryInteger, ElemAnnotation: "byte"}},
		{"map[string]int", m.Classification{
			Category:       m.CategoryCollection,
			Shape:          m.ShapeMapping,
			Key:            m.CategoryString,
			KeyAnnotation:  "string",
			Elem:           m.CategoryInteger,
			ElemAnnotation: "int",
		}},
		{"time.Duration", m.Classification{}},
		{"func(int) int", m.Classification{}},
		{"chan int", m.Classification{}},
		{"...int", m.Classification{}},
		{"", m.Classification{}},
	}

	c := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(goHint(tt.annotation)))
		})
	}
}

func TestClassifier_ClassifySignature(t *testing.T) {
	def := "3"
	sig := m.FunctionSignature{
		Name: "legacy",
		Params: []m.Parameter{
			{Name: "a"},
			{Name: "b", Default: &def},
			{Name: "args", Kind: m.ParamVariadic, Annotation: "int"},
			{Name: "kwargs", Kind: m.ParamVariadicKeyword},
		},
	}

	got := NewClassifier().ClassifySignature(m.LanguagePython, sig)
	require.Len(t, got.Params, 4)

	assert.Equal(t, m.CategoryUnknown, got.Params[0].Category)
	assert.Equal(t, m.CategoryInteger, got.Params[1].Category)

	args := got.Params[2]
	assert.Equal(t, m.CategoryCollection, args.Category)
	assert.Equal(t, m.ShapeSequence, args.Shape)
	assert.Equal(t, m.CategoryInteger, args.Elem)

	kwargs := got.Params[3]
	assert.Equal(t, m.CategoryCollection, kwargs.Category)
	assert.Equal(t, m.ShapeMapping, kwargs.Shape)
	assert.Equal(t, m.CategoryString, kwargs.Key)
	assert.Equal(t, m.CategoryUnknown, kwargs.Elem)
	assert.Empty(t, kwargs.ElemAnnotation)

	assert.Len(t, got.Fallbacks(), 1)

	assert.Equal(t, m.CategoryUnknown, sig.Params[1].Category, "input signature must not be modified")
}

func TestClassifier_ClassifySignature_GoVariadic(t *testing.T) {
	sig := m.FunctionSignature{
		Name: "Sum",
		Params: []m.Parameter{
			{Name: "base", Annotation: "float64"},
			{Name: "rest", Kind: m.ParamVariadic, Annotation: "...int"},
		},
	}

	got := NewClassifier().ClassifySignature(m.LanguageGo, sig)

	rest := got.Params[1]
	assert.Equal(t, m.CategoryCollection, rest.Category)
	assert.Equal(t, m.ShapeSequence, rest.Shape)
	assert.Equal(t, m.CategoryInteger, rest.Elem)
	assert.Equal(t, "int", rest.ElemAnnotation)
	assert.Empty(t, got.Fallbacks())
}

func TestDefaultBounds(t *testing.T) {
	cfg := m.DefaultGenerationConfig()

	inside := "5"
	outside := "5000"
	negative := "-500"

	tests := []struct {
		name  string
		param m.Parameter
		want  *m.IntBounds
	}{
		{"inside range", m.Parameter{Category: m.CategoryInteger, Default: &inside}, nil},
		{"above range", m.Parameter{Category: m.CategoryInteger, Default: &outside}, &m.IntBounds{Min: -100, Max: 5000}},
		{"below range", m.Parameter{Category: m.CategoryInteger, Default: &negative}, &m.IntBounds{Min: -500, Max: 100}},
		{"explicit override wins", m.Parameter{Category: m.CategoryInteger, Default: &outside, Bounds: &m.IntBounds{Min: 0, Max: 1}}, &m.IntBounds{Min: 0, Max: 1}},
		{"not an integer", m.Parameter{Category: m.CategoryFloat, Default: &outside}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultBounds(tt.param, cfg).Bounds)
		})
	}
}
