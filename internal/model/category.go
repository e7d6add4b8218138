package model

// TypeCategory is the closed set of semantic parameter categories.
// The zero value is CategoryUnknown so an unclassified parameter is never
// left without a category.
type TypeCategory int

const (
	// CategoryUnknown is the fallback when nothing is known about a parameter.
	CategoryUnknown TypeCategory = iota
	// CategoryInteger covers integer-like types.
	CategoryInteger
	// CategoryFloat covers floating-point types.
	CategoryFloat
	// CategoryString covers text types.
	CategoryString
	// CategoryBoolean covers boolean types.
	CategoryBoolean
	// CategoryCollection covers sequences, arrays and mappings.
	CategoryCollection
	// CategoryNullable covers optional values, pointers and interfaces.
	CategoryNullable
)

var categoryNames = map[TypeCategory]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryInteger:    "INTEGER",
	CategoryFloat:      "FLOAT",
	CategoryString:     "STRING",
	CategoryBoolean:    "BOOLEAN",
	CategoryCollection: "COLLECTION",
	CategoryNullable:   "NULLABLE_OBJECT",
}

// Categories lists every category in declaration order.
func Categories() []TypeCategory {
	return []TypeCategory{
		CategoryUnknown,
		CategoryInteger,
		CategoryFloat,
		CategoryString,
		CategoryBoolean,
		CategoryCollection,
		CategoryNullable,
	}
}

func (c TypeCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return categoryNames[CategoryUnknown]
}

// IsScalar reports whether values of the category are single literals.
func (c TypeCategory) IsScalar() bool {
	switch c {
	case CategoryInteger, CategoryFloat, CategoryString, CategoryBoolean:
		return true
	case CategoryUnknown, CategoryCollection, CategoryNullable:
		return false
	}

	return false
}

// CollectionShape distinguishes how a collection is written out.
type CollectionShape int

const (
	// ShapeSequence is a list, slice, tuple or set.
	ShapeSequence CollectionShape = iota
	// ShapeMapping is a dict or map.
	ShapeMapping
	// ShapeArray is a fixed-size Go array.
	ShapeArray
)

// Classification is the classifier result for one parameter.
type Classification struct {
	Category TypeCategory
	// Elem is the element category of a collection or the inner category of a nullable.
	Elem           TypeCategory
	ElemAnnotation string
	// Key is the key category of a mapping.
	Key           TypeCategory
	KeyAnnotation string
	Shape         CollectionShape
}

// TypeHint is everything the classifier may look at for one parameter.
type TypeHint struct {
	Language   Language
	Annotation string
	Default    string
	HasDefault bool
}
