package emitters

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const (
	placeholderTag = "!placeholder"
	objectTag      = "!object"
)

// YAMLEmitter renders the case plan as a YAML document, for review or for
// feeding another generator.
type YAMLEmitter struct{}

// Format returns model.FormatYAML.
func (YAMLEmitter) Format() m.Format {
	return m.FormatYAML
}

// Accepts returns true: the plan records each source's language.
func (YAMLEmitter) Accepts(m.Language) bool {
	return true
}

// Render implements Emitter.
func (YAMLEmitter) Render(suites []m.Suite) (string, error) {
	sources := seqNode()

	for _, suite := range suites {
		sources.Content = append(sources.Content, suiteNode(suite))
	}

	doc := mapNode()
	addPair(doc, "sources", sources)

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n", generatedHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return "", err
	}

	if err := enc.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func suiteNode(suite m.Suite) *yaml.Node {
	node := mapNode()
	addPair(node, "path", strNode(sourcePath(suite.Source)))
	addPair(node, "language", strNode(string(suite.Source.Language)))
	addPair(node, "package", strNode(suite.Source.Package))

	functions := seqNode()

	for _, fc := range suite.Functions {
		functions.Content = append(functions.Content, functionNode(fc))
	}

	addPair(node, "functions", functions)

	return node
}

func functionNode(fc m.FunctionCases) *yaml.Node {
	sig := fc.Signature

	node := mapNode()
	addPair(node, "name", strNode(sig.Name))
	addPair(node, "line", intNode(strconv.Itoa(sig.Line)))

	params := seqNode()

	for _, p := range sig.Params {
		param := mapNode()
		addPair(param, "name", strNode(p.Name))
		addPair(param, "category", strNode(p.Category.String()))

		if p.Annotation != "" {
			addPair(param, "annotation", strNode(p.Annotation))
		}

		if p.Kind.IsVariadic() {
			addPair(param, "variadic", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
		}

		if p.Bounds != nil {
			bounds := flow(seqNode())
			bounds.Content = append(bounds.Content,
				intNode(strconv.FormatInt(p.Bounds.Min, 10)),
				intNode(strconv.FormatInt(p.Bounds.Max, 10)))
			addPair(param, "bounds", bounds)
		}

		params.Content = append(params.Content, param)
	}

	addPair(node, "parameters", params)

	cases := seqNode()

	for _, tc := range fc.Cases {
		args := flow(seqNode())
		for _, arg := range tc.Args {
			args.Content = append(args.Content, valueNode(arg))
		}

		c := mapNode()
		addPair(c, "index", intNode(strconv.Itoa(tc.Index)))
		addPair(c, "args", args)
		cases.Content = append(cases.Content, c)
	}

	addPair(node, "cases", cases)

	return node
}

func valueNode(v m.Value) *yaml.Node {
	switch v.Kind {
	case m.KindPlaceholder:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: placeholderTag, Style: yaml.TaggedStyle}
	case m.KindObject:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: objectTag, Style: yaml.TaggedStyle}
	case m.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case m.KindInt:
		return intNode(v.Int.String())
	case m.KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v.Float)}
	case m.KindString:
		return strNode(v.Str)
	case m.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case m.KindCollection:
		if v.Shape == m.ShapeMapping {
			node := flow(mapNode())
			for i, item := range v.Items {
				node.Content = append(node.Content, valueNode(v.Keys[i]), valueNode(item))
			}

			return node
		}

		node := flow(seqNode())
		for _, item := range v.Items {
			node.Content = append(node.Content, valueNode(item))
		}

		return node
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if _, err := strconv.Atoi(s); err == nil {
		s += ".0"
	}

	return s
}

func mapNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func seqNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func flow(n *yaml.Node) *yaml.Node {
	n.Style = yaml.FlowStyle
	return n
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}
}

func addPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, strNode(key), value)
}
