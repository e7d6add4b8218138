package model

// TestCase is one concrete argument tuple for a function. Args is positionally
// aligned with the signature's parameters.
type TestCase struct {
	Function string
	// Index is 1-based within its function.
	Index int
	Args  []Value
}

// FunctionCases pairs a signature with its synthesized cases.
type FunctionCases struct {
	Signature FunctionSignature
	Cases     []TestCase
}

// Suite is everything rendered for one source.
type Suite struct {
	Source    Source
	Functions []FunctionCases
}

// Format names an emitter.
type Format string

const (
	// FormatPython renders a pytest module.
	FormatPython Format = "python"
	// FormatGo renders a Go test file.
	FormatGo Format = "go"
	// FormatYAML renders the case plan as YAML.
	FormatYAML Format = "yaml"
)

// Summary is reported to the user after a run.
type Summary struct {
	Seed        uint64
	Format      Format
	Output      Path
	Sources     int
	Functions   int
	Cases       int
	ZeroParam   []string
	Skipped     []SkippedFunction
	// Unrendered lists sources whose language the format cannot render.
	Unrendered  []Path
	Fallbacks   int
	ParseErrors int
}
