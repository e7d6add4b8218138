package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	"gooze.dev/pkg/fuzzgen/internal/controller"
	"gooze.dev/pkg/fuzzgen/internal/domain/emitters"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

var (
	// ErrStaleOutput is returned by a --check run when the output file differs
	// from what would be generated.
	ErrStaleOutput = errors.New("generated tests are out of date")

	// ErrNoSources is returned when the path patterns match no source files.
	ErrNoSources = errors.New("no source files found")
)

// GenerateArgs contains the arguments for generating boundary tests.
type GenerateArgs struct {
	Paths   []m.Path
	Exclude []string
	Config  m.GenerationConfig
	// Format is chosen from the first source language when empty.
	Format   m.Format
	Output   m.Path
	Parallel int
	Check    bool
	UseCache bool
}

// ListArgs contains the arguments for listing discovered signatures.
type ListArgs struct {
	Paths    []m.Path
	Exclude  []string
	Config   m.GenerationConfig
	Parallel int
	UseCache bool
}

// Workflow runs extraction, generation and rendering end to end.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) error
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	adapter.OutputAdapter
	controller.UI
	SourceLocator
	Extractor
	Strategy
	Synthesizer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	output adapter.OutputAdapter,
	ui controller.UI,
	locator SourceLocator,
	extractor Extractor,
	strategy Strategy,
	synthesizer Synthesizer,
) Workflow {
	return &workflow{
		OutputAdapter: output,
		UI:            ui,
		SourceLocator: locator,
		Extractor:     extractor,
		Strategy:      strategy,
		Synthesizer:   synthesizer,
	}
}

// unitResult is the outcome of one worker.
type unitResult struct {
	unit  m.Unit
	suite m.Suite
	stats suiteStats
	ok    bool
}

type processOptions struct {
	config     m.GenerationConfig
	parallel   int
	useCache   bool
	synthesize bool
}

type suiteStats struct {
	functions int
	cases     int
	fallbacks int
	zeroParam []string
}

// Generate validates the configuration before reading any source. A source
// that fails to parse is reported and left out; the artifact for the rest is
// still produced and the parse errors are returned joined.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	if err := args.Config.Validate(); err != nil {
		return err
	}

	if args.Check && args.Output == "" {
		return &m.ConfigError{Field: "output_file", Reason: "required with --check"}
	}

	if args.Format != "" {
		if _, err := emitters.New(args.Format); err != nil {
			return &m.ConfigError{Field: "format", Reason: err.Error()}
		}
	}

	sources, err := w.Locate(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("locate sources: %w", err)
	}

	if len(sources) == 0 {
		return ErrNoSources
	}

	format := args.Format
	if format == "" {
		if format, err = defaultFormat(sources); err != nil {
			return err
		}
	}

	emitter, err := emitters.New(format)
	if err != nil {
		return &m.ConfigError{Field: "format", Reason: err.Error()}
	}

	sources, unrendered := partitionSources(sources, emitter)
	if len(sources) == 0 {
		return &m.ConfigError{Field: "format", Reason: fmt.Sprintf("none of the located sources can be rendered as %s", format)}
	}

	cfg := args.Config
	cfg.Seed = ResolveSeed(cfg.Seed)

	if args.Config.Seed == 0 {
		slog.Info("using random seed", "seed", cfg.Seed)
	}

	results, parseErrs, err := w.process(ctx, sources, processOptions{
		config:     cfg,
		parallel:   args.Parallel,
		useCache:   args.UseCache,
		synthesize: true,
	})
	if err != nil {
		return err
	}

	summary := m.Summary{
		Seed:        cfg.Seed,
		Format:      format,
		Output:      args.Output,
		Unrendered:  unrendered,
		ParseErrors: len(parseErrs),
	}

	suites := make([]m.Suite, 0, len(results))

	for _, r := range results {
		if !r.ok {
			continue
		}

		suites = append(suites, r.suite)
		summary.Sources++
		summary.Functions += r.stats.functions
		summary.Cases += r.stats.cases
		summary.Fallbacks += r.stats.fallbacks
		summary.ZeroParam = append(summary.ZeroParam, r.stats.zeroParam...)
		summary.Skipped = append(summary.Skipped, r.unit.Skipped...)
	}

	if len(suites) == 0 {
		if err := w.DisplaySummary(ctx, summary); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		return errors.Join(parseErrs...)
	}

	content, err := emitter.Render(suites)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	var staleErr error

	if args.Check {
		stale, err := w.check(ctx, args.Output, content)
		if err != nil {
			return err
		}

		if stale {
			staleErr = fmt.Errorf("%w: %s", ErrStaleOutput, args.Output)
		}
	} else if err := w.WriteArtifact(ctx, args.Output, content); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return errors.Join(append([]error{staleErr}, parseErrs...)...)
}

// defaultFormat is the native format of the located sources. Sources in
// more than one language need an explicit format.
func defaultFormat(sources []m.Source) (m.Format, error) {
	seen := map[m.Language]struct{}{}

	var langs []string

	for _, source := range sources {
		if _, ok := seen[source.Language]; !ok {
			seen[source.Language] = struct{}{}
			langs = append(langs, string(source.Language))
		}
	}

	if len(langs) > 1 {
		sort.Strings(langs)

		return "", &m.ConfigError{
			Field:  "format",
			Reason: fmt.Sprintf("sources mix %s; choose one of %v", strings.Join(langs, " and "), emitters.Formats()),
		}
	}

	return emitters.DefaultFormat(sources[0].Language), nil
}

// partitionSources splits sources into those emitter renders and the paths of
// the rest.
func partitionSources(sources []m.Source, emitter emitters.Emitter) ([]m.Source, []m.Path) {
	kept := make([]m.Source, 0, len(sources))

	var skipped []m.Path

	for _, source := range sources {
		if emitter.Accepts(source.Language) {
			kept = append(kept, source)
			continue
		}

		slog.Warn("source not rendered in this format",
			"path", source.Origin.FullPath,
			"language", source.Language,
			"format", emitter.Format())

		skipped = append(skipped, source.Origin.ShortPath)
	}

	return kept, skipped
}

// List extracts and classifies every source and shows the result.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := args.Config.Validate(); err != nil {
		return err
	}

	sources, err := w.Locate(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("locate sources: %w", err)
	}

	results, parseErrs, err := w.process(ctx, sources, processOptions{
		config:   args.Config,
		parallel: args.Parallel,
		useCache: args.UseCache,
	})
	if err != nil {
		return err
	}

	units := make([]m.Unit, 0, len(results))

	for _, r := range results {
		if r.ok {
			units = append(units, r.unit)
		}
	}

	if err := w.DisplaySignatures(ctx, units, args.Config); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return errors.Join(parseErrs...)
}

// process extracts every source with at most parallel workers. Results and
// parse errors keep the source order whatever order the workers finish in.
func (w *workflow) process(ctx context.Context, sources []m.Source, opts processOptions) ([]unitResult, []error, error) {
	results := make([]unitResult, len(sources))
	parseErrs := make([]error, len(sources))
	cfg := opts.config
	rr := NewRunRandom(cfg.Seed)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, opts.parallel))

	for i, source := range sources {
		group.Go(func() error {
			unit, err := w.Extract(groupCtx, source, opts.useCache)
			if err != nil {
				var parseErr *m.ParseError
				if errors.As(err, &parseErr) {
					slog.Warn("skipping unparsable source", "path", source.Origin.FullPath, "error", err)

					parseErrs[i] = err

					return nil
				}

				return fmt.Errorf("extract %s: %w", source.Origin.ShortPath, err)
			}

			for j, sig := range unit.Signatures {
				for k, p := range sig.Params {
					unit.Signatures[j].Params[k] = DefaultBounds(p, cfg)
				}
			}

			results[i] = unitResult{unit: unit, ok: true}

			if !opts.synthesize {
				return nil
			}

			suite, stats, err := w.buildSuite(unit, cfg, rr)
			if err != nil {
				return err
			}

			results[i].suite = suite
			results[i].stats = stats

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var collected []error

	for _, err := range parseErrs {
		if err != nil {
			w.DisplayParseError(ctx, err)
			collected = append(collected, err)
		}
	}

	return results, collected, nil
}

// buildSuite runs the strategy and the synthesizer for every signature of a
// unit. Each signature draws from its own generator keyed by path and name.
func (w *workflow) buildSuite(unit m.Unit, cfg m.GenerationConfig, rr RunRandom) (m.Suite, suiteStats, error) {
	suite := m.Suite{Source: unit.Source, Functions: make([]m.FunctionCases, 0, len(unit.Signatures))}
	path := string(unit.Source.Origin.ShortPath)

	var stats suiteStats

	for _, sig := range unit.Signatures {
		sets, err := w.ValueSets(sig, cfg, rr.For(path+":"+sig.Name))
		if err != nil {
			return m.Suite{}, stats, fmt.Errorf("%s: %s: %w", path, sig.Name, err)
		}

		cases, err := w.Synthesize(sig, sets, cfg)
		if err != nil {
			return m.Suite{}, stats, fmt.Errorf("%s: %w", path, err)
		}

		if len(sig.Params) == 0 {
			slog.Info("function takes no parameters; no cases generated", "path", path, "function", sig.Name)
			stats.zeroParam = append(stats.zeroParam, path+":"+sig.Name)
		}

		stats.functions++
		stats.cases += len(cases)
		stats.fallbacks += len(sig.Fallbacks())

		suite.Functions = append(suite.Functions, m.FunctionCases{Signature: sig, Cases: cases})
	}

	return suite, stats, nil
}

// check compares content with the file at output and shows a unified diff
// when they differ.
func (w *workflow) check(ctx context.Context, output m.Path, content string) (bool, error) {
	current, err := w.ReadArtifact(ctx, output)
	if err != nil {
		return false, fmt.Errorf("read output: %w", err)
	}

	if current == content {
		slog.Info("output is up to date", "path", output)
		return false, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(content),
		FromFile: string(output),
		ToFile:   string(output) + " (generated)",
		Context:  3,
	})
	if err != nil {
		return false, fmt.Errorf("diff output: %w", err)
	}

	if err := w.DisplayDiff(ctx, output, diff); err != nil {
		return false, fmt.Errorf("display: %w", err)
	}

	return true, nil
}
