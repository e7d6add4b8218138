// Package cmd provides the root command and CLI setup for fuzzgen.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	"gooze.dev/pkg/fuzzgen/internal/controller"
	"gooze.dev/pkg/fuzzgen/internal/domain"
	"gooze.dev/pkg/fuzzgen/internal/domain/emitters"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
	exitParseError  = 3
)

var fsAdapter adapter.SourceFSAdapter
var goFileAdapter adapter.SignatureExtractor
var pythonFileAdapter adapter.SignatureExtractor
var signatureCache adapter.SignatureCache
var outputAdapter adapter.OutputAdapter
var locator domain.SourceLocator
var extractor domain.Extractor
var workflow domain.Workflow
var ui controller.UI

// excludePatterns is a root-level flag that filters files for every command.
var excludePatterns []string

var (
	numTestsFlag       int
	stringLengthFlag   int
	intMinFlag         int64
	intMaxFlag         int64
	collectionSizeFlag int
	parallelFlag       int
	noCacheFlag        bool
	verboseFlag        bool
)

func init() {
	configureRootFlags(rootCmd)
	configureGenerateFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	goFileAdapter = adapter.NewGoFileAdapter()
	pythonFileAdapter = adapter.NewPythonFileAdapter()
	signatureCache = adapter.NewDiskSignatureCache(m.Path(viper.GetString(cacheDirConfigKey)))
	outputAdapter = adapter.NewLocalOutputAdapter(os.Stdout)
	locator = domain.NewSourceLocator(fsAdapter, goFileAdapter, pythonFileAdapter)
	extractor = domain.NewExtractor(fsAdapter, signatureCache, domain.NewClassifier(), goFileAdapter, pythonFileAdapter)
	workflow = domain.NewWorkflow(
		outputAdapter,
		ui,
		locator,
		extractor,
		domain.NewStrategy(),
		domain.NewSynthesizer(),
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories
  - ./util.py      a single source file

Go (.go) and Python (.py) sources are read; test files are skipped.`

const rootLongDescription = `Fuzzgen reads function signatures from Go and Python sources and writes
boundary-value fuzz tests for them: every generated test calls a function with
edge-case arguments (zero, limits, empty and oversized strings, NaN, None)
and fails only if the call raises or panics.

` + pathPatternsHelp

const listLongDescription = `List the discovered functions, the category of every parameter and the
number of cases that would be generated.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fuzzgen [paths...]",
		Short: "Boundary-value fuzz test generator",
		Long:  rootLongDescription,
		Args:  cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: runGenerate,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)
	configureGenerateFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.IntVar(&numTestsFlag, numTestsFlagName, viper.GetInt(numTestsConfigKey), "number of tests to generate per function")
	bindFlagToConfig(flags.Lookup(numTestsFlagName), numTestsConfigKey)

	flags.IntVar(&stringLengthFlag, stringLengthFlagName, viper.GetInt(stringLengthConfigKey), "length of generated strings")
	bindFlagToConfig(flags.Lookup(stringLengthFlagName), stringLengthConfigKey)

	flags.Int64Var(&intMinFlag, intMinFlagName, viper.GetInt64(intMinConfigKey), "minimum integer value")
	bindFlagToConfig(flags.Lookup(intMinFlagName), intMinConfigKey)

	flags.Int64Var(&intMaxFlag, intMaxFlagName, viper.GetInt64(intMaxConfigKey), "maximum integer value")
	bindFlagToConfig(flags.Lookup(intMaxFlagName), intMaxConfigKey)

	flags.IntVar(&collectionSizeFlag, collectionSizeFlagName, viper.GetInt(collectionSizeConfigKey), "size of the largest generated collection")
	bindFlagToConfig(flags.Lookup(collectionSizeFlagName), collectionSizeConfigKey)

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of sources processed in parallel")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable the signature cache (re-parse every source)")
	bindFlagToConfig(flags.Lookup(noCacheFlagName), noCacheFlagName)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if code := exitCode(err); code != exitOK {
		os.Exit(code)
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var configErr *m.ConfigError
	if errors.As(err, &configErr) {
		return exitConfigError
	}

	var parseErr *m.ParseError
	if errors.As(err, &parseErr) {
		return exitParseError
	}

	return exitFailure
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func formatsHelp() string {
	formats := emitters.Formats()
	names := make([]string, 0, len(formats))

	for _, f := range formats {
		names = append(names, string(f))
	}

	return strings.Join(names, "|")
}
