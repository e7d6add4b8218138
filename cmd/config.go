package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "fuzzgen"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	numTestsFlagName       = "num_tests"
	stringLengthFlagName   = "string_length"
	intMinFlagName         = "int_min"
	intMaxFlagName         = "int_max"
	collectionSizeFlagName = "collection_size"
	seedFlagName           = "seed"
	formatFlagName         = "format"
	parallelFlagName       = "parallel"
	outputFlagName         = "output_file"
	checkFlagName          = "check"
	noCacheFlagName        = "no-cache"
	excludeFlagName        = "exclude"
	verboseFlagName        = "verbose"

	numTestsConfigKey       = "generate.num_tests"
	stringLengthConfigKey   = "generate.string_length"
	intMinConfigKey         = "generate.int_min"
	intMaxConfigKey         = "generate.int_max"
	collectionSizeConfigKey = "generate.collection_size"
	seedConfigKey           = "generate.seed"
	formatConfigKey         = "generate.format"
	parallelConfigKey       = "generate.parallel"
	excludeConfigKey        = "paths.exclude"
	cacheDirConfigKey       = "cache.dir"

	defaultNoCache  = false
	defaultParallel = 1
	defaultCacheDir = ".fuzzgen-cache"

	envPrefix = "FUZZGEN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".fuzzgen.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(numTestsConfigKey, m.DefaultTestsPerFunction)
	viper.SetDefault(stringLengthConfigKey, m.DefaultStringLength)
	viper.SetDefault(intMinConfigKey, m.DefaultIntMin)
	viper.SetDefault(intMaxConfigKey, m.DefaultIntMax)
	viper.SetDefault(collectionSizeConfigKey, m.DefaultCollectionSize)
	viper.SetDefault(seedConfigKey, 0)
	viper.SetDefault(formatConfigKey, "")
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(outputFlagName, "")
	viper.SetDefault(noCacheFlagName, defaultNoCache)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(cacheDirConfigKey, defaultCacheDir)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// generationConfig reads the generation settings. The result is not
// validated here; the workflow does that before touching any source.
func generationConfig() (m.GenerationConfig, error) {
	seed, err := safecast.Conv[uint64](viper.GetInt64(seedConfigKey))
	if err != nil {
		return m.GenerationConfig{}, &m.ConfigError{Field: seedFlagName, Reason: "must not be negative"}
	}

	return m.GenerationConfig{
		TestsPerFunction: viper.GetInt(numTestsConfigKey),
		StringLength:     viper.GetInt(stringLengthConfigKey),
		IntMin:           viper.GetInt64(intMinConfigKey),
		IntMax:           viper.GetInt64(intMaxConfigKey),
		CollectionSize:   viper.GetInt(collectionSizeConfigKey),
		Seed:             seed,
	}, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (-4 is debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger installs the global slog logger writing to a rotated file.
//
// It logs at the configured level, or at Debug when verbose is set.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
