package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/fuzzgen/internal/domain"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

var (
	seedFlag   int64
	formatFlag string
	outputFlag string
	checkFlag  bool
)

// runGenerate is the root command action: extract, generate and write the
// test artifact for the given paths.
func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generationConfig()
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	return workflow.Generate(cmd.Context(), domain.GenerateArgs{
		Paths:    parsePaths(args),
		Exclude:  viper.GetStringSlice(excludeConfigKey),
		Config:   cfg,
		Format:   m.Format(viper.GetString(formatConfigKey)),
		Output:   m.Path(viper.GetString(outputFlagName)),
		Parallel: viper.GetInt(parallelConfigKey),
		Check:    checkFlag,
		UseCache: !viper.GetBool(noCacheFlagName),
	})
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seedFlag, seedFlagName, viper.GetInt64(seedConfigKey), "random seed (0 picks one and logs it)")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedConfigKey)

	cmd.Flags().StringVar(&formatFlag, formatFlagName, viper.GetString(formatConfigKey), "output format: "+formatsHelp()+" (default: from the first source language)")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)

	cmd.Flags().StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputFlagName), "file to write the generated tests to (default: stdout)")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputFlagName)

	cmd.Flags().BoolVar(&checkFlag, checkFlagName, false, "compare with --output_file and fail if it is out of date, without writing")
}
