package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turbot/tailpipe-plugin-excel/config"
	"github.com/turbot/tailpipe-plugin-excel/constants"
	"github.com/turbot/tailpipe-plugin-excel/context_values"
	"github.com/turbot/tailpipe-plugin-excel/logging"
	"github.com/turbot/tailpipe-plugin-excel/plugin"
)

var exitCode int

// Build the cobra command that handles our command line tool.
func rootCommand(v *viper.Viper) *cobra.Command {
	// Define our command
	rootCmd := &cobra.Command{
		Use:          "excel-reader [flags]",
		Short:        "Read spreadsheet and csv files and write their rows as JSON lines",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRootCmd(cmd.Context(), v, cmd.OutOrStdout())
		},
	}

	flags := rootCmd.Flags()
	flags.String(constants.ArgConfig, "", "HCL file holding the reader configuration")
	flags.StringSlice(constants.ArgPath, nil, "Path or glob pattern of the files to read; overrides the configured path")
	flags.Bool(constants.ArgHeader, false, "Treat the first row of every file as a header")
	flags.Int(constants.ArgSkipRows, 0, "Number of rows to skip after the header")
	flags.StringSlice(constants.ArgExtensions, nil, "Only read files with these extensions")
	flags.IntP(constants.ArgUnits, "n", runtime.NumCPU(), "Number of work units to split the files into")
	flags.String(constants.ArgOutputDir, "", "Write one JSONL file per work unit into this directory instead of stdout")
	flags.String(constants.ArgLogLevel, "warn", "Log level: debug, info, warn, error or off")

	// every flag may also be set from the environment, e.g. EXCEL_READER_LOG_LEVEL
	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return rootCmd
}

func runRootCmd(ctx context.Context, v *viper.Viper, out io.Writer) error {
	logging.InitializeWithLevel(constants.PluginName, v.GetString(constants.ArgLogLevel), os.Stderr)

	readerConfig, err := buildConfig(v)
	if err != nil {
		return err
	}

	job, err := plugin.NewJob(readerConfig)
	if err != nil {
		return err
	}
	if err := job.AddObserver(plugin.LoggingObserver{}); err != nil {
		return err
	}

	ctx, executionId := context_values.EnsureExecutionId(ctx)
	outputDir := v.GetString(constants.ArgOutputDir)
	shared := plugin.NewSyncWriter(out)
	newSender := func(unitIndex int) (plugin.RecordSender, error) {
		if outputDir != "" {
			w, err := plugin.NewJSONLFileWriter(outputDir, executionId, unitIndex)
			if err != nil {
				return nil, err
			}
			return w, nil
		}
		return plugin.NewJSONLWriter(shared), nil
	}

	res, err := plugin.Run(ctx, job, v.GetInt(constants.ArgUnits), newSender)
	if err != nil {
		return err
	}
	if len(res.FailedFiles) > 0 {
		return fmt.Errorf("%d of %d files could not be read: %s", len(res.FailedFiles), len(res.FailedFiles)+res.FileCount, strings.Join(res.FailedFiles, ", "))
	}
	return nil
}

// buildConfig loads the config file, if any, and applies flag overrides
func buildConfig(v *viper.Viper) (*config.ReaderConfig, error) {
	readerConfig := &config.ReaderConfig{}
	if configPath := v.GetString(constants.ArgConfig); configPath != "" {
		var err error
		if readerConfig, err = config.DecodeFile(configPath); err != nil {
			return nil, err
		}
	}

	if paths := v.GetStringSlice(constants.ArgPath); len(paths) > 0 {
		readerConfig.SetPaths(paths...)
	}
	if v.IsSet(constants.ArgHeader) {
		readerConfig.Header = v.GetBool(constants.ArgHeader)
	}
	if v.IsSet(constants.ArgSkipRows) {
		readerConfig.SkipRows = v.GetInt(constants.ArgSkipRows)
	}
	if extensions := v.GetStringSlice(constants.ArgExtensions); len(extensions) > 0 {
		readerConfig.Extensions = extensions
	}

	if err := readerConfig.Resolve(); err != nil {
		return nil, err
	}
	if err := readerConfig.Validate(); err != nil {
		return nil, err
	}
	return readerConfig, nil
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := rootCommand(viper.New())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitCode = 1
	}
	return exitCode
}
