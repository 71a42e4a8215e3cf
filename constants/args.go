package constants

const (
	// PluginName is used to tag log output
	PluginName = "excel"

	// EnvPrefix prefixes environment variables which override command line flags
	EnvPrefix = "EXCEL_READER"
)

// command line arguments
const (
	ArgConfig     = "config"
	ArgPath       = "path"
	ArgHeader     = "header"
	ArgSkipRows   = "skip-rows"
	ArgUnits      = "units"
	ArgOutputDir  = "output-dir"
	ArgLogLevel   = "log-level"
	ArgExtensions = "extensions"
)
