package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Render environment placeholders into configuration files"
	MsgPlaceholdersShort = "List template placeholders and whether they resolve"
	MsgConfigShort       = "Print the effective configuration"
	MsgGuideShort        = "Show the usage guide"
	MsgVersionShort      = "Print version information"
	MsgVersionLong       = "Print detailed version information including commit hash and build date"
	MsgCompletionShort   = "Generate shell completion script"

	// Version output
	MsgVersionFormat = "envrender version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Config output
	MsgConfigSourceFormat = "# loaded from %s\n"
	MsgConfigNoSource     = "# no configuration file found, using defaults\n"

	// Error messages
	MsgErrInitPaths   = "failed to initialize paths"
	MsgErrLoadConfig  = "failed to load configuration"
	MsgErrFormat      = "invalid output format"
	MsgErrRootMissing = "working root is not a directory: %s"
	MsgErrStyles      = "failed to load output styles"
	MsgErrUnresolved  = "%d placeholder(s) do not resolve"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Print rendered content instead of writing files"
	MsgFlagAllowMissing = "Keep unresolved placeholders and warn instead of failing"
	MsgFlagRoot         = "Working root (default: $ENVRENDER_ROOT, git top level, or current directory)"
	MsgFlagEnvFile      = "Environment file, relative to the root (default from configuration: .env)"
	MsgFlagFormat       = "Output format: auto, term, text, json (default from configuration: auto)"
	MsgFlagDefaults     = "Print the built-in default configuration instead"
	MsgFlagStrict       = "Exit with an error when any placeholder does not resolve"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/placeholders-long.txt
	msgPlaceholdersLongRaw string
	MsgPlaceholdersLong    = strings.TrimSpace(msgPlaceholdersLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/guide.md
	MsgGuide string
)
