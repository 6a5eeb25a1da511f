package rulebook

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Query and apply a library of code-quality rules"
	MsgTypesShort      = "List rule categories"
	MsgRulesShort      = "Show the rules of a category"
	MsgSearchShort     = "Search rules by keyword"
	MsgAnalyzeShort    = "Analyze source text against rule patterns"
	MsgTemplatesShort  = "List or show starter templates"
	MsgExamplesShort   = "Show the examples of a category"
	MsgServeShort      = "Serve rules over stdio or HTTP"
	MsgInitShort       = "Create a starter rules directory"
	MsgGenConfigShort  = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages into a directory"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."

	// Status messages
	MsgScaffoldNothing = "%s already has every starter file.\n"
	MsgScaffoldDone    = "Created %d entries in %s\n"
	MsgScaffoldDryRun  = "\nDRY RUN MODE - No changes were made"
	MsgConfigWritten   = "Wrote %s\n"

	// Version output
	MsgVersionFormat = "rulebook version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"
	MsgEngineFormat  = "Engine: %s\n"
	MsgRulesFormat   = "Rules:  %s (%s)\n"
	MsgTmplFormat    = "Tmpl:   %s\n"
	MsgLogFormat     = "Log:    %s\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrReadInput    = "failed to read %s: %w"
	MsgErrConfigExists = "%s already exists, use --force to overwrite"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format: auto, term, text, json or xml"
	MsgFlagRulesDir = "Directory holding the <category>_rules.json files"
	MsgFlagConfig   = "Configuration file to load instead of ./.rulebook.toml"
	MsgFlagEngine   = "Pattern engine: regexp2 or re2"
	MsgFlagType     = "Category to check, repeatable (default all)"
	MsgFlagHTTP     = "Serve HTTP instead of stdio, on --http=addr or server.addr"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagWrite    = "Write .rulebook.toml in the current directory"
	MsgFlagForce    = "Overwrite an existing file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/rules-long.txt
	msgRulesLongRaw string
	MsgRulesLong    = strings.TrimSpace(msgRulesLongRaw)

	//go:embed msgs/rules-example.txt
	msgRulesExampleRaw string
	MsgRulesExample    = strings.TrimSpace(msgRulesExampleRaw)

	//go:embed msgs/search-long.txt
	msgSearchLongRaw string
	MsgSearchLong    = strings.TrimSpace(msgSearchLongRaw)

	//go:embed msgs/search-example.txt
	msgSearchExampleRaw string
	MsgSearchExample    = strings.TrimSpace(msgSearchExampleRaw)

	//go:embed msgs/analyze-long.txt
	msgAnalyzeLongRaw string
	MsgAnalyzeLong    = strings.TrimSpace(msgAnalyzeLongRaw)

	//go:embed msgs/analyze-example.txt
	msgAnalyzeExampleRaw string
	MsgAnalyzeExample    = strings.TrimSpace(msgAnalyzeExampleRaw)

	//go:embed msgs/templates-long.txt
	msgTemplatesLongRaw string
	MsgTemplatesLong    = strings.TrimSpace(msgTemplatesLongRaw)

	//go:embed msgs/examples-long.txt
	msgExamplesLongRaw string
	MsgExamplesLong    = strings.TrimSpace(msgExamplesLongRaw)

	//go:embed msgs/serve-long.txt
	msgServeLongRaw string
	MsgServeLong    = strings.TrimSpace(msgServeLongRaw)

	//go:embed msgs/serve-example.txt
	msgServeExampleRaw string
	MsgServeExample    = strings.TrimSpace(msgServeExampleRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimSpace(msgInitExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenconfigLongRaw string
	MsgGenconfigLong    = strings.TrimSpace(msgGenconfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
