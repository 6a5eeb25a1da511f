package rulebook

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/rulebook/internal/version"
	"github.com/arthur-debert/rulebook/pkg/config"
	"github.com/arthur-debert/rulebook/pkg/filesystem"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/paths"
	"github.com/arthur-debert/rulebook/pkg/query"
	"github.com/arthur-debert/rulebook/pkg/scaffold"
	"github.com/arthur-debert/rulebook/pkg/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// ErrReported marks a failure whose report was already rendered
var ErrReported = stderrors.New("error already reported")

// useConfigAddr is the --http value when the flag is given without an address
const useConfigAddr = "config"

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "rulebook",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.CommandPath(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.format, "format", "", MsgFlagFormat)
	flags.StringVar(&opts.rulesDir, "rules-dir", "", MsgFlagRulesDir)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.engine, "engine", "", MsgFlagEngine)
	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedCompletion("auto", "term", "text", "json", "xml"))
	_ = rootCmd.RegisterFlagCompletionFunc("engine", fixedCompletion(matcher.EngineNames()...))

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "QUERY:"},
		&cobra.Group{ID: "serve", Title: "SERVE:"},
		&cobra.Group{ID: "setup", Title: "SETUP:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newTypesCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newTemplatesCmd(opts))
	rootCmd.AddCommand(newExamplesCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	installTopics(rootCmd)

	return rootCmd
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// categoryCompletion completes the first argument with configured categories
func categoryCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a, err := newApp(cmd, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return a.categories.List(), cobra.ShellCompDirectiveNoFileComp
	}
}

func newTypesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "types",
		Short:   MsgTypesShort,
		GroupID: "query",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(a.service.ListCategories())
		},
	}
}

func newRulesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "rules <category> [name]",
		Short:             MsgRulesShort,
		Long:              MsgRulesLong,
		Example:           MsgRulesExample,
		GroupID:           "query",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: categoryCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				rule, err := a.service.GetRuleByName(args[0], args[1])
				if err != nil {
					return a.report(err)
				}
				return a.renderer.RenderResult(rule)
			}

			ruleSet, err := a.service.GetCategory(args[0])
			if err != nil {
				return a.report(err)
			}
			return a.renderer.RenderResult(ruleSet)
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "search <keyword>",
		Short:   MsgSearchShort,
		Long:    MsgSearchLong,
		Example: MsgSearchExample,
		GroupID: "query",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(a.service.SearchByKeyword(args[0]))
		},
	}
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var ruleTypes []string

	cmd := &cobra.Command{
		Use:     "analyze [file|-]",
		Short:   MsgAnalyzeShort,
		Long:    MsgAnalyzeLong,
		Example: MsgAnalyzeExample,
		GroupID: "query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			text, err := readSource(cmd, source)
			if err != nil {
				return err
			}

			log.Info().Str("source", source).Strs("types", ruleTypes).Int("bytes", len(text)).Msg("Analyzing")

			report, err := a.service.Analyze(text, ruleTypes)
			if err != nil {
				return a.report(err)
			}
			return a.renderer.RenderResult(report)
		},
	}

	cmd.Flags().StringArrayVarP(&ruleTypes, "type", "t", nil, MsgFlagType)
	_ = cmd.RegisterFlagCompletionFunc("type", categoryCompletion(opts))
	return cmd
}

// readSource reads a file, or the command's input for "-"
func readSource(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf(MsgErrReadInput, "standard input", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf(MsgErrReadInput, source, err)
	}
	return string(data), nil
}

func newTemplatesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "templates [name]",
		Short:   MsgTemplatesShort,
		Long:    MsgTemplatesLong,
		GroupID: "query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return a.renderer.RenderResult(a.service.ListTemplates())
			}

			content, err := a.service.GetTemplate(args[0])
			if err != nil {
				return a.report(err)
			}
			return a.renderer.RenderResult(content)
		},
	}
}

func newExamplesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "examples <category>",
		Short:             MsgExamplesShort,
		Long:              MsgExamplesLong,
		GroupID:           "query",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			examples, err := a.service.GetExamples(args[0])
			if err != nil {
				return a.report(err)
			}
			if len(examples) == 0 {
				return a.renderer.RenderResult(query.NoExamples(args[0]))
			}
			return a.renderer.RenderResult(examples)
		},
	}
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   MsgServeShort,
		Long:    MsgServeLong,
		Example: MsgServeExample,
		GroupID: "serve",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if httpAddr == "" {
				return server.NewStdio(a.dispatcher).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			addr := httpAddr
			if addr == useConfigAddr {
				addr = a.cfg.Server.Addr
			}
			return server.NewHTTP(a.dispatcher).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", MsgFlagHTTP)
	cmd.Flags().Lookup("http").NoOptDefVal = useConfigAddr
	return cmd
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "init [dir]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "setup",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			dir := paths.RulesDirName
			if len(args) == 1 {
				dir = paths.ExpandHome(args[0])
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			plan, err := scaffold.NewPlan(filesystem.NewOS(), scaffold.Options{
				Root:         root,
				Categories:   a.categories,
				FileSuffix:   a.cfg.Rules.FileSuffix,
				TemplatesDir: paths.TemplatesDirName,
			})
			if err != nil {
				return err
			}

			for _, line := range plan.Describe() {
				if err := a.renderer.RenderMessage(line); err != nil {
					return err
				}
			}

			switch {
			case dryRun:
				return a.renderer.RenderMessage(MsgScaffoldDryRun)
			case plan.Empty():
				return a.renderer.RenderMessage(fmt.Sprintf(MsgScaffoldNothing, root))
			}

			if err := plan.Apply(cmd.Context()); err != nil {
				return err
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgScaffoldDone, len(plan.Create), root))
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	return cmd
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenconfigLong,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			data, err := config.GenerateTOML(a.cfg)
			if err != nil {
				return err
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			target := config.ProjectConfigFile
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf(MsgErrConfigExists, target)
			}
			if err := os.WriteFile(target, data, 0644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, MsgEngineFormat, matcher.Describe(a.engine))
			_, _ = fmt.Fprintf(out, MsgRulesFormat, a.rules.Dir(), a.paths.RulesSource())
			_, _ = fmt.Fprintf(out, MsgTmplFormat, a.templates.Dir())
			_, _ = fmt.Fprintf(out, MsgLogFormat, logging.LogFilePath())
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man <dir>",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(args[0], 0755); err != nil {
				return err
			}
			header := &doc.GenManHeader{
				Title:   "RULEBOOK",
				Section: "1",
				Source:  "rulebook " + version.Version,
			}
			return doc.GenManTree(cmd.Root(), header, args[0])
		},
	}
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
