package rulebook

import (
	"fmt"
	"os"

	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/config"
	"github.com/arthur-debert/rulebook/pkg/dispatcher"
	"github.com/arthur-debert/rulebook/pkg/filesystem"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/paths"
	"github.com/arthur-debert/rulebook/pkg/query"
	"github.com/arthur-debert/rulebook/pkg/store"
	"github.com/arthur-debert/rulebook/pkg/templates"
	"github.com/arthur-debert/rulebook/pkg/ui"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	format     string
	rulesDir   string
	configFile string
	engine     string
}

// overrides maps set flags onto configuration keys
func (o *globalOptions) overrides() map[string]interface{} {
	out := map[string]interface{}{}
	if o.format != "" {
		out["output.format"] = o.format
	}
	if o.rulesDir != "" {
		out["rules.dir"] = o.rulesDir
	}
	if o.engine != "" {
		out["matcher.engine"] = o.engine
	}
	return out
}

// app is everything a command needs, built from configuration
type app struct {
	cfg        *config.Config
	paths      *paths.Paths
	categories categories.Set
	engine     matcher.Engine
	rules      *store.Store
	templates  *templates.Store
	service    *query.Service
	dispatcher *dispatcher.Dispatcher
	renderer   ui.Renderer
}

// newApp loads configuration and wires the query stack. Rendering goes to
// cmd's output writer.
func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	logger := logging.GetLogger("cli")

	bootstrap, err := paths.New(opts.rulesDir)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = ""
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigFiles: bootstrap.UserConfigFiles(),
		ProjectDir:      workDir,
		ConfigFile:      opts.configFile,
		Overrides:       opts.overrides(),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	p := bootstrap
	if cfg.Rules.Dir != opts.rulesDir {
		if p, err = paths.New(cfg.Rules.Dir); err != nil {
			return nil, fmt.Errorf(MsgErrInitPaths, err)
		}
	}

	cats, err := cfg.CategorySet()
	if err != nil {
		return nil, err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	rules := store.New(fsys, p.RulesDir(), store.WithFileSuffix(cfg.Rules.FileSuffix))
	tmpl := templates.New(fsys, cfg.TemplateConfig(p.TemplatesDir(cfg.Templates.Dir)))
	service := query.New(cats, rules, matcher.New(engine), tmpl)

	logger.Debug().
		Str("rulesDir", p.RulesDir()).
		Str("source", string(p.RulesSource())).
		Str("engine", matcher.Describe(engine)).
		Str("format", format.String()).
		Msg("Application configured")

	return &app{
		cfg:        cfg,
		paths:      p,
		categories: cats,
		engine:     engine,
		rules:      rules,
		templates:  tmpl,
		service:    service,
		dispatcher: dispatcher.New(service),
		renderer:   renderer,
	}, nil
}

// report renders a domain failure as its error report and marks the
// command as failed without printing the error again
func (a *app) report(err error) error {
	if renderErr := a.renderer.RenderError(err); renderErr != nil {
		return renderErr
	}
	return ErrReported
}
