package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/rulebook/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for rulebook
	EnvDataDir = "RULEBOOK_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for rulebook
	EnvConfigDir = "RULEBOOK_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names
const (
	// AppDirName is the per-application directory under each XDG base
	AppDirName = "rulebook"

	// RulesDirName is the conventional rules directory name
	RulesDirName = "rules"

	// TemplatesDirName is the templates directory inside the rules directory
	TemplatesDirName = "templates"

	// ProjectConfigFile is looked up in the working directory
	ProjectConfigFile = ".rulebook.toml"

	// UserConfigBase is the user config file name without extension
	UserConfigBase = "config"
)

// Source records how the rules directory was found
type Source string

// Rules directory sources, in lookup order
const (
	SourceExplicit Source = "explicit"
	SourceWorkDir  Source = "workdir"
	SourceGitRoot  Source = "git"
	SourceData     Source = "data"
)

// Paths resolves rulebook's directories
type Paths struct {
	rulesDir    string
	rulesSource Source
	dataDir     string
	configDir   string
}

// New resolves paths. An empty rulesDir is looked up as ./rules, then
// <git root>/rules, then the XDG data directory.
func New(rulesDir string) (*Paths, error) {
	p := &Paths{
		dataDir:   dirFromEnv(EnvDataDir, filepath.Join(xdg.DataHome, AppDirName)),
		configDir: dirFromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName)),
	}

	dir, source, err := findRulesDir(rulesDir, p.dataDir)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for rules directory %s", dir)
	}
	p.rulesDir = abs
	p.rulesSource = source
	return p, nil
}

// RulesDir is the directory holding <category>_rules.json files
func (p *Paths) RulesDir() string {
	return p.rulesDir
}

// RulesSource tells how RulesDir was chosen
func (p *Paths) RulesSource() Source {
	return p.rulesSource
}

// TemplatesDir returns dir when set, else <rules>/templates
func (p *Paths) TemplatesDir(dir string) string {
	if dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(p.rulesDir, TemplatesDirName)
}

// DataDir is rulebook's XDG data directory
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir is rulebook's XDG config directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// UserConfigFiles lists the candidate user config files in lookup order
func (p *Paths) UserConfigFiles() []string {
	return []string{
		filepath.Join(p.configDir, UserConfigBase+".toml"),
		filepath.Join(p.configDir, UserConfigBase+".yaml"),
		filepath.Join(p.configDir, UserConfigBase+".yml"),
	}
}

func findRulesDir(explicit, dataDir string) (string, Source, error) {
	if explicit != "" {
		return ExpandHome(explicit), SourceExplicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}
	if isDir(filepath.Join(cwd, RulesDirName)) {
		return filepath.Join(cwd, RulesDirName), SourceWorkDir, nil
	}

	if root, err := findGitRoot(); err == nil && isDir(filepath.Join(root, RulesDirName)) {
		return filepath.Join(root, RulesDirName), SourceGitRoot, nil
	}

	return filepath.Join(dataDir, RulesDirName), SourceData, nil
}

// findGitRoot returns the top level of the git work tree containing cwd
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(string(output))
	if root == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return root, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func dirFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return ExpandHome(v)
	}
	return fallback
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user is left alone
	return path
}
