package scaffold

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/templates"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
)

const (
	dirMode  fs.FileMode = 0755
	fileMode fs.FileMode = 0644
)

// ExampleCategory receives a sample rule so new users see the format
const ExampleCategory = "codequality"

// ExampleRule is the starter rule written to ExampleCategory
var ExampleRule = types.Rule{
	Name:     "todo-comment",
	Pattern:  `\bTODO\b`,
	Message:  "Resolve TODO comments before merging",
	Severity: "low",
}

// Options describes what to scaffold
type Options struct {
	Root         string
	Categories   categories.Set
	FileSuffix   string
	TemplatesDir string
}

// Entry is one directory or file to create
type Entry struct {
	Path    string
	Dir     bool
	Content []byte
}

// Plan lists the entries that still need creating and the ones left alone
// because they already exist
type Plan struct {
	Root    string
	Create  []Entry
	Skipped []string
}

// NewPlan computes the scaffold for opts against fsys. Root must be absolute.
func NewPlan(fsys types.FS, opts Options) (*Plan, error) {
	if !filepath.IsAbs(opts.Root) {
		return nil, errors.Newf(errors.ErrInvalidInput, "scaffold root must be absolute: %s", opts.Root)
	}
	if opts.TemplatesDir == "" {
		opts.TemplatesDir = "templates"
	}

	root := filepath.Clean(opts.Root)
	templatesDir := filepath.Join(root, opts.TemplatesDir)
	wanted := []Entry{
		{Path: root, Dir: true},
		{Path: templatesDir, Dir: true},
		{Path: filepath.Join(templatesDir, templates.SecurityPythonDir), Dir: true},
	}

	for _, category := range opts.Categories.List() {
		var rules []types.Rule
		if category == ExampleCategory {
			rules = []types.Rule{ExampleRule}
		}
		content, err := starterFile(rules)
		if err != nil {
			return nil, err
		}
		wanted = append(wanted, Entry{
			Path:    filepath.Join(root, category+opts.FileSuffix+".json"),
			Content: content,
		})
	}

	plan := &Plan{Root: root}
	for _, entry := range wanted {
		if !within(root, entry.Path) {
			return nil, errors.Newf(errors.ErrInvalidInput, "refusing to write outside %s: %s", root, entry.Path)
		}
		if _, err := fsys.Stat(entry.Path); err == nil {
			plan.Skipped = append(plan.Skipped, entry.Path)
			continue
		}
		plan.Create = append(plan.Create, entry)
	}
	return plan, nil
}

// Empty reports whether there is nothing left to create
func (p *Plan) Empty() bool {
	return len(p.Create) == 0
}

// Apply creates the planned entries through a synthfs pipeline
func (p *Plan) Apply(ctx context.Context) error {
	logger := logging.GetLogger("scaffold")
	if p.Empty() {
		logger.Info().Str("root", p.Root).Msg("Nothing to scaffold")
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, entry := range p.Create {
		op, err := toOperation(entry)
		if err != nil {
			return err
		}
		if err := pipeline.Add(op); err != nil {
			return errors.Wrapf(err, errors.ErrFileCreate, "failed to plan %s", entry.Path)
		}
	}

	logger.Info().Int("operationCount", len(p.Create)).Str("root", p.Root).Msg("Scaffolding rules directory")
	result := synthfs.NewExecutor().Run(ctx, pipeline, filesystem.NewOSFileSystem("/"))
	if err := result.GetError(); err != nil {
		logger.Error().Err(err).Msg("Scaffold pipeline failed")
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to scaffold %s", p.Root)
	}
	return nil
}

func toOperation(entry Entry) (synthfs.Operation, error) {
	relPath, err := filepath.Rel("/", entry.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", entry.Path)
	}

	if entry.Dir {
		op := operations.NewCreateDirectoryOperation(core.OperationID("mkdir-"+entry.Path), relPath)
		op.SetItem(&directoryItem{path: relPath, mode: dirMode})
		return synthfs.NewOperationsPackageAdapter(op), nil
	}

	op := operations.NewCreateFileOperation(core.OperationID("write-"+entry.Path), relPath)
	op.SetItem(&fileItem{path: relPath, content: entry.Content, mode: fileMode})
	return synthfs.NewOperationsPackageAdapter(op), nil
}

func starterFile(rules []types.Rule) ([]byte, error) {
	if rules == nil {
		rules = []types.Rule{}
	}
	data, err := json.MarshalIndent(map[string]interface{}{"rules": rules}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render starter rules")
	}
	return append(data, '\n'), nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Describe renders the plan as one line per entry
func (p *Plan) Describe() []string {
	lines := make([]string, 0, len(p.Create)+len(p.Skipped))
	for _, entry := range p.Create {
		kind := "file"
		if entry.Dir {
			kind = "dir"
		}
		lines = append(lines, fmt.Sprintf("create %-4s %s", kind, entry.Path))
	}
	for _, path := range p.Skipped {
		lines = append(lines, fmt.Sprintf("skip        %s", path))
	}
	return lines
}

type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
