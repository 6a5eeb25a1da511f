package store

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultFileSuffix is appended to the category name to form the file name
const DefaultFileSuffix = "_rules"

// Store reads rule sets from a directory
type Store struct {
	fs     types.FS
	dir    string
	suffix string
	codecs []Codec
	logger zerolog.Logger
}

// Option customizes a Store
type Option func(*Store)

// WithFileSuffix overrides the "_rules" suffix
func WithFileSuffix(suffix string) Option {
	return func(s *Store) {
		s.suffix = suffix
	}
}

// New creates a store rooted at dir
func New(fsys types.FS, dir string, opts ...Option) *Store {
	s := &Store{
		fs:     fsys,
		dir:    dir,
		suffix: DefaultFileSuffix,
		codecs: DefaultCodecs(),
		logger: logging.GetLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the rules directory
func (s *Store) Dir() string {
	return s.dir
}

// Locate returns the backing file for a category and its codec. The JSON
// path is returned with ok=false when no file exists.
func (s *Store) Locate(category string) (string, Codec, bool) {
	base := filepath.Join(s.dir, category+s.suffix)
	for _, codec := range s.codecs {
		path := base + codec.Ext()
		info, err := s.fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, codec, true
		}
	}
	if len(s.codecs) == 0 {
		return base, nil, false
	}
	return base + s.codecs[0].Ext(), s.codecs[0], false
}

// LoadRules reads the whole rule set for category. A missing or unreadable
// file is STORAGE_READ; a file that does not decode to a rules document is
// STORAGE_PARSE.
func (s *Store) LoadRules(category string) (*types.RuleSet, error) {
	logger := s.logger.With().Str("category", category).Logger()

	path, codec, ok := s.Locate(category)
	if !ok {
		return nil, errors.Newf(errors.ErrStorageRead, "Rules file not found: %s", path).
			WithDetail(errors.DetailCategory, category).
			WithDetail(errors.DetailPath, path)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorageRead, "Failed to read rules file: %s", path).
			WithDetail(errors.DetailCategory, category).
			WithDetail(errors.DetailPath, path)
	}

	doc, err := codec.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorageParse, "Invalid rules file: %s", path).
			WithDetail(errors.DetailCategory, category).
			WithDetail(errors.DetailPath, path)
	}

	ruleSet, err := buildRuleSet(category, path, doc, logger)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorageParse, "Invalid rules file: %s", path).
			WithDetail(errors.DetailCategory, category).
			WithDetail(errors.DetailPath, path)
	}

	logger.Debug().
		Str("path", path).
		Int("rules", len(ruleSet.Rules)).
		Msg("Loaded rule set")

	return ruleSet, nil
}

func buildRuleSet(category, path string, doc map[string]interface{}, logger zerolog.Logger) (*types.RuleSet, error) {
	ruleSet := &types.RuleSet{
		Category: category,
		Source:   path,
		Rules:    []types.Rule{},
	}

	for key, value := range doc {
		if key == "rules" {
			continue
		}
		if ruleSet.Meta == nil {
			ruleSet.Meta = make(map[string]interface{})
		}
		ruleSet.Meta[key] = value
	}

	raw, present := doc["rules"]
	if !present || raw == nil {
		return ruleSet, nil
	}

	records, ok := toSlice(raw)
	if !ok {
		return nil, fmt.Errorf(`"rules" must be an array, got %T`, raw)
	}

	for i, item := range records {
		record, ok := toRecord(item)
		if !ok {
			logger.Warn().Int("index", i).Msg("Skipping rule that is not an object")
			continue
		}
		rule, err := types.RuleFromRecord(record)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Skipping malformed rule")
			continue
		}
		ruleSet.Rules = append(ruleSet.Rules, rule)
	}

	return ruleSet, nil
}

// toSlice accepts the array shapes produced by the json, yaml and toml decoders
func toSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func toRecord(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}
