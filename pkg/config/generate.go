package config

import (
	"bytes"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# rulebook configuration
#
# Save as $XDG_CONFIG_HOME/rulebook/config.toml or ./.rulebook.toml and
# keep only the keys you change.

`

// GenerateTOML renders cfg as a config file
func GenerateTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg.Map()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}
