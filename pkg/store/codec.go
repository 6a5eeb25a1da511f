package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec decodes one rule file format into a generic document
type Codec interface {
	// Ext is the file extension handled by the codec, with the leading dot
	Ext() string
	// Decode parses a whole file into its top-level object
	Decode(data []byte) (map[string]interface{}, error)
}

// DefaultCodecs returns the codecs in probe order
func DefaultCodecs() []Codec {
	return []Codec{jsonCodec{}, yamlCodec{ext: ".yaml"}, yamlCodec{ext: ".yml"}, tomlCodec{}}
}

type jsonCodec struct{}

func (jsonCodec) Ext() string { return ".json" }

func (jsonCodec) Decode(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	// A file holds exactly one document.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, fmt.Errorf("extra data after document at offset %d", dec.InputOffset())
	}
	return doc, nil
}

type yamlCodec struct {
	ext string
}

func (c yamlCodec) Ext() string { return c.ext }

func (yamlCodec) Decode(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type tomlCodec struct{}

func (tomlCodec) Ext() string { return ".toml" }

func (tomlCodec) Decode(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
