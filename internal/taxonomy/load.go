package taxonomy

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultResource []byte

type resource struct {
	Version string  `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

var loadDefault = sync.OnceValues(func() (*Taxonomy, error) {
	return Parse(defaultResource)
})

// Default returns the embedded taxonomy. It is parsed once per process.
func Default() (*Taxonomy, error) {
	return loadDefault()
}

// Parse decodes a YAML taxonomy resource. Entry order in the document is the registration order.
func Parse(data []byte) (*Taxonomy, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var res resource
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	if len(res.Entries) == 0 {
		return nil, errEmptyTaxonomy
	}

	if res.Version == "" {
		return nil, fmt.Errorf("taxonomy version is required")
	}

	return New(res.Version, res.Entries)
}

// LoadFile reads a taxonomy resource from path.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file %q: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %q: %w", path, err)
	}

	return t, nil
}
