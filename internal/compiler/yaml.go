package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ludb/internal/ir"
)

// yamlFile is the YAML spec layout: a list of systems under "systems".
type yamlFile struct {
	Systems []*ir.SystemSpec `yaml:"systems"`
}

// ParseYAMLSystems decodes the systems in a YAML spec document. Unknown
// fields are rejected. Literal text is kept as written.
func ParseYAMLSystems(data []byte) ([]*ir.SystemSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f yamlFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse YAML systems: %w", err)
	}
	return f.Systems, nil
}
