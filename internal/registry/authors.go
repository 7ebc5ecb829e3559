// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// authorsFile is the on-disk roster shape.
type authorsFile struct {
	Authors []types.TrackedAuthor `yaml:"authors"`
}

// LoadAuthors reads a YAML tracked-author roster. An empty path returns the
// built-in defaults.
func LoadAuthors(path string) ([]types.TrackedAuthor, error) {
	if path == "" {
		return DefaultAuthors(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading authors file: %w", err)
	}

	var af authorsFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parsing authors file: %w", err)
	}
	for _, a := range af.Authors {
		if a.Name == "" || a.OpenAlexID == "" {
			return nil, fmt.Errorf("authors file %s: entry %+v missing name or openalex_id", path, a)
		}
	}
	return af.Authors, nil
}

// DefaultAuthors is the built-in roster of labor-economics researchers whose
// new work is surfaced regardless of keyword match.
func DefaultAuthors() []types.TrackedAuthor {
	return []types.TrackedAuthor{
		{Name: "David Autor", OpenAlexID: "A5017898742"},
		{Name: "Daron Acemoglu", OpenAlexID: "A5058387964"},
		{Name: "Erik Brynjolfsson", OpenAlexID: "A5043360836"},
		{Name: "Pascual Restrepo", OpenAlexID: "A5036949162"},
		{Name: "Anton Korinek", OpenAlexID: "A5060178868"},
		{Name: "Daniel Rock", OpenAlexID: "A5074038321"},
	}
}
