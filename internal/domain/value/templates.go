package value

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type yamlTemplateCatalog struct {
	Catalog   string                             `yaml:"catalog"`
	Version   int                                `yaml:"version"`
	Templates map[ProjectType][]MetricDefinition `yaml:"templates"`
}

var (
	catalogOnce  sync.Once
	catalogCache map[ProjectType][]MetricDefinition
	catalogErr   error
)

func loadTemplateCatalog() (map[ProjectType][]MetricDefinition, error) {
	catalogOnce.Do(func() {
		catalogCache, catalogErr = parseTemplateCatalog(templatesYAML)
	})
	return catalogCache, catalogErr
}

func parseTemplateCatalog(data []byte) (map[ProjectType][]MetricDefinition, error) {
	var spec yamlTemplateCatalog
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse metric templates: %w", err)
	}
	for _, t := range ProjectTypes {
		defs, ok := spec.Templates[t]
		if !ok || len(defs) == 0 {
			return nil, fmt.Errorf("metric templates: no entries for project type %q", t)
		}
		for i, d := range defs {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("metric templates: %s[%d]: %w", t, i, err)
			}
		}
	}
	for t := range spec.Templates {
		if !t.Valid() {
			return nil, fmt.Errorf("metric templates: unknown project type %q", t)
		}
	}
	return spec.Templates, nil
}

// BuildMetricsFor returns the starter metric definitions for a project type,
// in catalog order. Each call returns a fresh slice.
func BuildMetricsFor(t ProjectType) ([]MetricDefinition, error) {
	const op = "build metrics"
	if !t.Valid() {
		return nil, UnsupportedType(op, "unsupported project type %q", t)
	}
	catalog, err := loadTemplateCatalog()
	if err != nil {
		return nil, err
	}
	defs := catalog[t]
	out := make([]MetricDefinition, len(defs))
	copy(out, defs)
	return out, nil
}
