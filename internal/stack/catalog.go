package stack

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a named template in a catalog.
type Entry struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// Catalog lists the templates available for launch.
type Catalog struct {
	Stacks []Entry `yaml:"stacks"`
}

// ParseCatalog parses a catalog document:
//
//	stacks:
//	  - name: Kafka Pipeline Demo
//	    url: https://example.com/kafka.yaml
func ParseCatalog(body []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Stacks))
	for i, e := range c.Stacks {
		if e.Name == "" || e.URL == "" {
			return nil, fmt.Errorf("catalog entry %d: name and url are required", i)
		}
		key := strings.ToLower(e.Name)
		if seen[key] {
			return nil, fmt.Errorf("catalog entry %d: duplicate name %q", i, e.Name)
		}
		seen[key] = true
	}
	return &c, nil
}

// Lookup returns the entry named name, ignoring case.
func (c *Catalog) Lookup(name string) (Entry, error) {
	for _, e := range c.Stacks {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("template %q not found in catalog (available: %s)", name, strings.Join(c.Names(), ", "))
}

// Names returns the template names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Stacks))
	for _, e := range c.Stacks {
		names = append(names, e.Name)
	}
	return names
}
