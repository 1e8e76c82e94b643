// Package templates provides embedded starter configs for appupdater init.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.toml *.yaml
var templatesFS embed.FS

// Template represents a starter config with metadata.
type Template struct {
	Name        string
	Format      string
	Description string
	Content     []byte
}

// Available templates with their descriptions.
var templateDescriptions = map[string]string{
	"android": "Android app using the Play in-app update flow",
	"ios":     "iOS app using the App Store lookup flow",
}

// List returns all available template names sorted alphabetically.
func List() []string {
	entries, err := templatesFS.ReadDir(".")
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".toml")
		name = strings.TrimSuffix(name, ".yaml")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

// Get returns a template by name in the given format (toml or yaml).
func Get(name, format string) (*Template, error) {
	switch format {
	case "", "toml":
		format = "toml"
	case "yaml", "yml":
		format = "yaml"
	default:
		return nil, fmt.Errorf("unknown template format '%s' (must be toml or yaml)", format)
	}

	filename := name + "." + format
	content, err := templatesFS.ReadFile(filename)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("template '%s' not found (available: %s)", name, strings.Join(List(), ", "))
		}
		return nil, fmt.Errorf("failed to read template '%s': %w", name, err)
	}

	return &Template{
		Name:        name,
		Format:      format,
		Description: templateDescriptions[name],
		Content:     content,
	}, nil
}

// GetDescription returns the description for a template.
func GetDescription(name string) string {
	if desc, ok := templateDescriptions[name]; ok {
		return desc
	}
	return "Custom template"
}
