// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/braydonk/yaml"
)

// Pubspec patches a Flutter project's pubspec.yaml with the msix package's
// Store configuration. The yaml node API keeps comments and key order
// intact for everything that is not touched.
type Pubspec struct {
	path     string
	root     *yaml.Node
	original []byte
}

func LoadPubspec(path string) (*Pubspec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pubspec %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing pubspec %s: %w", path, err)
	}

	return &Pubspec{
		path:     path,
		root:     &root,
		original: data,
	}, nil
}

// AppName returns the pubspec's package name.
func (p *Pubspec) AppName() string {
	doc := p.document()
	if doc == nil {
		return ""
	}

	if name := mapValue(doc, "name"); name != nil {
		return name.Value
	}

	return ""
}

// HasMsixDependency reports whether the msix pub package is declared as a
// dev_dependency.
func (p *Pubspec) HasMsixDependency() bool {
	doc := p.document()
	if doc == nil {
		return false
	}

	devDeps := mapValue(doc, "dev_dependencies")
	if devDeps == nil || devDeps.Kind != yaml.MappingNode {
		return false
	}

	return mapValue(devDeps, "msix") != nil
}

// IsConfigured reports whether msix_config already carries the given
// package identity name.
func (p *Pubspec) IsConfigured(identity Identity) bool {
	doc := p.document()
	if doc == nil {
		return false
	}

	cfg := mapValue(doc, "msix_config")
	if cfg == nil || cfg.Kind != yaml.MappingNode {
		return false
	}

	name := mapValue(cfg, "identity_name")
	return name != nil && name.Value == identity.Name
}

// Apply writes the Store identity into the msix_config block, creating it
// when absent.
func (p *Pubspec) Apply(identity Identity) error {
	doc := p.document()
	if doc == nil || doc.Kind != yaml.MappingNode {
		return fmt.Errorf("pubspec %s: document is not a mapping", p.path)
	}

	cfg := mapValue(doc, "msix_config")
	if cfg == nil {
		cfg = appendMapKey(doc, "msix_config")
	}
	if cfg.Kind != yaml.MappingNode {
		return fmt.Errorf("pubspec %s: msix_config is not a mapping", p.path)
	}

	setMapString(cfg, "display_name", identity.AppName)
	setMapString(cfg, "publisher_display_name", identity.PublisherDisplayName)
	setMapString(cfg, "identity_name", identity.Name)
	setMapString(cfg, "publisher", identity.Publisher)
	setMapString(cfg, "msix_version", normalizeMsixVersion(identity.Version))
	setMapString(cfg, "store", "true")

	return nil
}

// Save writes the pubspec back to disk, skipping the write when nothing
// changed.
func (p *Pubspec) Save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p.root); err != nil {
		return fmt.Errorf("serializing pubspec %s: %w", p.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("serializing pubspec %s: %w", p.path, err)
	}

	out := buf.Bytes()
	if bytes.Equal(out, p.original) {
		return nil
	}

	if err := os.WriteFile(p.path, out, 0644); err != nil {
		return fmt.Errorf("writing pubspec %s: %w", p.path, err)
	}

	p.original = out
	return nil
}

func (p *Pubspec) document() *yaml.Node {
	if p.root.Kind == yaml.DocumentNode && len(p.root.Content) > 0 {
		return p.root.Content[0]
	}
	return p.root
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func appendMapKey(mapping *yaml.Node, key string) *yaml.Node {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valueNode := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	mapping.Content = append(mapping.Content, keyNode, valueNode)
	return valueNode
}

func setMapString(mapping *yaml.Node, key string, value string) {
	if value == "" {
		return
	}

	tag := "!!str"
	if value == "true" || value == "false" {
		tag = "!!bool"
	}

	if existing := mapValue(mapping, key); existing != nil {
		existing.SetString(value)
		if tag == "!!bool" {
			existing.Kind = yaml.ScalarNode
			existing.Tag = tag
			existing.Value = value
		}
		return
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	mapping.Content = append(mapping.Content, keyNode, valueNode)
}

// The msix tool requires a four part version; Store reserves the last
// part, which must be zero.
func normalizeMsixVersion(version string) string {
	if version == "" {
		return ""
	}

	dots := 0
	for i := 0; i < len(version); i++ {
		if version[i] == '.' {
			dots++
		}
	}

	switch dots {
	case 2:
		return version + ".0"
	case 1:
		return version + ".0.0"
	case 0:
		return version + ".0.0.0"
	default:
		return version
	}
}
