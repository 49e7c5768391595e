// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// AppxManifest patches a Package.appxmanifest (UWP/WinUI XML manifest).
type AppxManifest struct {
	path     string
	doc      *etree.Document
	original []byte
}

func LoadAppxManifest(path string) (*AppxManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return &AppxManifest{
		path:     path,
		doc:      doc,
		original: data,
	}, nil
}

// IsConfigured reports whether the manifest already carries the given
// package identity name.
func (m *AppxManifest) IsConfigured(identity Identity) bool {
	el := m.identityElement()
	return el != nil && el.SelectAttrValue("Name", "") == identity.Name
}

// Apply writes the Store identity into the manifest's Identity and
// Properties elements.
func (m *AppxManifest) Apply(identity Identity) error {
	pkg := m.doc.SelectElement("Package")
	if pkg == nil {
		return fmt.Errorf("manifest %s: missing Package root element", m.path)
	}

	identityEl := pkg.SelectElement("Identity")
	if identityEl == nil {
		return fmt.Errorf("manifest %s: missing Identity element", m.path)
	}

	identityEl.CreateAttr("Name", identity.Name)
	identityEl.CreateAttr("Publisher", identity.Publisher)
	if identity.Version != "" {
		identityEl.CreateAttr("Version", identity.Version)
	}

	props := pkg.SelectElement("Properties")
	if props == nil {
		return fmt.Errorf("manifest %s: missing Properties element", m.path)
	}

	if identity.AppName != "" {
		if displayName := props.SelectElement("DisplayName"); displayName != nil {
			displayName.SetText(identity.AppName)
		}
	}

	if identity.PublisherDisplayName != "" {
		if pubDisplay := props.SelectElement("PublisherDisplayName"); pubDisplay != nil {
			pubDisplay.SetText(identity.PublisherDisplayName)
		}
	}

	return nil
}

// Save writes the manifest back to disk. The write is skipped entirely
// when the serialized document matches the file's current content, so
// re-applying the same identity is a no-op on disk.
func (m *AppxManifest) Save() error {
	out, err := m.serialize()
	if err != nil {
		return err
	}

	if bytes.Equal(out, m.original) {
		return nil
	}

	if err := os.WriteFile(m.path, out, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", m.path, err)
	}

	m.original = out
	return nil
}

func (m *AppxManifest) serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing manifest %s: %w", m.path, err)
	}
	return buf.Bytes(), nil
}

func (m *AppxManifest) identityElement() *etree.Element {
	pkg := m.doc.SelectElement("Package")
	if pkg == nil {
		return nil
	}
	return pkg.SelectElement("Identity")
}
