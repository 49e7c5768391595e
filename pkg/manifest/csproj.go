// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// Csproj patches a MAUI/WinUI project file (MSBuild XML) with Store
// identity properties.
type Csproj struct {
	path     string
	doc      *etree.Document
	original []byte
}

func LoadCsproj(path string) (*Csproj, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", path, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}

	return &Csproj{
		path:     path,
		doc:      doc,
		original: data,
	}, nil
}

// UsesMaui reports whether the project file enables MAUI.
func (p *Csproj) UsesMaui() bool {
	return p.propertyValue("UseMaui") == "true"
}

// UsesWindowsAppSDK reports whether the project references the Windows App
// SDK, the WinUI 3 marker.
func (p *Csproj) UsesWindowsAppSDK() bool {
	root := p.doc.SelectElement("Project")
	if root == nil {
		return false
	}

	for _, group := range root.SelectElements("ItemGroup") {
		for _, ref := range group.SelectElements("PackageReference") {
			if ref.SelectAttrValue("Include", "") == "Microsoft.WindowsAppSDK" {
				return true
			}
		}
	}

	return false
}

// IsConfigured reports whether the project already carries the given
// application identity.
func (p *Csproj) IsConfigured(identity Identity) bool {
	return p.propertyValue("ApplicationId") == identity.Name
}

// Apply writes the Store identity into the first PropertyGroup,
// creating the identity properties when absent.
func (p *Csproj) Apply(identity Identity) error {
	root := p.doc.SelectElement("Project")
	if root == nil {
		return fmt.Errorf("project file %s: missing Project root element", p.path)
	}

	group := root.SelectElement("PropertyGroup")
	if group == nil {
		group = root.CreateElement("PropertyGroup")
	}

	setProperty(group, "ApplicationTitle", identity.AppName)
	setProperty(group, "ApplicationId", identity.Name)
	setProperty(group, "ApplicationPublisher", identity.Publisher)
	if identity.Version != "" {
		setProperty(group, "ApplicationDisplayVersion", identity.Version)
	}

	return nil
}

// Save writes the project file back to disk, skipping the write when
// nothing changed.
func (p *Csproj) Save() error {
	var buf bytes.Buffer
	if _, err := p.doc.WriteTo(&buf); err != nil {
		return fmt.Errorf("serializing project file %s: %w", p.path, err)
	}

	out := buf.Bytes()
	if bytes.Equal(out, p.original) {
		return nil
	}

	if err := os.WriteFile(p.path, out, 0644); err != nil {
		return fmt.Errorf("writing project file %s: %w", p.path, err)
	}

	p.original = out
	return nil
}

func (p *Csproj) propertyValue(name string) string {
	root := p.doc.SelectElement("Project")
	if root == nil {
		return ""
	}

	for _, group := range root.SelectElements("PropertyGroup") {
		if el := group.SelectElement(name); el != nil {
			return el.Text()
		}
	}

	return ""
}

func setProperty(group *etree.Element, name string, value string) {
	if value == "" {
		return
	}

	el := group.SelectElement(name)
	if el == nil {
		el = group.CreateElement(name)
	}
	el.SetText(value)
}
