// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// PackageJson patches an Electron project's package.json, including the
// electron-builder appx target configuration. Edits are surgical (sjson),
// so unrelated keys keep their order and formatting.
type PackageJson struct {
	path     string
	data     []byte
	original []byte
}

func LoadPackageJson(path string) (*PackageJson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package.json %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing package.json %s: invalid JSON", path)
	}

	return &PackageJson{
		path:     path,
		data:     data,
		original: append([]byte(nil), data...),
	}, nil
}

// Name returns the package's name field.
func (p *PackageJson) Name() string {
	return gjson.GetBytes(p.data, "name").String()
}

// HasDependency reports whether the named package appears in dependencies
// or devDependencies. This is the declared-dependency check; resolvability
// is probed through the package manager instead.
func (p *PackageJson) HasDependency(pkg string) bool {
	return gjson.GetBytes(p.data, "dependencies."+escapeJsonPathKey(pkg)).Exists() ||
		gjson.GetBytes(p.data, "devDependencies."+escapeJsonPathKey(pkg)).Exists()
}

// IsConfigured reports whether the electron-builder appx config already
// carries the given package identity name.
func (p *PackageJson) IsConfigured(identity Identity) bool {
	return gjson.GetBytes(p.data, "build.appx.identityName").String() == identity.Name
}

// Apply writes the Store identity into the electron-builder appx target
// configuration.
func (p *PackageJson) Apply(identity Identity) error {
	sets := [][2]string{
		{"build.appx.identityName", identity.Name},
		{"build.appx.publisher", identity.Publisher},
		{"build.appx.publisherDisplayName", identity.PublisherDisplayName},
		{"build.appx.displayName", identity.AppName},
		{"build.appx.applicationId", identity.AppID},
	}

	for _, kv := range sets {
		if kv[1] == "" {
			continue
		}
		if err := p.set(kv[0], kv[1]); err != nil {
			return err
		}
	}

	if identity.Version != "" {
		if err := p.set("version", identity.Version); err != nil {
			return err
		}
	}

	// electron-builder only produces an appx when the win target asks for one.
	if !p.hasWinAppxTarget() {
		out, err := sjson.SetBytes(p.data, "build.win.target.-1", "appx")
		if err != nil {
			return fmt.Errorf("patching package.json %s: %w", p.path, err)
		}
		p.data = out
	}

	return nil
}

// Save writes the package.json back to disk, skipping the write when
// nothing changed.
func (p *PackageJson) Save() error {
	if bytes.Equal(p.data, p.original) {
		return nil
	}

	if err := os.WriteFile(p.path, p.data, 0644); err != nil {
		return fmt.Errorf("writing package.json %s: %w", p.path, err)
	}

	p.original = append([]byte(nil), p.data...)
	return nil
}

func (p *PackageJson) set(path string, value string) error {
	if gjson.GetBytes(p.data, path).String() == value {
		return nil
	}

	out, err := sjson.SetBytes(p.data, path, value)
	if err != nil {
		return fmt.Errorf("patching package.json %s: %w", p.path, err)
	}

	p.data = out
	return nil
}

func (p *PackageJson) hasWinAppxTarget() bool {
	target := gjson.GetBytes(p.data, "build.win.target")
	if !target.Exists() {
		return false
	}

	if target.Type == gjson.String {
		return target.String() == "appx"
	}

	found := false
	target.ForEach(func(_, value gjson.Result) bool {
		if value.String() == "appx" {
			found = true
			return false
		}
		return true
	})

	return found
}

// gjson treats dots as path separators; scoped packages like
// "@electron/remote" never contain dots, but react-native variants can.
func escapeJsonPathKey(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
