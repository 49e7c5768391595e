// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config persists the CLI's Partner Center settings under the
// user config directory and layers environment overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

// Environment variables honored on top of the settings file. A .env file
// in the working directory is loaded first, which is how CI pipelines
// usually feed these in.
const (
	EnvTenantId     = "MSSTORE_TENANT_ID"
	EnvSellerId     = "MSSTORE_SELLER_ID"
	EnvClientId     = "MSSTORE_CLIENT_ID"
	EnvClientSecret = "MSSTORE_CLIENT_SECRET"
)

// Settings are the persisted Partner Center account settings.
type Settings struct {
	TenantId string `json:"tenantId,omitempty"`
	SellerId string `json:"sellerId,omitempty"`
	ClientId string `json:"clientId,omitempty"`

	// ClientSecret is only ever sourced from the environment; it is
	// never written to the settings file.
	ClientSecret string `json:"-"`
}

const settingsFileName = "settings.json"

// FilePath returns the settings file location, creating the parent
// directory if needed.
func FilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	dir := filepath.Join(configDir, "msstore-cli")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config dir %s: %w", dir, err)
	}

	return filepath.Join(dir, settingsFileName), nil
}

// Load reads the settings file (missing file is not an error) and
// applies .env plus environment overrides.
func Load() (*Settings, error) {
	path, err := FilePath()
	if err != nil {
		return nil, err
	}

	settings := &Settings{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// first run
	case err != nil:
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing settings %s: %w", path, err)
		}
	}

	// Overload is intentionally not used: the real environment wins over .env.
	_ = godotenv.Load()

	if v := os.Getenv(EnvTenantId); v != "" {
		settings.TenantId = v
	}
	if v := os.Getenv(EnvSellerId); v != "" {
		settings.SellerId = v
	}
	if v := os.Getenv(EnvClientId); v != "" {
		settings.ClientId = v
	}
	settings.ClientSecret = os.Getenv(EnvClientSecret)

	return settings, nil
}

// Save writes the settings file under an advisory file lock, so two
// concurrent invocations do not interleave partial writes.
func Save(settings *Settings) error {
	path, err := FilePath()
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking settings file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}

	return nil
}
