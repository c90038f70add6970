package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ltefleet/go-credprov/credblob"
)

// Manifest describes the credentials to stage into a region image.
type Manifest struct {
	Credentials []ManifestCredential `yaml:"credentials"`
}

// ManifestCredential is one credential entry. The payload comes from
// either the inline value or a file, never both.
type ManifestCredential struct {
	Tag   uint32 `yaml:"tag"`
	Type  string `yaml:"type"`
	Value string `yaml:"value,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// LoadManifest reads and parses a YAML credential manifest.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Credentials) == 0 {
		return nil, fmt.Errorf("manifest %s lists no credentials", path)
	}
	return &m, nil
}

// ModemConfig adjusts the simulated modem for a run.
type ModemConfig struct {
	Identity  string `yaml:"identity"`
	FailIndex int    `yaml:"fail-index"`
	FailCode  int32  `yaml:"fail-code"`
}

// LoadModemConfig reads a YAML simulated-modem config. An absent
// fail-index defaults to -1 (never fail).
func LoadModemConfig(path string) (*ModemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read modem config: %w", err)
	}

	cfg := ModemConfig{FailIndex: -1}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse modem config: %w", err)
	}
	return &cfg, nil
}

// Payload resolves the credential content.
func (c *ManifestCredential) Payload() ([]byte, error) {
	switch {
	case c.Value != "" && c.File != "":
		return nil, fmt.Errorf("credential tag %d: value and file are mutually exclusive", c.Tag)
	case c.Value != "":
		return []byte(c.Value), nil
	case c.File != "":
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("credential tag %d: %w", c.Tag, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("credential tag %d: needs value or file", c.Tag)
	}
}

// Kind maps the manifest type name to the wire kind.
func (c *ManifestCredential) Kind() (credblob.Kind, error) {
	switch c.Type {
	case "root-ca":
		return credblob.KindRootCA, nil
	case "client-cert":
		return credblob.KindClientCert, nil
	case "client-key":
		return credblob.KindClientKey, nil
	case "psk":
		return credblob.KindPSK, nil
	case "psk-id":
		return credblob.KindPSKIdentity, nil
	default:
		return 0, fmt.Errorf("credential tag %d: unknown type %q", c.Tag, c.Type)
	}
}
