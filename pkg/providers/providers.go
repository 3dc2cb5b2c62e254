package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"gopkg.in/yaml.v3"
)

// Package providers loads story sources (YAML/JSON) and fetches items from them.

// Provider describes one story source.
type Provider struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	Kind           string         `json:"kind" yaml:"kind"`
	SourceURL      string         `json:"source_url" yaml:"source_url"`
	Location       string         `json:"location" yaml:"location"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

const defaultRequestDelayMs = 500

// Registry is an immutable, validated set of providers.
type Registry struct {
	providers []Provider
	idx       map[string]Provider
}

// LoadRegistry loads providers from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("providers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	file, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(file.Providers)
}

// NewRegistry sanitizes and validates providers.
func NewRegistry(list []Provider) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	reg := &Registry{
		providers: make([]Provider, 0, len(list)),
		idx:       make(map[string]Provider, len(list)),
	}
	for i := range list {
		p := sanitizeProvider(list[i])
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		reg.providers = append(reg.providers, p)
		reg.idx[p.ID] = p
	}
	return reg, nil
}

// All returns a copy of the loaded providers.
func (r *Registry) All() []Provider {
	if r == nil || len(r.providers) == 0 {
		return nil
	}
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ByID returns the provider entry for the given id.
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	p, ok := r.idx[strings.TrimSpace(id)]
	return p, ok
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file registryFile
		if err := d.fn(data, &file); err != nil {
			lastErr = fmt.Errorf("decode %s providers: %w", d.name, err)
			continue
		}
		return file, nil
	}
	if lastErr != nil {
		return registryFile{}, lastErr
	}
	return registryFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
	p.SourceURL = strings.TrimSpace(p.SourceURL)
	p.Location = strings.TrimSpace(p.Location)

	if p.Kind == "" {
		p.Kind = domain.KindArticle
	}
	if p.Config == nil {
		p.Config = map[string]any{}
	}
	if p.RequestDelayMs <= 0 {
		p.RequestDelayMs = defaultRequestDelayMs
	}

	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for provider %q", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	if p.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", p.ID)
	}
	if p.Kind != domain.KindArticle && p.Kind != domain.KindShortPost {
		return fmt.Errorf("kind must be %q or %q for provider %q", domain.KindArticle, domain.KindShortPost, p.ID)
	}
	return nil
}

// RequestDelay returns the per-request throttle duration for the provider.
func (p Provider) RequestDelay() time.Duration {
	if p.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(p.RequestDelayMs) * time.Millisecond
}
