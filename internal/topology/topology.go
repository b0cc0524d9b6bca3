package topology

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topology.yaml
var defaultDoc []byte

// PluginKind names a data plugin independent of the platform's own engine names.
type PluginKind string

const (
	RelationalStore PluginKind = "relational-store"
	CacheStore      PluginKind = "cache-store"
)

func (k PluginKind) Valid() bool {
	return k == RelationalStore || k == CacheStore
}

// ServiceSpec is one deployable unit. StartCommand is reported, never executed.
type ServiceSpec struct {
	Name         string `yaml:"name"`
	StartCommand string `yaml:"start"`
}

// PluginAttachment binds a plugin kind to the service it is attached to.
type PluginAttachment struct {
	Kind    PluginKind `yaml:"kind"`
	Service string     `yaml:"service"`
}

type EnvVar struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Plugin      PluginKind `yaml:"plugin,omitempty"`
}

type Env struct {
	Required []EnvVar `yaml:"required"`
	Injected []EnvVar `yaml:"injected"`
}

type Topology struct {
	Kind     string `yaml:"kind"`
	Metadata struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Services []ServiceSpec      `yaml:"services"`
	Plugins  []PluginAttachment `yaml:"plugins"`
	Env      Env                `yaml:"env"`
}

// Default returns the topology compiled into the binary.
// The document is validated by tests, so a parse failure here is a build defect.
func Default() Topology {
	t, err := Load(defaultDoc)
	if err != nil {
		panic(fmt.Sprintf("embedded topology: %v", err))
	}
	return t
}

// Load parses and validates a topology document.
func Load(b []byte) (Topology, error) {
	var t Topology
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Topology{}, fmt.Errorf("yaml parse: %w", err)
	}
	if err := Validate(t); err != nil {
		return Topology{}, err
	}
	return t, nil
}

func Validate(t Topology) error {
	if t.Kind != "Topology" {
		return fmt.Errorf("kind must be Topology, got %q", t.Kind)
	}
	if len(t.Services) == 0 {
		return fmt.Errorf("missing required field: services")
	}

	seen := make(map[string]bool, len(t.Services))
	for i, s := range t.Services {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("services[%d].name must be a non-empty string", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("services[%d].name %q is not unique", i, s.Name)
		}
		seen[s.Name] = true
		if strings.TrimSpace(s.StartCommand) == "" {
			return fmt.Errorf("services[%d].start must be a non-empty string", i)
		}
	}

	attached := make(map[PluginKind]bool, len(t.Plugins))
	for i, p := range t.Plugins {
		if !p.Kind.Valid() {
			return fmt.Errorf("plugins[%d].kind must be %s or %s, got %q", i, RelationalStore, CacheStore, p.Kind)
		}
		if !seen[p.Service] {
			return fmt.Errorf("plugins[%d].service %q is not a declared service", i, p.Service)
		}
		if attached[p.Kind] {
			return fmt.Errorf("plugins[%d].kind %q is attached twice", i, p.Kind)
		}
		attached[p.Kind] = true
	}

	names := make(map[string]bool)
	for i, v := range t.Env.Required {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("env.required[%d].name must be a non-empty string", i)
		}
		if names[v.Name] {
			return fmt.Errorf("env.required[%d].name %q is not unique", i, v.Name)
		}
		names[v.Name] = true
	}
	for i, v := range t.Env.Injected {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("env.injected[%d].name must be a non-empty string", i)
		}
		if names[v.Name] {
			return fmt.Errorf("env.injected[%d].name %q is not unique", i, v.Name)
		}
		names[v.Name] = true
		if !attached[v.Plugin] {
			return fmt.Errorf("env.injected[%d].plugin %q is not attached", i, v.Plugin)
		}
	}
	return nil
}

// Service looks up a service by name.
func (t Topology) Service(name string) (ServiceSpec, bool) {
	for _, s := range t.Services {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceSpec{}, false
}
