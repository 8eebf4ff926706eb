package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// PackFile is the YAML layout of an exported compendium pack
type PackFile struct {
	Name  string            `yaml:"name"`
	Label string            `yaml:"label"`
	Items []*formula.Recipe `yaml:"items"`
}

// DecodePack reads one pack document
func DecodePack(r io.Reader) (*Pack, error) {
	var file PackFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode pack: %w", err)
	}

	if file.Name == "" {
		return nil, alcherr.InvalidArgument("pack name is required")
	}

	for i, item := range file.Items {
		if item == nil || item.ID == "" {
			return nil, alcherr.InvalidArgumentf("item %d in pack %s has no id", i, file.Name)
		}
		if item.Level < 0 {
			return nil, alcherr.InvalidArgumentf("item %s in pack %s has negative level", item.ID, file.Name).
				WithMeta("recipe_id", item.ID)
		}
	}

	return NewPack(file.Name, file.Label, file.Items), nil
}

// LoadPackFile reads a pack from a YAML file
func LoadPackFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack %s: %w", path, err)
	}
	defer f.Close()

	pack, err := DecodePack(f)
	if err != nil {
		return nil, alcherr.Wrapf(err, "failed to load pack %s", path)
	}
	return pack, nil
}

// LoadPackFiles loads every path into a registry. Duplicate pack names are an error.
func LoadPackFiles(paths []string) (*Registry, error) {
	registry := NewRegistry()
	for _, path := range paths {
		pack, err := LoadPackFile(path)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(pack); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
