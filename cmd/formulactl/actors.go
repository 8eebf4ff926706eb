package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
)

// ActorFile is the YAML layout of an actor export
type ActorFile struct {
	Actors []ActorEntry `yaml:"actors"`
}

// ActorEntry is one exported actor
type ActorEntry struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Class         string   `yaml:"class"`
	Feats         []string `yaml:"feats"`
	Level         int      `yaml:"level"`
	PreviousLevel int      `yaml:"previous_level"`
	ClassDC       int      `yaml:"class_dc"`
	Formulas      []string `yaml:"formulas"`
	Owners        []string `yaml:"owners"`
	InParty       bool     `yaml:"in_party"`
}

// DecodeActors reads an actor export
func DecodeActors(r io.Reader) ([]*character.Character, error) {
	var file ActorFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode actors: %w", err)
	}

	result := make([]*character.Character, 0, len(file.Actors))
	for i, entry := range file.Actors {
		if entry.ID == "" {
			return nil, alcherr.InvalidArgumentf("actor %d has no id", i)
		}
		result = append(result, &character.Character{
			ID:            entry.ID,
			Name:          entry.Name,
			ClassSlug:     entry.Class,
			Feats:         entry.Feats,
			Level:         entry.Level,
			PreviousLevel: entry.PreviousLevel,
			ClassDC:       entry.ClassDC,
			Formulas:      entry.Formulas,
			Owners:        entry.Owners,
			InParty:       entry.InParty,
		})
	}
	return result, nil
}

// seedActors creates every actor in path. Existing actors are left alone.
func seedActors(ctx context.Context, repo actors.Repository, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open actors %s: %w", path, err)
	}
	defer f.Close()

	loaded, err := DecodeActors(f)
	if err != nil {
		return err
	}

	for _, actor := range loaded {
		err := repo.Create(ctx, actor)
		if alcherr.Is(err, alcherr.CodeAlreadyExists) {
			log.Info("Actor exists, skipping", zap.String("actor_id", actor.ID))
			continue
		}
		if err != nil {
			return err
		}
		log.Debug("Actor seeded", zap.String("actor_id", actor.ID))
	}
	return nil
}
