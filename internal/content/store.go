// Package content loads the authored registries (character roster, dialogue
// graphs, knowledge, trades, synthesis puzzles, ceremonies, floating modules)
// from the data directory and validates them once at startup. The resulting
// engine is read-only; a validation failure here is a content-authoring error,
// fatal at boot, and distinct from anything that can happen during play.
package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/knowledge"
	"github.com/gcterminus/engine/pkg/session"
	"github.com/gcterminus/engine/pkg/trust"
)

type charactersFile struct {
	Characters    []session.Character  `json:"characters" yaml:"characters"`
	Relationships []trust.Relationship `json:"relationships" yaml:"relationships"`
}

type knowledgeFile struct {
	Items        []knowledge.Item            `json:"items" yaml:"items"`
	Combinations []knowledge.Combination     `json:"combinations" yaml:"combinations"`
	Topics       []knowledge.IcebergTopic    `json:"topics" yaml:"topics"`
	Offers       []knowledge.TradeOffer      `json:"offers" yaml:"offers"`
	Puzzles      []knowledge.SynthesisPuzzle `json:"puzzles" yaml:"puzzles"`
}

type ceremoniesFile struct {
	Ceremonies []ceremony.Ceremony  `json:"ceremonies" yaml:"ceremonies"`
	Triggers   []session.TriggerDef `json:"triggers" yaml:"triggers"`
}

type modulesFile struct {
	Modules []dialogue.FloatingModule `json:"modules" yaml:"modules"`
}

// Load reads every registry from dataDir, validates, and assembles the engine.
func Load(dataDir string, cooldown time.Duration, logger *slog.Logger) (*session.Engine, error) {
	var chars charactersFile
	if err := decodeFile(filepath.Join(dataDir, "characters"), &chars); err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}

	graphs, err := loadGraphs(filepath.Join(dataDir, "dialogue"), logger)
	if err != nil {
		return nil, err
	}

	var know knowledgeFile
	if err := decodeFile(filepath.Join(dataDir, "knowledge"), &know); err != nil {
		return nil, fmt.Errorf("failed to load knowledge: %w", err)
	}

	var cers ceremoniesFile
	if err := decodeFile(filepath.Join(dataDir, "ceremonies"), &cers); err != nil {
		return nil, fmt.Errorf("failed to load ceremonies: %w", err)
	}

	var mods modulesFile
	if err := decodeFile(filepath.Join(dataDir, "modules"), &mods); err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	e := &session.Engine{
		Roster:        chars.Characters,
		Graphs:        graphs,
		Modules:       mods.Modules,
		Knowledge:     knowledge.NewRegistry(know.Items, know.Combinations, know.Topics, know.Offers, know.Puzzles),
		Ceremonies:    ceremony.NewRegistry(cers.Ceremonies),
		Triggers:      cers.Triggers,
		Relationships: trust.NewRelationshipGraph(chars.Relationships),
		Cooldown:      cooldown,
	}

	if err := Validate(e, know.Puzzles, cers.Ceremonies, cers.Triggers); err != nil {
		return nil, err
	}

	logger.Info("Content loaded",
		"characters", len(chars.Characters),
		"graphs", len(graphs),
		"modules", len(mods.Modules),
		"ceremonies", len(cers.Ceremonies))
	return e, nil
}

func loadGraphs(dir string, logger *slog.Logger) (map[string]*dialogue.Graph, error) {
	graphs := make(map[string]*dialogue.Graph)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isContentFile(path) {
			return nil
		}

		var g dialogue.Graph
		if err := decode(path, &g); err != nil {
			logger.Warn("Failed to decode dialogue graph", "path", path, "error", err)
			return err
		}
		g.Index()
		graphs[g.CharacterID] = &g
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dialogue graphs: %w", err)
	}
	if len(graphs) == 0 {
		return nil, fmt.Errorf("no dialogue graphs found in %s", dir)
	}
	return graphs, nil
}

// Validate checks the construction-time invariants: non-empty node content,
// resolvable choice targets, unique IDs, in-range synthesis combinations, and
// ceremony triggers that exist.
func Validate(e *session.Engine, puzzles []knowledge.SynthesisPuzzle, ceremonies []ceremony.Ceremony, triggers []session.TriggerDef) error {
	for characterID, g := range e.Graphs {
		seen := make(map[string]bool, len(g.Nodes))
		for _, n := range g.Nodes {
			if seen[n.NodeID] {
				return fmt.Errorf("graph %s: duplicate node %s", characterID, n.NodeID)
			}
			seen[n.NodeID] = true
			if len(n.Content) == 0 {
				return fmt.Errorf("graph %s: node %s has no content", characterID, n.NodeID)
			}

			choiceIDs := make(map[string]bool, len(n.Choices))
			for _, c := range n.Choices {
				if choiceIDs[c.ChoiceID] {
					return fmt.Errorf("graph %s: node %s has duplicate choice %s", characterID, n.NodeID, c.ChoiceID)
				}
				choiceIDs[c.ChoiceID] = true
				if c.NextNodeID == "" {
					continue // terminal choice
				}
				if _, ok := g.Node(c.NextNodeID); !ok {
					return fmt.Errorf("graph %s: choice %s/%s points at missing node %s",
						characterID, n.NodeID, c.ChoiceID, c.NextNodeID)
				}
			}
		}
		if _, ok := g.Start(); !ok {
			return fmt.Errorf("graph %s: start node %s not found", characterID, g.StartNodeID)
		}
	}

	for _, p := range puzzles {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	known := make(map[string]bool, len(triggers))
	for _, t := range triggers {
		known[t.TriggerID] = true
	}
	for _, c := range ceremonies {
		if !known[c.TriggerID] {
			return fmt.Errorf("ceremony %s references undefined trigger %s", c.ID, c.TriggerID)
		}
	}

	for _, m := range e.Modules {
		if m.Node == nil {
			return fmt.Errorf("floating module %s has no node", m.ModuleID)
		}
	}

	return nil
}

// decodeFile tries <base>.yaml then <base>.json.
func decodeFile(base string, v any) error {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return decode(path, v)
		}
	}
	return fmt.Errorf("no content file found at %s.{yaml,yml,json}", base)
}

func decode(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported content file type: %s", path)
	}
	return nil
}

func isContentFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
