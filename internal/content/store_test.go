package content

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestLoad_ShippedContent loads the real data directory, so a content edit
// that breaks an invariant fails here before it fails at boot.
func TestLoad_ShippedContent(t *testing.T) {
	e, err := Load("../../data", 10*time.Minute, testLogger())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(e.Roster) != 4 {
		t.Errorf("expected 4 roster characters, got %d", len(e.Roster))
	}
	for _, id := range []string{"samuel", "maya", "devon", "jess"} {
		g, ok := e.Graphs[id]
		if !ok {
			t.Errorf("missing dialogue graph for %s", id)
			continue
		}
		if _, ok := g.Start(); !ok {
			t.Errorf("graph %s: start node %s unresolved", id, g.StartNodeID)
		}
	}

	if len(e.Knowledge.Combinations()) == 0 {
		t.Error("expected knowledge combinations")
	}
	if _, ok := e.Knowledge.Puzzle("station_purpose"); !ok {
		t.Error("expected station_purpose synthesis puzzle")
	}
	if _, ok := e.Ceremonies.ByID("maya_opens_up"); !ok {
		t.Error("expected maya_opens_up ceremony")
	}
	if e.Relationships.Lookup("maya", "devon") == "stranger" {
		t.Error("expected maya-devon relationship edge")
	}

	// Every insertion hook has at least one authored module.
	hooks := map[dialogue.Hook]bool{}
	for _, m := range e.Modules {
		hooks[m.InsertAfter] = true
	}
	for _, h := range []dialogue.Hook{dialogue.HookPatternThreshold, dialogue.HookHubReturn, dialogue.HookArcTransition} {
		if !hooks[h] {
			t.Errorf("no module inserts at %s", h)
		}
	}
}

func TestValidate_DanglingChoiceTarget(t *testing.T) {
	g := &dialogue.Graph{
		CharacterID: "maya",
		StartNodeID: "a",
		Nodes: []*dialogue.Node{
			{
				NodeID:  "a",
				Speaker: "maya",
				Content: []dialogue.ContentVariation{{VariationID: "default", Text: "hi"}},
				Choices: []dialogue.Choice{
					{ChoiceID: "go", Text: "go", NextNodeID: "nowhere"},
				},
			},
		},
	}
	g.Index()

	e := &session.Engine{Graphs: map[string]*dialogue.Graph{"maya": g}}
	if err := Validate(e, nil, nil, nil); err == nil {
		t.Error("expected error for dangling next_node_id")
	}
}

func TestValidate_UndefinedCeremonyTrigger(t *testing.T) {
	e := &session.Engine{Graphs: map[string]*dialogue.Graph{}}
	ceremonies := []ceremony.Ceremony{{ID: "c", TriggerID: "ghost"}}
	if err := Validate(e, nil, ceremonies, nil); err == nil {
		t.Error("expected error for undefined trigger")
	}
}
