package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gcterminus/engine/internal/content"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/session"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <data-dir>\n", os.Args[0])
		os.Exit(1)
	}

	dataDir := os.Args[1]
	fmt.Printf("Validating %s...\n", dataDir)

	// Structural validation (dangling nodes, duplicate IDs, puzzle index
	// ranges, undefined ceremony triggers) happens inside the loader.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := content.Load(dataDir, time.Minute, quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	v := &ContentValidator{}
	v.validateEngine(engine)

	if len(v.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation errors in %s:\n%s\n", dataDir, strings.Join(v.errors, "\n"))
		os.Exit(1)
	}

	fmt.Println("Content is valid!")
}

type ContentValidator struct {
	errors []string
}

func (v *ContentValidator) validateEngine(e *session.Engine) {
	roster := make(map[string]bool, len(e.Roster))
	for _, c := range e.Roster {
		roster[c.ID] = true
		v.validateIDFormat("character ID", c.ID)
		if c.Name == "" {
			v.addError(fmt.Sprintf("character '%s' has no name", c.ID))
		}
	}

	for characterID, g := range e.Graphs {
		v.validateIDFormat("graph character ID", characterID)
		if !roster[characterID] {
			v.addError(fmt.Sprintf("graph character '%s' is not in the roster", characterID))
		}
		for _, n := range g.Nodes {
			v.validateNode(characterID, n)
		}
	}

	for _, m := range e.Modules {
		v.validateIDFormat("module ID", m.ModuleID)
		v.validateCondition(m.Trigger, fmt.Sprintf("floating module %s trigger", m.ModuleID))
	}

	for _, t := range e.Triggers {
		v.validateIDFormat("trigger ID", t.TriggerID)
		v.validateCondition(t.When, fmt.Sprintf("ceremony trigger %s", t.TriggerID))
	}

	for _, c := range e.Ceremonies.All() {
		v.validateIDFormat("ceremony ID", c.ID)
		for _, r := range c.Responses {
			v.validateIDFormat("ceremony response ID", r.ResponseID)
		}
	}

	for _, c := range e.Knowledge.Combinations() {
		v.validateIDFormat("combination ID", c.ID)
		for _, f := range c.RequiredFlags {
			v.validateIDFormat("combination required flag", f)
		}
	}
}

func (v *ContentValidator) validateNode(characterID string, n *dialogue.Node) {
	context := fmt.Sprintf("node %s in graph %s", n.NodeID, characterID)
	v.validateIDFormat("node ID", n.NodeID)

	for _, variation := range n.Content {
		v.validateIDFormat("variation ID", variation.VariationID)
		if variation.Text == "" {
			v.addError(fmt.Sprintf("%s: variation '%s' has empty text", context, variation.VariationID))
		}
		if variation.When != nil && variation.When.IsEmpty() {
			v.addError(fmt.Sprintf("%s: variation '%s' has empty 'when' clause - no conditions specified", context, variation.VariationID))
		}
	}

	for _, c := range n.Choices {
		v.validateIDFormat("choice ID", c.ChoiceID)
		if c.Text == "" {
			v.addError(fmt.Sprintf("%s: choice '%s' has empty text", context, c.ChoiceID))
		}
		if c.VisibleWhen != nil && c.VisibleWhen.IsEmpty() {
			v.addError(fmt.Sprintf("%s: choice '%s' has empty 'visible_when' clause - no conditions specified", context, c.ChoiceID))
		}
		if c.EnabledWhen != nil && c.EnabledWhen.IsEmpty() {
			v.addError(fmt.Sprintf("%s: choice '%s' has empty 'enabled_when' clause - no conditions specified", context, c.ChoiceID))
		}
	}
}

func (v *ContentValidator) validateCondition(c *dialogue.Condition, context string) {
	if c == nil {
		v.addError(fmt.Sprintf("%s has no condition", context))
		return
	}
	if c.IsEmpty() {
		v.addError(fmt.Sprintf("%s has empty condition - it would always fire", context))
	}
}

func (v *ContentValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
