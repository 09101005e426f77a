package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcterminus/engine/internal/events"
	"github.com/gcterminus/engine/internal/storage"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/knowledge"
	"github.com/gcterminus/engine/pkg/session"
	"github.com/gcterminus/engine/pkg/state"
)

// DialogueHandler serves the evaluation surface.
// Routes:
// POST /v1/dialogue/evaluate  - Evaluate a node against session (or inline) state
// POST /v1/dialogue/choose    - Apply a choice and advance the session
// POST /v1/dialogue/hub       - Return to the hub, surfacing any floating module
// POST /v1/dialogue/ceremony  - Complete the pending ceremony
// POST /v1/dialogue/synthesis - Attempt a synthesis puzzle
type DialogueHandler struct {
	storage     storage.Storage
	engine      *session.Engine
	broadcaster *events.Broadcaster // nil disables event publishing
	logger      *slog.Logger
}

func NewDialogueHandler(engine *session.Engine, storage storage.Storage, broadcaster *events.Broadcaster, logger *slog.Logger) *DialogueHandler {
	return &DialogueHandler{
		storage:     storage,
		engine:      engine,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (h *DialogueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for dialogue endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	switch strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/dialogue"), "/") {
	case "/evaluate":
		h.handleEvaluate(w, r)
	case "/choose":
		h.handleChoose(w, r)
	case "/hub":
		h.handleHub(w, r)
	case "/ceremony":
		h.handleCeremony(w, r)
	case "/synthesis":
		h.handleSynthesis(w, r)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown dialogue operation")
	}
}

// EvaluateRequest asks for a node rendered against state. Preview mode keeps
// hidden choices in the response (with the unmet requirement as the reason)
// and accepts an inline synthetic state instead of a stored session.
type EvaluateRequest struct {
	SessionID   string           `json:"session_id,omitempty"`
	CharacterID string           `json:"character_id"`
	NodeID      string           `json:"node_id,omitempty"` // empty means the graph's start node
	Preview     bool             `json:"preview,omitempty"`
	State       *state.GameState `json:"state,omitempty"` // preview only
}

type EvaluateResponse struct {
	Node           dialogue.EvaluatedNode `json:"node"`
	Available      bool                   `json:"available"`
	Reason         string                 `json:"reason,omitempty"`
	ActiveTriggers []string               `json:"active_triggers,omitempty"`
	Ceremony       *string                `json:"ceremony,omitempty"`
}

func (h *DialogueHandler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in evaluate request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.CharacterID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "character_id is required")
		return
	}

	var gs *state.GameState
	var sess *session.Session
	switch {
	case req.Preview && req.State != nil:
		gs = req.State
	case req.SessionID != "":
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
		sess, err = h.storage.LoadSession(r.Context(), id)
		if err != nil {
			h.logger.Error("Failed to load session", "error", err, "id", id.String())
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
			return
		}
		if sess == nil {
			writeError(w, h.logger, http.StatusNotFound, "Session not found")
			return
		}
		gs = sess.Game
	default:
		writeError(w, h.logger, http.StatusBadRequest, "session_id or an inline preview state is required")
		return
	}

	nodeID := req.NodeID
	if nodeID == "" {
		g, ok := h.engine.Graphs[req.CharacterID]
		if !ok {
			writeError(w, h.logger, http.StatusNotFound, "No dialogue graph for character "+req.CharacterID)
			return
		}
		nodeID = g.StartNodeID
	}
	node, err := h.engine.Node(req.CharacterID, nodeID)
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, err.Error())
		return
	}

	evaluated := dialogue.Evaluate(node, gs)
	if !req.Preview {
		evaluated.Choices = dialogue.VisibleChoices(evaluated.Choices)
	}

	available, reason := dialogue.NodeAvailable(node, gs)
	resp := EvaluateResponse{
		Node:           evaluated,
		Available:      available,
		Reason:         reason,
		ActiveTriggers: h.engine.ActiveTriggers(gs),
	}
	if sess != nil {
		if next := h.engine.NextCeremony(sess, time.Now().UTC()); next != nil {
			resp.Ceremony = &next.ID
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode evaluate response", "error", err)
	}
}

type ChooseRequest struct {
	SessionID   string `json:"session_id"`
	CharacterID string `json:"character_id"`
	NodeID      string `json:"node_id"`
	ChoiceID    string `json:"choice_id"`
}

type ChooseResponse struct {
	Session *session.Session       `json:"session"`
	Outcome *session.ChoiceOutcome `json:"outcome"`
}

func (h *DialogueHandler) handleChoose(w http.ResponseWriter, r *http.Request) {
	var req ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in choose request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	sess, ok := h.loadSession(w, r, req.SessionID)
	if !ok {
		return
	}

	updated, outcome, err := h.engine.Choose(sess, req.CharacterID, req.NodeID, req.ChoiceID, time.Now().UTC())
	if err != nil {
		h.logger.Warn("Choice rejected", "error", err, "choice_id", req.ChoiceID)
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.storage.SaveSession(r.Context(), updated); err != nil {
		h.logger.Error("Failed to save session after choice", "error", err, "id", updated.ID().String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.broadcaster != nil {
		if err := h.broadcaster.PublishSessionUpdated(r.Context(), updated.ID(), req.CharacterID, outcome.NextNodeID); err != nil {
			h.logger.Warn("Failed to publish session update", "error", err)
		}
		if outcome.Ceremony != nil {
			if err := h.broadcaster.PublishCeremonyTriggered(r.Context(), updated.ID(), outcome.Ceremony.ID); err != nil {
				h.logger.Warn("Failed to publish ceremony event", "error", err)
			}
		}
		for _, c := range outcome.NewCombinations {
			if err := h.broadcaster.PublishCombinationUnlocked(r.Context(), updated.ID(), c.ID, c.Insight); err != nil {
				h.logger.Warn("Failed to publish combination event", "error", err)
			}
		}
		for _, tc := range outcome.TierCrossings {
			if err := h.broadcaster.PublishPatternTierCrossed(r.Context(), updated.ID(), string(tc.Pattern), string(tc.Tier)); err != nil {
				h.logger.Warn("Failed to publish tier event", "error", err)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ChooseResponse{Session: updated, Outcome: outcome}); err != nil {
		h.logger.Error("Failed to encode choose response", "error", err)
	}
}

type HubRequest struct {
	SessionID string `json:"session_id"`
}

type HubResponse struct {
	Session *session.Session         `json:"session"`
	Module  *dialogue.FloatingModule `json:"module,omitempty"`
}

// handleHub marks a return to the station hub. Floating modules with the
// hub_return hook insert here; when one fires, the session records it shown.
func (h *DialogueHandler) handleHub(w http.ResponseWriter, r *http.Request) {
	var req HubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in hub request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	sess, ok := h.loadSession(w, r, req.SessionID)
	if !ok {
		return
	}

	updated, module := h.engine.HubReturnModule(sess, time.Now().UTC())
	if module != nil {
		if err := h.storage.SaveSession(r.Context(), updated); err != nil {
			h.logger.Error("Failed to save session after hub return", "error", err, "id", updated.ID().String())
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HubResponse{Session: updated, Module: module}); err != nil {
		h.logger.Error("Failed to encode hub response", "error", err)
	}
}

type CeremonyRequest struct {
	SessionID  string `json:"session_id"`
	ResponseID string `json:"response_id,omitempty"`
}

func (h *DialogueHandler) handleCeremony(w http.ResponseWriter, r *http.Request) {
	var req CeremonyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in ceremony request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	sess, ok := h.loadSession(w, r, req.SessionID)
	if !ok {
		return
	}

	updated, err := h.engine.CompleteCeremony(sess, req.ResponseID, time.Now().UTC())
	if err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.storage.SaveSession(r.Context(), updated); err != nil {
		h.logger.Error("Failed to save session after ceremony", "error", err, "id", updated.ID().String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		h.logger.Error("Failed to encode ceremony response", "error", err)
	}
}

type SynthesisRequest struct {
	SessionID   string `json:"session_id"`
	PuzzleID    string `json:"puzzle_id"`
	Combination []int  `json:"combination"`
}

type SynthesisResponse struct {
	Result  knowledge.SynthesisResult `json:"result"`
	Session *session.Session          `json:"session"`
}

func (h *DialogueHandler) handleSynthesis(w http.ResponseWriter, r *http.Request) {
	var req SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in synthesis request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	sess, ok := h.loadSession(w, r, req.SessionID)
	if !ok {
		return
	}

	updated, result, err := h.engine.AttemptSynthesis(sess, req.PuzzleID, req.Combination)
	if err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.storage.SaveSession(r.Context(), updated); err != nil {
		h.logger.Error("Failed to save session after synthesis", "error", err, "id", updated.ID().String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SynthesisResponse{Result: result, Session: updated}); err != nil {
		h.logger.Error("Failed to encode synthesis response", "error", err)
	}
}

// loadSession parses and loads a session, writing the error response itself
// when anything fails.
func (h *DialogueHandler) loadSession(w http.ResponseWriter, r *http.Request, idStr string) (*session.Session, bool) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}
	sess, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}
