package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcterminus/engine/internal/storage"
	"github.com/gcterminus/engine/pkg/session"
	"github.com/gcterminus/engine/pkg/state"
)

func TestSessionHandler_Create(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewSessionHandler(newTestEngine(), mockStorage, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/session", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var sess session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sess))
	assert.NotEqual(t, uuid.Nil, sess.ID())

	// Every roster character starts as a met stranger at zero trust.
	maya, ok := sess.Game.Character("maya")
	require.True(t, ok)
	assert.Equal(t, state.TrustMin, maya.Trust)
	assert.Equal(t, state.RelStranger, maya.Relationship)
}

func TestSessionHandler_ReadRoundTrip(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewSessionHandler(newTestEngine(), mockStorage, testLogger())

	sess := session.New(newTestEngine().Roster)
	require.NoError(t, mockStorage.SaveSession(t.Context(), sess))

	req := httptest.NewRequest(http.MethodGet, "/v1/session/"+sess.ID().String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var loaded session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&loaded))
	assert.Equal(t, sess.ID(), loaded.ID())
}

func TestSessionHandler_Errors(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewSessionHandler(newTestEngine(), mockStorage, testLogger())

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{
			name:           "get without ID",
			method:         http.MethodGet,
			path:           "/v1/session",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "get malformed ID",
			method:         http.MethodGet,
			path:           "/v1/session/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "get unknown ID",
			method:         http.MethodGet,
			path:           "/v1/session/" + uuid.New().String(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "patch unknown ID",
			method:         http.MethodPatch,
			path:           "/v1/session/" + uuid.New().String(),
			body:           `{"trust_deltas":{"maya":1}}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unsupported method",
			method:         http.MethodPut,
			path:           "/v1/session",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestSessionHandler_PatchAppliesDelta(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	engine := newTestEngine()
	handler := NewSessionHandler(engine, mockStorage, testLogger())

	sess := session.New(engine.Roster)
	require.NoError(t, mockStorage.SaveSession(t.Context(), sess))

	body := `{"trust_deltas":{"maya":4},"add_global_flags":["found_uab_letter"]}`
	req := httptest.NewRequest(http.MethodPatch, "/v1/session/"+sess.ID().String(), strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := mockStorage.LoadSession(t.Context(), sess.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 4, stored.Game.TrustWith("maya"))
	assert.True(t, stored.Game.GlobalFlags.Has("found_uab_letter"))
}

func TestSessionHandler_PatchEmptyDelta(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	engine := newTestEngine()
	handler := NewSessionHandler(engine, mockStorage, testLogger())

	sess := session.New(engine.Roster)
	require.NoError(t, mockStorage.SaveSession(t.Context(), sess))

	req := httptest.NewRequest(http.MethodPatch, "/v1/session/"+sess.ID().String(), strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestSessionHandler_Delete(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	engine := newTestEngine()
	handler := NewSessionHandler(engine, mockStorage, testLogger())

	sess := session.New(engine.Roster)
	require.NoError(t, mockStorage.SaveSession(t.Context(), sess))

	req := httptest.NewRequest(http.MethodDelete, "/v1/session/"+sess.ID().String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	stored, err := mockStorage.LoadSession(t.Context(), sess.ID())
	require.NoError(t, err)
	assert.Nil(t, stored)
}
