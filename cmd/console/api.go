package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/gcterminus/engine/internal/handlers"
	"github.com/gcterminus/engine/pkg/session"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createSession(client *http.Client, baseURL string) (*session.Session, error) {
	resp, err := client.Post(baseURL+"/v1/session", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to create session")
	}

	var sess session.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &sess, nil
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*session.Session, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/session/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get session")
	}

	var sess session.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &sess, nil
}

func evaluateNode(client *http.Client, baseURL string, sessionID uuid.UUID, characterID, nodeID string) (*handlers.EvaluateResponse, error) {
	req := handlers.EvaluateRequest{
		SessionID:   sessionID.String(),
		CharacterID: characterID,
		NodeID:      nodeID,
	}

	body, err := postAPI(client, baseURL+"/v1/dialogue/evaluate", req, http.StatusOK, "evaluate failed")
	if err != nil {
		return nil, err
	}

	var resp handlers.EvaluateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse evaluate response: %w", err)
	}
	return &resp, nil
}

func chooseChoice(client *http.Client, baseURL string, sessionID uuid.UUID, characterID, nodeID, choiceID string) (*handlers.ChooseResponse, error) {
	req := handlers.ChooseRequest{
		SessionID:   sessionID.String(),
		CharacterID: characterID,
		NodeID:      nodeID,
		ChoiceID:    choiceID,
	}

	body, err := postAPI(client, baseURL+"/v1/dialogue/choose", req, http.StatusOK, "choice failed")
	if err != nil {
		return nil, err
	}

	var resp handlers.ChooseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse choose response: %w", err)
	}
	return &resp, nil
}

func hubReturn(client *http.Client, baseURL string, sessionID uuid.UUID) (*handlers.HubResponse, error) {
	req := handlers.HubRequest{SessionID: sessionID.String()}

	body, err := postAPI(client, baseURL+"/v1/dialogue/hub", req, http.StatusOK, "hub return failed")
	if err != nil {
		return nil, err
	}

	var resp handlers.HubResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hub response: %w", err)
	}
	return &resp, nil
}

func completeCeremony(client *http.Client, baseURL string, sessionID uuid.UUID, responseID string) (*session.Session, error) {
	req := handlers.CeremonyRequest{
		SessionID:  sessionID.String(),
		ResponseID: responseID,
	}

	body, err := postAPI(client, baseURL+"/v1/dialogue/ceremony", req, http.StatusOK, "ceremony failed")
	if err != nil {
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse ceremony response: %w", err)
	}
	return &sess, nil
}

func postAPI(client *http.Client, url string, req any, wantStatus int, context string) ([]byte, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, apiError(resp.StatusCode, body, context)
	}
	return body, nil
}

func apiError(status int, body []byte, context string) error {
	var errorResp handlers.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s: %s", context, errorResp.Error)
}
