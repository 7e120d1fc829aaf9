package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/maze"
	"github.com/mazequest/engine/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":      "test-session",
		"pack_id": "classic",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api/sessions/test-session", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api/sessions", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.apiCall("GET", "/api/sessions", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.apiCall("GET", "/api/sessions/nope", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected API error message to surface, got: %v", err)
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestClient_createSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID:       "test-session-123",
			PackID:   "classic",
			PackName: "Classic",
			HasMaze:  true,
			HasLock:  true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "maze, lock") {
		t.Errorf("Expected section listing in result, got: %s", text)
	}
}

func TestClient_solveMaze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/abc/solve/maze" {
			t.Errorf("Expected POST /api/sessions/abc/solve/maze, got %s %s", r.Method, r.URL.Path)
		}
		resp := service.MazeSolution{
			Route: []maze.Position{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
			Value: 50,
			Steps: 2,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "solve_maze",
			Arguments: map[string]interface{}{"session_id": "abc"},
		},
	}

	result, err := client.handleSolveMaze(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSolveMaze failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "Value: 50") || !strings.Contains(text, "(0,0) -> (0,1) -> (0,2)") {
		t.Errorf("Unexpected solve output: %s", text)
	}
}

func TestClient_solveBattle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := service.BattleSolution{
			Actions: []battle.Action{
				{Turn: 1, Skill: "strike"},
				{Turn: 2, Skill: "pass"},
				{Turn: 3, Skill: "strike"},
			},
			Turns: 3,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "solve_battle",
			Arguments: map[string]interface{}{"session_id": "abc"},
		},
	}

	result, err := client.handleSolveBattle(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSolveBattle failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "3 turns") || !strings.Contains(text, "Turn 2: pass") {
		t.Errorf("Unexpected battle output: %s", text)
	}
}

func TestClient_solveLockErrorSurfacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "no candidate matches clues and digest"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "solve_lock",
			Arguments: map[string]interface{}{"session_id": "abc"},
		},
	}

	result, err := client.handleSolveLock(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSolveLock returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error result")
	}
}
