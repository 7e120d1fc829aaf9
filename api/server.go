package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/lock"
	"github.com/mazequest/engine/game/service"
	"github.com/mazequest/engine/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.PuzzleService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(puzzleService service.PuzzleService, hub *websocket.Hub) *Server {
	s := &Server{
		service: puzzleService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Solver operations
	api.HandleFunc("/sessions/{id}/solve/maze", s.handleSolveMaze).Methods("POST")
	api.HandleFunc("/sessions/{id}/solve/greedy", s.handleGreedyPath).Methods("POST")
	api.HandleFunc("/sessions/{id}/solve/lock", s.handleSolveLock).Methods("POST")
	api.HandleFunc("/sessions/{id}/solve/battle", s.handleSolveBattle).Methods("POST")

	// Packs
	api.HandleFunc("/packs", s.handleListPacks).Methods("GET")
	api.HandleFunc("/packs", s.handleCreatePack).Methods("POST")
	api.HandleFunc("/packs/{name}", s.handleGetPack).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// solveStatus maps solver failures onto HTTP statuses: absent sections
// are 404s, infeasible puzzles are 422s, the rest are 500s.
func solveStatus(err error) int {
	if errors.Is(err, service.ErrPackSectionMissing) || errors.Is(err, service.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackID string `json:"pack_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.PackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	order := query.Get("order") // "asc", "desc" (default: "desc")
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		if order == "asc" {
			return sessions[i].LastAccessedAt.Before(sessions[j].LastAccessedAt)
		}
		return sessions[i].LastAccessedAt.After(sessions[j].LastAccessedAt)
	})

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(sessions) {
			sessions = sessions[:limit]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Solver Handlers

func (s *Server) handleSolveMaze(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	solution, err := s.service.SolveMaze(r.Context(), sessionID)
	if err != nil {
		respondError(w, solveStatus(err), err.Error())
		return
	}

	s.hub.BroadcastEvent(sessionID, "maze_solved", solution)
	respondJSON(w, http.StatusOK, solution)
}

func (s *Server) handleGreedyPath(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		VisionRange int `json:"vision_range,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	solution, err := s.service.GreedyPath(r.Context(), sessionID, req.VisionRange)
	if err != nil {
		respondError(w, solveStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, solution)
}

func (s *Server) handleSolveLock(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Strategy string `json:"strategy,omitempty"`
		Seed     int64  `json:"seed,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	solution, err := s.service.SolveLock(r.Context(), sessionID, lock.Strategy(req.Strategy), req.Seed)
	if err != nil {
		respondError(w, solveStatus(err), err.Error())
		return
	}

	s.hub.BroadcastEvent(sessionID, "lock_solved", solution)
	respondJSON(w, http.StatusOK, solution)
}

func (s *Server) handleSolveBattle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	solution, err := s.service.SolveBattle(r.Context(), sessionID)
	if err != nil {
		respondError(w, solveStatus(err), err.Error())
		return
	}

	s.hub.BroadcastEvent(sessionID, "battle_solved", solution)
	respondJSON(w, http.StatusOK, solution)
}

// Pack Handlers

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.service.ListPacks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"packs": packs,
		"count": len(packs),
	})
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	pack, err := s.service.LoadPack(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, pack)
}

func (s *Server) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string            `json:"name"`
		Pack config.PuzzlePack `json:"pack"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.service.SavePack(r.Context(), req.Name, &req.Pack); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "created", "name": req.Name})
}

// Health

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WebSocket

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	_, err := s.service.GetSession(context.Background(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}
