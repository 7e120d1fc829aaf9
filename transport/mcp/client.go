package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"MazeQuest Solver",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`MazeQuest Solver - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session is bound to a puzzle pack containing up to three scenarios:
a maze for the resource path planner, a code lock for the constraint
solver, and a boss fight for the battle strategist.

AVAILABLE TOOLS:
- create_session: Create a new solver session bound to a pack
- get_session: Get session details
- list_sessions: List all active sessions
- delete_session: Delete a session
- solve_maze: Find the maximum-value route through the session's maze
- solve_greedy: Run the vision-limited greedy baseline for comparison
- solve_lock: Recover the session's 3-digit lock code
- solve_battle: Plan the turn-minimal boss fight
- list_packs: List available puzzle packs`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new solver session with optional pack selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pack_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the puzzle pack to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active solver sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a solver session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Solver operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_maze",
		Description: "Find the route from start to exit that maximizes collected resources, breaking ties by fewest steps",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolveMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_greedy",
		Description: "Run the vision-limited greedy collector over the maze as a baseline against the optimal route",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"vision_range": map[string]interface{}{
					"type":        "integer",
					"description": "Manhattan-distance vision radius (default 3)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolveGreedy)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_lock",
		Description: "Recover the 3-digit lock code by clue-pruned search verified against the digest oracle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"strategy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"sequential", "randomized", "heuristic"},
					"description": "Candidate enumeration strategy (default sequential)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for the randomized strategy",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolveLock)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_battle",
		Description: "Plan the boss fight that wins in the fewest turns under cooldown and resource constraints",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolveBattle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_packs",
		Description: "List available puzzle packs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPacks)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one JSON round trip against the REST API.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	packID, _ := args["pack_id"].(string)

	body := map[string]string{}
	if packID != "" {
		body["pack_id"] = packID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPack: %s (%s)\n%s",
		session.ID, session.PackName, session.PackID, formatSections(&session))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Pack: %s, Created: %s)\n",
			s.ID, s.PackID, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session: %s\nPack: %s (%s)\nCreated: %s\nLast accessed: %s\n%s",
		session.ID, session.PackName, session.PackID,
		session.CreatedAt.Format(time.RFC3339),
		session.LastAccessedAt.Format(time.RFC3339),
		formatSections(&session))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted session %s", sessionID)), nil
}

func (c *Client) handleSolveMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var solution service.MazeSolution
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve/maze", sessionID), nil, &solution)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var route strings.Builder
	for i, p := range solution.Route {
		if i > 0 {
			route.WriteString(" -> ")
		}
		fmt.Fprintf(&route, "(%d,%d)", p.X, p.Y)
	}

	result := fmt.Sprintf("Optimal route found.\nValue: %d\nSteps: %d\nRelaxation passes: %d\nRoute: %s",
		solution.Value, solution.Steps, solution.Passes, route.String())
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSolveGreedy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if vision, ok := args["vision_range"].(float64); ok {
		body["vision_range"] = int(vision)
	}

	var solution service.GreedySolution
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve/greedy", sessionID), body, &solution)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Greedy walk complete.\nCollected: %d\nVision range: %d\nRoute length: %d cells",
		solution.Collected, solution.VisionRange, len(solution.Route))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSolveLock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if strategy, ok := args["strategy"].(string); ok && strategy != "" {
		body["strategy"] = strategy
	}
	if seed, ok := args["seed"].(float64); ok {
		body["seed"] = int64(seed)
	}

	var solution service.LockSolution
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve/lock", sessionID), body, &solution)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Lock code recovered: %s\nStrategy: %s\nCandidates examined: %d\nOracle calls: %d",
		solution.Code, solution.Strategy, solution.Attempts, solution.OracleCalls)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSolveBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var solution service.BattleSolution
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve/battle", sessionID), nil, &solution)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var plan strings.Builder
	for _, a := range solution.Actions {
		fmt.Fprintf(&plan, "  Turn %d: %s\n", a.Turn, a.Skill)
	}

	result := fmt.Sprintf("Boss defeated in %d turns.\n%sNodes explored: %d, pruned: %d",
		solution.Turns, plan.String(), solution.Stats.NodesExplored, solution.Stats.NodesPruned)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListPacks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                  `json:"count"`
		Packs []config.PackSummary `json:"packs"`
	}

	err := c.apiCall("GET", "/api/packs", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Packs (%d):\n\n", response.Count)
	for _, p := range response.Packs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Sections: %s\n\n",
			p.Name, p.PackID, p.Description, packSections(&p))
	}

	return mcp.NewToolResultText(result), nil
}

func formatSections(s *service.SessionInfo) string {
	var sections []string
	if s.HasMaze {
		sections = append(sections, "maze")
	}
	if s.HasLock {
		sections = append(sections, "lock")
	}
	if s.HasBattle {
		sections = append(sections, "battle")
	}
	if len(sections) == 0 {
		return "Sections: none"
	}
	return "Sections: " + strings.Join(sections, ", ")
}

func packSections(p *config.PackSummary) string {
	var sections []string
	if p.HasMaze {
		sections = append(sections, "maze")
	}
	if p.HasLock {
		sections = append(sections, "lock")
	}
	if p.HasBattle {
		sections = append(sections, "battle")
	}
	if len(sections) == 0 {
		return "none"
	}
	return strings.Join(sections, ", ")
}
