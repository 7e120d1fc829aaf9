// Package mcp provides a Model Context Protocol surface over the puzzle
// solvers.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a solver session bound to a puzzle pack
//   - get_session: Get session details
//   - list_sessions: List all active sessions
//   - delete_session: Delete a session
//   - solve_maze: Maximum-resource route through the session's maze
//   - solve_greedy: Vision-limited greedy baseline walk
//   - solve_lock: Clue-pruned 3-digit code search against the digest oracle
//   - solve_battle: Turn-minimal boss fight plan
//   - list_packs: List available puzzle packs
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: a /mcp endpoint handling raw MCP messages over HTTP
//
// The client is a thin proxy: every tool call becomes a REST call
// against the API server, so the MCP surface and the HTTP surface stay
// behaviorally identical.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
