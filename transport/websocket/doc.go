// Package websocket pushes solver results to subscribed clients.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Session Integration:
//
// Connections are session-aware. Clients subscribe to one solver session
// via query parameter (?sessionId=<id>) when establishing the connection,
// and receive only that session's events: "maze_solved", "lock_solved",
// and "battle_solved", each carrying the solution as its data payload.
// Clients do not send meaningful messages; the socket is a one-way
// result feed.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a solve completes
//	hub.BroadcastEvent(sessionID, "maze_solved", solution)
package websocket
