// Package api provides the HTTP REST surface over the puzzle solvers.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session bound to a puzzle pack
//   - GET /api/sessions - List sessions (order/limit query params)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Solvers:
//   - POST /api/sessions/{id}/solve/maze - Optimal resource path
//   - POST /api/sessions/{id}/solve/greedy - Vision-limited baseline walk
//   - POST /api/sessions/{id}/solve/lock - Code-lock search
//   - POST /api/sessions/{id}/solve/battle - Turn-minimal battle plan
//
// Packs:
//   - GET /api/packs - List available packs
//   - GET /api/packs/{name} - Get a pack
//   - POST /api/packs - Validate and save a pack
//
// Solver results are also pushed to WebSocket subscribers of the
// session (GET /ws?session={id}) as *_solved events.
package api
