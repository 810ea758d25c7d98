// Package hub provides the in-process connection and presence registry for
// live agent sessions.
//
// The package implements:
//   - Hub: Tracks active WebSocket clients, the agent-keyed session map,
//     and per-agent conversation viewing sets
//   - Client: One live connection with a buffered outbound queue
//   - Handler: Upgrades HTTP requests and pumps messages between the
//     socket and the hub
//
// Key behaviors:
//   - Broadcast is best-effort fan-out: a client whose send fails is
//     evicted and never stalls delivery to the others
//   - Reconnecting with the same agent ID replaces and force-closes the
//     previous session
//   - Disconnect is idempotent and clears all per-session state
package hub
