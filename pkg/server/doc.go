// Package server exposes a running [force.Engine] to an external renderer.
//
// The server owns one engine and one graph at a time. A renderer drives it
// through a small JSON control surface and watches it through a WebSocket
// stream of snapshots.
//
// # Control Surface
//
//	GET    /api/snapshot          current snapshot
//	POST   /api/start             start or resume the simulation
//	POST   /api/stop              stop the simulation, keeping positions
//	PUT    /api/graph             replace the graph (full reinitialize)
//	GET    /api/params            physical constants
//	PUT    /api/params            replace physical constants
//	POST   /api/select/node/{id}  select a node
//	POST   /api/select/edge       select an edge ({"source","target"})
//	DELETE /api/select            clear the selection
//	PUT    /api/drag/{id}         pin a node at {"x","y"}
//	DELETE /api/drag/{id}         release a pinned node
//	GET    /api/stream            WebSocket snapshot stream
//	GET    /metrics               Prometheus metrics
//	GET    /healthz               liveness probe
//
// Failures are answered with {"code","message"} and the status derived from
// the error code (see [errors.HTTPStatus]).
//
// # Stream
//
// Each stream client receives a "hello" message with its client ID, then a
// "snapshot" message whenever the layout changed, at most StreamRate times
// per second. Selection changes are pushed immediately as "node_selected"
// and "edge_selected", and a self-stop is announced as "settled".
//
// Clients send presses and drags on the same connection:
//
//	{"type": "press_node", "id": "ginseng"}
//	{"type": "press_edge", "source": "ginseng", "target": "qi_deficiency"}
//	{"type": "drag", "id": "ginseng", "x": 120, "y": 80}
//	{"type": "release", "id": "ginseng"}
//	{"type": "start"} / {"type": "stop"} / {"type": "clear"}
package server
