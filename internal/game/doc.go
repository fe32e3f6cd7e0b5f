// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package game is the boundary to the game-protocol client.

The supervisor only sees the Client and Dialer interfaces. The production
implementation, BridgeDialer, talks JSON text frames over a websocket to a
protocol bridge sidecar that owns the actual game session:

	client -> bridge   {"op":"connect", "host":..., "port":..., ...}
	                   {"op":"chat", "text":...}
	                   {"op":"control", "control":"jump", "state":true}
	                   {"op":"equip", "id":..., "item":{...}, "destination":"hand"}
	                   {"op":"consume", "id":...}
	                   {"op":"end"}

	bridge -> client   {"event":"login"}
	                   {"event":"spawn", "socket_alive":true}
	                   {"event":"health", "health":20, "food":17}
	                   {"event":"inventory", "items":[{"name":..., "count":..., "slot":...}]}
	                   {"event":"chat", "username":..., "message":...}
	                   {"event":"kicked", "reason":<raw json>}
	                   {"event":"end", "reason":"..."}
	                   {"event":"disconnect", "packet":<raw json>}
	                   {"event":"error", "message":"..."}
	                   {"event":"result", "id":..., "error":"..."}

Requests that need an outcome (equip, consume) carry a uuid and are
answered by a result frame with the same id.

SocketAlive combines the socket flag from the last spawn frame with a
kernel-level probe of the bridge TCP socket (MSG_PEEK on unix), so a bridge
that died without a close frame is caught at spawn time.
*/
package game
