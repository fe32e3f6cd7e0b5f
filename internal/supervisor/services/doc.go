// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package services provides suture.Service wrappers for components whose
lifecycle does not already match suture's Serve(ctx) pattern.

Most afkwarden components (the log sink, log client, notification
dispatcher, watchdog and connection supervisor) implement Serve themselves
and are added to the tree directly. The HTTP servers are the exception:

HTTP Server (HTTPServerService):
  - Binds the listener inside Serve so bind errors reach suture
  - Runs http.Server.Serve in a goroutine
  - Calls Shutdown with a bounded timeout when ctx is canceled
  - Optional OnListen hook, used by afklogger to emit its INIT line

Used for the afklogger ingest endpoint and the optional afkbot metrics
endpoint.
*/
package services
