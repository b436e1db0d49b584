// Package wss provides an embeddable WebSocket server: it owns the
// TCP/TLS listener, tracks every connected client under a stable
// identifier, and dispatches per-connection lifecycle events to an
// application-supplied handler.
//
// # Features
//
//   - Own listener with plain TCP or TLS (wss://) binding
//   - Idle/Running lifecycle with graceful, timeout-bounded shutdown
//   - Stable per-connection identifiers for unicast addressing
//   - Five-event handler contract: open, text, binary, error, close
//   - Broadcast and unicast messaging with payload validation
//   - Heartbeat (ping/pong) with dead-peer detection
//   - Connection limit, message size limit, origin policy
//   - Metrics capability interface and zap-based logging
//
// # Basic Usage
//
// Implement the Handler interface and run a server:
//
//	type echo struct{}
//
//	func (echo) OnOpen(c *wss.Connection, r *http.Request)       {}
//	func (echo) OnTextMessage(c *wss.Connection, text string)    { c.Send(wss.Text(text)) }
//	func (echo) OnBinaryMessage(c *wss.Connection, data []byte)  { c.Send(wss.Binary(data)) }
//	func (echo) OnError(c *wss.Connection, err error)            {}
//	func (echo) OnClose(c *wss.Connection, reason string)        {}
//
//	srv, err := wss.New(9000, echo{},
//	    wss.WithHost("0.0.0.0"),
//	    wss.WithMaxConnections(10000),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close() // releases the listener on every exit path
//
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Addressing Clients
//
// Every connection gets an identifier that is stable for its lifetime
// and unique among currently open connections:
//
//	for _, info := range srv.Connections() {
//	    fmt.Println(info.ID, info.Host, info.Port)
//	}
//
//	srv.SendTo(id, wss.Text("ping"))     // unicast
//	srv.SendToAll(wss.Binary(frame))     // best-effort broadcast
//	srv.CloseConnection(id)              // request close, OnClose follows
//
// # TLS
//
// Pass PEM certificate and key files to serve wss://:
//
//	srv, err := wss.New(9443, handler,
//	    wss.WithTLS("certs/server.pem", "certs/server-key.pem"),
//	)
//
// # Shutdown
//
// Stop requests a graceful close of every connection and force-closes
// whatever remains when the timeout elapses; it never hangs past the
// bound:
//
//	srv.Stop(10 * time.Second)
//	srv.StopDefault() // 5s
//
// After Stop the server is Idle and may be started again; no state from
// the previous run survives.
//
// # Concurrency
//
// All exported methods are safe for concurrent use. Events for one
// connection are delivered in order from a single goroutine; events for
// different connections run in parallel. Handler callbacks therefore
// need no per-connection synchronization, but shared state across
// connections does. Handler panics are not recovered by the dispatcher.
//
// # Errors
//
// Failures are synchronous errors of the triggering call:
//
//	var (
//	    ErrAlreadyRunning     = errors.New("wss: server already running")
//	    ErrNotRunning         = errors.New("wss: server not running")
//	    ErrConnectionNotFound = errors.New("wss: connection not found")
//	    ErrInvalidPayload     = errors.New("wss: payload must be text or binary")
//	    // ... more errors
//	)
//
// Transport write failures wrap the underlying cause in *TransportError.
// Broadcast tolerates per-recipient failures silently (logged and
// counted); duplicate close notifications are idempotent no-ops.
package wss
