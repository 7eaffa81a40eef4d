// Package monitor implements an HTTP+WebSocket telemetry server that
// broadcasts a hart's state after each step: PC, mode, GPR file, and a CSR
// snapshot. It is a deliberately thinner version of the teacher's
// api.Server/api.Broadcaster pair (server.go, broadcaster.go,
// websocket.go): one hart instead of many sessions, one event type instead
// of state/output/execution, no session manager.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/riscv-hart/hart"
)

// telemetryCSRs names the registers worth broadcasting every step; CSRs
// the current hart's extension set didn't define are silently skipped.
var telemetryCSRs = []string{
	"mstatus", "mepc", "mcause", "mtval", "mtvec", "mie", "mip", "mscratch", "satp",
}

// Snapshot is one broadcast telemetry frame.
type Snapshot struct {
	Step   uint64            `json:"step"`
	PC     uint64            `json:"pc"`
	Mode   string            `json:"mode"`
	GPR    [32]uint64        `json:"gpr"`
	CSR    map[string]uint64 `json:"csr"`
	Halted bool              `json:"halted"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Broadcaster fans a stream of Snapshots out to any number of connected
// WebSocket clients, following the teacher's register/unregister/broadcast
// channel pattern (api/broadcaster.go) collapsed to a single event type.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[chan Snapshot]bool
	send     chan Snapshot
	register chan chan Snapshot
	unreg    chan chan Snapshot
	done     chan struct{}
}

// NewBroadcaster creates and starts a broadcaster goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[chan Snapshot]bool),
		send:     make(chan Snapshot, 256),
		register: make(chan chan Snapshot),
		unreg:    make(chan chan Snapshot),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case c := <-b.register:
			b.mu.Lock()
			b.clients[c] = true
			b.mu.Unlock()

		case c := <-b.unreg:
			b.mu.Lock()
			if b.clients[c] {
				delete(b.clients, c)
				close(c)
			}
			b.mu.Unlock()

		case snap := <-b.send:
			b.mu.RLock()
			for c := range b.clients {
				select {
				case c <- snap:
				default:
					// slow client, drop this frame rather than block the hart
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for c := range b.clients {
				close(c)
			}
			b.clients = make(map[chan Snapshot]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Publish sends snap to every subscribed client, non-blocking.
func (b *Broadcaster) Publish(snap Snapshot) {
	select {
	case b.send <- snap:
	default:
		// broadcaster is backed up, drop the frame
	}
}

// Subscribe returns a channel receiving every future snapshot until
// Unsubscribe is called.
func (b *Broadcaster) Subscribe() chan Snapshot {
	c := make(chan Snapshot, 64)
	b.register <- c
	return c
}

// Unsubscribe stops and closes a channel returned by Subscribe.
func (b *Broadcaster) Unsubscribe(c chan Snapshot) {
	b.unreg <- c
}

// Close shuts the broadcaster down, disconnecting every client.
func (b *Broadcaster) Close() {
	close(b.done)
}

// ClientCount reports the number of currently-subscribed clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Server exposes /health and a /ws telemetry stream for a single hart over
// HTTP, grounded on the teacher's api.Server (server.go).
type Server struct {
	broadcaster *Broadcaster
	mux         *http.ServeMux
	httpServer  *http.Server
	addr        string
}

// NewServer builds a monitor server bound to addr (host:port).
func NewServer(addr string, broadcaster *Broadcaster) *Server {
	s := &Server{
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
		addr:        addr,
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": s.broadcaster.ClientCount()})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: websocket upgrade error: %v", err)
		return
	}
	sub := s.broadcaster.Subscribe()
	go writePump(conn, sub)
}

func writePump(conn *websocket.Conn, sub chan Snapshot) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case snap, ok := <-sub:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start runs the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("monitor: listening on http://%s", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return fmt.Errorf("monitor: serve: %w", err)
}

// Shutdown gracefully stops the HTTP server and disconnects all clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Capture builds a telemetry Snapshot of h's current architectural state.
func Capture(step uint64, h *hart.Hart, halted bool) Snapshot {
	var gpr [32]uint64
	for i := 0; i < 32; i++ {
		gpr[i] = h.GPR.Read(i)
	}

	csrs := make(map[string]uint64, len(telemetryCSRs))
	for _, name := range telemetryCSRs {
		if c, err := h.CSR.Get(name); err == nil {
			csrs[name] = c.Value()
		}
	}

	return Snapshot{
		Step:   step,
		PC:     h.PC,
		Mode:   h.Mode.String(),
		GPR:    gpr,
		CSR:    csrs,
		Halted: halted,
	}
}
