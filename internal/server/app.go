package server

import (
	"sync"

	"github.com/google/uuid"

	"bazar/internal/catalog"
	"bazar/internal/config"
	"bazar/internal/draft"
	"bazar/internal/orders"
	"bazar/internal/websocket"
)

// App holds shared dependencies and the registry of live draft sessions.
type App struct {
	Catalog catalog.Service
	Orders  *orders.Client
	Hub     *websocket.Hub
	Cfg     config.Config

	mu       sync.Mutex
	sessions map[string]*draft.Session
}

// NewApp wires the application together.
func NewApp(svc catalog.Service, oc *orders.Client, hub *websocket.Hub, cfg config.Config) *App {
	return &App{
		Catalog:  svc,
		Orders:   oc,
		Hub:      hub,
		Cfg:      cfg,
		sessions: make(map[string]*draft.Session),
	}
}

// newSession creates and registers a drafting session, forwarding its
// events to the WebSocket hub under the session's ID.
func (a *App) newSession(form draft.FormSpec) (string, *draft.Session) {
	sess := draft.NewSession(form, a.Catalog, a.Orders.Submitter(form), a.Cfg.DraftConfig())
	id := uuid.NewString()

	events := sess.Subscribe()
	go func() {
		for evt := range events {
			a.Hub.Broadcast(websocket.Event{
				Type:    "draft",
				Session: id,
				Action:  string(evt.Type),
				RowID:   evt.RowID,
			})
		}
	}()

	a.mu.Lock()
	a.sessions[id] = sess
	a.mu.Unlock()
	return id, sess
}

func (a *App) session(id string) *draft.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[id]
}

// dropSession closes and unregisters a session (navigation away or an
// explicit discard destroys the draft).
func (a *App) dropSession(id string) bool {
	a.mu.Lock()
	sess, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()
	if ok {
		sess.Close()
	}
	return ok
}
