// Package http is the localhost API surface the app screens talk to.
// Handlers validate input at the boundary, invoke the state containers
// and render JSON; they never reach around the containers' interfaces.
package http

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/kienmai98/Life/internal/auth"
	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/device"
	"github.com/kienmai98/Life/internal/ledger"
	"github.com/kienmai98/Life/internal/session"
)

// Deps collects the collaborators the server fronts. Locator and Vault
// are optional device capabilities; nil means "not available on this
// device" and the matching endpoints degrade gracefully.
type Deps struct {
	Ledger  *ledger.Ledger
	Session *session.Session
	Auth    *auth.Provider
	Locator *device.Locator
	Vault   *device.ReceiptVault
}

type Server struct {
	http.Server

	ledger  *ledger.Ledger
	session *session.Session
	auth    *auth.Provider
	locator *device.Locator
	vault   *device.ReceiptVault

	limiters     *clientLimiters
	summaryCache *lruCache[core.Summary]
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		ledger:       deps.Ledger,
		session:      deps.Session,
		auth:         deps.Auth,
		locator:      deps.Locator,
		vault:        deps.Vault,
		limiters:     newClientLimiters(rate.Limit(30), 60),
		summaryCache: newLRUCache[core.Summary](100, 5*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.withMiddleware(s.handleLogout))
	mux.HandleFunc("GET /api/auth/session", s.withMiddleware(s.handleSessionState))
	mux.HandleFunc("PUT /api/settings/biometric", s.withMiddleware(s.handleBiometric))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.requireUser(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.requireUser(s.handleCreateTransaction)))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withMiddleware(s.requireUser(s.handlePatchTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.requireUser(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.requireUser(s.handleAddCategory)))

	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.requireUser(s.handleSummary)))
	mux.HandleFunc("GET /api/calendar", s.withMiddleware(s.requireUser(s.handleCalendar)))

	mux.HandleFunc("POST /api/receipts", s.withMiddleware(s.requireUser(s.handleUploadReceipt)))
	mux.HandleFunc("GET /api/location", s.withMiddleware(s.requireUser(s.handleLocation)))

	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
