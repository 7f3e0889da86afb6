// Package gateway implements the thin HTTP/JSON surface described in
// spec.md §6: account registration and queries, transaction submission
// and status, and the bech32/bech32m address codec the other handlers
// rely on.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RaheemJnr/Light-Client-Gateway/logger"
	"github.com/RaheemJnr/Light-Client-Gateway/store"
	"github.com/RaheemJnr/Light-Client-Gateway/txpool"
)

// Server wires the gateway's HTTP routes to the storage engine and
// pending-tx pool. PeerCount/IsSynced are optional hooks a caller can set
// to surface live P2P state in GET /v1/status; they are out of scope
// here (spec.md §1 treats the P2P layer as an external collaborator).
type Server struct {
	Storage   *store.Storage
	Pool      *txpool.Pool
	Mainnet   bool
	PeerCount func() int
	IsSynced  func() bool

	httpServer *http.Server
}

// New builds the chi router and returns a Server ready to ListenAndServe.
func New(storage *store.Storage, pool *txpool.Pool, mainnet bool) *Server {
	srv := &Server{Storage: storage, Pool: pool, Mainnet: mainnet}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", srv.handleStatus)
		r.Post("/accounts/register", srv.handleRegister)
		r.Get("/accounts/{addr}/status", srv.handleAccountStatus)
		r.Get("/accounts/{addr}/balance", srv.handleBalance)
		r.Get("/accounts/{addr}/cells", srv.handleCells)
		r.Get("/accounts/{addr}/transactions", srv.handleTransactions)
		r.Post("/transactions/send", srv.handleSendTransaction)
		r.Get("/transactions/{hash}/status", srv.handleTxStatus)
	})

	srv.httpServer = &http.Server{Handler: r}
	return srv
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.V(logger.Debug).Infof("gateway: %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// ListenAndServe binds to addr and serves until the context is canceled.
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv.httpServer.Addr = addr
	errCh := make(chan error, 1)
	go func() { errCh <- srv.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
