// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package server is the reference REST implementation of the remote
// vehicle store.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toeirei/fleetmaster/internal/db"
	"github.com/toeirei/fleetmaster/internal/logging"
)

// Options configures a Server.
type Options struct {
	Addr string
	// JWTSecret verifies bearer tokens. Empty disables authentication.
	JWTSecret string
}

// Server serves the vehicle collection over HTTP.
type Server struct {
	store   db.VehicleStore
	opts    Options
	metrics *Metrics
	router  *mux.Router
}

// New wires routes, authentication and metrics around store.
func New(store db.VehicleStore, opts Options) *Server {
	s := &Server{store: store, opts: opts, metrics: NewMetrics()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests, s.metrics.Middleware)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/vehicles").Subrouter()
	if s.opts.JWTSecret != "" {
		api.Use(requireBearer([]byte(s.opts.JWTSecret)))
	} else {
		logging.Warnf("server: jwt_secret is empty, vehicle routes accept unauthenticated requests")
	}
	api.HandleFunc("", s.listVehicles).Methods(http.MethodGet)
	api.HandleFunc("", s.createVehicle).Methods(http.MethodPost)
	api.HandleFunc("/{id:[0-9]+}", s.getVehicle).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", s.updateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", s.deleteVehicle).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Serve accepts connections on l until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	logging.Infof("server: listening on %s", l.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ListenAndServe binds Options.Addr and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.opts.Addr
	if addr == "" {
		addr = ":3001"
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
