// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/toeirei/fleetmaster/internal/db"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/model"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) storeError(w http.ResponseWriter, err error, id int) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("vehicle %d not found", id))
	case errors.Is(err, db.ErrDuplicate):
		writeError(w, http.StatusConflict, "vehicle already exists")
	default:
		logging.Errorf("server: store failure: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func decodeVehicle(r *http.Request) (model.Vehicle, error) {
	var v model.Vehicle
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) createVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := decodeVehicle(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle: "+err.Error())
		return
	}
	created, err := s.store.Create(r.Context(), v)
	if err != nil {
		s.storeError(w, err, 0)
		return
	}
	logging.Infof("server: %s created vehicle %d", SubjectFrom(r.Context()), created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := decodeVehicle(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle: "+err.Error())
		return
	}
	updated, err := s.store.Update(r.Context(), id, v)
	if err != nil {
		s.storeError(w, err, id)
		return
	}
	logging.Infof("server: %s updated vehicle %d", SubjectFrom(r.Context()), id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err, id)
		return
	}
	logging.Infof("server: %s deleted vehicle %d", SubjectFrom(r.Context()), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}
