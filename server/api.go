package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"social_media_agent/generator"
)

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type historyResp struct {
	History []generator.Result `json:"history"`
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	var req generator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body: " + err.Error()})
		return
	}

	res, err := s.run(r.Context(), sid, req)
	if err != nil {
		body := apiError{Error: err.Error()}
		var (
			ve *generator.ValidationError
			ce *generator.CompletionError
		)
		if errors.As(err, &ve) {
			body.Field = ve.Field
		}
		if errors.As(err, &ce) {
			body.Kind = string(ce.Kind)
		}
		writeJSON(w, statusFor(err), body)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	recent, err := s.store.Recent(r.Context(), sid, s.opts.Shown)
	if err != nil {
		s.logger.WithError(err).Error("load history")
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "could not load history"})
		return
	}
	if recent == nil {
		recent = []generator.Result{}
	}
	writeJSON(w, http.StatusOK, historyResp{History: recent})
}
