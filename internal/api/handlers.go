package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

const maxBodyBytes = 16 << 20 // recipes may carry inline images

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageRead), errors.Is(err, domain.ErrStorageWrite):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.log.Error("request failed: %v", err)
	}
	s.writeJSON(w, status, errorBody{Error: domain.UserMessage(err)})
}

func (s *Server) decodeRecipe(w http.ResponseWriter, r *http.Request) (*domain.Recipe, bool) {
	var rec domain.Recipe
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid recipe JSON: " + err.Error()})
		return nil, false
	}
	return &rec, true
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.ListRecipes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeRecipe(w, r)
	if !ok {
		return
	}
	if err := s.engine.CreateRecipe(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/recipes/"+rec.ID)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.GetRecipe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeRecipe(w, r)
	if !ok {
		return
	}
	rec.ID = mux.Vars(r)["id"]
	if err := s.engine.UpdateRecipe(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRecipe(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) viewRecipe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Open(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if raw := r.URL.Query().Get("servings"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "servings must be a whole number"})
			return
		}
		sess.SetServings(n)
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}
