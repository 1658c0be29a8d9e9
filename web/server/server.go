// Package server serves a read-only JSON API over the registered emotes.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db"
)

// Server is the HTTP API server.
type Server struct {
	DB  db.EmoteStore
	Mux *chi.Mux

	srv *http.Server
}

// New creates a new Server reading from store. It doesn't listen until Listen is called.
func New(store db.EmoteStore) *Server {
	s := &Server{
		DB:  store,
		Mux: chi.NewMux(),
	}

	s.Mux.Use(middleware.Recoverer)
	s.Mux.Use(render.SetContentType(render.ContentTypeJSON))

	s.Mux.Get("/emotes", s.emotes)
	s.Mux.Get("/emotes/{name}", s.emote)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Mux.ServeHTTP(w, r)
}

// Listen starts serving on the given port in the background.
func (s *Server) Listen(port string) {
	s.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP API listening at %v", s.srv.Addr)

		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("serving HTTP API: %v", err)
		}
	}()
}

// Shutdown stops the server, if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, apiError{Code: code, Message: msg})
}

// emotes lists all emotes, or only those of the user given in the owner query parameter.
func (s *Server) emotes(w http.ResponseWriter, r *http.Request) {
	var (
		es  []db.Emote
		err error
	)

	if owner := r.URL.Query().Get("owner"); owner != "" {
		id, perr := strconv.ParseUint(owner, 10, 64)
		if perr != nil {
			s.error(w, r, http.StatusBadRequest, "owner is not a valid user ID")
			return
		}

		es, err = s.DB.EmotesByOwner(r.Context(), discord.UserID(id))
	} else {
		es, err = s.DB.Emotes(r.Context())
	}
	if err != nil {
		log.Errorf("getting emotes: %v", err)
		s.error(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if es == nil {
		es = []db.Emote{}
	}
	render.JSON(w, r, es)
}

func (s *Server) emote(w http.ResponseWriter, r *http.Request) {
	e, err := s.DB.Emote(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.error(w, r, http.StatusNotFound, "emote not found")
			return
		}

		log.Errorf("getting emote %q: %v", chi.URLParam(r, "name"), err)
		s.error(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	render.JSON(w, r, e)
}
