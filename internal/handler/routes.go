package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router registers every endpoint. Protected routes are wrapped with auth.
func (h *Handler) Router(auth mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/signup", h.Signup).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	// Protected routes
	r.Handle("/login", auth(http.HandlerFunc(h.Me))).Methods("GET")
	r.Handle("/comercializacao", auth(http.HandlerFunc(h.Comercializacao))).Methods("GET")
	return r
}
