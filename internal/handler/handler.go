package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dan9191/abas-api/internal/health"
	"github.com/Dan9191/abas-api/internal/middleware"
	"github.com/Dan9191/abas-api/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	msgUserCreated     = "Usuario criado"
	msgInvalidFormat   = "Formato de e-mail inválido"
	msgInvalidPassword = "Senha invalida!"
	msgInvalidRequest  = "Requisição inválida"
	msgInternalError   = "Erro interno do servidor"
	msgComercializacao = "Comercialização"
)

type Handler struct {
	svc     *service.Service
	monitor *health.Monitor
	log     *logrus.Logger
}

// NewHandler creates the HTTP handlers. monitor may be nil when the
// user store has nothing to probe.
func NewHandler(svc *service.Service, monitor *health.Monitor, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, monitor: monitor, log: log}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type identityResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field := missingField("username", req.Username, "email", req.Email, "password", req.Password); field != "" {
		h.respondMessage(w, http.StatusBadRequest, "Campo obrigatório ausente: "+field)
		return
	}

	_, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		h.respondMessage(w, http.StatusOK, msgUserCreated)
	case errors.Is(err, service.ErrInvalidFormat):
		h.respondMessage(w, http.StatusBadRequest, msgInvalidFormat)
	case errors.Is(err, service.ErrDuplicateUsername):
		h.respondMessage(w, http.StatusBadRequest, fmt.Sprintf("O usuário com username %s já existe", req.Username))
	case errors.Is(err, service.ErrDuplicateEmail):
		h.respondMessage(w, http.StatusBadRequest, fmt.Sprintf("O usuário com e-mail %s já existe", req.Email))
	default:
		h.internalError(w, r, err)
	}
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field := missingField("email", req.Email, "password", req.Password); field != "" {
		h.respondMessage(w, http.StatusBadRequest, "Campo obrigatório ausente: "+field)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.respondJSON(w, http.StatusOK, tokenResponse{Token: token})
	case errors.Is(err, service.ErrInvalidFormat):
		h.respondMessage(w, http.StatusBadRequest, msgInvalidFormat)
	case errors.Is(err, service.ErrUserNotFound):
		h.respondMessage(w, http.StatusBadRequest, fmt.Sprintf("O usuário com e-mail %s não existe", req.Email))
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondMessage(w, http.StatusBadRequest, msgInvalidPassword)
	default:
		h.internalError(w, r, err)
	}
}

// Me returns the email and username of the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.internalError(w, r, errors.New("no identity on authenticated request"))
		return
	}

	user, err := h.svc.Identity(r.Context(), identity)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, identityResponse{Email: user.Email, Username: user.Username})
}

// Comercializacao is the informational endpoint for authenticated users
func (h *Handler) Comercializacao(w http.ResponseWriter, r *http.Request) {
	h.respondMessage(w, http.StatusOK, msgComercializacao)
}

// Health reports whether the user store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil || h.monitor.Status().Healthy {
		h.respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.WithError(err).WithField("path", r.URL.Path).Debug("Malformed request body")
		h.respondMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return false
	}
	return true
}

// internalError logs the full cause and answers with a generic message
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Request failed")
	h.respondMessage(w, http.StatusInternalServerError, msgInternalError)
}

func (h *Handler) respondMessage(w http.ResponseWriter, code int, message string) {
	h.respondJSON(w, code, messageResponse{Message: message})
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}

// missingField takes name/value pairs and returns the first name whose value is empty
func missingField(pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return pairs[i]
		}
	}
	return ""
}
