package credstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type successResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRouter wires the HTTP contract: registration and login under both the
// bare and /api prefixes, health and metrics probes, and static assets on
// every other GET path.
func NewRouter(svc Service, staticDir string) http.Handler {
	router := httprouter.New()
	for _, p := range []string{"/register", "/api/register"} {
		router.Handler(http.MethodPost, p, RegisterHandler(svc))
	}
	for _, p := range []string{"/login", "/api/login"} {
		router.Handler(http.MethodPost, p, LoginHandler(svc))
	}
	router.Handler(http.MethodGet, "/healthz", HealthHandler())
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound = StaticHandler(staticDir)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	})
	return router
}

func RegisterHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterRequest(r)
		if err != nil {
			registrations.WithLabelValues("InvalidPayload").Inc()
			writeError(w, http.StatusBadRequest, "InvalidPayload", "malformed request body")
			return
		}

		summary, err := svc.Register(req)
		if err != nil {
			registrations.WithLabelValues(errorCode(err)).Inc()
			encodeError(err, w)
			return
		}

		registrations.WithLabelValues("success").Inc()
		writeJSON(w, http.StatusCreated, successResponse{
			Status: "success",
			ID:     summary.ID,
			Email:  summary.Email,
			Phone:  summary.Phone,
		})
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r)
		if err != nil {
			logins.WithLabelValues("InvalidPayload").Inc()
			writeError(w, http.StatusBadRequest, "InvalidPayload", "malformed request body")
			return
		}

		summary, err := svc.Authenticate(req)
		if err != nil {
			logins.WithLabelValues(errorCode(err)).Inc()
			encodeError(err, w)
			return
		}

		logins.WithLabelValues("success").Inc()
		writeJSON(w, http.StatusOK, successResponse{
			Status: "success",
			ID:     summary.ID,
			Email:  summary.Email,
			Phone:  summary.Phone,
		})
	})
}

func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// encodeError maps service errors to the wire contract. Validation and
// conflict errors are expected outcomes; only store faults are logged.
func encodeError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrEmptyFields),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, errorCode(err), err.Error())
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken):
		writeError(w, http.StatusConflict, errorCode(err), err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, errorCode(err), err.Error())
	default:
		slog.Error("store failure", "err", err)
		writeError(w, http.StatusInternalServerError, errorCode(err), "internal server error")
	}
}

// errorCode returns the stable token clients branch on; messages are for
// humans only.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFields):
		return "EmptyFields"
	case errors.Is(err, ErrInvalidEmail):
		return "InvalidEmail"
	case errors.Is(err, ErrInvalidPhone):
		return "InvalidPhone"
	case errors.Is(err, ErrInvalidPassword):
		return "InvalidPassword"
	case errors.Is(err, ErrEmailTaken):
		return "EmailTaken"
	case errors.Is(err, ErrPhoneTaken):
		return "PhoneTaken"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrCorruptStore):
		return "CorruptStore"
	default:
		return "StoreError"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func decodeRegisterRequest(r *http.Request) (registerRequest, error) {
	req := registerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return registerRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}
