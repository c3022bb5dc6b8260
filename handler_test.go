package credstore

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerTestSuite) SetupTest() {
	staticDir := s.T().TempDir()
	err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>welcome</html>"), 0o644)
	assert.NoError(s.T(), err)

	svc := NewService(NewMemStore(), PlainVerifier{})
	s.router = NewRouter(svc, staticDir)
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *HandlerTestSuite) TestRegisterThenLogin() {
	w := s.do(http.MethodPost, "/register", `{"email":"a@b.com","phone":"415-555-2671","password":"secret1"}`)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp successResponse
	assert.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(s.T(), "success", resp.Status)
	assert.Equal(s.T(), int64(1), resp.ID)
	assert.Equal(s.T(), "a@b.com", resp.Email)
	assert.Equal(s.T(), "4155552671", resp.Phone)

	tests := []struct {
		name, body string
		wantCode   int
		wantToken  string
	}{
		{"login by email", `{"login":"a@b.com","password":"secret1"}`, http.StatusOK, ""},
		{"login by phone", `{"login":"4155552671","password":"secret1"}`, http.StatusOK, ""},
		{"wrong password", `{"login":"a@b.com","password":"wrong"}`, http.StatusUnauthorized, "InvalidCredentials"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/login", tt.body)

			assert.Equal(s.T(), tt.wantCode, w.Code)
			if tt.wantToken != "" {
				var resp errorResponse
				assert.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(s.T(), "error", resp.Status)
				assert.Equal(s.T(), tt.wantToken, resp.Code)
			}
		})
	}
}

func (s *HandlerTestSuite) TestRegisterErrors() {
	w := s.do(http.MethodPost, "/register", `{"email":"a@b.com","phone":"4155552671","password":"secret1"}`)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	tests := []struct {
		name, body string
		wantCode   int
		wantToken  string
	}{
		{"malformed body", `{"email":`, http.StatusBadRequest, "InvalidPayload"},
		{"empty fields", `{"email":"","phone":"","password":""}`, http.StatusBadRequest, "EmptyFields"},
		{"invalid email", `{"email":"nomail","phone":"2125550147","password":"secret1"}`, http.StatusBadRequest, "InvalidEmail"},
		{"invalid phone", `{"email":"c@d.com","phone":"123","password":"secret1"}`, http.StatusBadRequest, "InvalidPhone"},
		{"invalid password", `{"email":"c@d.com","phone":"2125550147","password":"abc"}`, http.StatusBadRequest, "InvalidPassword"},
		{"email taken", `{"email":"A@B.com","phone":"2125550147","password":"secret1"}`, http.StatusConflict, "EmailTaken"},
		{"phone taken", `{"email":"c@d.com","phone":"(415) 555-2671","password":"secret1"}`, http.StatusConflict, "PhoneTaken"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/register", tt.body)

			assert.Equal(s.T(), tt.wantCode, w.Code)
			var resp errorResponse
			assert.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(s.T(), "error", resp.Status)
			assert.Equal(s.T(), tt.wantToken, resp.Code)
			assert.NotEmpty(s.T(), resp.Message)
		})
	}
}

func (s *HandlerTestSuite) TestLoginErrors() {
	tests := []struct {
		name, body string
		wantCode   int
		wantToken  string
	}{
		{"malformed body", `not json`, http.StatusBadRequest, "InvalidPayload"},
		{"empty fields", `{"login":"","password":""}`, http.StatusBadRequest, "EmptyFields"},
		{"unknown user", `{"login":"x@y.com","password":"secret1"}`, http.StatusUnauthorized, "InvalidCredentials"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/login", tt.body)

			assert.Equal(s.T(), tt.wantCode, w.Code)
			var resp errorResponse
			assert.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(s.T(), tt.wantToken, resp.Code)
		})
	}
}

func (s *HandlerTestSuite) TestAPIPrefixAliases() {
	w := s.do(http.MethodPost, "/api/register", `{"email":"a@b.com","phone":"4155552671","password":"secret1"}`)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/login", `{"login":"a@b.com","password":"secret1"}`)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestMethodNotAllowed() {
	w := s.do(http.MethodPut, "/register", "")

	assert.Equal(s.T(), http.StatusMethodNotAllowed, w.Code)
	var resp errorResponse
	assert.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(s.T(), "MethodNotAllowed", resp.Code)
}

func (s *HandlerTestSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", "")

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"ok"`)
}

func (s *HandlerTestSuite) TestMetricsEndpoint() {
	w := s.do(http.MethodPost, "/register", `{"email":"a@b.com","phone":"4155552671","password":"secret1"}`)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/metrics", "")

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "credstore_registrations_total")
}

func (s *HandlerTestSuite) TestStaticFallback() {
	w := s.do(http.MethodGet, "/", "")
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "<html>welcome</html>", w.Body.String())

	w = s.do(http.MethodGet, "/missing.css", "")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestDecodeRegisterRequest() {
	r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","phone":"4155552671","password":"secret1"}`))

	req, err := decodeRegisterRequest(r)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "a@b.com", req.Email)
	assert.Equal(s.T(), "4155552671", req.Phone)
	assert.Equal(s.T(), "secret1", req.Password)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

type failingStore struct{}

func (failingStore) Load() ([]UserRecord, error) { return nil, errors.New("disk gone") }
func (failingStore) Save([]UserRecord) error     { return errors.New("disk gone") }

func TestStoreFaultReturns500(t *testing.T) {
	svc := NewService(failingStore{}, PlainVerifier{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.com","phone":"4155552671","password":"secret1"}`))

	RegisterHandler(svc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp errorResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "StoreError", resp.Code)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestCorruptStoreReturns500(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	assert.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	svc := NewService(NewFileStore(path), PlainVerifier{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"a@b.com","password":"secret1"}`))

	LoginHandler(svc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp errorResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "CorruptStore", resp.Code)
	assert.Equal(t, "internal server error", resp.Message)
}
