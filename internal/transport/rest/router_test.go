package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

type staticAuthorizer struct {
	token string
}

func (a staticAuthorizer) Authorize(ctx context.Context, token string) (*internal.Session, error) {
	if token != a.token {
		return nil, internal.ErrInvalidToken
	}
	return &internal.Session{ID: "sess-1", UserID: "user-1"}, nil
}

type emptyEmployees struct{}

func (emptyEmployees) List(ctx context.Context) ([]*employee.Employee, error) {
	return []*employee.Employee{}, nil
}
func (emptyEmployees) Get(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}
func (emptyEmployees) Create(ctx context.Context, draft *employee.Draft) (string, error) {
	return "", errors.New("read only")
}
func (emptyEmployees) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}
func (emptyEmployees) Replace(ctx context.Context, id string, draft *employee.Draft) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}
func (emptyEmployees) Delete(ctx context.Context, id string) error {
	return employee.ErrEmployeeNotFound
}

var _ = Describe("Router", func() {
	var (
		router   *chi.Mux
		dbHealth error
	)

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		dbHealth = nil
		router = chi.NewRouter()
		health := NewHealthHandler(map[string]Check{
			"postgres": func(ctx context.Context) error { return dbHealth },
		})
		RegisterAllRoutes(router, Handlers{
			Employee: employee.NewHandler(emptyEmployees{}),
			Health:   health,
		}, staticAuthorizer{token: "good"}, RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}},
			slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should answer ping without a session", func() {
		w := get("/api/v1/ping", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"OK"`))
		Expect(w.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should report unhealthy when a check fails", func() {
		Expect(get("/api/v1/health", "").Code).To(Equal(http.StatusOK))

		dbHealth = errors.New("connection refused")
		w := get("/api/v1/health", "")
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

		var resp HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Status).To(Equal(HealthUnhealthy))
		Expect(resp.Components["postgres"].Message).To(Equal("connection refused"))
	})

	It("should guard employee routes with the session middleware", func() {
		Expect(get("/api/v1/employees", "").Code).To(Equal(http.StatusUnauthorized))
		Expect(get("/api/v1/employees", "bad").Code).To(Equal(http.StatusUnauthorized))

		w := get("/api/v1/employees", "good")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})
})
