package employee_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler", func() {
	var (
		router http.Handler
		repo   *mockEmployeeRepository
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		repo = newMockEmployeeRepository()
		service := employee.NewService(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler := employee.NewHandler(service)

		r := chi.NewRouter()
		r.Route("/employees", handler.Routes)
		router = r
	})

	It("should register an employee and return its id", func() {
		w := do(http.MethodPost, "/employees", `{"firstName":"Ana","lastName":"Silva","jobTitle":"Analyst","department":"Sales","salary":3000,"admissionDate":"2024-01-10"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp["id"]).NotTo(BeEmpty())
		Expect(repo.employees[resp["id"]].Salary).To(Equal(employee.Salary("3000")))
	})

	It("should answer a validation error with 400 and field details", func() {
		w := do(http.MethodPost, "/employees", `{"firstName":"Ana"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"type":"VALIDATION_ERROR"`))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"lastName"`))
	})

	It("should patch and then delete an employee", func() {
		id, err := employee.NewService(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil))).Create(
			context.Background(), anaDraft())
		Expect(err).NotTo(HaveOccurred())

		w := do(http.MethodPatch, "/employees/"+id, `{"isTerminated":true}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(repo.employees[id].IsTerminated).To(BeTrue())

		w = do(http.MethodDelete, "/employees/"+id, "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/employees/"+id, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring(`"type":"NOT_FOUND"`))
	})

	It("should return 404 when deleting a missing employee", func() {
		w := do(http.MethodDelete, "/employees/nope", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
