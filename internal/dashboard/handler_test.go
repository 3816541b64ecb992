package dashboard_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/dashboard"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
)

var _ = Describe("Dashboard Handler", func() {
	var (
		router   http.Handler
		store    *fakeStore
		pictures *fakePictures
		registry *dashboard.Registry
	)

	withSession := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get("X-Test-Session"); id != "" {
				r = r.WithContext(internal.ContextWithSession(r.Context(), &internal.Session{ID: id, UserID: "user-1"}))
			}
			next.ServeHTTP(w, r)
		})
	}

	do := func(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("X-Test-Session", "sess-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		store = newFakeStore()
		pictures = &fakePictures{}
		registry = dashboard.NewRegistry(store, pictures, nil, discardLogger())
		previewer := cv.NewService(nil, nil, nil, discardLogger())

		r := chi.NewRouter()
		r.Use(withSession)
		r.Route("/dashboard", dashboard.NewHandler(registry, previewer).Routes)
		router = r
	})

	It("should refuse requests without a session", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring(`"code":"MISSING_TOKEN"`))
	})

	It("should load the view on first access", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales"})

		w := do(http.MethodGet, "/dashboard/", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var view dashboard.View
		Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
		Expect(view.State).To(Equal(dashboard.StateLoaded))
		Expect(view.Cards).To(HaveLen(1))
		Expect(view.Cards[0].Title).To(Equal("Ana Silva — Analyst — Sales"))
	})

	It("should register an employee from a multipart form with a picture", func() {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		Expect(mw.WriteField("employee", `{"firstName":"Ana","lastName":"Silva","jobTitle":"Analyst","department":"Sales","salary":3000,"admissionDate":"2024-01-10"}`)).To(Succeed())
		part, err := mw.CreateFormFile("profilePicture", "ana.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		w := do(http.MethodPost, "/dashboard/employees", mw.FormDataContentType(), body.Bytes())
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(pictures.uploaded).To(Equal([]string{"ana.png"}))
		Expect(w.Body.String()).To(ContainSubstring("profilePictures/ana.png"))
	})

	It("should promote and terminate through the view endpoints", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales", Salary: "3000"})
		Expect(do(http.MethodGet, "/dashboard/", "", nil).Code).To(Equal(http.StatusOK))

		w := do(http.MethodPost, "/dashboard/employees/emp-1/promote/open", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"position":"Analyst"`))

		w = do(http.MethodPost, "/dashboard/employees/emp-1/promote", "application/json",
			[]byte(`{"position":"Senior Analyst","department":"Sales","salary":"4000"}`))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Ana Silva — Senior Analyst — Sales"))

		w = do(http.MethodPost, "/dashboard/employees/emp-1/terminate", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"terminatedMarker":"Terminated"`))
	})

	It("should answer a field change without an open form with 400", func() {
		w := do(http.MethodPatch, "/dashboard/edit", "application/json", []byte(`{"field":"firstName","value":"Ana"}`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"code":"NO_DRAFT"`))
	})

	It("should preview the CV from navigation state and placeholders otherwise", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales"})
		Expect(do(http.MethodPost, "/dashboard/refresh", "", nil).Code).To(Equal(http.StatusOK))

		w := do(http.MethodGet, "/dashboard/employees/emp-1/cv", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Ana Silva"))

		w = do(http.MethodGet, "/dashboard/employees/unknown/cv", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp cv.PreviewResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(strings.Contains(resp.Text, "Ana")).To(BeFalse())
	})
})
