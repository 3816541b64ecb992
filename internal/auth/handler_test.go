package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		users   *mockUserRepository
		handler *Handler
	)

	post := func(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	ginkgo.BeforeEach(func() {
		users = newMockUserRepository()
		tokens := NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
		service := NewService(users, newMockSessionRepository(), tokens, &recordingPublisher{}, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = NewHandler(service, i18n.MustFor(i18n.LocalePortuguese), false)
	})

	ginkgo.It("should answer register and login with the localized notices", func() {
		w := post(handler.Register, `{"email":"ana@example.com","password":"secret1","confirmPassword":"secret1"}`)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

		var resp map[string]interface{}
		gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
		gomega.Expect(resp["message"]).To(gomega.Equal("Usuário cadastrado com sucesso!"))
		gomega.Expect(resp["access_token"]).NotTo(gomega.BeEmpty())

		w = post(handler.Login, `{"email":"ana@example.com","password":"secret1"}`)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		resp = map[string]interface{}{}
		gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
		gomega.Expect(resp["message"]).To(gomega.Equal("Usuário conectado com sucesso!"))
		gomega.Expect(resp["session_id"]).NotTo(gomega.BeEmpty())
	})

	ginkgo.It("should report a password mismatch with the localized message", func() {
		w := post(handler.Register, `{"email":"ana@example.com","password":"secret1","confirmPassword":"secret2"}`)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"code":"PASSWORD_MISMATCH"`))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("As senhas não coincidem"))
		gomega.Expect(users.byEmail).To(gomega.BeEmpty())
	})
})
