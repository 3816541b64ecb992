package i18n_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

func TestI18n(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "I18n Suite")
}

var _ = Describe("Messages", func() {
	It("should carry every recognised key in every locale", func() {
		for _, locale := range i18n.Locales() {
			m := i18n.MustFor(locale)
			for _, key := range i18n.Keys() {
				Expect(m.Get(key)).NotTo(Equal(string(key)), "locale %s misses %s", locale, key)
			}
		}
	})

	It("should resolve loose locale spellings", func() {
		for _, spelling := range []string{"pt-BR", "pt_BR", "pt", "PT-br"} {
			m, err := i18n.For(spelling)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Locale()).To(Equal(i18n.LocalePortuguese))
		}

		m, err := i18n.For("")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Locale()).To(Equal(i18n.LocaleEnglish))
	})

	It("should keep the default notices", func() {
		Expect(i18n.MustFor("pt-BR").Get(i18n.NoticeTerminated)).To(Equal("Funcionário demitido com sucesso!"))
		Expect(i18n.MustFor("en").Get(i18n.CVNoHistory)).To(Equal("No history available."))
	})

	It("should apply overrides without touching the built-in table", func() {
		m, err := i18n.Load("en", map[string]string{"cv.placeholder": "-"})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Get(i18n.CVPlaceholder)).To(Equal("-"))
		Expect(i18n.MustFor("en").Get(i18n.CVPlaceholder)).To(Equal("N/A"))
	})

	It("should match override keys case-insensitively", func() {
		m, err := i18n.Load("en", map[string]string{"notice.terminated": "Gone"})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Get(i18n.NoticeTerminated)).To(Equal("Gone"))

		m, err = i18n.Load("en", map[string]string{"cv.nohistory": "Nothing yet."})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Get(i18n.CVNoHistory)).To(Equal("Nothing yet."))
	})

	It("should reject unrecognised override keys", func() {
		_, err := i18n.Load("en", map[string]string{"cv.colour": "blue"})
		Expect(err).To(MatchError(ContainSubstring("cv.colour")))
	})
})
