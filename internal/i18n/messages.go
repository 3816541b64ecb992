// Package i18n holds the message tables used for user-visible strings:
// form field labels, dashboard notices and CV labels. Every locale carries
// the same recognised keys.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

type Key string

// Field labels.
const (
	FieldFirstName         Key = "field.firstName"
	FieldLastName          Key = "field.lastName"
	FieldJobTitle          Key = "field.jobTitle"
	FieldDepartment        Key = "field.department"
	FieldAddress           Key = "field.address"
	FieldPhone             Key = "field.phone"
	FieldEmail             Key = "field.email"
	FieldNationality       Key = "field.nationality"
	FieldBirthDate         Key = "field.birthDate"
	FieldAdmissionDate     Key = "field.admissionDate"
	FieldSalary            Key = "field.salary"
	FieldProfilePictureURL Key = "field.profilePictureUrl"
	FieldIsTerminated      Key = "field.isTerminated"
)

// Notices shown after dashboard and form actions.
const (
	NoticeUserRegistered        Key = "notice.userRegistered"
	NoticeUserLoggedIn          Key = "notice.userLoggedIn"
	NoticePasswordMismatch      Key = "notice.passwordMismatch"
	NoticeEmployeeRegistered    Key = "notice.employeeRegistered"
	NoticeEmployeeRegisterFail  Key = "notice.employeeRegisterFailed"
	NoticeEmployeeLoadFail      Key = "notice.employeeLoadFailed"
	NoticeEmployeeUpdated       Key = "notice.employeeUpdated"
	NoticeEmployeeUpdateFail    Key = "notice.employeeUpdateFailed"
	NoticePromoteMissingFields  Key = "notice.promoteMissingFields"
	NoticePromoted              Key = "notice.promoted"
	NoticePromoteFail           Key = "notice.promoteFailed"
	NoticeTerminated            Key = "notice.terminated"
	NoticeTerminateFail         Key = "notice.terminateFailed"
	NoticeDeleted               Key = "notice.deleted"
	NoticeDeleteFail            Key = "notice.deleteFailed"
	NoticeRefreshFail           Key = "notice.refreshFailed"
	NoticeMutationInFlight      Key = "notice.mutationInFlight"
	NoticeCVArchiveUnavailable  Key = "notice.cvArchiveUnavailable"
	DashboardTitle              Key = "dashboard.title"
	DashboardTerminatedMarker   Key = "dashboard.terminatedMarker"
	DashboardPositionLabel      Key = "dashboard.positionLabel"
	DashboardDepartmentLabel    Key = "dashboard.departmentLabel"
	DashboardPromoteModalTitle  Key = "dashboard.promoteModalTitle"
	DashboardPromoteModalSubmit Key = "dashboard.promoteModalSubmit"
)

// CV labels.
const (
	CVTitle             Key = "cv.title"
	CVPreviewTitle      Key = "cv.previewTitle"
	CVEmploymentHeading Key = "cv.employmentHeading"
	CVHistoryHeading    Key = "cv.historyHeading"
	CVName              Key = "cv.name"
	CVPhone             Key = "cv.phone"
	CVEmail             Key = "cv.email"
	CVAddress           Key = "cv.address"
	CVJobTitle          Key = "cv.jobTitle"
	CVDepartment        Key = "cv.department"
	CVStartDate         Key = "cv.startDate"
	CVStatus            Key = "cv.status"
	CVID                Key = "cv.id"
	CVStatusActive      Key = "cv.statusActive"
	CVStatusTerminated  Key = "cv.statusTerminated"
	CVNoHistory         Key = "cv.noHistory"
	CVPlaceholder       Key = "cv.placeholder"
	CVDownload          Key = "cv.download"
)

const (
	LocaleEnglish    = "en"
	LocalePortuguese = "pt-BR"
)

var tables = map[string]map[Key]string{
	LocaleEnglish:    english,
	LocalePortuguese: portuguese,
}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.BrazilianPortuguese,
})

var supported = []string{LocaleEnglish, LocalePortuguese}

// Messages is an immutable message table for one locale.
type Messages struct {
	locale string
	table  map[Key]string
}

// Load resolves locale (any BCP 47 spelling, "pt_BR" included) and applies
// overrides. Override keys are matched case-insensitively since config
// loaders lower-case map keys. Unknown keys are rejected.
func Load(locale string, overrides map[string]string) (*Messages, error) {
	m, err := For(locale)
	if err != nil {
		return nil, err
	}
	return m.WithOverrides(overrides)
}

// For returns the built-in table of locale.
func For(locale string) (*Messages, error) {
	if locale == "" {
		locale = LocaleEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported locale %q (supported: %s)", locale, strings.Join(supported, ", "))
	}
	name := supported[idx]
	return &Messages{locale: name, table: tables[name]}, nil
}

// MustFor is For for the built-in locale names.
func MustFor(locale string) *Messages {
	m, err := For(locale)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Messages) WithOverrides(overrides map[string]string) (*Messages, error) {
	if len(overrides) == 0 {
		return m, nil
	}

	byLower := make(map[string]Key, len(m.table))
	for k := range m.table {
		byLower[strings.ToLower(string(k))] = k
	}

	next := make(map[Key]string, len(m.table))
	for k, v := range m.table {
		next[k] = v
	}

	var unknown []string
	for raw, value := range overrides {
		key, ok := byLower[strings.ToLower(raw)]
		if !ok {
			unknown = append(unknown, raw)
			continue
		}
		next[key] = value
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unrecognised message keys: %s", strings.Join(unknown, ", "))
	}
	return &Messages{locale: m.locale, table: next}, nil
}

func (m *Messages) Locale() string {
	return m.locale
}

// Get returns the message for key, or the key itself when it is missing.
func (m *Messages) Get(key Key) string {
	if m == nil {
		return english[key]
	}
	if v, ok := m.table[key]; ok {
		return v
	}
	return string(key)
}

func (m *Messages) Format(key Key, args ...any) string {
	return fmt.Sprintf(m.Get(key), args...)
}

// Keys lists the recognised keys in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(english))
	for k := range english {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func Locales() []string {
	return append([]string(nil), supported...)
}
