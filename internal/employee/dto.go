package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/common/validation"
)

// Attachment is a file picked in a form that has not been uploaded yet.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Draft is the transient form state for registering or editing an employee.
// It is never persisted partially.
type Draft struct {
	FirstName         string         `json:"firstName"`
	LastName          string         `json:"lastName"`
	JobTitle          string         `json:"jobTitle"`
	Department        string         `json:"department"`
	Address           string         `json:"address"`
	Phone             string         `json:"phone"`
	Email             string         `json:"email"`
	Nationality       string         `json:"nationality"`
	BirthDate         string         `json:"birthDate"`
	AdmissionDate     string         `json:"admissionDate"`
	Salary            Salary         `json:"salary"`
	ProfilePictureURL *string        `json:"profilePictureUrl,omitempty"`
	IsTerminated      bool           `json:"isTerminated"`
	History           []HistoryEntry `json:"history,omitempty"`

	ProfilePicture *Attachment `json:"-"`
}

func (d *Draft) Validate() error {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("jobTitle", d.JobTitle).Required().MaxLength(150)
	v.Field("department", d.Department).Required().MaxLength(150)
	v.Field("email", d.Email).Email()
	v.Field("birthDate", d.BirthDate).Date().NotFuture()
	v.Field("admissionDate", d.AdmissionDate).Required().Date()
	v.Field("salary", string(d.Salary)).Required().NonNegativeNumber()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToEmployee copies the persisted fields; the attachment is dropped.
func (d *Draft) ToEmployee() *Employee {
	e := &Employee{
		FirstName:     strings.TrimSpace(d.FirstName),
		LastName:      strings.TrimSpace(d.LastName),
		JobTitle:      strings.TrimSpace(d.JobTitle),
		Department:    strings.TrimSpace(d.Department),
		Address:       d.Address,
		Phone:         d.Phone,
		Email:         strings.TrimSpace(d.Email),
		Nationality:   d.Nationality,
		BirthDate:     strings.TrimSpace(d.BirthDate),
		AdmissionDate: strings.TrimSpace(d.AdmissionDate),
		Salary:        d.Salary,
		IsTerminated:  d.IsTerminated,
		History:       append([]HistoryEntry{}, d.History...),
	}
	if d.ProfilePictureURL != nil {
		u := *d.ProfilePictureURL
		e.ProfilePictureURL = &u
	}
	return e
}

func DraftFromEmployee(e *Employee) *Draft {
	d := &Draft{
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		JobTitle:      e.JobTitle,
		Department:    e.Department,
		Address:       e.Address,
		Phone:         e.Phone,
		Email:         e.Email,
		Nationality:   e.Nationality,
		BirthDate:     e.BirthDate,
		AdmissionDate: e.AdmissionDate,
		Salary:        e.Salary,
		IsTerminated:  e.IsTerminated,
		History:       append([]HistoryEntry{}, e.History...),
	}
	if e.ProfilePictureURL != nil {
		u := *e.ProfilePictureURL
		d.ProfilePictureURL = &u
	}
	return d
}

// Set assigns one form field by its document key.
func (d *Draft) Set(field, value string) error {
	switch field {
	case "firstName":
		d.FirstName = value
	case "lastName":
		d.LastName = value
	case "jobTitle":
		d.JobTitle = value
	case "department":
		d.Department = value
	case "address":
		d.Address = value
	case "phone":
		d.Phone = value
	case "email":
		d.Email = value
	case "nationality":
		d.Nationality = value
	case "birthDate":
		d.BirthDate = value
	case "admissionDate":
		d.AdmissionDate = value
	case "salary":
		d.Salary = Salary(strings.TrimSpace(value))
	case "isTerminated":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return internal.NewValidationFieldError(field, "isTerminated must be true or false", internal.ErrCodeValidationFailed)
		}
		d.IsTerminated = b
	default:
		return internal.NewValidationFieldError(field, fmt.Sprintf("unknown field %q", field), internal.ErrCodeUnknownField)
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched. AppendHistory is
// only set by the service layer.
type Patch struct {
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	JobTitle          *string `json:"jobTitle,omitempty"`
	Department        *string `json:"department,omitempty"`
	Address           *string `json:"address,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Email             *string `json:"email,omitempty"`
	Nationality       *string `json:"nationality,omitempty"`
	BirthDate         *string `json:"birthDate,omitempty"`
	AdmissionDate     *string `json:"admissionDate,omitempty"`
	Salary            *Salary `json:"salary,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	IsTerminated      *bool   `json:"isTerminated,omitempty"`

	AppendHistory []HistoryEntry `json:"-"`
}

func (p *Patch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

func (p *Patch) Validate() error {
	if p.IsEmpty() {
		return internal.NewValidationError("Nothing to update", internal.ErrCodeEmptyPatch)
	}
	v := validation.NewValidator()
	if p.FirstName != nil {
		v.Field("firstName", *p.FirstName).Required().MaxLength(100)
	}
	if p.LastName != nil {
		v.Field("lastName", *p.LastName).Required().MaxLength(100)
	}
	if p.JobTitle != nil {
		v.Field("jobTitle", *p.JobTitle).Required().MaxLength(150)
	}
	if p.Department != nil {
		v.Field("department", *p.Department).Required().MaxLength(150)
	}
	if p.Email != nil {
		v.Field("email", *p.Email).Email()
	}
	if p.BirthDate != nil {
		v.Field("birthDate", *p.BirthDate).Date().NotFuture()
	}
	if p.AdmissionDate != nil {
		v.Field("admissionDate", *p.AdmissionDate).Required().Date()
	}
	if p.Salary != nil {
		v.Field("salary", string(*p.Salary)).Required().NonNegativeNumber()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Apply merges the patch into e in place.
func (p *Patch) Apply(e *Employee) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&e.FirstName, p.FirstName)
	setString(&e.LastName, p.LastName)
	setString(&e.JobTitle, p.JobTitle)
	setString(&e.Department, p.Department)
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	setString(&e.Email, p.Email)
	if p.Nationality != nil {
		e.Nationality = *p.Nationality
	}
	setString(&e.BirthDate, p.BirthDate)
	setString(&e.AdmissionDate, p.AdmissionDate)
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.ProfilePictureURL != nil {
		u := *p.ProfilePictureURL
		e.ProfilePictureURL = &u
	}
	if p.IsTerminated != nil {
		e.IsTerminated = *p.IsTerminated
	}
	if len(p.AppendHistory) > 0 {
		e.History = append(e.History, p.AppendHistory...)
	}
}

// Columns lists the storage columns the patch touches.
func (p *Patch) Columns() []string {
	var cols []string
	add := func(set bool, col string) {
		if set {
			cols = append(cols, col)
		}
	}
	add(p.FirstName != nil, "first_name")
	add(p.LastName != nil, "last_name")
	add(p.JobTitle != nil, "job_title")
	add(p.Department != nil, "department")
	add(p.Address != nil, "address")
	add(p.Phone != nil, "phone")
	add(p.Email != nil, "email")
	add(p.Nationality != nil, "nationality")
	add(p.BirthDate != nil, "birth_date")
	add(p.AdmissionDate != nil, "admission_date")
	add(p.Salary != nil, "salary")
	add(p.ProfilePictureURL != nil, "profile_picture_url")
	add(p.IsTerminated != nil, "is_terminated")
	add(len(p.AppendHistory) > 0, "history")
	return cols
}

// Promotion is the payload of the promote action.
type Promotion struct {
	Position   string `json:"position"`
	Department string `json:"department"`
	Salary     Salary `json:"salary"`
}

func (p *Promotion) Validate() error {
	v := validation.NewValidator()
	v.Field("position", p.Position).Required().MaxLength(150)
	v.Field("department", p.Department).Required().MaxLength(150)
	v.Field("salary", string(p.Salary)).Required().NonNegativeNumber()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Patch turns the promotion into an update that also records it in history.
func (p *Promotion) Patch(at time.Time) Patch {
	title := strings.TrimSpace(p.Position)
	dept := strings.TrimSpace(p.Department)
	salary := Salary(strings.TrimSpace(string(p.Salary)))
	return Patch{
		JobTitle:      &title,
		Department:    &dept,
		Salary:        &salary,
		AppendHistory: []HistoryEntry{NewHistoryEntry(at, fmt.Sprintf("Promoted to %s (%s)", title, dept))},
	}
}

func TerminationPatch(at time.Time) Patch {
	terminated := true
	return Patch{
		IsTerminated:  &terminated,
		AppendHistory: []HistoryEntry{NewHistoryEntry(at, HistoryEventTerminated)},
	}
}
