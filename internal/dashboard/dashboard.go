// Package dashboard keeps the per-session view state of the employee
// dashboard: the sorted list, the promote modal, the edit form draft and
// the last notice. Every successful mutation re-reads the whole list from
// the record store.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
)

// DefaultAvatarURL is shown for employees without a profile picture.
const DefaultAvatarURL = "/images/default-avatar.png"

var ErrNoDraft = internal.NewValidationError("No edit form is open", internal.ErrCodeNoDraft)

// EmployeeStore is the record store as the dashboard uses it.
type EmployeeStore interface {
	List(ctx context.Context) ([]*employee.Employee, error)
	Get(ctx context.Context, id string) (*employee.Employee, error)
	Create(ctx context.Context, draft *employee.Draft) (string, error)
	Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error)
	Replace(ctx context.Context, id string, draft *employee.Draft) (*employee.Employee, error)
	Delete(ctx context.Context, id string) error
}

// PictureUploader stores a profile picture and returns its download URL.
type PictureUploader interface {
	UploadProfilePicture(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the message shown after an action.
type Notice struct {
	Level   NoticeLevel        `json:"level"`
	Message string             `json:"message"`
	Kind    internal.ErrorType `json:"kind,omitempty"`
	Detail  string             `json:"detail,omitempty"`
}

// Card is one employee tile on the dashboard.
type Card struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Name             string `json:"name"`
	JobTitle         string `json:"jobTitle"`
	Department       string `json:"department"`
	AvatarURL        string `json:"avatarUrl"`
	IsTerminated     bool   `json:"isTerminated"`
	TerminatedMarker string `json:"terminatedMarker,omitempty"`
}

// PromoteModal is the open promote dialog, prefilled from the record.
type PromoteModal struct {
	EmployeeID      string          `json:"employeeId"`
	Title           string          `json:"title"`
	Position        string          `json:"position"`
	Department      string          `json:"department"`
	Salary          employee.Salary `json:"salary"`
	PositionLabel   string          `json:"positionLabel"`
	DepartmentLabel string          `json:"departmentLabel"`
	SalaryLabel     string          `json:"salaryLabel"`
	SubmitLabel     string          `json:"submitLabel"`
}

func (m *PromoteModal) Promotion() employee.Promotion {
	return employee.Promotion{Position: m.Position, Department: m.Department, Salary: m.Salary}
}

// EditForm is the open edit page. ID is empty while registering a new
// employee. Labels maps each draft field to its caption.
type EditForm struct {
	EmployeeID     string            `json:"employeeId"`
	Draft          *employee.Draft   `json:"draft"`
	PendingPicture string            `json:"pendingPicture,omitempty"`
	Labels         map[string]string `json:"labels,omitempty"`
}

var formFields = []struct {
	field string
	key   i18n.Key
}{
	{"firstName", i18n.FieldFirstName},
	{"lastName", i18n.FieldLastName},
	{"jobTitle", i18n.FieldJobTitle},
	{"department", i18n.FieldDepartment},
	{"address", i18n.FieldAddress},
	{"phone", i18n.FieldPhone},
	{"email", i18n.FieldEmail},
	{"nationality", i18n.FieldNationality},
	{"birthDate", i18n.FieldBirthDate},
	{"admissionDate", i18n.FieldAdmissionDate},
	{"salary", i18n.FieldSalary},
	{"profilePictureUrl", i18n.FieldProfilePictureURL},
	{"isTerminated", i18n.FieldIsTerminated},
}

// FormLabels returns the captions of the edit and registration form,
// keyed by draft field name.
func FormLabels(msgs *i18n.Messages) map[string]string {
	labels := make(map[string]string, len(formFields))
	for _, f := range formFields {
		labels[f.field] = msgs.Get(f.key)
	}
	return labels
}

// View is a read-only snapshot of the controller.
type View struct {
	State       State         `json:"state"`
	Title       string        `json:"title"`
	Cards       []Card        `json:"cards"`
	Modal       *PromoteModal `json:"modal,omitempty"`
	Edit        *EditForm     `json:"edit,omitempty"`
	Notice      *Notice       `json:"notice,omitempty"`
	InFlight    []string      `json:"inFlight,omitempty"`
	RefreshedAt *time.Time    `json:"refreshedAt,omitempty"`
}

// SortEmployees orders active employees before terminated ones, then by
// last name, first name and id.
func SortEmployees(list []*employee.Employee) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.IsTerminated != b.IsTerminated {
			return !a.IsTerminated
		}
		if c := compareFold(a.LastName, b.LastName); c != 0 {
			return c < 0
		}
		if c := compareFold(a.FirstName, b.FirstName); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// NewCard builds the tile of e.
func NewCard(e *employee.Employee, msgs *i18n.Messages) Card {
	c := Card{
		ID:           e.ID,
		Title:        CardTitle(e),
		Name:         e.FullName(),
		JobTitle:     e.JobTitle,
		Department:   e.Department,
		AvatarURL:    DefaultAvatarURL,
		IsTerminated: e.IsTerminated,
	}
	if e.ProfilePictureURL != nil && *e.ProfilePictureURL != "" {
		c.AvatarURL = *e.ProfilePictureURL
	}
	if e.IsTerminated {
		c.TerminatedMarker = msgs.Get(i18n.DashboardTerminatedMarker)
	}
	return c
}

// CardTitle joins name, job title and department with the card separator.
func CardTitle(e *employee.Employee) string {
	return fmt.Sprintf("%s — %s — %s", e.FullName(), e.JobTitle, e.Department)
}
