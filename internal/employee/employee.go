package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	employeeDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/employee"
)

var ErrEmployeeNotFound = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)

const (
	HistoryEventTerminated = "Terminated"
	historyDateLayout      = "2006-01-02"
)

// Salary is kept as text. It decodes from either a JSON number or a string
// since clients send both.
type Salary string

func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Salary(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("salary must be a number or a string: %w", err)
	}
	*s = Salary(n.String())
	return nil
}

func (s Salary) String() string {
	return string(s)
}

// Float parses the salary; ok is false when it is empty or not numeric.
func (s Salary) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	return f, err == nil
}

type HistoryEntry struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

func NewHistoryEntry(at time.Time, event string) HistoryEntry {
	return HistoryEntry{Date: at.Format(historyDateLayout), Event: event}
}

type Employee struct {
	ID                string         `json:"id"`
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
	ProfilePictureURL *string        `json:"profilePictureUrl"`
	IsTerminated      bool           `json:"isTerminated"`
	History           []HistoryEntry `json:"history"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Clone returns a deep copy so callers can hand out records without sharing
// the history slice or picture pointer.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	cp := *e
	if e.ProfilePictureURL != nil {
		u := *e.ProfilePictureURL
		cp.ProfilePictureURL = &u
	}
	cp.History = append([]HistoryEntry{}, e.History...)
	return &cp
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	history := make([]employeeDatamodel.HistoryEntry, len(e.History))
	for i, h := range e.History {
		history[i] = employeeDatamodel.HistoryEntry{Date: h.Date, Event: h.Event}
	}
	return &employeeDatamodel.Employee{
		ID:                e.ID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		JobTitle:          e.JobTitle,
		Department:        e.Department,
		Address:           e.Address,
		Phone:             e.Phone,
		Email:             e.Email,
		Nationality:       e.Nationality,
		BirthDate:         e.BirthDate,
		AdmissionDate:     e.AdmissionDate,
		Salary:            string(e.Salary),
		ProfilePictureURL: e.ProfilePictureURL,
		IsTerminated:      e.IsTerminated,
		History:           history,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	history := make([]HistoryEntry, len(e.History))
	for i, h := range e.History {
		history[i] = HistoryEntry{Date: h.Date, Event: h.Event}
	}
	return &Employee{
		ID:                e.ID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		JobTitle:          e.JobTitle,
		Department:        e.Department,
		Address:           e.Address,
		Phone:             e.Phone,
		Email:             e.Email,
		Nationality:       e.Nationality,
		BirthDate:         e.BirthDate,
		AdmissionDate:     e.AdmissionDate,
		Salary:            Salary(e.Salary),
		ProfilePictureURL: e.ProfilePictureURL,
		IsTerminated:      e.IsTerminated,
		History:           history,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
