package employee

import "time"

type HistoryEntry struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

type Employee struct {
	ID                string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	FirstName         string         `gorm:"column:first_name;not null"`
	LastName          string         `gorm:"column:last_name;not null"`
	JobTitle          string         `gorm:"column:job_title"`
	Department        string         `gorm:"column:department"`
	Address           string         `gorm:"column:address"`
	Phone             string         `gorm:"column:phone"`
	Email             string         `gorm:"column:email"`
	Nationality       string         `gorm:"column:nationality"`
	BirthDate         string         `gorm:"column:birth_date"`
	AdmissionDate     string         `gorm:"column:admission_date"`
	Salary            string         `gorm:"column:salary"`
	ProfilePictureURL *string        `gorm:"column:profile_picture_url"`
	IsTerminated      bool           `gorm:"column:is_terminated;not null"`
	History           []HistoryEntry `gorm:"column:history;type:text;serializer:json"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
