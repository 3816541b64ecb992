package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeCreated = "employee.created"
	EventTypeEmployeeUpdated = "employee.updated"
	EventTypeEmployeeDeleted = "employee.deleted"
	EventTypeSessionRevoked  = "session.revoked"
)

type EmployeeChangedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
}

func newEmployeeEvent(eventType, employeeID string) *EmployeeChangedEvent {
	return &EmployeeChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
			},
		},
		EmployeeID: employeeID,
	}
}

func NewEmployeeCreatedEvent(employeeID string) *EmployeeChangedEvent {
	return newEmployeeEvent(EventTypeEmployeeCreated, employeeID)
}

func NewEmployeeUpdatedEvent(employeeID string) *EmployeeChangedEvent {
	return newEmployeeEvent(EventTypeEmployeeUpdated, employeeID)
}

func NewEmployeeDeletedEvent(employeeID string) *EmployeeChangedEvent {
	return newEmployeeEvent(EventTypeEmployeeDeleted, employeeID)
}

type SessionRevokedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

func NewSessionRevokedEvent(sessionID, userID string) *SessionRevokedEvent {
	return &SessionRevokedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSessionRevoked,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"session_id": sessionID,
				"user_id":    userID,
			},
		},
		SessionID: sessionID,
		UserID:    userID,
	}
}
