// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Roster events
	EventStudentRegistered EventType = "roster.student_registered"
	EventStudentUpdated    EventType = "roster.student_updated"
	EventStudentRemoved    EventType = "roster.student_removed"

	// Attendance events
	EventDayCommitted   EventType = "attendance.day_committed"
	EventPhoneCorrected EventType = "attendance.phone_corrected"

	// Transport events
	EventTransportSaved EventType = "transport.record_saved"

	// Report events
	EventDigestProduced EventType = "report.digest_produced"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Roster Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a new student enters the roster.
type StudentRegisteredEvent struct {
	BaseEvent
	Name  string `json:"name"`
	Grade string `json:"grade"`
	Class string `json:"class"`
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":  e.Name,
		"grade": e.Grade,
		"class": e.Class,
	}
}

// NewStudentRegisteredEvent creates the event.
func NewStudentRegisteredEvent(studentID, name, grade, class string) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent: NewBaseEvent(EventStudentRegistered, studentID),
		Name:      name,
		Grade:     grade,
		Class:     class,
	}
}

// StudentUpdatedEvent is emitted when roster attributes change.
type StudentUpdatedEvent struct {
	BaseEvent
	ChangedFields []string `json:"changed_fields"`
}

// Payload implements Event interface.
func (e StudentUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"changed_fields": e.ChangedFields,
	}
}

// NewStudentUpdatedEvent creates the event.
func NewStudentUpdatedEvent(studentID string, changed []string) StudentUpdatedEvent {
	return StudentUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventStudentUpdated, studentID),
		ChangedFields: changed,
	}
}

// StudentRemovedEvent is emitted when a student leaves the roster.
// Historical attendance records are kept; only the roster entry goes away.
type StudentRemovedEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// Payload implements Event interface.
func (e StudentRemovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name": e.Name,
	}
}

// NewStudentRemovedEvent creates the event.
func NewStudentRemovedEvent(studentID, name string) StudentRemovedEvent {
	return StudentRemovedEvent{
		BaseEvent: NewBaseEvent(EventStudentRemoved, studentID),
		Name:      name,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Attendance Events
// ═══════════════════════════════════════════════════════════════════════════

// DayCommittedEvent is emitted after a whole attendance day has been
// replaced atomically. The aggregate ID is the committed day (YYYY-MM-DD).
type DayCommittedEvent struct {
	BaseEvent
	Day         string `json:"day"`
	RecordCount int    `json:"record_count"`
	AbsentCount int    `json:"absent_count"`
}

// Payload implements Event interface.
func (e DayCommittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"day":          e.Day,
		"record_count": e.RecordCount,
		"absent_count": e.AbsentCount,
	}
}

// NewDayCommittedEvent creates the event.
func NewDayCommittedEvent(day string, recordCount, absentCount int) DayCommittedEvent {
	return DayCommittedEvent{
		BaseEvent:   NewBaseEvent(EventDayCommitted, day),
		Day:         day,
		RecordCount: recordCount,
		AbsentCount: absentCount,
	}
}

// PhoneCorrectedEvent is emitted after a phone back-fill propagated a new
// phone number across a student's historical records.
type PhoneCorrectedEvent struct {
	BaseEvent
	Phone          string `json:"phone"`
	RecordsTouched int    `json:"records_touched"`
}

// Payload implements Event interface.
func (e PhoneCorrectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"phone":           e.Phone,
		"records_touched": e.RecordsTouched,
	}
}

// NewPhoneCorrectedEvent creates the event.
func NewPhoneCorrectedEvent(studentID, phone string, touched int) PhoneCorrectedEvent {
	return PhoneCorrectedEvent{
		BaseEvent:      NewBaseEvent(EventPhoneCorrected, studentID),
		Phone:          phone,
		RecordsTouched: touched,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Transport Events
// ═══════════════════════════════════════════════════════════════════════════

// TransportSavedEvent is emitted after a transport record replace+merge.
type TransportSavedEvent struct {
	BaseEvent
	Route string `json:"route"`
}

// Payload implements Event interface.
func (e TransportSavedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"route": e.Route,
	}
}

// NewTransportSavedEvent creates the event.
func NewTransportSavedEvent(studentID, route string) TransportSavedEvent {
	return TransportSavedEvent{
		BaseEvent: NewBaseEvent(EventTransportSaved, studentID),
		Route:     route,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Report Events
// ═══════════════════════════════════════════════════════════════════════════

// DigestProducedEvent is emitted after the nightly digest job exported the
// day's absence report. The aggregate ID is the digest day (YYYY-MM-DD).
type DigestProducedEvent struct {
	BaseEvent
	Day         string `json:"day"`
	AbsentCount int    `json:"absent_count"`
}

// Payload implements Event interface.
func (e DigestProducedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"day":          e.Day,
		"absent_count": e.AbsentCount,
	}
}

// NewDigestProducedEvent creates the event.
func NewDigestProducedEvent(day string, absentCount int) DigestProducedEvent {
	return DigestProducedEvent{
		BaseEvent:   NewBaseEvent(EventDigestProduced, day),
		Day:         day,
		AbsentCount: absentCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
