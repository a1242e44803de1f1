package models

import (
	"strings"
	"time"
)

// ErrorResponse represents a generic error structure for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Event status values: events are open for registration or closed.
const (
	EventStatusClosed = 0
	EventStatusOpen   = 1
)

// Department is an organizing department of the festival.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	QRURL       string    `json:"qr_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is a festival event. DepartmentID is the canonical reference to the
// owning department; historical documents stored it under either
// "department" or "dept_id", and decoding accepts both.
type Event struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Venue        string `json:"venue"`
	ImageURL     string `json:"image_url"`
	PaymentQRURL string `json:"payment_qr_url"`
	Price        string `json:"price"`
	Prize        string `json:"prize"`
	Status       int    `json:"status"`
}

// ParticipantRow is a participant listing/export row. Missing source fields
// normalise to the empty string.
type ParticipantRow struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	College       string `json:"college"`
	Branch        string `json:"branch"`
	Year          string `json:"year"`
	EventName     string `json:"event_name"`
	DeptName      string `json:"dept_name"`
	EventID       string `json:"event_id"`
	TransactionID string `json:"transaction_id"`
}

// DepartmentFromDoc decodes a departments document.
func DepartmentFromDoc(id string, data map[string]any) Department {
	return Department{
		ID:          id,
		Name:        StringField(data, "name"),
		Description: StringField(data, "description"),
		LogoURL:     StringField(data, "logo_url"),
		QRURL:       StringField(data, "qr_url"),
		CreatedAt:   timeField(data, "created_at"),
	}
}

// EventFromDoc decodes an events document, folding the legacy "dept_id"
// alias into the canonical department reference.
func EventFromDoc(id string, data map[string]any) Event {
	return Event{
		ID:           id,
		DepartmentID: StringField(data, "department", "dept_id"),
		Name:         StringField(data, "name"),
		Description:  StringField(data, "description"),
		Date:         StringField(data, "date"),
		Time:         StringField(data, "time"),
		Venue:        StringField(data, "venue"),
		ImageURL:     StringField(data, "image_url"),
		PaymentQRURL: StringField(data, "payment_qr_url"),
		Price:        StringField(data, "price"),
		Prize:        StringField(data, "prize"),
		Status:       IntField(data, "status", EventStatusOpen),
	}
}

// ParticipantRowFromDoc decodes a flat participants document. These
// documents record the event and department as name strings and carry the
// historical "branch/Class" and "transactionId" spellings.
func ParticipantRowFromDoc(data map[string]any) ParticipantRow {
	return ParticipantRow{
		Name:          StringField(data, "name"),
		Email:         StringField(data, "email"),
		Phone:         StringField(data, "phone"),
		College:       StringField(data, "college"),
		Branch:        StringField(data, "branch/Class", "branch"),
		Year:          StringField(data, "year"),
		EventName:     StringField(data, "event"),
		DeptName:      StringField(data, "department"),
		TransactionID: StringField(data, "transactionId", "transaction_id"),
	}
}

// ParticipantIdentity derives the dedup key used for unique-participant
// counts: the first of email, phone, or document id, trimmed and
// lower-cased. The key is computed at read time, never stored.
func ParticipantIdentity(data map[string]any, docID string) string {
	ident := StringField(data, "email")
	if ident == "" {
		ident = StringField(data, "phone")
	}
	if ident == "" {
		ident = docID
	}
	return strings.ToLower(strings.TrimSpace(ident))
}

// StringField returns the first non-empty string stored under any of the
// given keys. Non-string values and missing keys read as "".
func StringField(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// IntField reads an integer field, tolerating the numeric types Firestore
// and JSON decoding produce.
func IntField(data map[string]any, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func timeField(data map[string]any, key string) time.Time {
	if t, ok := data[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}
