package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventFromDocLegacyDeptAlias(t *testing.T) {
	ev := EventFromDoc("4", map[string]any{"dept_id": "d9", "name": "Quiz"})
	assert.Equal(t, "d9", ev.DepartmentID)

	// Canonical field wins when both are present.
	ev = EventFromDoc("4", map[string]any{"department": "d1", "dept_id": "d9"})
	assert.Equal(t, "d1", ev.DepartmentID)
}

func TestEventFromDocStatusDefault(t *testing.T) {
	assert.Equal(t, EventStatusOpen, EventFromDoc("1", map[string]any{}).Status)
	assert.Equal(t, EventStatusClosed, EventFromDoc("1", map[string]any{"status": int64(0)}).Status)
	assert.Equal(t, EventStatusOpen, EventFromDoc("1", map[string]any{"status": float64(1)}).Status)
}

func TestParticipantRowFromDocAliases(t *testing.T) {
	row := ParticipantRowFromDoc(map[string]any{
		"name":          "Amy",
		"branch/Class":  "CSE-A",
		"transactionId": "tx1",
		"event":         "Hackathon",
		"department":    "CSE",
	})
	assert.Equal(t, "CSE-A", row.Branch)
	assert.Equal(t, "tx1", row.TransactionID)
	assert.Equal(t, "Hackathon", row.EventName)
	assert.Equal(t, "CSE", row.DeptName)

	row = ParticipantRowFromDoc(map[string]any{
		"branch":         "ECE-B",
		"transaction_id": "tx2",
	})
	assert.Equal(t, "ECE-B", row.Branch)
	assert.Equal(t, "tx2", row.TransactionID)
}

func TestParticipantRowFromDocMissingFieldsAreEmpty(t *testing.T) {
	row := ParticipantRowFromDoc(map[string]any{})
	assert.Equal(t, ParticipantRow{}, row)
}

func TestParticipantIdentity(t *testing.T) {
	assert.Equal(t, "amy@x.com",
		ParticipantIdentity(map[string]any{"email": " Amy@X.com "}, "doc1"))
	assert.Equal(t, "9999",
		ParticipantIdentity(map[string]any{"phone": "9999"}, "doc1"))
	assert.Equal(t, "doc1",
		ParticipantIdentity(map[string]any{}, "doc1"))
}

func TestStringFieldSkipsNonStrings(t *testing.T) {
	data := map[string]any{"a": 7, "b": "", "c": "hit"}
	assert.Equal(t, "hit", StringField(data, "a", "b", "c"))
	assert.Equal(t, "", StringField(data, "a", "b"))
}
