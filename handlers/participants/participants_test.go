package participants

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

// countingStore wraps a Store and counts WhereIn calls so tests can assert
// on query batching.
type countingStore struct {
	store.Store
	whereInCalls int
}

func (cs *countingStore) WhereIn(ctx context.Context, collection, field string, values []any) ([]store.Doc, error) {
	cs.whereInCalls++
	return cs.Store.WhereIn(ctx, collection, field, values)
}

func seedParticipant(t *testing.T, st store.Store, id string, data map[string]any) {
	t.Helper()
	_, err := st.Create(context.Background(), "participants", id, data)
	require.NoError(t, err)
}

func TestListDirectFiltersByDeptAndEventName(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedParticipant(t, st, "p1", map[string]any{"name": "Amy", "department": "CSE", "event": "Hackathon"})
	seedParticipant(t, st, "p2", map[string]any{"name": "Bob", "department": "CSE", "event": "Quiz"})
	seedParticipant(t, st, "p3", map[string]any{"name": "Cid", "department": "ECE", "event": "Hackathon"})

	rows, err := ListDirect(ctx, st, "CSE", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Amy", rows[0].Name)
	assert.Equal(t, "Bob", rows[1].Name)

	rows, err = ListDirect(ctx, st, "CSE", "Quiz")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0].Name)

	rows, err = ListDirect(ctx, st, "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestListDirectSortOrder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedParticipant(t, st, "p1", map[string]any{"name": "Zoe", "department": "B"})
	seedParticipant(t, st, "p2", map[string]any{"name": "Amy", "department": "A"})
	seedParticipant(t, st, "p3", map[string]any{"name": "Bob", "department": "A"})

	rows, err := ListDirect(ctx, st, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Amy", rows[0].Name)
	assert.Equal(t, "Bob", rows[1].Name)
	assert.Equal(t, "Zoe", rows[2].Name)
}

func TestSortRowsEventKeyOnlyWhenSelected(t *testing.T) {
	rows := []models.ParticipantRow{
		{DeptName: "A", EventName: "Zebra", Name: "Amy"},
		{DeptName: "A", EventName: "Alpha", Name: "Bob"},
	}
	// Without an event selector only (dept, name) is compared, so Amy
	// stays first despite her later event name.
	SortRows(rows, false)
	assert.Equal(t, "Amy", rows[0].Name)

	SortRows(rows, true)
	assert.Equal(t, "Bob", rows[0].Name)
}

func TestListRegistrationsBatchesInQueries(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	_, err := mem.Create(ctx, "departments", "d1", map[string]any{"name": "CSE"})
	require.NoError(t, err)
	for i := 1; i <= 15; i++ {
		id := strconv.Itoa(i)
		_, err := mem.Create(ctx, "events", id, map[string]any{
			"name": "Event " + id, "department": "d1",
		})
		require.NoError(t, err)
		_, err = mem.Create(ctx, "registrations", "r"+id, map[string]any{
			"event_id":    id,
			"participant": map[string]any{"name": "P" + id},
		})
		require.NoError(t, err)
	}

	cs := &countingStore{Store: mem}
	rows, err := ListRegistrations(ctx, cs, "d1", "")
	require.NoError(t, err)
	assert.Len(t, rows, 15)
	assert.Equal(t, 2, cs.whereInCalls, "15 event ids should need exactly 2 batched queries")

	got := map[string]bool{}
	for _, r := range rows {
		got[r.Name] = true
		assert.Equal(t, "CSE", r.DeptName)
	}
	for i := 1; i <= 15; i++ {
		assert.True(t, got["P"+strconv.Itoa(i)], "missing participant P%d", i)
	}
}

func TestListRegistrationsDropsUnresolvable(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_, err := st.Create(ctx, "departments", "d1", map[string]any{"name": "CSE"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "events", "1", map[string]any{"name": "Quiz", "department": "d1"})
	require.NoError(t, err)

	_, err = st.Create(ctx, "registrations", "ok", map[string]any{
		"event_id":    "1",
		"participant": map[string]any{"name": "Amy"},
	})
	require.NoError(t, err)
	_, err = st.Create(ctx, "registrations", "ghost", map[string]any{
		"event_id":       "1",
		"participant_id": "missing",
	})
	require.NoError(t, err)

	rows, err := ListRegistrations(ctx, st, "d1", "")
	require.NoError(t, err)
	require.Len(t, rows, 1, "the unresolvable registration is skipped, not an error")
	assert.Equal(t, "Amy", rows[0].Name)
	assert.Equal(t, "Quiz", rows[0].EventName)
	assert.Equal(t, "1", rows[0].EventID)
}

func TestListRegistrationsLegacyDeptKey(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_, err := st.Create(ctx, "departments", "d1", map[string]any{"name": "CSE"})
	require.NoError(t, err)
	// One event under the canonical key, one under the legacy key.
	_, err = st.Create(ctx, "events", "1", map[string]any{"name": "New", "department": "d1"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "events", "2", map[string]any{"name": "Old", "dept_id": "d1"})
	require.NoError(t, err)
	for _, eid := range []string{"1", "2"} {
		_, err = st.Create(ctx, "registrations", "r"+eid, map[string]any{
			"event_id":    eid,
			"participant": map[string]any{"name": "P" + eid},
		})
		require.NoError(t, err)
	}

	rows, err := ListRegistrations(ctx, st, "d1", "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListRegistrationsSingleEvent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_, err := st.Create(ctx, "events", "5", map[string]any{"name": "Gaming", "department": "d1"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "registrations", "r1", map[string]any{
		"event_id":       "5",
		"participant":    map[string]any{"name": "Amy"},
		"transaction_id": "tx42",
	})
	require.NoError(t, err)

	rows, err := ListRegistrations(ctx, st, "", "5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gaming", rows[0].EventName)
	assert.Equal(t, "tx42", rows[0].TransactionID)
	// No departments doc for d1, so the raw id shows through.
	assert.Equal(t, "d1", rows[0].DeptName)
}

func TestListRegistrationsNoScopeReturnsNothing(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	rows, err := ListRegistrations(ctx, st, "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
