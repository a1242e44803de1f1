package participants

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nosij-playz/Tantra-backend/handlers/departments"
	"github.com/nosij-playz/Tantra-backend/handlers/events"
	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

// ListDirect streams the flat participants collection and filters in memory
// by department name and event name. Both filters are optional; event names
// are compared as literal strings, matching how these documents were
// written.
func ListDirect(ctx context.Context, st store.Store, deptName, eventName string) ([]models.ParticipantRow, error) {
	docs, err := st.All(ctx, "participants")
	if err != nil {
		return nil, err
	}
	rows := make([]models.ParticipantRow, 0, len(docs))
	for _, d := range docs {
		row := models.ParticipantRowFromDoc(d.Data)
		if deptName != "" && row.DeptName != deptName {
			continue
		}
		if eventName != "" && row.EventName != eventName {
			continue
		}
		rows = append(rows, row)
	}
	SortRows(rows, eventName != "")
	return rows, nil
}

// ListRegistrations collects participants through the registrations
// collection, keyed by event id. Event ids for the department are gathered
// first, then registrations are fetched with 'in' queries batched at the
// store's 10-value limit. Registrations that resolve to no participant are
// dropped.
func ListRegistrations(ctx context.Context, st store.Store, deptID, eventID string) ([]models.ParticipantRow, error) {
	var eventDocs []store.Doc
	switch {
	case eventID != "":
		doc, err := st.Get(ctx, "events", eventID)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			eventDocs = []store.Doc{*doc}
		}
	case deptID != "":
		var err error
		eventDocs, err = events.ByDepartmentDocs(ctx, st, deptID)
		if err != nil {
			return nil, err
		}
	}
	if len(eventDocs) == 0 {
		return nil, nil
	}

	eventMap := make(map[string]models.Event, len(eventDocs))
	ids := make([]any, 0, len(eventDocs))
	for _, d := range eventDocs {
		eventMap[d.ID] = models.EventFromDoc(d.ID, d.Data)
		ids = append(ids, d.ID)
	}
	deptNames := departments.NameMap(ctx, st)

	var rows []models.ParticipantRow
	for start := 0; start < len(ids); start += store.MaxInValues {
		end := start + store.MaxInValues
		if end > len(ids) {
			end = len(ids)
		}
		regs, err := st.WhereIn(ctx, "registrations", "event_id", ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, reg := range regs {
			p, err := Resolve(ctx, st, reg.Data)
			if err != nil {
				log.Warn().Err(err).Str("registration", reg.ID).Msg("participant lookup failed")
				continue
			}
			if p == nil {
				continue
			}
			regEventID := models.StringField(reg.Data, "event_id")
			ev := eventMap[regEventID]
			deptName := deptNames[ev.DepartmentID]
			if deptName == "" {
				deptName = ev.DepartmentID
			}
			row := models.ParticipantRowFromDoc(p)
			row.EventName = ev.Name
			row.DeptName = deptName
			row.EventID = regEventID
			row.TransactionID = models.StringField(reg.Data, "transaction_id")
			rows = append(rows, row)
		}
	}

	SortRows(rows, eventID != "")
	return rows, nil
}

// SortRows orders rows ascending by department name then participant name,
// case-sensitive. When byEvent is set the event name slots in between, for
// listings scoped to a chosen event.
func SortRows(rows []models.ParticipantRow, byEvent bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DeptName != b.DeptName {
			return a.DeptName < b.DeptName
		}
		if byEvent && a.EventName != b.EventName {
			return a.EventName < b.EventName
		}
		return a.Name < b.Name
	})
}

// deptNameByID translates a department document id into its display name.
// Unknown or missing ids return "", which listings treat as "no filter".
func deptNameByID(ctx context.Context, st store.Store, deptID string) string {
	if deptID == "" {
		return ""
	}
	doc, err := st.Get(ctx, "departments", deptID)
	if err != nil || doc == nil {
		return ""
	}
	return models.StringField(doc.Data, "name")
}

// View - GET /view_participants?dept_id=&event_id=
// Direct-mode participant listing plus the dropdown data the admin page
// needs. The event_id query parameter carries an event *name* in this
// dataset and is filtered literally.
func View(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptID := c.Query("dept_id")
		eventSelector := c.Query("event_id")

		deptName := deptNameByID(c.Context(), st, deptID)
		rows, err := ListDirect(c.Context(), st, deptName, eventSelector)
		if err != nil {
			return err
		}

		deptDocs, err := st.All(c.Context(), "departments")
		if err != nil {
			return err
		}
		depts := make([]models.Department, 0, len(deptDocs))
		for _, d := range deptDocs {
			depts = append(depts, models.DepartmentFromDoc(d.ID, d.Data))
		}

		var eventDocs []store.Doc
		if deptID != "" {
			eventDocs, err = events.ByDepartmentDocs(c.Context(), st, deptID)
		} else {
			eventDocs, err = st.All(c.Context(), "events")
		}
		if err != nil {
			return err
		}
		eventNames := make([]string, 0, len(eventDocs))
		for _, e := range eventDocs {
			eventNames = append(eventNames, models.StringField(e.Data, "name"))
		}

		return c.JSON(fiber.Map{
			"participants":      rows,
			"departments":       depts,
			"selected_dept_id":  deptID,
			"selected_event_id": eventSelector,
			"events_for_select": eventNames,
		})
	}
}

// ViewRegistrations - GET /view_registrations?dept_id=&event_id=
// Registration-mode listing for deployments that record sign-ups in the
// registrations collection instead of flat participant documents.
func ViewRegistrations(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := ListRegistrations(c.Context(), st, c.Query("dept_id"), c.Query("event_id"))
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []models.ParticipantRow{}
		}
		return c.JSON(fiber.Map{"participants": rows})
	}
}
