package events

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nosij-playz/Tantra-backend/handlers/departments"
	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
	"github.com/nosij-playz/Tantra-backend/uploads"
)

// ByDepartmentDocs returns all event documents belonging to a department.
// Old documents referenced the department under "dept_id" instead of
// "department", so both fields are queried and the union deduped. The
// canonical field wins: a legacy match whose decoded department now points
// elsewhere (a reassigned event) is not ours.
func ByDepartmentDocs(ctx context.Context, st store.Store, deptID string) ([]store.Doc, error) {
	primary, err := st.Where(ctx, "events", "department", deptID, 0)
	if err != nil {
		return nil, err
	}
	legacy, err := st.Where(ctx, "events", "dept_id", deptID, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(primary))
	out := primary
	for _, d := range primary {
		seen[d.ID] = struct{}{}
	}
	for _, d := range legacy {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		if models.EventFromDoc(d.ID, d.Data).DepartmentID != deptID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ByDepartment - GET /dept_events/:dept_id
// Returns a department's events as JSON. Store errors degrade to an empty
// list rather than failing the request.
func ByDepartment(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptID := c.Params("dept_id")
		if deptID == "" {
			return c.JSON(fiber.Map{"events": []models.Event{}})
		}
		docs, err := ByDepartmentDocs(c.Context(), st, deptID)
		if err != nil {
			log.Warn().Err(err).Str("dept_id", deptID).Msg("listing department events failed")
			return c.JSON(fiber.Map{"events": []models.Event{}})
		}
		out := make([]models.Event, 0, len(docs))
		for _, d := range docs {
			out = append(out, models.EventFromDoc(d.ID, d.Data))
		}
		return c.JSON(fiber.Map{"events": out, "dept_id": deptID})
	}
}

// Get - GET /event/:event_id
func Get(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID := c.Params("event_id")
		if eventID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "missing id"})
		}
		doc, err := st.Get(c.Context(), "events", eventID)
		if err != nil {
			return err
		}
		if doc == nil {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "not found"})
		}
		return c.JSON(fiber.Map{"event": models.EventFromDoc(doc.ID, doc.Data)})
	}
}

// Create - POST /add_event
// Multipart form: dept_id, name, description, date, time, venue, status,
// price, prize, optional event_image upload. The department's payment QR is
// copied onto the event, and the human-visible sequential id comes from the
// store's atomic counter.
func Create(st store.Store, up *uploads.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptID := c.FormValue("dept_id")
		name := strings.TrimSpace(c.FormValue("name"))
		if deptID == "" || name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "dept_id and name are required")
		}

		imageURL, err := up.Save(c, "event_image", uploads.EventImageFolder)
		if err != nil {
			return err
		}

		paymentQR := ""
		if dept, err := st.Get(c.Context(), "departments", deptID); err == nil && dept != nil {
			paymentQR = models.StringField(dept.Data, "qr_url")
		}

		status := models.EventStatusOpen
		if v, err := strconv.Atoi(c.FormValue("status", "1")); err == nil {
			status = v
		}

		id, err := nextEventID(c.Context(), st)
		if err != nil {
			return err
		}

		if _, err := st.Create(c.Context(), "events", strconv.FormatInt(id, 10), map[string]any{
			"id":             id,
			"department":     deptID,
			"name":           name,
			"description":    c.FormValue("description"),
			"date":           c.FormValue("date"),
			"time":           c.FormValue("time"),
			"venue":          c.FormValue("venue"),
			"image_url":      imageURL,
			"payment_qr_url": paymentQR,
			"price":          c.FormValue("price"),
			"prize":          c.FormValue("prize"),
			"status":         status,
			"created_at":     store.ServerTimestamp,
		}); err != nil {
			return err
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// nextEventID allocates the next sequential event id. The counter lives in
// its own document and is incremented transactionally; on first use it is
// seeded past the highest numeric id already present, so pre-counter data
// keeps its numbering.
func nextEventID(ctx context.Context, st store.Store) (int64, error) {
	seed := int64(1)
	counter, err := st.Get(ctx, "counters", "events")
	if err != nil {
		return 0, err
	}
	if counter == nil {
		docs, err := st.All(ctx, "events")
		if err != nil {
			return 0, err
		}
		var max int64
		for _, d := range docs {
			if n, err := strconv.ParseInt(d.ID, 10, 64); err == nil && n > max {
				max = n
			}
		}
		seed = max + 1
	}
	return st.NextSequence(ctx, "events", seed)
}

// ToggleStatus - POST /toggle_event_status
// Flips an event between open (1) and closed (0). Unknown ids fall through
// to the dashboard without error.
func ToggleStatus(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID := c.FormValue("event_id")
		if eventID == "" {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		doc, err := st.Get(c.Context(), "events", eventID)
		if err != nil {
			return err
		}
		if doc == nil {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		next := models.EventStatusClosed
		if models.IntField(doc.Data, "status", models.EventStatusOpen) == models.EventStatusClosed {
			next = models.EventStatusOpen
		}
		if err := st.Update(c.Context(), "events", eventID, map[string]any{"status": next}); err != nil {
			return err
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// DBContent - GET /db_content
// Returns every department with the events that reference it.
func DBContent(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptDocs, err := st.All(c.Context(), "departments")
		if err != nil {
			return err
		}
		type deptContent struct {
			models.Department
			Events []models.Event `json:"events"`
		}
		out := make([]deptContent, 0, len(deptDocs))
		for _, d := range deptDocs {
			evDocs, err := ByDepartmentDocs(c.Context(), st, d.ID)
			if err != nil {
				return err
			}
			evs := make([]models.Event, 0, len(evDocs))
			for _, e := range evDocs {
				evs = append(evs, models.EventFromDoc(e.ID, e.Data))
			}
			out = append(out, deptContent{Department: models.DepartmentFromDoc(d.ID, d.Data), Events: evs})
		}
		return c.JSON(fiber.Map{"data": out})
	}
}

// Orphans - GET /fix_events
// Lists events whose department reference is missing or points at no known
// department, for manual reassignment.
func Orphans(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptMap := departments.NameMap(c.Context(), st)
		docs, err := st.All(c.Context(), "events")
		if err != nil {
			return err
		}
		orphaned := make([]models.Event, 0)
		for _, d := range docs {
			ev := models.EventFromDoc(d.ID, d.Data)
			if _, known := deptMap[ev.DepartmentID]; ev.DepartmentID == "" || !known {
				orphaned = append(orphaned, ev)
			}
		}
		return c.JSON(fiber.Map{"events": orphaned})
	}
}

// Reassign - POST /fix_events
// Moves an event to a department, always writing the canonical field.
func Reassign(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID := c.FormValue("event_id")
		deptID := c.FormValue("dept_id")
		if eventID == "" || deptID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "event_id and dept_id are required")
		}
		if err := st.Update(c.Context(), "events", eventID, map[string]any{"department": deptID}); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Updated event department."})
	}
}
