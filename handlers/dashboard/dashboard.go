package dashboard

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

// RecentEvent is a dashboard line item: the event plus its department's
// display name.
type RecentEvent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DeptID   string `json:"dept_id"`
	DeptName string `json:"dept_name"`
	Date     string `json:"date"`
	Status   int    `json:"status"`
}

// DepartmentSummary is the short department listing on the dashboard.
type DepartmentSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// Summary carries the dashboard counts and lists.
type Summary struct {
	TotalDepartments        int                 `json:"total_departments"`
	TotalEvents             int                 `json:"total_events"`
	TotalRegistrations      int                 `json:"total_registrations"`
	TotalUniqueParticipants int                 `json:"total_unique_participants"`
	RecentEvents            []RecentEvent       `json:"recent_events"`
	Departments             []DepartmentSummary `json:"departments"`
}

// Aggregate computes the dashboard summary from full scans of the
// departments, events and participants collections. The unique participant
// count is the cardinality of the derived identity set; two records that
// share an email in different casing count once.
func Aggregate(ctx context.Context, st store.Store) (*Summary, error) {
	deptDocs, err := st.All(ctx, "departments")
	if err != nil {
		return nil, err
	}
	deptMap := make(map[string]string, len(deptDocs))
	depts := make([]DepartmentSummary, 0, len(deptDocs))
	for _, d := range deptDocs {
		name := models.StringField(d.Data, "name")
		deptMap[d.ID] = name
		depts = append(depts, DepartmentSummary{
			ID:      d.ID,
			Name:    name,
			LogoURL: models.StringField(d.Data, "logo_url"),
		})
	}

	eventDocs, err := st.All(ctx, "events")
	if err != nil {
		return nil, err
	}
	recent := make([]RecentEvent, 0, len(eventDocs))
	for _, e := range eventDocs {
		ev := models.EventFromDoc(e.ID, e.Data)
		deptName := deptMap[ev.DepartmentID]
		if deptName == "" {
			// Unknown department: show the raw id rather than nothing.
			deptName = ev.DepartmentID
		}
		recent = append(recent, RecentEvent{
			ID:       ev.ID,
			Name:     ev.Name,
			DeptID:   ev.DepartmentID,
			DeptName: deptName,
			Date:     ev.Date,
			Status:   ev.Status,
		})
	}

	partDocs, err := st.All(ctx, "participants")
	if err != nil {
		return nil, err
	}
	unique := make(map[string]struct{}, len(partDocs))
	for _, p := range partDocs {
		if ident := models.ParticipantIdentity(p.Data, p.ID); ident != "" {
			unique[ident] = struct{}{}
		}
	}

	return &Summary{
		TotalDepartments:        len(deptDocs),
		TotalEvents:             len(eventDocs),
		TotalRegistrations:      len(partDocs),
		TotalUniqueParticipants: len(unique),
		RecentEvents:            recent,
		Departments:             depts,
	}, nil
}

// Index - GET /
func Index(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := Aggregate(c.Context(), st)
		if err != nil {
			return err
		}
		return c.JSON(summary)
	}
}
