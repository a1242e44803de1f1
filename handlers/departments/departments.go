package departments

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
	"github.com/nosij-playz/Tantra-backend/uploads"
)

// NameMap returns a department id -> name lookup. Store errors degrade to
// an empty map so listings can still render with raw ids.
func NameMap(ctx context.Context, st store.Store) map[string]string {
	out := map[string]string{}
	docs, err := st.All(ctx, "departments")
	if err != nil {
		return out
	}
	for _, d := range docs {
		out[d.ID] = models.StringField(d.Data, "name")
	}
	return out
}

// List - GET /add_department
// Returns the existing departments, used to populate the admin form.
func List(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := st.All(c.Context(), "departments")
		if err != nil {
			return err
		}
		out := make([]models.Department, 0, len(docs))
		for _, d := range docs {
			out = append(out, models.DepartmentFromDoc(d.ID, d.Data))
		}
		return c.JSON(fiber.Map{"departments": out})
	}
}

// Create - POST /add_department
// Multipart form: name, description, plus optional logo_file and qr_file
// uploads. The new document id is store-generated.
func Create(st store.Store, up *uploads.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		logoURL, err := up.Save(c, "logo_file", uploads.LogoFolder)
		if err != nil {
			return err
		}
		qrURL, err := up.Save(c, "qr_file", uploads.QRFolder)
		if err != nil {
			return err
		}

		if _, err := st.Create(c.Context(), "departments", "", map[string]any{
			"name":        name,
			"description": c.FormValue("description"),
			"logo_url":    logoURL,
			"qr_url":      qrURL,
			"created_at":  store.ServerTimestamp,
		}); err != nil {
			return err
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
