package departments

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

func TestNameMap(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_, err := st.Create(ctx, "departments", "d1", map[string]any{"name": "CSE"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "departments", "d2", map[string]any{"name": "ECE"})
	require.NoError(t, err)

	m := NameMap(ctx, st)
	assert.Equal(t, map[string]string{"d1": "CSE", "d2": "ECE"}, m)
}

func TestListHandler(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	_, err := st.Create(ctx, "departments", "d1", map[string]any{
		"name": "CSE", "description": "Tech events", "logo_url": "l.png",
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/add_department", List(st))

	resp, err := app.Test(httptest.NewRequest("GET", "/add_department", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Departments []models.Department `json:"departments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Departments, 1)
	assert.Equal(t, "d1", body.Departments[0].ID)
	assert.Equal(t, "CSE", body.Departments[0].Name)
	assert.Equal(t, "l.png", body.Departments[0].LogoURL)
}
