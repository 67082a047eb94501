package reports

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	reportsvc "keystone-backend/internal/application/reports"
	"keystone-backend/internal/domain"
	"keystone-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T, sessionUser interface{}) (*fiber.App, *reportsvc.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Property{}, &domain.Unit{},
		&domain.Tenant{}, &domain.Lease{}, &domain.LeaseTenant{},
		&domain.Charge{}, &domain.Payment{}, &domain.PaymentAllocation{},
		&domain.MaintenanceRequest{}, &domain.Vendor{},
		&domain.ReportFavorite{},
	))

	store := reportsvc.NewStore(db)
	h := &Handlers{Engine: reportsvc.NewEngine(store)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sessionUser != nil {
			c.Locals("user", sessionUser)
		}
		return c.Next()
	})
	rg := app.Group("/api/reports", middleware.RequireAuth())
	rg.Get("/", h.List)
	rg.Post("/favorites", h.AddFavorite)
	rg.Delete("/favorites/:type", h.RemoveFavorite)
	rg.Get("/:type", h.Generate)
	return app, store
}

func sessionFor(userID, orgID string) map[string]interface{} {
	m := map[string]interface{}{
		"user_id": userID,
		"role":    "manager",
	}
	if orgID != "" {
		m["org_id"] = orgID
	}
	return m
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestListRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, nil)
	status, body := doJSON(t, app, "GET", "/api/reports/", "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestListReturnsCatalogAndCategories(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, body := doJSON(t, app, "GET", "/api/reports/", "")
	require.Equal(t, 200, status)

	reports, ok := body["reports"].([]interface{})
	require.True(t, ok)
	assert.Len(t, reports, 13)
	categories, ok := body["categories"].([]interface{})
	require.True(t, ok)
	assert.Len(t, categories, 4)
}

func TestQuickReportWithType(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, body := doJSON(t, app, "GET", "/api/reports/?type=overview", "")
	require.Equal(t, 200, status)

	report, ok := body["report"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "overview", report["type"])
	assert.Contains(t, report, "data")
	assert.Contains(t, report, "summary")
}

func TestQuickReportInvalidType(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, body := doJSON(t, app, "GET", "/api/reports/?type=balance-sheet", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid report type", body["error"])
}

func TestQuickReportWithoutOrg(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), ""))
	status, body := doJSON(t, app, "GET", "/api/reports/?type=overview", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Organization not found", body["error"])
}

func TestGenerateInvalidType(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, body := doJSON(t, app, "GET", "/api/reports/weekly-digest", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid report type", body["error"])
}

func TestGenerateReturnsEnvelope(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, body := doJSON(t, app, "GET", "/api/reports/rent-roll", "")
	require.Equal(t, 200, status)

	report := body["report"].(map[string]interface{})
	assert.Equal(t, "rent-roll", report["type"])
	rng := report["dateRange"].(map[string]interface{})
	assert.Contains(t, rng, "startDate")
	assert.Contains(t, rng, "endDate")
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	app, _ := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	status, _ := doJSON(t, app, "GET", "/api/reports/rent-roll?period=fortnight", "")
	assert.Equal(t, 400, status)

	status, _ = doJSON(t, app, "GET", "/api/reports/rent-roll?period=custom", "")
	assert.Equal(t, 400, status)
}

func TestFavoritesFlow(t *testing.T) {
	userID := uuid.NewString()
	app, _ := newTestApp(t, sessionFor(userID, uuid.NewString()))

	status, body := doJSON(t, app, "POST", "/api/reports/favorites", `{"type":"rent-roll"}`)
	require.Equal(t, 201, status)
	favs := body["favorites"].([]interface{})
	assert.Equal(t, []interface{}{"rent-roll"}, favs)

	status, body = doJSON(t, app, "POST", "/api/reports/favorites", `{"type":"weekly-digest"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid report type", body["error"])

	status, body = doJSON(t, app, "DELETE", "/api/reports/favorites/rent-roll", "")
	require.Equal(t, 200, status)
	assert.Empty(t, body["favorites"])
}

func TestListSurvivesFavoritesStoreFailure(t *testing.T) {
	app, store := newTestApp(t, sessionFor(uuid.NewString(), uuid.NewString()))
	// Favorites become unreadable; discovery must still answer, unpinned.
	require.NoError(t, store.DB.Migrator().DropTable(&domain.ReportFavorite{}))

	status, body := doJSON(t, app, "GET", "/api/reports/", "")
	require.Equal(t, 200, status)
	reports := body["reports"].([]interface{})
	assert.Len(t, reports, 13)
	for _, r := range reports {
		assert.Equal(t, false, r.(map[string]interface{})["is_favorite"])
	}
}

func TestListMarksFavorites(t *testing.T) {
	userID := uuid.NewString()
	app, store := newTestApp(t, sessionFor(userID, uuid.NewString()))
	require.NoError(t, store.AddFavorite(context.Background(), uuid.MustParse(userID), "vacancy"))

	status, body := doJSON(t, app, "GET", "/api/reports/", "")
	require.Equal(t, 200, status)
	reports := body["reports"].([]interface{})
	first := reports[0].(map[string]interface{})
	assert.Equal(t, "vacancy", first["type"])
	assert.Equal(t, true, first["is_favorite"])
}
