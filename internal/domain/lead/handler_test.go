package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crm/internal/database"
	"crm/internal/pkg/cache"
	"crm/internal/pkg/events"
)

type idResponse struct {
	ID int64 `json:"id"`
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", database.Pool{})
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })

	service := NewService(NewRepository(db), cache.Nop{}, events.Nop{}, time.Minute)
	handler := NewHandler(service)

	router := gin.New()
	RegisterRoutes(router.Group("/api"), handler)
	return router, db
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func janeDoe() map[string]any {
	return map[string]any{
		"name":       "Jane Doe",
		"address":    "12 Harbour Road",
		"phone":      "555-0101",
		"occupation": "Engineer",
		"status":     "hot",
	}
}

func createLead(t *testing.T, router *gin.Engine, body map[string]any) int64 {
	t.Helper()
	resp := performRequest(router, http.MethodPost, "/api/leads", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var payload idResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Positive(t, payload.ID)
	return payload.ID
}

func getLead(t *testing.T, router *gin.Engine, id int64) Lead {
	t.Helper()
	resp := performRequest(router, http.MethodGet, "/api/leads/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var l Lead
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &l))
	return l
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"error":"`+message+`"}`, resp.Body.String())
}

func TestCreateAndGetLead(t *testing.T) {
	router, _ := setupRouter(t)

	id := createLead(t, router, janeDoe())
	l := getLead(t, router, id)

	assert.Equal(t, id, l.ID)
	assert.Equal(t, "Jane Doe", l.Name)
	assert.Equal(t, "12 Harbour Road", l.Address)
	assert.Equal(t, "555-0101", l.Phone)
	assert.Equal(t, "Engineer", l.Occupation)
	assert.Equal(t, StatusHot, l.Status)
	assert.False(t, l.CreatedAt.IsZero())
	assert.True(t, l.CreatedAt.Equal(l.UpdatedAt))
}

func TestCreateLeadDefaultsToCold(t *testing.T) {
	router, _ := setupRouter(t)

	body := janeDoe()
	delete(body, "status")
	id := createLead(t, router, body)

	assert.Equal(t, StatusCold, getLead(t, router, id).Status)
}

func TestCreateLeadRejectedByDatabase(t *testing.T) {
	router, db := setupRouter(t)

	invalidStatus := janeDoe()
	invalidStatus["status"] = "lukewarm"

	missingPhone := janeDoe()
	delete(missingPhone, "phone")

	emptyName := janeDoe()
	emptyName["name"] = ""

	cases := map[string]interface{}{
		"invalid status": invalidStatus,
		"missing phone":  missingPhone,
		"empty name":     emptyName,
		"empty body":     nil,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := performRequest(router, http.MethodPost, "/api/leads", body)
			requireError(t, resp, http.StatusInternalServerError, "Error creating lead")
		})
	}

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM leads").Scan(&count).Error)
	assert.Zero(t, count)
}

func TestCreateLeadMalformedJSON(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/leads", `{"name": "Jane"`)
	requireError(t, resp, http.StatusBadRequest, "Invalid JSON body")
}

func TestGetLeadNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodGet, "/api/leads/9999", nil)
	requireError(t, resp, http.StatusNotFound, "Lead not found")
}

func TestGetLeadInvalidID(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/api/leads/abc", "/api/leads/0", "/api/leads/-3"} {
		resp := performRequest(router, http.MethodGet, path, nil)
		requireError(t, resp, http.StatusBadRequest, "Invalid lead ID")
	}
}

func TestListLeadsNewestFirst(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	first := createLead(t, router, janeDoe())
	second := createLead(t, router, janeDoe())
	third := createLead(t, router, janeDoe())

	resp = performRequest(router, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var leads []Lead
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &leads))
	require.Len(t, leads, 3)
	assert.Equal(t, []int64{third, second, first}, []int64{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestUpdateStatus(t *testing.T) {
	router, _ := setupRouter(t)
	id := createLead(t, router, janeDoe())
	before := getLead(t, router, id)

	resp := performRequest(router, http.MethodPatch, "/api/leads/"+itoa(id), map[string]string{"status": "warm"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Lead updated successfully"}`, resp.Body.String())

	after := getLead(t, router, id)
	assert.Equal(t, StatusWarm, after.Status)
	assert.True(t, after.UpdatedAt.After(after.CreatedAt))
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	router, _ := setupRouter(t)
	id := createLead(t, router, janeDoe())

	resp := performRequest(router, http.MethodPatch, "/api/leads/"+itoa(id), map[string]string{"status": "boiling"})
	requireError(t, resp, http.StatusInternalServerError, "Error updating lead")

	resp = performRequest(router, http.MethodPatch, "/api/leads/"+itoa(id), nil)
	requireError(t, resp, http.StatusInternalServerError, "Error updating lead")

	assert.Equal(t, StatusHot, getLead(t, router, id).Status)
}

func TestUpdateStatusMissingLeadSucceeds(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPatch, "/api/leads/4242", map[string]string{"status": "warm"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Lead updated successfully"}`, resp.Body.String())
}

func TestEditLead(t *testing.T) {
	router, _ := setupRouter(t)
	id := createLead(t, router, janeDoe())

	resp := performRequest(router, http.MethodPatch, "/api/lead/edit/"+itoa(id), map[string]string{
		"name":       "Jane Smith",
		"address":    "1 New Street",
		"phone":      "555-0199",
		"occupation": "Director",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Lead updated successfully"}`, resp.Body.String())

	l := getLead(t, router, id)
	assert.Equal(t, "Jane Smith", l.Name)
	assert.Equal(t, "1 New Street", l.Address)
	assert.Equal(t, "555-0199", l.Phone)
	assert.Equal(t, "Director", l.Occupation)
	assert.Equal(t, StatusHot, l.Status)
	assert.True(t, l.UpdatedAt.After(l.CreatedAt))
}

func TestEditLeadMissingFieldUsesErrorEnvelope(t *testing.T) {
	router, _ := setupRouter(t)
	id := createLead(t, router, janeDoe())

	resp := performRequest(router, http.MethodPatch, "/api/lead/edit/"+itoa(id), map[string]string{"name": "Only Name"})
	requireError(t, resp, http.StatusInternalServerError, "Error updating lead")

	assert.Equal(t, "Jane Doe", getLead(t, router, id).Name)
}

func TestEditMissingLeadSucceeds(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPatch, "/api/lead/edit/77", map[string]string{
		"name": "A", "address": "B", "phone": "C", "occupation": "D",
	})
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestJaneDoeScenario(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/leads", map[string]string{
		"name":       "Jane Doe",
		"address":    "1 Main St",
		"phone":      "555-0100",
		"occupation": "Engineer",
		"status":     "hot",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.JSONEq(t, `{"id":1}`, resp.Body.String())

	resp = performRequest(router, http.MethodGet, "/api/leads/1", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodPatch, "/api/leads/1", map[string]string{"status": "cold"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Lead updated successfully"}`, resp.Body.String())

	assert.Equal(t, StatusCold, getLead(t, router, 1).Status)
}
