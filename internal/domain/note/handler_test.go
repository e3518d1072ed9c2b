package note

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
	"crm/internal/pkg/events"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", database.Pool{})
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })

	handler := NewHandler(NewService(NewRepository(db), events.Nop{}))

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

func seedLead(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var id int64
	now := time.Now().UTC()
	require.NoError(t, db.Raw(
		`INSERT INTO leads (name, address, phone, occupation, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		"Jane Doe", "1 Main St", "555-0100", "Engineer", now, now,
	).Scan(&id).Error)
	return id
}

func notesPath(leadID int64) string {
	return "/api/leads/" + strconv.FormatInt(leadID, 10) + "/notes"
}

func createNote(t *testing.T, router *gin.Engine, leadID int64, content string) int64 {
	t.Helper()
	resp := performRequest(router, http.MethodPost, notesPath(leadID), map[string]string{"content": content})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var payload CreatedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Positive(t, payload.ID)
	return payload.ID
}

func listNotes(t *testing.T, router *gin.Engine, leadID int64) []Note {
	t.Helper()
	resp := performRequest(router, http.MethodGet, notesPath(leadID), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var notes []Note
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &notes))
	return notes
}

func countNotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM notes").Scan(&n).Error)
	return n
}

func TestCreateAndListNotes(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)

	first := createNote(t, router, leadID, "Called, no answer")
	second := createNote(t, router, leadID, "Sent brochure")

	notes := listNotes(t, router, leadID)
	require.Len(t, notes, 2)
	assert.Equal(t, second, notes[0].ID)
	assert.Equal(t, "Sent brochure", notes[0].Content)
	assert.Equal(t, first, notes[1].ID)
	assert.Equal(t, leadID, notes[1].LeadID)
	assert.False(t, notes[1].CreatedAt.IsZero())
}

func TestListNotesUnknownLeadIsEmpty(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodGet, notesPath(12345), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestCreateNoteForMissingLead(t *testing.T) {
	router, db := setupRouter(t)

	resp := performRequest(router, http.MethodPost, notesPath(999), map[string]string{"content": "orphan"})
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"Error creating note"}`, resp.Body.String())
	assert.Zero(t, countNotes(t, db))
}

func TestCreateNoteRequiresContent(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)

	for _, body := range []interface{}{nil, map[string]string{}, map[string]string{"content": ""}} {
		resp := performRequest(router, http.MethodPost, notesPath(leadID), body)
		require.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.JSONEq(t, `{"error":"Error creating note"}`, resp.Body.String())
	}
	assert.Zero(t, countNotes(t, db))
}

func TestCreateNoteBadInput(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)

	resp := performRequest(router, http.MethodPost, "/api/leads/abc/notes", map[string]string{"content": "x"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"Invalid lead ID"}`, resp.Body.String())

	resp = performRequest(router, http.MethodPost, notesPath(leadID), `{"content":`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, resp.Body.String())
}

func TestDeleteNote(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)
	keep := createNote(t, router, leadID, "keep")
	drop := createNote(t, router, leadID, "drop")

	resp := performRequest(router, http.MethodDelete, "/api/notes/"+strconv.FormatInt(drop, 10), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Note deleted successfully"}`, resp.Body.String())

	notes := listNotes(t, router, leadID)
	require.Len(t, notes, 1)
	assert.Equal(t, keep, notes[0].ID)
}

func TestRepositoryDeleteReturnsOwningLead(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)
	noteID := createNote(t, router, leadID, "call back")
	repo := NewRepository(db)

	owner, found, err := repo.Delete(context.Background(), noteID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, leadID, owner)

	owner, found, err = repo.Delete(context.Background(), noteID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, owner)
}

func TestDeleteMissingNoteSucceeds(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodDelete, "/api/notes/31337", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Note deleted successfully"}`, resp.Body.String())
}

func TestDeleteNoteInvalidID(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodDelete, "/api/notes/first", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"Invalid note ID"}`, resp.Body.String())
}

func TestDeletingLeadRemovesItsNotes(t *testing.T) {
	router, db := setupRouter(t)
	leadID := seedLead(t, db)
	createNote(t, router, leadID, "one")
	createNote(t, router, leadID, "two")

	require.NoError(t, db.Exec("DELETE FROM leads WHERE id = ?", leadID).Error)

	resp := performRequest(router, http.MethodGet, notesPath(leadID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
	assert.Zero(t, countNotes(t, db))
}
