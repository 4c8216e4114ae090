package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/mesa-backend/database"
	"github.com/yeremiapane/mesa-backend/events"
	"github.com/yeremiapane/mesa-backend/models"
	"github.com/yeremiapane/mesa-backend/router"
	"github.com/yeremiapane/mesa-backend/utils"
)

const testCnpj = "12.345.678/0001-99"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Topic)
	}
	return out
}

// setupTestDBForTables menggunakan SQLite in-memory, satu database per test
func setupTestDBForTables(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRestaurant(db, testCnpj, "Restaurante Teste"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func setupTableRouter(t *testing.T) (*gin.Engine, *gorm.DB, *recordingPublisher) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	db := setupTestDBForTables(t)
	publisher := &recordingPublisher{}
	r := router.SetupRouter(router.Options{DB: db, Publisher: publisher})
	return r, db, publisher
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, target string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func tablesURL(query url.Values) string {
	query.Set("cnpj", testCnpj)
	return "/tables?" + query.Encode()
}

func TestCreateTable_Single(t *testing.T) {
	r, _, publisher := setupTableRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{
		"numero": 3, "capacity": 4, "location": "salão",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Table created successfully", resp.Message)

	var table models.MesaResponse
	require.NoError(t, json.Unmarshal(resp.Data, &table))
	assert.Equal(t, 3, table.Numero)
	assert.NotEmpty(t, table.ID)
	assert.Equal(t, []string{"tables.created"}, publisher.topics())
}

func TestCreateTable_Range(t *testing.T) {
	r, _, publisher := setupTableRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{
		"numero": 10, "endNumber": 12, "capacity": 2, "location": "varanda",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tables []models.MesaResponse
	require.NoError(t, json.Unmarshal(resp.Data, &tables))
	require.Len(t, tables, 3)
	for i, table := range tables {
		assert.Equal(t, 10+i, table.Numero)
		assert.Equal(t, "varanda", table.Location)
	}
	assert.Len(t, publisher.topics(), 3)
}

func TestCreateTable_Errors(t *testing.T) {
	r, _, publisher := setupTableRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/tables", map[string]interface{}{"numero": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cnpj is required", resp.Message)

	w, _ = doJSON(t, r, http.MethodPost, "/tables?cnpj=00.000.000/0000-00", map[string]interface{}{"numero": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{"numero": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{"numero": "one"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{"numero": 0, "endNumber": 9223372036854775807})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, publisher.topics())
}

func TestGetAllTables(t *testing.T) {
	r, _, _ := setupTableRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{
		"numero": 1, "endNumber": 5, "capacity": 4, "location": "Salão",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, tablesURL(url.Values{"page": {"2"}, "limit": {"2"}}), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "List of tables", resp.Message)

	var page models.PaginationResponse[models.MesaResponse]
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Data[0].Numero)
	assert.Equal(t, 4, page.Data[1].Numero)

	w, resp = doJSON(t, r, http.MethodGet, tablesURL(url.Values{"search[location]": {"SAL"}, "mesaNumber": {"4"}}), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, 4, page.Data[0].Numero)
}

func TestGetAllTables_BadRequests(t *testing.T) {
	r, _, _ := setupTableRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/tables", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cnpj is required", resp.Message)

	w, resp = doJSON(t, r, http.MethodGet, tablesURL(url.Values{"search[color]": {"red"}}), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Message, `"color"`)

	w, _ = doJSON(t, r, http.MethodGet, tablesURL(url.Values{"page": {"abc"}}), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTableByNumber(t *testing.T) {
	r, _, _ := setupTableRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, tablesURL(url.Values{}), map[string]interface{}{"numero": 8, "capacity": 6})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/tables/8?cnpj="+url.QueryEscape(testCnpj), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var table models.MesaResponse
	require.NoError(t, json.Unmarshal(resp.Data, &table))
	assert.Equal(t, 6, table.Capacity)

	w, _ = doJSON(t, r, http.MethodGet, "/tables/9?cnpj="+url.QueryEscape(testCnpj), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/tables/eight?cnpj="+url.QueryEscape(testCnpj), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTable(t *testing.T) {
	r, db, publisher := setupTableRouter(t)
	mesa := models.Mesa{Numero: 2, Capacity: 2, RestaurantCnpj: testCnpj}
	require.NoError(t, db.Create(&mesa).Error)

	w, resp := doJSON(t, r, http.MethodPatch, "/tables/"+mesa.ID, map[string]interface{}{
		"capacity": 8, "endNumber": 20,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Table updated", resp.Message)

	var table models.MesaResponse
	require.NoError(t, json.Unmarshal(resp.Data, &table))
	assert.Equal(t, 8, table.Capacity)
	assert.Equal(t, 2, table.Numero)

	var count int64
	db.Model(&models.Mesa{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, []string{"tables.updated"}, publisher.topics())
	// event update tetap terikat ke restoran pemilik meja
	assert.Equal(t, testCnpj, publisher.events[0].Metadata["cnpj"])

	w, _ = doJSON(t, r, http.MethodPatch, "/tables/does-not-exist", map[string]interface{}{"capacity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/tables/"+mesa.ID, map[string]interface{}{"delete": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTable(t *testing.T) {
	r, db, publisher := setupTableRouter(t)
	mesa := models.Mesa{Numero: 5, Capacity: 4, RestaurantCnpj: testCnpj}
	require.NoError(t, db.Create(&mesa).Error)

	w, resp := doJSON(t, r, http.MethodDelete, "/tables/"+mesa.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var deleted models.Mesa
	require.NoError(t, json.Unmarshal(resp.Data, &deleted))
	assert.True(t, deleted.Delete)
	assert.Equal(t, testCnpj, deleted.RestaurantCnpj)

	// baris masih ada, tapi tidak muncul di daftar
	var stored models.Mesa
	require.NoError(t, db.First(&stored, "id = ?", mesa.ID).Error)
	assert.True(t, stored.Delete)

	w, resp = doJSON(t, r, http.MethodGet, tablesURL(url.Values{}), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.PaginationResponse[models.MesaResponse]
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Empty(t, page.Data)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, testCnpj, publisher.events[0].Metadata["cnpj"])

	w, _ = doJSON(t, r, http.MethodDelete, "/tables/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
