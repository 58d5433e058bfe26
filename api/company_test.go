package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCompanyHandler()
	router.GET("/companies", h.List)
	router.POST("/companies", h.Create)
	return router
}

func TestCompanyHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `companies`").
		WithArgs("%cost%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(3, "Costco", now, now))

	router := companyRouter()

	req := httptest.NewRequest("GET", "/companies?query=Cost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Costco", data[0].(map[string]interface{})["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyHandler_CreateNew(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	// 先查重，未命中后走 find-or-create
	mock.ExpectQuery("SELECT .* FROM `companies`").
		WithArgs("Shell").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `companies`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `companies`").
		WithArgs("Shell").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(4, "Shell", now, now))

	router := companyRouter()

	req := httptest.NewRequest("POST", "/companies", bytes.NewBufferString(`{"name":"Shell"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(4), resp["data"].(map[string]interface{})["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyHandler_CreateExisting(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `companies`").
		WithArgs("Costco").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(3, "Costco", now, now))

	router := companyRouter()

	// 名称带空白也应命中已有记录
	req := httptest.NewRequest("POST", "/companies", bytes.NewBufferString(`{"name":"  Costco  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["data"].(map[string]interface{})["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyHandler_CreateValidation(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := companyRouter()

	for _, body := range []string{`{}`, `{"name":""}`, `{"name":"   "}`} {
		req := httptest.NewRequest("POST", "/companies", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}
