package e2e

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"csvviewer/internal/database"
	"csvviewer/internal/domain/upload"
	"csvviewer/internal/middleware"
	"csvviewer/internal/storage"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	store  *storage.Local
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&upload.Upload{}))

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	handler := upload.NewHandler(upload.NewService(upload.NewRepository(db), store))

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorLogger())
	api := router.Group("/api")
	upload.RegisterRoutes(api, handler)

	return &E2ETestSuite{router: router, db: db, store: store}
}

func (s *E2ETestSuite) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	var body TestResponse
	if resp.Header().Get("Content-Type") != "text/csv" {
		_ = json.NewDecoder(resp.Body).Decode(&body)
	}
	return resp, body
}

func (s *E2ETestSuite) uploadDataset(t *testing.T, csvContent string, imageNames []string) string {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("csv", "dataset.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvContent))
	require.NoError(t, err)

	for _, name := range imageNames {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image-bytes-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, body.Success)

	id, ok := body.Data["uploadId"].(string)
	require.True(t, ok, "uploadId missing in create response")
	return id
}

func TestFullUploadLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	csvContent := "group,text,has_image,image_path\n" +
		"IraqJobz,\"We're Hiring, apply now\",TRUE,messages/images/IraqJobz/IraqJobz_9840_20250823_151913.jpg\n" +
		"IraqJobz,no picture here,FALSE,\n"

	id := suite.uploadDataset(t, csvContent, []string{
		"IraqJobz_9840_20250823_151913.jpg",
	})

	// list shows the upload
	resp, body := suite.do(t, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	uploads, ok := body.Data["uploads"].([]interface{})
	require.True(t, ok)
	require.Len(t, uploads, 1)

	// preview parses rows and reconciles the image
	resp, body = suite.do(t, httptest.NewRequest(http.MethodGet, "/api/uploads/"+id, nil))
	require.Equal(t, http.StatusOK, resp.Code)

	rows, ok := body.Data["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)

	firstRow := rows[0].(map[string]interface{})
	assert.Equal(t, "We're Hiring, apply now", firstRow["text"])
	assert.Equal(t, "IraqJobz_9840_20250823_151913.jpg", firstRow["image_path"])

	images, ok := body.Data["images"].(map[string]interface{})
	require.True(t, ok)
	url, ok := images["IraqJobz_9840_20250823_151913.jpg"].(string)
	require.True(t, ok, "row image should be matched")
	assert.Contains(t, url, "data:image/jpeg;base64,")

	// download returns the exact original bytes
	resp, _ = suite.do(t, httptest.NewRequest(http.MethodGet, "/api/uploads/"+id+"/download", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, csvContent, resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "dataset.csv")

	// delete removes everything
	resp, body = suite.do(t, httptest.NewRequest(http.MethodDelete, "/api/uploads/"+id, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, body.Success)

	resp, body = suite.do(t, httptest.NewRequest(http.MethodGet, "/api/uploads/"+id, nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestUploadWithoutCSVRejected(t *testing.T) {
	suite := setupTestSuite(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := suite.do(t, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CSV_REQUIRED", body.Error.Code)
}

func TestPreflightShortCircuits(t *testing.T) {
	suite := setupTestSuite(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/uploads", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, _ := suite.do(t, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
}
