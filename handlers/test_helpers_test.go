package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"sync"
	"testing"
	"time"

	"orgmanager-backend/archive"
	"orgmanager-backend/config"
	"orgmanager-backend/dtos"
	"orgmanager-backend/importer"
	"orgmanager-backend/middleware"
	"orgmanager-backend/models"
	"orgmanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// One connection so background import jobs see the same in-memory tables.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
		&models.Plant{},
		&models.Module{},
		&models.OrganizationModule{},
		&models.CostCenter{},
		&models.FinancialCategory{},
		&models.FinancialTransaction{},
		&models.Product{},
		&models.ImportHistory{},
	); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	for _, table := range []string{
		"appointments", "patients", "doctors", "plants", "organization_modules", "modules",
		"financial_transactions", "financial_categories", "cost_centers", "products",
		"import_histories", "users", "organizations",
	} {
		testDB.Exec("DELETE FROM " + table)
	}
	return testDB
}

// seedTestUser creates a user with password "password123" and returns it with a valid token.
func seedTestUser(db *gorm.DB, email, role string) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		Email:    email,
		Password: string(hashed),
		Name:     "Test User",
		Role:     role,
		Status:   "active",
	}
	db.Create(&user)

	token, _ := utils.GenerateToken(user.ID, user.Email, user.Role, nil)
	return user, token
}

func seedOrganization(db *gorm.DB, name string) models.Organization {
	org := models.Organization{Name: name, Status: "active", PlanID: 1}
	db.Create(&org)
	return org
}

// recordingArchiver remembers every archived upload and whether the file
// still existed when it was archived.
type recordingArchiver struct {
	mu      sync.Mutex
	names   []string
	existed []bool
	err     error
}

func (a *recordingArchiver) Archive(_ context.Context, localPath, name string) (string, error) {
	_, statErr := os.Stat(localPath)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names = append(a.names, name)
	a.existed = append(a.existed, statErr == nil)
	if a.err != nil {
		return "", a.err
	}
	return "mem://" + name, nil
}

func (a *recordingArchiver) archived() ([]string, []bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.names...), append([]bool(nil), a.existed...)
}

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/profile", authHandler.GetProfile)

	return r
}

func newImportHandler(t *testing.T, db *gorm.DB, archiver archive.Archiver) *ImportHandler {
	t.Helper()
	return &ImportHandler{
		DB:       db,
		Importer: importer.New(db, importer.NewMemoryHistory(100), importer.Config{AllowPrivateEndpoints: true}),
		Jobs:     utils.NewJobStore(),
		Archiver: archiver,
		Config: config.ImportConfig{
			UploadDir:     t.TempDir(),
			MaxUploadSize: 1 << 20,
		},
	}
}

func setupImportRouter(h *ImportHandler) *gin.Engine {
	r := gin.New()

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/import", h.Import)
	admin.GET("/import/history", h.History)
	admin.POST("/import/jobs", h.StartJob)
	admin.GET("/import/jobs/:id", h.GetJob)

	return r
}

// waitForJob polls the job store until the import job finishes or times out.
func waitForJob(jobs *utils.JobStore, jobID string, timeout time.Duration) (dtos.ImportJob, bool) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return dtos.ImportJob{}, false
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		job, ok := jobs.GetJob(id)
		if ok && (job.Status == dtos.JobStatusCompleted || job.Status == dtos.JobStatusFailed) {
			return job, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return dtos.ImportJob{}, false
}

// ==================== Request Helpers ====================

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartRequest creates a multipart form request with the given fields and
// one uploaded file under the "file" field. Pass filename "" to skip the file.
func multipartRequest(method, url string, fields map[string]string, filename string, content []byte, token string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, val := range fields {
		_ = writer.WriteField(key, val)
	}

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		h.Set("Content-Type", "application/octet-stream")

		part, err := writer.CreatePart(h)
		if err != nil {
			panic("failed to create multipart file part: " + err.Error())
		}
		part.Write(content)
	}

	writer.Close()

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// parseResponseArray reads the response body into a slice of maps.
func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
