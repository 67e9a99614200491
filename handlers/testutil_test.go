package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/studyplanner/StudyPlannerBackend/cache"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTest wires an in-memory store and redis and returns the API router.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// In-memory sqlite is per connection; a second pooled connection would
	// see an empty database, so everything goes through one.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Note{},
		&models.Diary{},
		&models.StudyRecord{},
		&models.BookRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.DB = gdb

	mr := miniredis.RunT(t)
	if err := cache.InitRedis(mr.Addr(), utils.Logger); err != nil {
		t.Fatalf("init redis: %v", err)
	}

	return buildRouter()
}

// buildRouter mirrors the route table from main.go.
func buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())

	r.POST("/api/register", Register)
	r.POST("/api/login", Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", Profile)
		api.PUT("/profile", UpdateProfile)

		api.GET("/goals", GetGoals)
		api.POST("/goals", CreateGoal)
		api.PUT("/goals/:id", UpdateGoal)
		api.DELETE("/goals/:id", DeleteGoal)

		api.GET("/notes", GetNotes)
		api.POST("/notes", CreateNote)
		api.PUT("/notes/:id", UpdateNote)
		api.DELETE("/notes/:id", DeleteNote)

		api.GET("/diaries", GetDiaries)
		api.POST("/diaries", CreateDiary)
		api.PUT("/diaries/:id", UpdateDiary)
		api.DELETE("/diaries/:id", DeleteDiary)

		api.GET("/study-records", GetStudyRecords)
		api.POST("/study-records", CreateStudyRecord)

		api.GET("/books", GetBooks)
		api.POST("/books", CreateBook)
		api.PUT("/books/:id", UpdateBook)
		api.DELETE("/books/:id", DeleteBook)

		api.GET("/statistics", middleware.CacheMiddleware(time.Minute), GetStatistics)
		api.POST("/export", ExportReport)

		admin := api.Group("/admin")
		admin.Use(middleware.RoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/backup", GetBackup)
			admin.POST("/restore", RestoreBackup)
		}
	}

	return r
}

// registerUser creates a user over the API and returns its token and id.
func registerUser(t *testing.T, r *gin.Engine, username string) (string, uint) {
	t.Helper()

	body := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	}
	w := doJSON(t, r, http.MethodPost, "/api/register", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", username, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.Token, resp.User.ID
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
