package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/db"
	"github.com/goalpost-dev/goalpost/internal/auth"
	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/goalpost-dev/goalpost/internal/handlers"
	"github.com/goalpost-dev/goalpost/internal/models"
	"github.com/goalpost-dev/goalpost/internal/router"
	"github.com/goalpost-dev/goalpost/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(&models.User{}, &models.Goal{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = database

	hub := services.NewEventHub()
	handlers.Init(goals.NewService(database, hub), hub)

	return router.NewRouter()
}

func createTestUser(t *testing.T, email string) (uint, string) {
	t.Helper()

	user := models.User{Name: "Tester", Email: email, PasswordHash: "irrelevant"}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	return user.ID, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestGoalEndpoints(t *testing.T) {
	r := setupRouter(t)

	_, tokenA := createTestUser(t, "a@example.com")
	_, tokenB := createTestUser(t, "b@example.com")

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/goals", "", `{"title":"Nope"}`)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("unauthenticated create = %d, want 401", w.Code)
		}
	})

	var goalID float64

	t.Run("composite create succeeds", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/goals", tokenA,
			`{"title":"Ship it","status":"in_progress","deadline":"2030-06-01","tasks":[{"title":"Draft","due_date":"2030-05-01"},{"title":"Review"}]}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("create = %d, body %s", w.Code, w.Body.String())
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}

		goalID = resp["id"].(float64)

		if resp["deadline"] != "2030-06-01" {
			t.Errorf("deadline = %v, want 2030-06-01", resp["deadline"])
		}
	})

	t.Run("validation errors are field-keyed", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/goals", tokenA,
			`{"title":"","deadline":"2000-01-01","tasks":[{"title":"Dup"},{"title":"Dup"}]}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("invalid create = %d, want 400", w.Code)
		}

		var resp struct {
			Errors []goals.FieldError `json:"errors"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad error body: %v", err)
		}

		fields := map[string]bool{}
		for _, fe := range resp.Errors {
			fields[fe.Field] = true
		}

		if !fields["title"] || !fields["deadline"] {
			t.Errorf("missing field errors, got %+v", resp.Errors)
		}
	})

	t.Run("duplicate title reports conflict without partial write", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/goals", tokenA, `{"title":"Ship it"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("duplicate create = %d, want 400", w.Code)
		}

		if !strings.Contains(w.Body.String(), "title") {
			t.Errorf("conflict not attributed to title: %s", w.Body.String())
		}
	})

	t.Run("other owner sees 404", func(t *testing.T) {
		path := "/api/goals/" + jsonID(goalID)

		w := doJSON(t, r, http.MethodGet, path, tokenB, "")

		if w.Code != http.StatusNotFound {
			t.Errorf("cross-owner read = %d, want 404", w.Code)
		}

		w = doJSON(t, r, http.MethodDelete, path, tokenB, "")

		if w.Code != http.StatusNotFound {
			t.Errorf("cross-owner delete = %d, want 404", w.Code)
		}
	})

	t.Run("detail includes ordered tasks and counts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/goals/"+jsonID(goalID), tokenA, "")

		if w.Code != http.StatusOK {
			t.Fatalf("detail = %d, body %s", w.Code, w.Body.String())
		}

		var resp struct {
			TotalTasks     int `json:"total_tasks"`
			CompletedTasks int `json:"completed_tasks"`
			Tasks          []struct {
				Title string `json:"title"`
			} `json:"tasks"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad detail body: %v", err)
		}

		if resp.TotalTasks != 2 || len(resp.Tasks) != 2 {
			t.Errorf("detail tasks = %+v, want 2", resp)
		}
	})

	t.Run("achievements aggregate per owner", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/achievements", tokenA, "")

		if w.Code != http.StatusOK {
			t.Fatalf("achievements = %d, body %s", w.Code, w.Body.String())
		}

		var resp struct {
			TotalGoals int64 `json:"total_goals"`
			TotalTasks int64 `json:"total_tasks"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad achievements body: %v", err)
		}

		if resp.TotalGoals != 1 || resp.TotalTasks != 2 {
			t.Errorf("achievements = %+v, want 1 goal and 2 tasks", resp)
		}

		w = doJSON(t, r, http.MethodGet, "/api/achievements", tokenB, "")

		var other struct {
			TotalGoals int64 `json:"total_goals"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &other); err != nil {
			t.Fatalf("bad achievements body: %v", err)
		}

		if other.TotalGoals != 0 {
			t.Errorf("other owner's achievements = %+v, want empty", other)
		}
	})
}

func jsonID(id float64) string {
	return strconv.Itoa(int(id))
}
