package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/services"
	"github.com/sitewatch/safety-backend/internal/types"
)

func newViolationRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&types.MasterData{}, &types.Violation{}, &types.History{}, &types.Category{}, &types.Site{}, &types.Zone{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	svc := services.NewViolationService(db, log,
		repos.NewMasterDataRepo(db, log),
		repos.NewViolationRepo(db, log),
		repos.NewHistoryRepo(db, log))
	handler := NewViolationHandler(svc)

	router := gin.New()
	router.POST("/api/violations", handler.Submit)
	return router, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitViolationStatusCodes(t *testing.T) {
	router, db := newViolationRouter(t)

	master := &types.MasterData{ID: 1, DetectionPayload: types.DetectionPayload{BoardID: "board-3", Time: "10:05:00"}}
	if err := db.Create(master).Error; err != nil {
		t.Fatalf("seed master data: %v", err)
	}

	body := map[string]interface{}{
		"masterDataId":    1,
		"siteId":          1,
		"zoneId":          1,
		"categoryId":      1,
		"severity":        "CRITICAL",
		"violationType":   "PPE",
		"activity":        "Welding",
		"violationStatus": "closed",
	}

	rec := postJSON(t, router, "/api/violations", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var first Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if first.Status != "success" {
		t.Fatalf("envelope status = %q", first.Status)
	}

	body["violationStatus"] = "pending"
	rec = postJSON(t, router, "/api/violations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	var count int64
	if err := db.Model(&types.Violation{}).Count(&count).Error; err != nil {
		t.Fatalf("count violations: %v", err)
	}
	if count != 1 {
		t.Fatalf("violations = %d, want the same row upserted", count)
	}
}

func TestSubmitViolationErrors(t *testing.T) {
	router, _ := newViolationRouter(t)

	rec := postJSON(t, router, "/api/violations", map[string]interface{}{"siteId": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing masterDataId status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/violations", map[string]interface{}{"masterDataId": 777})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown master id status = %d", rec.Code)
	}
}
