package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/router"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// setupApp dựng app đầy đủ route trên một sqlite in-memory riêng cho mỗi test
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.Migrate(db)
	database.DB = db

	app := fiber.New()
	router.SetupRoutes(app)
	return app, db
}

// seedAdmin tạo account admin và trả về access token (JWT_SECRET trống trong test)
func seedAdmin(t *testing.T, db *gorm.DB) string {
	t.Helper()
	hashed, err := helper.HashPassword("admin12345")
	require.NoError(t, err)

	account := model.Account{
		Username: "admin",
		Email:    "admin@example.com",
		Password: hashed,
		Active:   true,
	}
	require.NoError(t, db.Create(&account).Error)

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
	})
	require.NoError(t, err)
	return token
}

func seedEventWithQueues(t *testing.T, db *gorm.DB, code string, queueNames ...string) (model.Event, []model.Queue) {
	t.Helper()
	event := model.Event{Name: "Event " + code, Code: code, Slug: "event-" + code, Active: true}
	require.NoError(t, db.Create(&event).Error)

	var queues []model.Queue
	for _, name := range queueNames {
		queue := model.Queue{EventId: event.ID, Name: name, Active: true}
		require.NoError(t, db.Create(&queue).Error)
		queues = append(queues, queue)
	}
	return event, queues
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func dataOf(t *testing.T, parsed map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := parsed["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", parsed)
	return data
}
