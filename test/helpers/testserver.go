package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"healthdir_backend/database"
	"healthdir_backend/internal/app"
	"healthdir_backend/internal/config"
	"healthdir_backend/internal/repositories"

	"gorm.io/gorm"
)

// TestDatabaseEnv names the DSN of a disposable Postgres database.
const TestDatabaseEnv = "TEST_DATABASE_URL"

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Repo   repositories.DirectoryRepository
}

// NewTestServer migrates the database behind TEST_DATABASE_URL and serves the
// full router over it. It skips the test when the variable is unset.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s is not set; skipping Postgres integration tests", TestDatabaseEnv)
	}

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Storage.Type = config.StoragePostgres
	cfg.Database = config.DatabaseConfig{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 2}

	db, err := database.ConnectGorm(cfg.Database)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := repositories.NewDirectoryRepository(db)
	router := app.SetupRouter(cfg, repo)

	return &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
		Repo:   repo,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables empties every directory table.
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()
	err := ts.DB.Exec("TRUNCATE TABLE reviews, doctors, departments, hospitals, profiles, users RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SendRequest performs one request against the server and returns the
// response with its body read.
func (ts *TestServer) SendRequest(t *testing.T, method, path string, body interface{}) (*http.Response, string) {
	t.Helper()
	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBodyBytes)
}
