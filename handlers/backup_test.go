package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"burrito-rater-api/backup"
	"burrito-rater-api/handlers"
	"burrito-rater-api/models"
	"burrito-rater-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type failingStore struct{}

func (failingStore) Put(context.Context, string, string, []byte, storage.PutOptions) error {
	return errors.New("bucket unavailable")
}

func backupRouter(t *testing.T, store storage.ObjectStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Rating{}))

	r := gin.New()
	r.GET("/backup", handlers.NewBackupHandler(backup.NewService(db, store, "backups")).Run)
	return r
}

func TestBackupEndpoint_Success(t *testing.T) {
	r := backupRouter(t, nopStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backup", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result backup.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TableCount)
	assert.NotEmpty(t, result.Filename)
}

// A failed backup still answers with a body: the interactive caller needs a
// response, not a dropped connection.
func TestBackupEndpoint_Failure(t *testing.T) {
	r := backupRouter(t, failingStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backup", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var result backup.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "bucket unavailable")
}
