package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"burrito-rater-api/handlers"
	"burrito-rater-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	bucket string
	key    string
	body   []byte
	opts   storage.PutOptions
}

func (r *recordingStore) Put(_ context.Context, bucket, key string, body []byte, opts storage.PutOptions) error {
	r.bucket, r.key, r.body, r.opts = bucket, key, body, opts
	return nil
}

func TestImageUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &recordingStore{}

	r := gin.New()
	r.POST("/images", handlers.NewImageHandler(store, "images").Upload)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "burrito.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "images", store.bucket)
	assert.True(t, strings.HasSuffix(store.key, ".jpg"))
	assert.Equal(t, []byte("jpeg-bytes"), store.body)
}

func TestImageUpload_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/images", handlers.NewImageHandler(&recordingStore{}, "images").Upload)

	req := httptest.NewRequest(http.MethodPost, "/images", strings.NewReader(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
