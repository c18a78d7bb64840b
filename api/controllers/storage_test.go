package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basabecode/tupijama.com-sub001/internal/storage"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/storage/gcs"
)

type fakeUploader struct {
	bucket string
	last   gcs.UploadInput
}

func (f *fakeUploader) Upload(_ context.Context, in gcs.UploadInput) error {
	f.last = in
	return nil
}

func (f *fakeUploader) PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

func (f *fakeUploader) DefaultBucket() string { return f.bucket }

func TestStorageEndpointsFailWithoutService(t *testing.T) {
	ctrl := NewStorageController(nil, logger.New(logger.Options{ServiceName: "test"}))

	for _, handler := range []http.HandlerFunc{ctrl.Init, ctrl.Upload} {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/storage/init", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		payload := decodeEnvelope(t, rec.Body)
		errObj := payload["error"].(map[string]any)
		assert.Equal(t, "storage service unavailable", errObj["message"])
	}
}

func TestStorageInitAcknowledges(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := storage.NewService(&fakeUploader{bucket: "product-images"}, 10, logg)
	ctrl := NewStorageController(svc, logg)

	rec := httptest.NewRecorder()
	ctrl.Init(rec, httptest.NewRequest(http.MethodPost, "/api/storage/init", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	assert.Equal(t, true, data["ok"])
}

func TestStorageUploadReturnsPublicURL(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	up := &fakeUploader{bucket: "product-images"}
	svc := storage.NewService(up, 10, logg)
	ctrl := NewStorageController(svc, logg)

	encoded := base64.StdEncoding.EncodeToString([]byte("imagen"))
	body := fmt.Sprintf(`{"filename":"piyama.jpg","file":"data:image/jpeg;base64,%s"}`, encoded)
	rec := httptest.NewRecorder()
	ctrl.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/storage/upload", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	assert.Contains(t, data["publicUrl"], "https://storage.googleapis.com/product-images/")
	assert.Equal(t, "image/jpeg", up.last.ContentType)
}

func TestStorageUploadRejectsBadPayload(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := storage.NewService(&fakeUploader{bucket: "product-images"}, 10, logg)
	ctrl := NewStorageController(svc, logg)

	body := `{"filename":"piyama.jpg","file":"plain-text"}`
	rec := httptest.NewRecorder()
	ctrl.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/storage/upload", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	errObj := payload["error"].(map[string]any)
	assert.Equal(t, "invalid base64 format", errObj["message"])
}
