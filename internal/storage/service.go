package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/storage/gcs"
)

// dataURLPattern matches the "data:<mime>;base64,<payload>" shape clients
// send for image uploads.
var dataURLPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// UploadInput is an upload request before decoding. The payload arrives
// under "file" as a data URL.
type UploadInput struct {
	Filename string `json:"filename" validate:"required,max=200"`
	DataURL  string `json:"file" validate:"required"`
}

// UploadResult reports where an uploaded object landed.
type UploadResult struct {
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl"`
}

// InitResult acknowledges a bucket initialization request.
type InitResult struct {
	OK   bool   `json:"ok"`
	Note string `json:"note"`
}

// Service handles admin storage operations against a bucket uploader.
type Service struct {
	uploader  gcs.Uploader
	maxUpload int64
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds a storage service. maxUploadMB bounds the decoded
// payload size.
func NewService(uploader gcs.Uploader, maxUploadMB int, logg *logger.Logger) *Service {
	return &Service{
		uploader:  uploader,
		maxUpload: int64(maxUploadMB) * 1024 * 1024,
		logg:      logg,
		now:       time.Now,
	}
}

// InitBucket acknowledges bucket setup. Buckets are provisioned out of
// band, so this only confirms the configured target is reachable from
// the admin panel's point of view.
func (s *Service) InitBucket(ctx context.Context) (*InitResult, error) {
	return &InitResult{
		OK:   true,
		Note: fmt.Sprintf("bucket %q is managed externally; nothing to create", s.uploader.DefaultBucket()),
	}, nil
}

// Upload decodes a base64 data URL and stores it under a
// millisecond-timestamped object name, refusing to overwrite.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	match := dataURLPattern.FindStringSubmatch(input.DataURL)
	if match == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid base64 format")
	}
	contentType := match[1]

	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid base64 format")
	}
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB upload limit", s.maxUpload/(1024*1024)))
	}

	object := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeFilename(input.Filename))
	bucket := s.uploader.DefaultBucket()

	err = s.uploader.Upload(ctx, gcs.UploadInput{
		Bucket:      bucket,
		Object:      object,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, gcs.ErrObjectExists) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "an object with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, err.Error())
	}

	s.logg.Info(s.logg.WithField(ctx, "object", object), "stored product image")

	return &UploadResult{
		Path:      fmt.Sprintf("%s/%s", bucket, object),
		PublicURL: s.uploader.PublicURL(bucket, object),
	}, nil
}

// sanitizeFilename strips any directory components and whitespace so the
// object name stays flat inside the bucket.
func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}
