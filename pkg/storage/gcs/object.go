package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Uploader is the write surface the storage service depends on.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) error
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

// UploadInput describes a single object write.
type UploadInput struct {
	Bucket      string
	Object      string
	ContentType string
	Data        []byte
	// Overwrite false writes with ifGenerationMatch=0 so an existing object
	// at the same path fails the upload instead of being replaced.
	Overwrite bool
}

// ErrObjectExists is returned when a no-overwrite upload hits an existing object.
var ErrObjectExists = errors.New("object already exists")

// Upload writes the object via the JSON media-upload endpoint.
func (c *Client) Upload(ctx context.Context, in UploadInput) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	bucket := in.Bucket
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return errors.New("gcs bucket is required")
	}
	if strings.TrimSpace(in.Object) == "" {
		return errors.New("object name is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", in.Object)
	if !in.Overwrite {
		q.Set("ifGenerationMatch", "0")
	}
	u := fmt.Sprintf(
		"https://storage.googleapis.com/upload/storage/v1/b/%s/o?%s",
		url.PathEscape(bucket),
		q.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(in.Data))
	if err != nil {
		return err
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusPreconditionFailed && !in.Overwrite:
		return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, in.Object)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("gcs upload failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("gcs upload failed: %s", resp.Status)
	}
}

// PublicURL returns the canonical public address of an object. The product
// images bucket is publicly readable, so no signing is involved.
func (c *Client) PublicURL(bucket, object string) string {
	if bucket == "" && c != nil {
		bucket = c.defaultBucket
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, url.PathEscape(object))
}
