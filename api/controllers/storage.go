package controllers

import (
	"net/http"

	"github.com/basabecode/tupijama.com-sub001/api/responses"
	"github.com/basabecode/tupijama.com-sub001/api/validators"
	"github.com/basabecode/tupijama.com-sub001/internal/storage"
	pkgerrors "github.com/basabecode/tupijama.com-sub001/pkg/errors"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

// StorageController serves the admin-only bucket endpoints. The service is
// nil when the process started without service credentials; every call then
// fails the same way instead of panicking.
type StorageController struct {
	svc  *storage.Service
	logg *logger.Logger
}

func NewStorageController(svc *storage.Service, logg *logger.Logger) *StorageController {
	return &StorageController{svc: svc, logg: logg}
}

func (c *StorageController) Init(w http.ResponseWriter, r *http.Request) {
	if c.svc == nil {
		responses.WriteError(r.Context(), c.logg, w, errStorageUnavailable())
		return
	}

	result, err := c.svc.InitBucket(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *StorageController) Upload(w http.ResponseWriter, r *http.Request) {
	if c.svc == nil {
		responses.WriteError(r.Context(), c.logg, w, errStorageUnavailable())
		return
	}

	var req storage.UploadInput
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.Upload(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func errStorageUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "storage service unavailable")
}
