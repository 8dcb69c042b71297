package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/storage"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/service"
)

type Handler struct {
	service service.ThumbnailService
	storage storage.FileStorage
}

func NewHandler(service service.ThumbnailService, storage storage.FileStorage) *Handler {
	return &Handler{service: service, storage: storage}
}

// MapHTTPStatus maps handler errors to the status returned by /invoke.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrMissingObjectContext), errors.Is(err, entity.ErrInvalidObjectContext):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrRetrievalFailed), errors.Is(err, entity.ErrPublishFailed):
		return http.StatusBadGateway
	case errors.Is(err, entity.ErrTransformFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
