package publisher

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
)

// Classify maps an error returned by the platform client onto the publication taxonomy.
// It never returns nil for a non-nil err.
func Classify(err error) *entity.PublishError {
	if err == nil {
		return nil
	}

	var pubErr *entity.PublishError
	if errors.As(err, &pubErr) {
		return pubErr
	}

	classified := &entity.PublishError{Kind: entity.PublishErrorUnknown, Err: err}

	var (
		serializationErr   *smithy.SerializationError
		canceledErr        *smithy.CanceledError
		requestCanceledErr *aws.RequestCanceledError
		sendErr            *smithyhttp.RequestSendError
		deserializationErr *smithy.DeserializationError
		apiErr             smithy.APIError
	)

	switch {
	case errors.As(err, &serializationErr):
		classified.Kind = entity.PublishErrorConstruction
	case errors.As(err, &canceledErr):
		if errors.Is(canceledErr.Err, context.DeadlineExceeded) {
			classified.Kind = entity.PublishErrorTimeout
		} else {
			classified.Kind = entity.PublishErrorDispatch
			classified.Cause = entity.DispatchUser
		}
	case errors.As(err, &requestCanceledErr):
		classified.Kind = entity.PublishErrorTimeout
	case errors.As(err, &sendErr):
		classified.Kind = entity.PublishErrorDispatch
		classified.Cause = dispatchCause(sendErr.Err)
	case errors.As(err, &deserializationErr):
		classified.Kind = entity.PublishErrorResponse
	case errors.As(err, &apiErr):
		classified.Kind = entity.PublishErrorService
		classified.Code = apiErr.ErrorCode()
		classified.Message = apiErr.ErrorMessage()
		classified.Meta = serviceMeta(err, apiErr)
	case errors.Is(err, context.DeadlineExceeded):
		classified.Kind = entity.PublishErrorTimeout
	case errors.Is(err, context.Canceled):
		classified.Kind = entity.PublishErrorDispatch
		classified.Cause = entity.DispatchUser
	}

	return classified
}

func dispatchCause(err error) entity.DispatchCause {
	switch {
	case errors.Is(err, context.Canceled):
		return entity.DispatchUser
	case errors.Is(err, context.DeadlineExceeded):
		return entity.DispatchTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return entity.DispatchTimeout
		}
		return entity.DispatchIO
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return entity.DispatchIO
	}
	return entity.DispatchOther
}

func serviceMeta(err error, apiErr smithy.APIError) map[string]string {
	meta := map[string]string{
		"fault": apiErr.ErrorFault().String(),
	}

	var withRequestID interface{ ServiceRequestID() string }
	if errors.As(err, &withRequestID) && withRequestID.ServiceRequestID() != "" {
		meta["request_id"] = withRequestID.ServiceRequestID()
	}
	var withHostID interface{ ServiceHostID() string }
	if errors.As(err, &withHostID) && withHostID.ServiceHostID() != "" {
		meta["host_id"] = withHostID.ServiceHostID()
	}
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		meta["http_status"] = strconv.Itoa(withStatus.HTTPStatusCode())
	}
	return meta
}
