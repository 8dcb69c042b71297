package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingObjectContext = errors.New("invocation event has no object context")
	ErrInvalidObjectContext = errors.New("object context is incomplete")
	ErrRetrievalFailed      = errors.New("retrieval failed")
	ErrTransformFailed      = errors.New("thumbnail transformation failed")
	ErrUnsupportedFormat    = errors.New("unsupported image format")
	ErrImageTooLarge        = errors.New("decoded image exceeds pixel limit")
	ErrPublishFailed        = errors.New("response publication failed")
)

type PublishErrorKind int

const (
	PublishErrorUnknown PublishErrorKind = iota
	PublishErrorConstruction
	PublishErrorDispatch
	PublishErrorResponse
	PublishErrorTimeout
	PublishErrorService
)

func (k PublishErrorKind) String() string {
	switch k {
	case PublishErrorConstruction:
		return "ConstructionFailure"
	case PublishErrorDispatch:
		return "DispatchFailure"
	case PublishErrorResponse:
		return "ResponseError"
	case PublishErrorTimeout:
		return "TimeoutError"
	case PublishErrorService:
		return "ServiceError"
	default:
		return "OtherError"
	}
}

// DispatchCause refines a DispatchFailure.
type DispatchCause int

const (
	DispatchOther DispatchCause = iota
	DispatchIO
	DispatchTimeout
	DispatchUser
)

func (c DispatchCause) String() string {
	switch c {
	case DispatchIO:
		return "IO error"
	case DispatchTimeout:
		return "Timeout error"
	case DispatchUser:
		return "User error"
	default:
		return "Other error"
	}
}

// PublishError is a classified response submission failure.
type PublishError struct {
	Kind    PublishErrorKind
	Cause   DispatchCause
	Code    string
	Message string
	Meta    map[string]string
	Err     error
}

// Label is the human readable classification written to the logs.
func (e *PublishError) Label() string {
	switch e.Kind {
	case PublishErrorDispatch:
		return e.Kind.String() + ": " + e.Cause.String()
	case PublishErrorService:
		return fmt.Sprintf("%s: code: %s, message: %s, meta: %s", e.Kind, e.Code, e.Message, e.metaString())
	default:
		return e.Kind.String()
	}
}

func (e *PublishError) metaString() string {
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e.Meta[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (e *PublishError) Error() string {
	if e.Err == nil {
		return ErrPublishFailed.Error() + ": " + e.Kind.String()
	}
	return fmt.Sprintf("%s: %s: %v", ErrPublishFailed, e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func (e *PublishError) Is(target error) bool {
	return target == ErrPublishFailed
}
