package constants

import "net/http"

type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError(http.StatusNotFound, "not found")
	ErrUnauthorized      = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrMissingAuthCookie = NewCodedError(http.StatusUnauthorized, "missing auth cookie")
	ErrInvalidToken      = NewCodedError(http.StatusUnauthorized, "invalid token")

	ErrInvalidQuery     = NewCodedError(http.StatusBadRequest, "invalid query")
	ErrUnknownDataset   = NewCodedError(http.StatusNotFound, "unknown dataset")
	ErrUnknownEntity    = NewCodedError(http.StatusNotFound, "unknown entity")
	ErrDatasetNotLoaded = NewCodedError(http.StatusServiceUnavailable, "dataset is not available")
	ErrReloadInProgress = NewCodedError(http.StatusConflict, "reload already in progress")
)
