package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")

	ErrMissingTitle       = errors.New("title is required")
	ErrMissingName        = errors.New("name is required")
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidStage       = errors.New("invalid creator stage")
	ErrInvalidDate        = errors.New("invalid date")
	ErrMissingDate        = errors.New("missing due_date")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidTaskType    = errors.New("invalid task type")
	ErrInvalidAccountKind = errors.New("invalid account kind")
	ErrWeakPassword       = errors.New("password is too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooLong    = errors.New("password is too long")

	ErrCreatorOnly        = errors.New("creator account required")
	ErrWrongTaskKind      = errors.New("only content tasks have a creator stage")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCreatorOnly),
		errors.Is(err, ErrWrongTaskKind),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailTaken):
		return KindAuthorization
	case errors.Is(err, ErrMissingTitle),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidStage),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidTaskType),
		errors.Is(err, ErrInvalidAccountKind),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrPasswordTooLong):
		return KindValidation
	}
	return KindInternal
}

// ErrorResponse is the JSON body for API-style failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch KindOf(err) {
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case KindAuthorization:
		if errors.Is(err, ErrInvalidCredentials) {
			return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
		}
		if errors.Is(err, ErrEmailTaken) {
			return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
		}
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
