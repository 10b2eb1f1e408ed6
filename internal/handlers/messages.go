package handlers

import (
	"errors"

	"taskflow/internal/apperrors"
)

var messages = []struct {
	err error
	msg string
}{
	{apperrors.ErrNotFound, "That item does not exist or is not yours."},
	{apperrors.ErrMissingTitle, "A title is required."},
	{apperrors.ErrMissingName, "A project name is required."},
	{apperrors.ErrMissingFields, "All fields are required."},
	{apperrors.ErrInvalidStatus, "Invalid status."},
	{apperrors.ErrInvalidStage, "Invalid content stage."},
	{apperrors.ErrInvalidDate, "Invalid date format, the date was ignored."},
	{apperrors.ErrMissingDate, "A date is required."},
	{apperrors.ErrInvalidPriority, "Invalid priority, kept the previous value."},
	{apperrors.ErrInvalidTaskType, "Invalid task type, kept the previous value."},
	{apperrors.ErrInvalidAccountKind, "Invalid account type."},
	{apperrors.ErrWeakPassword, "The password is too short."},
	{apperrors.ErrPasswordMismatch, "The new passwords do not match."},
	{apperrors.ErrPasswordTooLong, "The password is too long (72 bytes at most)."},
	{apperrors.ErrCreatorOnly, "This area is reserved for creator accounts."},
	{apperrors.ErrWrongTaskKind, "This task is not a content task."},
	{apperrors.ErrInvalidCredentials, "Invalid email or password."},
	{apperrors.ErrEmailTaken, "An account already exists with this email."},
}

func message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Something went wrong, please try again."
}
