package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/lib/pq"
)

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\s_=]`)

// SanitizeMessage keeps letters, digits, whitespace, underscores and
// equals signs so driver internals do not leak to clients.
func SanitizeMessage(msg string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(msg, ""))
}

// Translate maps store errors onto the apperr taxonomy. *apperr.Error
// values are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrNoResult):
		notFound := apperr.NotFound("No such object")
		notFound.Err = err
		return notFound
	case errors.Is(err, ErrMultipleRows):
		return apperr.Conflict(SanitizeMessage(ErrMultipleRows.Error()), err)
	case errors.Is(err, ErrSessionNotInitialized), errors.Is(err, ErrEmptyConditions):
		return apperr.Usage(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return apperr.Transport("Database unavailable", err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg := pqErr.Detail
		if msg == "" {
			msg = pqErr.Message
		}
		msg = SanitizeMessage(msg)
		switch pqErr.Code.Class() {
		case "23":
			return apperr.Conflict(msg, err)
		case "22":
			invalid := apperr.Validation(msg)
			invalid.Err = err
			return invalid
		case "08", "53", "57":
			return apperr.Transport("Database unavailable", err)
		}
		return apperr.Internal(msg, err)
	}

	return apperr.Internal("Internal server error", err)
}
