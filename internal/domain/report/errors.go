package report

import "errors"

var (
	ErrInvalidFormat     = errors.New("format must be one of: csv, pdf, xlsx")
	ErrInvalidWeekOffset = errors.New("weekOffset must be an integer between -520 and 520")
	ErrRenderFailed      = errors.New("failed to render report")
	ErrNoRecipients      = errors.New("no report recipients configured")
)
