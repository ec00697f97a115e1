package attendance

import (
	"time"

	"github.com/timenest/timenest-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttendanceResponse struct {
	ID       string        `json:"id"`
	UserID   string        `json:"userId"`
	Day      string        `json:"day"`
	CheckIn  *time.Time    `json:"checkIn"`
	CheckOut *time.Time    `json:"checkOut"`
	Status   Status        `json:"status"`
	User     *UserResponse `json:"user,omitempty"`
}

type TodayResponse struct {
	Day      string     `json:"day"`
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
	Status   Status     `json:"status"`
}

type ListAttendanceResponse struct {
	Items []AttendanceResponse `json:"data"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int64                `json:"total"`
}

const (
	DefaultHistoryLimit = 10
	DefaultAdminLimit   = 20
	MaxLimit            = 100
	MaxPage             = 100000

	MinWeekOffset = -520
	MaxWeekOffset = 520
)

// HistoryFilter bounds GET /history. From and To are inclusive YYYY-MM-DD.
type HistoryFilter struct {
	From  *string `validate:"omitempty,datetime=2006-01-02"`
	To    *string `validate:"omitempty,datetime=2006-01-02"`
	Page  int     `validate:"gte=0,lte=100000"`
	Limit int     `validate:"gte=0,lte=100"`
}

func (f *HistoryFilter) Validate() error {
	errs := validator.Struct(f)
	errs = append(errs, validateRange(f.From, f.To)...)
	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultHistoryLimit
	}
	return nil
}

// AdminFilter bounds GET /admin/records. From/To take precedence over
// WeekOffset; the service resolves WeekOffset into From/To.
type AdminFilter struct {
	UserID     *string `query:"userId" validate:"omitempty,uuid"`
	From       *string `validate:"omitempty,datetime=2006-01-02"`
	To         *string `validate:"omitempty,datetime=2006-01-02"`
	WeekOffset *int    `query:"weekOffset" validate:"omitempty,gte=-520,lte=520"`
	Page       int     `validate:"gte=0,lte=100000"`
	Limit      int     `validate:"gte=0,lte=100"`
}

func (f *AdminFilter) Validate() error {
	errs := validator.Struct(f)
	errs = append(errs, validateRange(f.From, f.To)...)
	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultAdminLimit
	}
	return nil
}

// HasDateRange reports whether explicit bounds were supplied.
func (f *AdminFilter) HasDateRange() bool {
	return (f.From != nil && *f.From != "") || (f.To != nil && *f.To != "")
}

func validateRange(from, to *string) validator.ValidationErrors {
	if from == nil || to == nil || *from == "" || *to == "" {
		return nil
	}
	fromDate, okFrom := validator.IsValidDate(*from)
	toDate, okTo := validator.IsValidDate(*to)
	if okFrom && okTo && toDate.Before(fromDate) {
		return validator.ValidationErrors{{
			Field:   "to",
			Message: "to must not be before from",
		}}
	}
	return nil
}
