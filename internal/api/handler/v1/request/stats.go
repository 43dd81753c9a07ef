package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mecalink/admin-gateway/internal/domain"
)

const DateLayout = "2006-01-02"

type PeriodRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	GroupBy   string `form:"groupBy"`
}

func (req *PeriodRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StartDate, validation.Date(DateLayout)),
		validation.Field(&req.EndDate, validation.Date(DateLayout)),
		validation.Field(&req.GroupBy, validation.In(
			string(domain.GroupByDay),
			string(domain.GroupByWeek),
			string(domain.GroupByMonth),
		)),
	)
}

// Range returns the parsed dates; an empty date is the zero time. The end
// date covers its whole day.
func (req *PeriodRequest) Range() (time.Time, time.Time) {
	var start, end time.Time
	if req.StartDate != "" {
		start, _ = time.Parse(DateLayout, req.StartDate)
	}
	if req.EndDate != "" {
		end, _ = time.Parse(DateLayout, req.EndDate)
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	return start, end
}
