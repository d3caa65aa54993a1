package services

import "github.com/todaysfinds/tkd-car/models"

// RequestCoversDate reports whether req's date range includes date
// (YYYY-MM-DD, compared lexically). An empty end date means a single day.
func RequestCoversDate(req models.AbsenceRequest, date string) bool {
	if date < req.StartDate {
		return false
	}
	end := req.EndDate
	if end == "" {
		end = req.StartDate
	}
	return date <= end
}

// ExcludedOnDate reports whether an approved request keeps the student off
// the shuttle on date. Only full-absence requests exclude both directions;
// skip requests apply to their channel alone, which the attendance daily
// view resolves per channel.
func ExcludedOnDate(req models.AbsenceRequest, date string) bool {
	return req.Status == models.RequestApproved && RequestCoversDate(req, date)
}
