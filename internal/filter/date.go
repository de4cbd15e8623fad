package filter

import (
	"time"

	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/models"
)

// DateLayout is the DD/MM/YYYY form used by the chat export and the CLI.
const DateLayout = "02/01/2006"

// parseLayout also takes days and months without the leading zero.
const parseLayout = "2/1/2006"

func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(parseLayout, dateStr)
}

// ByDateRange keeps postings dated between start and end, both inclusive.
// A posting date that does not parse fails the whole call.
func ByDateRange(postings []*models.JobPosting, start, end time.Time) ([]*models.JobPosting, error) {
	filtered := make([]*models.JobPosting, 0, len(postings))
	for _, posting := range postings {
		postingDate, err := ParseDate(posting.Date)
		if err != nil {
			return nil, errors.InvalidDate("invalid posting date "+posting.Date, err)
		}
		if postingDate.Before(start) || postingDate.After(end) {
			continue
		}
		filtered = append(filtered, posting)
	}
	return filtered, nil
}
