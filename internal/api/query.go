package api

import "net/url"

// Filter narrows the minutes list. Zero-value fields are omitted from
// the query string entirely, so an empty filter sends no parameters.
type Filter struct {
	Title       string
	Participant string
	StartDate   string
	EndDate     string
}

// Query renders the filter as URL parameters. List and CSV export share
// this so the exported file always matches what the list shows.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.Participant != "" {
		q.Set("participant", f.Participant)
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	return q
}
