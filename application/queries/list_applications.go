package queries

import "errors"

// ListApplicationsQuery searches the application catalog. An empty
// query lists everything up to Limit.
type ListApplicationsQuery struct {
	Query string
	Limit int
}

// Validate validates the ListApplicationsQuery
func (q ListApplicationsQuery) Validate() error {
	if q.Limit < 1 || q.Limit > 200 {
		return errors.New("limit must be between 1 and 200")
	}
	return nil
}

// ApplicationView is the read model of one catalog entry
type ApplicationView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Website  string `json:"website,omitempty"`
	LogoURL  string `json:"logoUrl,omitempty"`
}

// ApplicationList is the result of ListApplicationsQuery
type ApplicationList struct {
	Applications []ApplicationView `json:"applications"`
}
