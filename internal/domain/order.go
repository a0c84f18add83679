package domain

import "time"

// Order is a customer job record with before/after photo references.
type Order struct {
	ID             string
	NameOfCustomer string
	Phone          string
	Address        string
	Service        string
	MainBeforeURL  string
	MainAfterURL   string
	BeforeURLs     []string
	AfterURLs      []string
	DateOfOrder    time.Time
	CreatedAt      time.Time
}

// ImageURLs returns every non-empty image reference stored on the order,
// main images first, then the before/after galleries in order.
func (o *Order) ImageURLs() []string {
	urls := make([]string, 0, 2+len(o.BeforeURLs)+len(o.AfterURLs))
	if o.MainBeforeURL != "" {
		urls = append(urls, o.MainBeforeURL)
	}
	if o.MainAfterURL != "" {
		urls = append(urls, o.MainAfterURL)
	}
	for _, u := range o.BeforeURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	for _, u := range o.AfterURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
