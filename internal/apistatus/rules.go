package apistatus

import (
	"slices"

	"apistatus/internal/httpclient"
)

// Rules selects which client errors mean the API is down or rejecting us.
type Rules struct {
	// Statuses match exactly.
	Statuses []int
	// Ranges match [base, base+100) for each base.
	Ranges []int
	// Codes match transport error codes of failures without a response.
	Codes []string
}

// DefaultRules matches 401, 403, any 5xx and network failures.
func DefaultRules() Rules {
	return Rules{
		Statuses: []int{401, 403},
		Ranges:   []int{500},
		Codes:    []string{httpclient.CodeNetwork},
	}
}

// Match reports whether err should trigger the notification.
// Anything that is not a *httpclient.ClientError never matches.
func (r Rules) Match(err error) bool {
	ce, ok := httpclient.AsClientError(err)
	if !ok {
		return false
	}
	if status, ok := ce.StatusCode(); ok {
		return r.matchStatus(status)
	}
	if ce.Code != "" {
		return slices.Contains(r.Codes, ce.Code)
	}
	return false
}

func (r Rules) matchStatus(status int) bool {
	if slices.Contains(r.Statuses, status) {
		return true
	}
	for _, base := range r.Ranges {
		if status >= base && status < base+100 {
			return true
		}
	}
	return false
}
