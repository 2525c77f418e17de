package toast

import (
	"fmt"

	"apistatus/internal/domain"
)

// APIStatus is the toast shown when the API stops answering properly.
type APIStatus struct {
	Kind   domain.Kind
	APIURL string
}

// Title returns the headline for the toast.
func (s APIStatus) Title() string {
	if s.Kind == domain.KindAuth {
		return "API authentication failed"
	}
	return "API unreachable"
}

// Message returns the body text for the toast.
func (s APIStatus) Message() string {
	if s.Kind == domain.KindAuth {
		return "The API rejected our credentials. Check that the API key is valid and allowed to access this workspace."
	}
	target := "the API"
	if s.APIURL != "" {
		target = "the API at " + s.APIURL
	}
	return fmt.Sprintf("Can't connect to %s. Check that it is running and reachable from this machine.", target)
}

func (s APIStatus) Render() string {
	return s.Title() + "\n" + s.Message()
}
