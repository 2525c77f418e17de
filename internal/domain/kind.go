package domain

// Kind selects the message an API status notification displays.
type Kind string

const (
	// KindAuth means the API rejected our credentials (401 or 403).
	KindAuth Kind = "auth"
	// KindOther covers server failures and unreachable APIs.
	KindOther Kind = "other"
)

func (k Kind) String() string {
	return string(k)
}

// KindForStatus maps an HTTP status to a notification kind.
// A zero status (no response) is KindOther.
func KindForStatus(status int) Kind {
	if status == 401 || status == 403 {
		return KindAuth
	}
	return KindOther
}
