package permissions

import "fmt"

// Status mirrors AVAuthorizationStatus.
type Status int

const (
	NotDetermined Status = 0
	Restricted    Status = 1
	Denied        Status = 2
	Authorized    Status = 3
)

func (s Status) String() string {
	switch s {
	case NotDetermined:
		return "not determined"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) err() error {
	if s == Authorized {
		return nil
	}
	return fmt.Errorf("microphone permission %s: allow access in System Settings → Privacy & Security → Microphone", s)
}
