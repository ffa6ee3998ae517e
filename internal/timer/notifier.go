package timer

// Kind identifies what a notification is about.
type Kind int

const (
	SessionEnded Kind = iota
)

func (k Kind) String() string {
	if k == SessionEnded {
		return "session_ended"
	}
	return "unknown"
}

// Notifier is the outbound sound/notification sink. Delivery is best effort:
// the controller discards any error it returns.
type Notifier interface {
	Notify(kind Kind, mode Mode) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(kind Kind, mode Mode) error

func (f NotifierFunc) Notify(kind Kind, mode Mode) error {
	return f(kind, mode)
}
