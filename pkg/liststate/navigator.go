package liststate

// Mode decides whether a URL write adds a history entry.
type Mode int

const (
	// ModePush adds a history entry, used for user transitions so back and
	// forward navigate between list states.
	ModePush Mode = iota
	// ModeReplace rewrites the current entry, used when normalizing an
	// incoming URL.
	ModeReplace
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}

// Navigator writes the address bar. A write made through Navigate must
// not be reported back to the controller as a NavigateIn.
type Navigator interface {
	Navigate(rawQuery string, mode Mode)
}

type NavigatorFunc func(rawQuery string, mode Mode)

func (f NavigatorFunc) Navigate(rawQuery string, mode Mode) {
	f(rawQuery, mode)
}
