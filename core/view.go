package core

// ViewStatus is what a list view renders: exactly one of loading, error or populated.
// A populated view may be empty; views tell "no results" apart from "error" with it.
type ViewStatus string

const (
	StatusLoading   ViewStatus = "loading"
	StatusError     ViewStatus = "error"
	StatusPopulated ViewStatus = "populated"
)

// ResolveStatus derives the view status. An error keeps any last-good data around,
// but the view still reports the error.
func ResolveStatus(loading bool, err error) ViewStatus {
	switch {
	case loading:
		return StatusLoading
	case err != nil:
		return StatusError
	default:
		return StatusPopulated
	}
}
