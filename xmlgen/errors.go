package xmlgen

import "strings"

// An Error is returned by Generate when a document cannot be built.
// Path holds the names of the elements, and possibly the attribute,
// leading from the document root to the failing declaration.
type Error struct {
	Path []string
	Err  error
}

func (e *Error) Error() string {
	return "error at " + strings.Join(e.Path, ">") + ": " + e.Err.Error()
}

// Unwrap returns the underlying error, so that errors.Is and the
// error kind checks of github.com/juju/errors see through an Error.
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *Error) Cause() error { return e.Err }

// Generation is deeply recursive; failures are raised with fail and
// unwound to the exported entry points, collecting the names of the
// declarations they pass through.
func fail(err error) {
	panic(&Error{Err: err})
}

func within(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(*Error); ok {
				err.Path = append([]string{name}, err.Path...)
				panic(err)
			}
			panic(r)
		}
	}()
	fn()
}

// defer catchError(&err)
func catchError(err *error) {
	if r := recover(); r != nil {
		gerr, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*err = gerr
	}
}
