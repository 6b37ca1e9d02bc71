package restcountries

import (
	"fmt"
	"net/http"
)

// NetworkError reports a transport failure, an undecodable body, or a non-2xx
// response other than the documented not-found cases.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) notFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NotFoundError is returned by Lookup when no country has the given code.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("country %q not found", e.Code)
}
