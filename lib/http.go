package lib

import "net/http"

// HttpClient is satisfied by *http.Client. Remote capability clients take it
// as a seam so tests can substitute a mock transport.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}
