// Package recorder provides an http.ResponseWriter that captures the result
// of an internal dispatch instead of sending it to a client.
package recorder

import (
	"bytes"
	"net/http"
)

// Recorder records status code, headers and body of a response. The zero
// status code is reported as 200, matching net/http behavior for handlers
// that never call WriteHeader.
type Recorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func New() *Recorder {
	return &Recorder{header: http.Header{}}
}

// Header implements http.ResponseWriter.
func (r *Recorder) Header() http.Header {
	return r.header
}

// WriteHeader implements http.ResponseWriter.
func (r *Recorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = statusCode
}

// Write implements http.ResponseWriter.
func (r *Recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// StatusCode returns the recorded status code.
func (r *Recorder) StatusCode() int {
	if !r.wroteHeader {
		return http.StatusOK
	}
	return r.status
}

// Body returns the recorded response body.
func (r *Recorder) Body() []byte {
	return r.body.Bytes()
}
