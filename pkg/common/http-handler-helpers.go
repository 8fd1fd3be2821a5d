package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	"github.com/matst80/campsite-finder/pkg/types"
)

// StatusError is an error with the HTTP status it should be reported as.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func BadRequest(err error) error {
	return &StatusError{Code: http.StatusBadRequest, Err: err}
}

func BadGateway(err error) error {
	return &StatusError{Code: http.StatusBadGateway, Err: err}
}

// JsonHandler handles CORS preflight, assigns a session and writes the
// value returned by fn as JSON. Errors are logged and written as
// {"error": "..."} with the status of a StatusError, or 500.
func JsonHandler(trk types.Tracking, fn func(w http.ResponseWriter, r *http.Request, sessionId int) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)

		data, err := fn(w, r, sessionId)
		if err != nil {
			log.Printf("Error handling request %s: %v", r.URL.Path, err)
			code := http.StatusInternalServerError
			var se *StatusError
			if errors.As(err, &se) {
				code = se.Code
			}
			WriteJson(w, r, code, map[string]string{"error": err.Error()})
			return
		}
		WriteJson(w, r, http.StatusOK, data)
	}
}

func WriteJson(w http.ResponseWriter, r *http.Request, code int, data any) {
	body, err := jsoncompat.Marshal(data)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	genericHeaders(w, r)
	w.Header().Set("Cache-Control", "private, no-cache")
	w.WriteHeader(code)
	if _, err = w.Write(body); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func genericHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
