package explainapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx answer from the server. Message and Code come from
// the {"error":{...}} envelope when the body has one.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code == "" {
		return fmt.Sprintf("simple-explain: %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("simple-explain: %d %s: %s", e.StatusCode, e.Code, msg)
}

// HTTPStatusCode lets httpx classify the error for retries.
func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func parseHTTPError(status int, raw []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(raw))}
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil {
		e.Message = strings.TrimSpace(env.Error.Message)
		e.Code = strings.TrimSpace(env.Error.Code)
	}
	return e
}
