package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

var (
	errInvalidBody = errors.New("invalid JSON body")
	errBodyTooBig  = errors.New("request body too large")
	errMissingID   = errors.New("missing id")
	errInvalidID   = errors.New("invalid id")
)

// parseObject reads the body as a JSON object. An empty body is an empty
// object; anything that is not an object is rejected.
func parseObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return nil, errInvalidBody
	}
	return body, nil
}

// parseInto decodes the body into v, which must be a pointer to a struct.
func parseInto(w http.ResponseWriter, r *http.Request, v any) error {
	raw, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errInvalidBody
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, errBodyTooBig
		}
		return nil, errInvalidBody
	}
	return bytes.TrimSpace(raw), nil
}

// parseID reads the {id} route variable as a positive integer.
func parseID(r *http.Request) (int64, error) {
	v := strings.TrimSpace(mux.Vars(r)["id"])
	if v == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
