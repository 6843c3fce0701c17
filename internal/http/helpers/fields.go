package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
)

// MaxBodyBytes límite de body para formularios y JSON.
const MaxBodyBytes = 64 << 10

// ReadFields lee los campos pedidos del body, sea application/json o formulario
// (urlencoded o multipart). Los campos ausentes quedan como "".
// Los números JSON se devuelven en su forma decimal ("30", "12.5").
func ReadFields(w http.ResponseWriter, r *http.Request, fields ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	out := make(map[string]string, len(fields))
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			if isTooLarge(err) {
				return nil, httperrors.ErrBodyTooLarge
			}
			return nil, httperrors.ErrBadRequest.WithDetail("body is not valid JSON").WithCause(err)
		}
		for _, f := range fields {
			out[f] = stringify(raw[f])
		}
		return out, nil
	}

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(MaxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		if isTooLarge(err) {
			return nil, httperrors.ErrBodyTooLarge
		}
		return nil, httperrors.ErrBadRequest.WithDetail("body is not a valid form").WithCause(err)
	}
	for _, f := range fields {
		out[f] = r.PostFormValue(f)
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
