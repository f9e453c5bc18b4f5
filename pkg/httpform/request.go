package httpform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
)

// errBadBody marks body decoding failures so they map to 400.
var errBadBody = errors.New("httpform: malformed request body")

// request adapts *http.Request to form.Request.
type request struct {
	r         *http.Request
	session   form.SessionStore
	maxMemory int64
}

var _ form.Request = request{}

func (r request) Method() string             { return r.r.Method }
func (r request) Path() string               { return r.r.URL.Path }
func (r request) Session() form.SessionStore { return r.session }

// XHR follows the X-Requested-With convention.
func (r request) XHR() bool {
	return strings.EqualFold(r.r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// Body decodes JSON, multipart and urlencoded bodies. Repeated keys become
// []string; uploads become *multipart.FileHeader.
func (r request) Body() (field.Body, error) {
	mediaType, _, _ := mime.ParseMediaType(r.r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return r.jsonBody()
	case "multipart/form-data":
		if err := r.r.ParseMultipartForm(r.maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
	default:
		if err := r.r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
	}

	body := make(field.Body, len(r.r.PostForm))
	for key, values := range r.r.PostForm {
		switch len(values) {
		case 0:
		case 1:
			body[key] = values[0]
		default:
			body[key] = append([]string(nil), values...)
		}
	}
	if r.r.MultipartForm != nil {
		for key, headers := range r.r.MultipartForm.File {
			switch len(headers) {
			case 0:
			case 1:
				body[key] = headers[0]
			default:
				body[key] = headers
			}
		}
	}
	return body, nil
}

func (r request) jsonBody() (field.Body, error) {
	body := field.Body{}
	if r.r.Body == nil || r.r.Body == http.NoBody {
		return body, nil
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.r.Body, r.maxMemory))
	if err := decoder.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return body, nil
}
