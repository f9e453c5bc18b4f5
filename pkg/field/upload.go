package field

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// unacceptedUpload reports a typeMismatch when an uploaded file does not
// satisfy the accept list. Plain string values are not inspected.
func unacceptedUpload(f *Field, value any, _ string) bool {
	if strings.TrimSpace(f.Accept) == "" {
		return false
	}
	var headers []*multipart.FileHeader
	switch v := value.(type) {
	case *multipart.FileHeader:
		if v != nil {
			headers = append(headers, v)
		}
	case []*multipart.FileHeader:
		headers = v
	}
	for _, header := range headers {
		if header == nil {
			continue
		}
		if !Accepts(f.Accept, header) {
			return true
		}
	}
	return false
}

// Accepts checks header against an accept attribute value: extensions
// (".pdf"), exact MIME types and wildcards ("image/*"). The MIME type is
// sniffed from the content rather than trusted from the client.
func Accepts(accept string, header *multipart.FileHeader) bool {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	var detected *mimetype.MIME
	sniff := func() *mimetype.MIME {
		if detected != nil {
			return detected
		}
		file, err := header.Open()
		if err != nil {
			return nil
		}
		defer file.Close()
		detected, err = mimetype.DetectReader(file)
		if err != nil {
			detected = nil
		}
		return detected
	}

	for _, token := range strings.Split(accept, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		switch {
		case token == "":
			continue
		case strings.HasPrefix(token, "."):
			if ext == token {
				return true
			}
		case strings.HasSuffix(token, "/*"):
			if mime := sniff(); mime != nil {
				prefix := strings.TrimSuffix(token, "*")
				for m := mime; m != nil; m = m.Parent() {
					if strings.HasPrefix(m.String(), prefix) {
						return true
					}
				}
			}
		default:
			if mime := sniff(); mime != nil && mime.Is(token) {
				return true
			}
		}
	}
	return false
}
