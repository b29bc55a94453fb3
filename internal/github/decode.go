package github

import (
	"encoding/json"
	"mime"
	"net/url"

	"commit-relay/internal/common/errors"
)

// Media types accepted on the hook endpoint.
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)

// ErrUnsupportedContentType is returned for media types the hook does not
// accept. Handlers map it to 415 rather than the usual 400.
var ErrUnsupportedContentType = errors.ValidationError("unsupported content type")

// ParsePayload decodes a request body into an Event according to the
// request Content-Type. The primary wire shape is a form-encoded body
// whose payload field holds the JSON document; a raw JSON body is also
// accepted. A missing Content-Type is treated as form-encoded.
func ParsePayload(contentType string, body []byte) (*Event, error) {
	mediaType := ""
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, ErrUnsupportedContentType
		}
		mediaType = mt
	}

	var raw []byte
	switch mediaType {
	case "", ContentTypeForm:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, errors.ValidationError("malformed form body")
		}
		fields := values["payload"]
		if len(fields) != 1 {
			return nil, errors.ValidationError("missing payload field")
		}
		raw = []byte(fields[0])

	case ContentTypeJSON:
		raw = body

	default:
		return nil, ErrUnsupportedContentType
	}

	event := &Event{}
	if err := json.Unmarshal(raw, event); err != nil {
		return nil, errors.ValidationError("invalid JSON payload")
	}

	return event, nil
}
