package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/specx2/oasclient/core/ir"
)

const contentTypeJSON = "application/json"

// BuildURL joins a resolved base URL with the substituted path and encoded
// query string. Either side may be empty; the joined form always carries a
// single slash between them.
func BuildURL(baseURL, path, queryString string) string {
	var full string
	switch {
	case baseURL == "":
		full = path
	case path == "":
		full = baseURL
	default:
		full = strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if queryString != "" {
		full += "?" + queryString
	}
	return full
}

// ApplyHeaderDefaults merges configured default headers beneath the
// descriptor's resolved headers: common defaults first, then defaults for
// the request's method, with per-call values winning on key conflict.
func ApplyHeaderDefaults(descriptor *ir.RequestDescriptor, common map[string]string, perMethod map[string]map[string]string) {
	if len(common) == 0 && len(perMethod) == 0 {
		return
	}
	merged := make(map[string]string, len(common)+len(descriptor.Headers))
	for key, value := range common {
		merged[key] = value
	}
	if methodHeaders, ok := perMethod[strings.ToLower(descriptor.Method)]; ok {
		for key, value := range methodHeaders {
			merged[key] = value
		}
	}
	for key, value := range descriptor.Headers {
		merged[key] = value
	}
	descriptor.Headers = merged
}

// ApplyOverride merges the per-call override into a descriptor, last, so it
// wins over everything resolved before it. Params and Headers merge
// key-by-key; the query string is re-encoded after a Params merge, with new
// names appended in sorted order. The remaining fields replace their
// computed counterparts wholesale. BaseURL is left to the caller, which
// applies it when joining the final URL.
func ApplyOverride(op *ir.Operation, descriptor *ir.RequestDescriptor, override *ir.RequestOverride) {
	if override == nil {
		return
	}

	if override.Method != "" {
		descriptor.Method = strings.ToUpper(override.Method)
	}

	if len(override.Params) > 0 {
		if descriptor.Query == nil {
			descriptor.Query = make(map[string]interface{}, len(override.Params))
		}
		names := make([]string, 0, len(override.Params))
		for name := range override.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			value := override.Params[name]
			if value == nil {
				continue
			}
			if _, seen := descriptor.Query[name]; !seen {
				descriptor.QueryOrder = append(descriptor.QueryOrder, name)
			}
			descriptor.Query[name] = value
		}
		descriptor.QueryString = encodeQueryString(op, descriptor.Query, descriptor.QueryOrder)
	}

	if len(override.Headers) > 0 {
		if descriptor.Headers == nil {
			descriptor.Headers = make(map[string]string, len(override.Headers))
		}
		for key, value := range override.Headers {
			descriptor.Headers[key] = value
		}
	}

	if override.Cookies != nil {
		descriptor.Cookies = override.Cookies
	}

	if override.Payload != nil {
		descriptor.Payload = override.Payload
	}
}

// SelectContentType picks the media type for an outgoing payload: an
// explicit override wins, then the operation's declared media types with
// JSON variants preferred, then plain application/json.
func SelectContentType(op *ir.Operation, override string) string {
	if override != "" {
		return override
	}
	if op != nil && op.RequestBody != nil && len(op.RequestBody.ContentOrder) > 0 {
		for _, candidate := range op.RequestBody.ContentOrder {
			if strings.Contains(candidate, "json") {
				return candidate
			}
		}
		return op.RequestBody.ContentOrder[0]
	}
	return contentTypeJSON
}

// NewHTTPRequest materializes a finished descriptor into an *http.Request,
// encoding the payload according to the chosen content type. Responses and
// transport errors stay entirely with the caller's HTTPClient.
func NewHTTPRequest(ctx context.Context, op *ir.Operation, descriptor *ir.RequestDescriptor, contentType string) (*http.Request, error) {
	var (
		body io.Reader
		err  error
	)
	if descriptor.Payload != nil {
		body, contentType, err = encodeBody(op, descriptor.Payload, contentType)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, descriptor.Method, descriptor.URL, body)
	if err != nil {
		return nil, err
	}

	for key, value := range descriptor.Headers {
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	cookieNames := make([]string, 0, len(descriptor.Cookies))
	for name := range descriptor.Cookies {
		cookieNames = append(cookieNames, name)
	}
	sort.Strings(cookieNames)
	for _, name := range cookieNames {
		req.AddCookie(&http.Cookie{Name: name, Value: descriptor.Cookies[name]})
	}

	return req, nil
}

// encodeBody renders the payload for the wire. Raw reader, byte, and string
// payloads pass through untouched regardless of content type; structured
// payloads are marshalled to match the media type. The returned content
// type may differ from the requested one for multipart bodies, which carry
// a generated boundary.
func encodeBody(op *ir.Operation, payload interface{}, contentType string) (io.Reader, string, error) {
	switch raw := payload.(type) {
	case io.Reader:
		return raw, contentType, nil
	case []byte:
		return bytes.NewReader(raw), contentType, nil
	case string:
		return strings.NewReader(raw), contentType, nil
	}

	switch {
	case strings.Contains(contentType, "json"):
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode %s payload: %w", contentType, err)
		}
		return bytes.NewReader(data), contentType, nil

	case strings.Contains(contentType, "x-www-form-urlencoded"):
		values, err := formValues(op, payload, contentType)
		if err != nil {
			return nil, "", err
		}
		return strings.NewReader(values.Encode()), contentType, nil

	case strings.Contains(contentType, "multipart"):
		return encodeMultipart(payload)

	case strings.HasPrefix(contentType, "text/"):
		return strings.NewReader(formatScalar(payload)), contentType, nil

	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode %s payload: %w", contentType, err)
		}
		return bytes.NewReader(data), contentType, nil
	}
}

// formValues flattens a map payload into url.Values, honoring per-field
// encoding declarations: exploded arrays repeat the field, unexploded ones
// join with commas.
func formValues(op *ir.Operation, payload interface{}, contentType string) (url.Values, error) {
	obj, ok := valueAsMap(payload)
	if !ok {
		return nil, fmt.Errorf("form payload must be a map, got %T", payload)
	}

	var encodings map[string]ir.EncodingInfo
	if op != nil && op.RequestBody != nil {
		encodings = op.RequestBody.Encodings[contentType]
	}

	values := url.Values{}
	for _, key := range sortedKeys(obj) {
		value := obj[key]
		if value == nil {
			continue
		}
		explode := true
		if encoding, ok := encodings[key]; ok && encoding.Explode != nil {
			explode = *encoding.Explode
		}
		if arr, ok := valueAsSlice(value); ok {
			if explode {
				for _, item := range arr {
					values.Add(key, formatScalar(item))
				}
			} else {
				values.Add(key, strings.Join(stringifySlice(arr), ","))
			}
			continue
		}
		values.Add(key, simpleValue(value))
	}
	return values, nil
}

func encodeMultipart(payload interface{}) (io.Reader, string, error) {
	obj, ok := valueAsMap(payload)
	if !ok {
		return nil, "", fmt.Errorf("multipart payload must be a map, got %T", payload)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, key := range sortedKeys(obj) {
		value := obj[key]
		if value == nil {
			continue
		}
		if data, ok := value.([]byte); ok {
			part, err := writer.CreateFormFile(key, key)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(data); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := writer.WriteField(key, simpleValue(value)); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
