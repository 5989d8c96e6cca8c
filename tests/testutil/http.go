package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Response is a fully read HTTP response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Request describes one call against a ContentAPI
type Request struct {
	Method string
	Path   string // relative to the server root, e.g. "/api/content/carousel"
	// JSON is marshaled as the body when set
	JSON        any
	Body        io.Reader
	ContentType string
	Token       string
}

// Do sends req to the API server and reads the whole response
func (a *ContentAPI) Do(t *testing.T, req Request) *Response {
	t.Helper()

	body := req.Body
	contentType := req.ContentType
	if req.JSON != nil {
		body = ToJSONReader(t, req.JSON)
		contentType = "application/json"
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequest(method, a.Server.URL+req.Path, body)
	require.NoError(t, err)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := a.Server.Client().Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}
}

// JSONAs parses the response body into T
func JSONAs[T any](t *testing.T, resp *Response) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(resp.Body, &result), "Failed to parse JSON response: %s", resp.Body)
	return result
}

// AssertErrorResponse asserts status and the error code of the body
func AssertErrorResponse(t *testing.T, resp *Response, status int, code string) {
	t.Helper()

	require.Equal(t, status, resp.Status, "body: %s", resp.Body)
	body := JSONAs[dto.ErrorResponse](t, resp)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Message)
}

// MultipartImage builds a multipart body with data under field and returns it
// with its content type
func MultipartImage(t *testing.T, field, filename string, data []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
