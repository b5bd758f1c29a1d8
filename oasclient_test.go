package oasclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/specx2/oasclient"
	"github.com/specx2/oasclient/oaserrors"
)

const petstorePath = "testdata/petstore.yaml"

type recordedRequest struct {
	method  string
	path    string
	query   string
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.cookies = r.Cookies()
		body, _ := io.ReadAll(r.Body)
		rec.body = body
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}

func newPetstoreClient(t *testing.T, baseURL string, opts ...oasclient.Option) *oasclient.Client {
	t.Helper()
	if baseURL != "" {
		opts = append(opts, oasclient.WithServer(oasclient.SelectServer(oasclient.Server{URL: baseURL})))
	}
	client, err := oasclient.NewFromFile(petstorePath, opts...)
	require.NoError(t, err)
	return client
}

func TestClientRegistersOperations(t *testing.T) {
	client := newPetstoreClient(t, "")

	require.Equal(t, "3.0.3", client.Version())
	require.Len(t, client.Operations(), 4)

	method := client.Op("getPetById")
	require.NotNil(t, method.Operation())
	require.Equal(t, "getPetById", method.Name())
	require.Equal(t, "/pets/{petId}", method.Operation().Path)

	require.NotNil(t, client.PathOp("/pets", "POST").Operation())
	require.Equal(t, "Swagger Petstore", client.Document().Title)
}

func TestCallSendsScalarBoundToRequiredPathParam(t *testing.T) {
	ts, rec := newRecordingServer(t, http.StatusOK, `{"id":1,"name":"Garfield"}`)
	client := newPetstoreClient(t, ts.URL)

	resp, err := client.Op("getPetById").Call(context.Background(), 1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.MethodGet, rec.method)
	require.Equal(t, "/pets/1", rec.path)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"Garfield"}`, string(body))
}

func TestDescriptorResolvesWithoutIO(t *testing.T) {
	client := newPetstoreClient(t, "")

	descriptor, err := client.Op("listPets").Descriptor(map[string]interface{}{
		"tags":  []interface{}{"a", "b"},
		"limit": 10,
	})
	require.NoError(t, err)

	require.Equal(t, "GET", descriptor.Method)
	require.Equal(t, "/pets", descriptor.Path)
	require.Equal(t, "tags=a&tags=b&limit=10", descriptor.QueryString)
	require.Equal(t, "http://petstore.example.test/api/pets?tags=a&tags=b&limit=10", descriptor.URL)
}

func TestCallHeaderPrecedence(t *testing.T) {
	ts, rec := newRecordingServer(t, http.StatusOK, `{}`)
	client := newPetstoreClient(t, ts.URL,
		oasclient.WithDefaultHeaders(map[string]string{"X-Common": "c", "Authorization": "common"}),
		oasclient.WithMethodHeaders("get", map[string]string{"X-Method": "m", "Authorization": "method"}),
	)

	resp, err := client.Op("getPetById").Call(context.Background(), 1, nil, &oasclient.RequestOverride{
		Headers: map[string]string{"Authorization": "call"},
		Cookies: map[string]string{"session": "s1"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "c", rec.header.Get("X-Common"))
	require.Equal(t, "m", rec.header.Get("X-Method"))
	require.Equal(t, "call", rec.header.Get("Authorization"))

	require.Len(t, rec.cookies, 1)
	require.Equal(t, "session", rec.cookies[0].Name)
	require.Equal(t, "s1", rec.cookies[0].Value)
}

func TestCallOverrideMergesQueryParams(t *testing.T) {
	ts, rec := newRecordingServer(t, http.StatusOK, `[]`)
	client := newPetstoreClient(t, ts.URL)

	resp, err := client.Op("listPets").Call(context.Background(),
		map[string]interface{}{"limit": 1},
		nil,
		&oasclient.RequestOverride{Params: map[string]interface{}{"limit": 5, "page": 2}},
	)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "limit=5&page=2", rec.query)
}

func TestCallSendsJSONPayload(t *testing.T) {
	ts, rec := newRecordingServer(t, http.StatusCreated, `{"id":2,"name":"Rex"}`)
	client := newPetstoreClient(t, ts.URL)

	resp, err := client.PathOp("/pets", "POST").Call(context.Background(), nil, map[string]interface{}{"name": "Rex"})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "/pets", rec.path)
	require.Equal(t, "application/json", rec.header.Get("Content-Type"))
	require.JSONEq(t, `{"name":"Rex"}`, string(rec.body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestResponsesPassThroughUntouched(t *testing.T) {
	ts, _ := newRecordingServer(t, http.StatusNotFound, `{"error":"no such pet"}`)
	client := newPetstoreClient(t, ts.URL)

	resp, err := client.Op("getPetById").Call(context.Background(), 99)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"no such pet"}`, string(body))
}

func TestUnknownOperationFailsAtCallTime(t *testing.T) {
	client := newPetstoreClient(t, "")

	_, err := client.Op("nope").Call(context.Background())
	require.ErrorIs(t, err, oaserrors.ErrOperationNotFound)

	_, err = client.PathOp("/pets", "PATCH").Descriptor()
	require.ErrorIs(t, err, oaserrors.ErrOperationNotFound)
}

func TestTooManyArguments(t *testing.T) {
	client := newPetstoreClient(t, "")

	_, err := client.Op("listPets").Descriptor(nil, nil, nil, nil)
	require.ErrorIs(t, err, oaserrors.ErrTooManyArguments)
}

func TestStrictPathParams(t *testing.T) {
	client := newPetstoreClient(t, "")
	descriptor, err := client.Op("getPetById").Descriptor()
	require.NoError(t, err)
	require.Equal(t, "/pets/undefined", descriptor.Path)

	strict := newPetstoreClient(t, "", oasclient.WithStrictPathParams())
	_, err = strict.Op("getPetById").Descriptor()
	require.ErrorIs(t, err, oaserrors.ErrMissingPathParameter)
}

func TestServerSelectionAndVariables(t *testing.T) {
	client := newPetstoreClient(t, "", oasclient.WithServer(oasclient.SelectServerByDescription("staging")))

	base, err := client.BaseURL(nil)
	require.NoError(t, err)
	require.Equal(t, "http://staging.petstore.example.test:8080/api", base)

	client.SetServerVariables(map[string]interface{}{"env": "dev", "port": "9090"})
	base, err = client.BaseURL(nil)
	require.NoError(t, err)
	require.Equal(t, "http://dev.petstore.example.test:9090/api", base)

	client.SetServerVariables(map[string]interface{}{"env": "prod"})
	_, err = client.BaseURL(nil)
	require.ErrorIs(t, err, oaserrors.ErrInvalidEnumValue)

	client.SelectServer(oasclient.SelectServerByIndex(0))
	base, err = client.BaseURL(nil)
	require.NoError(t, err)
	require.Equal(t, "http://petstore.example.test/api", base)
}

func TestOperationNameTransform(t *testing.T) {
	client := newPetstoreClient(t, "", oasclient.WithOperationNameTransform(oasclient.PascalCaseNameTransform))

	require.NotNil(t, client.Op("GetPetById").Operation())
	_, err := client.Op("getPetById").Descriptor()
	require.ErrorIs(t, err, oaserrors.ErrOperationNotFound)
}

func TestOverrideBaseURLWins(t *testing.T) {
	ts, rec := newRecordingServer(t, http.StatusOK, `[]`)
	client := newPetstoreClient(t, "")

	resp, err := client.Op("listPets").Call(context.Background(), nil, nil, &oasclient.RequestOverride{BaseURL: ts.URL})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "/pets", rec.path)
}

type stubTransport struct{}

func (stubTransport) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusOK, Status: "200 OK", Body: http.NoBody}, nil
}

func TestConstructionErrors(t *testing.T) {
	_, err := oasclient.NewFromFile(petstorePath, oasclient.WithTransport(nil))
	require.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = oasclient.NewFromFile(petstorePath, oasclient.WithLogger(nil))
	require.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = oasclient.NewFromFile(petstorePath, oasclient.WithOperationNameTransform(nil))
	require.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = oasclient.NewFromFile(petstorePath, oasclient.WithTransport(stubTransport{}), oasclient.WithTimeout(time.Second))
	require.ErrorIs(t, err, oaserrors.ErrConfig)

	_, err = oasclient.NewFromDocument(nil)
	require.ErrorIs(t, err, oaserrors.ErrConfig)
}
