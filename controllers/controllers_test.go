package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongo-manager/services"
)

// The handlers below are exercised only on paths that fail validation before
// any database call, so a service with no client behind it is enough.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	services.AppMongoService = services.NewMongoService(nil)

	router := gin.New()
	RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaginationRejectedBeforeDatabase(t *testing.T) {
	router := newTestRouter()

	for _, target := range []string{
		"/db?page_size=200",
		"/db?page=0",
		"/db/shop/col?page_size=101",
		"/db/shop/gridfs/buckets?page=-1",
		"/db/shop/gridfs/reports/files?page_size=0",
	} {
		t.Run(target, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, target, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMalformedIDRejected(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/db/shop/col/orders/doc/not-a-valid-id", ""},
		{http.MethodPut, "/db/shop/col/orders/doc/not-a-valid-id", `{"data":{"qty":3}}`},
		{http.MethodDelete, "/db/shop/col/orders/doc/not-a-valid-id", ""},
		{http.MethodGet, "/db/shop/gridfs/reports/file/not-a-valid-id", ""},
		{http.MethodDelete, "/db/shop/gridfs/reports/file/not-a-valid-id", ""},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			var body *bytes.Buffer
			contentType := ""
			if tc.body != "" {
				body = bytes.NewBufferString(tc.body)
				contentType = "application/json"
			}
			w := doRequest(t, router, tc.method, tc.target, body, contentType)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestQueryWithMalformedFilterID(t *testing.T) {
	router := newTestRouter()

	body := bytes.NewBufferString(`{"filter":{"_id":"not-a-valid-id"}}`)
	w := doRequest(t, router, http.MethodPost, "/db/shop/col/orders/doc/query", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDatabaseNameValidation(t *testing.T) {
	router := newTestRouter()

	for name, target := range map[string]string{
		"uppercase database":   "/db/Shop?collection_name=orders",
		"reserved database":    "/db/admin?collection_name=orders",
		"missing collection":   "/db/shop",
		"system collection":    "/db/shop?collection_name=system.users",
		"dollar in collection": "/db/shop?collection_name=a$b",
		"overlong collection":  "/db/shop?collection_name=" + strings.Repeat("x", 121),
	} {
		t.Run(name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, target, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateDocumentRequiresData(t *testing.T) {
	router := newTestRouter()

	w := doRequest(t, router, http.MethodPost, "/db/shop/col/orders/doc",
		bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartJSONFile(t *testing.T, filename string, payload interface{}) (*bytes.Buffer, string) {
	t.Helper()
	content, err := json.Marshal(payload)
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportRejectsNonJSONFile(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartJSONFile(t, "data.csv", []map[string]interface{}{{"a": 1}})
	w := doRequest(t, router, http.MethodPost, "/db/shop/col/orders/import", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportRejectsOversizedBatch(t *testing.T) {
	router := newTestRouter()

	docs := make([]map[string]interface{}, services.MaxImportDocuments+1)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": i}
	}

	body, contentType := multipartJSONFile(t, "data.json", docs)
	w := doRequest(t, router, http.MethodPost, "/db/shop/col/orders/import", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too many documents")
}

func TestImportRejectsUnexpectedJSONShape(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartJSONFile(t, "data.json", map[string]interface{}{"rows": []int{1, 2}})
	w := doRequest(t, router, http.MethodPost, "/db/shop/col/orders/import", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsInvalidMetadata(t *testing.T) {
	router := newTestRouter()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "report.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("sku,qty\n"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("metadata", "{not json"))
	require.NoError(t, writer.Close())

	w := doRequest(t, router, http.MethodPost, "/db/shop/gridfs/reports/upload", body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseImportPayloadShapes(t *testing.T) {
	docs, err := parseImportPayload([]byte(`[{"a":1},{"b":2}]`))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = parseImportPayload([]byte(`{"documents":[{"a":1}]}`))
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = parseImportPayload([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = parseImportPayload([]byte(`[1,2,3]`))
	assert.Error(t, err)

	_, err = parseImportPayload([]byte(`{nope`))
	assert.Error(t, err)
}

func TestRouteTableCoversFullAPISurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router)

	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[fmt.Sprintf("%s %s", route.Method, route.Path)] = true
	}

	expected := []string{
		"GET /db",
		"POST /db/:db",
		"DELETE /db/:db",
		"GET /db/:db/col",
		"POST /db/:db/col/:col",
		"DELETE /db/:db/col/:col",
		"POST /db/:db/col/:col/doc",
		"POST /db/:db/col/:col/doc/query",
		"GET /db/:db/col/:col/doc/:id",
		"PUT /db/:db/col/:col/doc/:id",
		"DELETE /db/:db/col/:col/doc/:id",
		"GET /db/:db/col/:col/export",
		"POST /db/:db/col/:col/import",
		"GET /db/:db/gridfs/buckets",
		"POST /db/:db/gridfs/:bucket/upload",
		"GET /db/:db/gridfs/:bucket/files",
		"GET /db/:db/gridfs/:bucket/file/:id",
		"GET /db/:db/gridfs/:bucket/file/:id/download",
		"GET /db/:db/gridfs/:bucket/filename/:name/download",
		"DELETE /db/:db/gridfs/:bucket/file/:id",
		"DELETE /db/:db/gridfs/:bucket/filename/:name",
		"DELETE /db/:db/gridfs/:bucket",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
