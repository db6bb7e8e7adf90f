package reports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/coastal-alert-service/internal/reports"
)

func newTestServer(t *testing.T) *reports.Server {
	t.Helper()
	store := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := reports.NewServer(":0", []string{"*"}, store,
		filepath.Join(t.TempDir(), "uploads"), logger)
	require.NoError(t, err)
	return srv
}

func multipartBody(t *testing.T, fields map[string]string, images map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range images {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"reporter_name": "Asha",
		"location":      "Bay Coast",
		"threat_type":   "Cyclone",
		"message":       "Waves breaching the seawall",
	}
}

func submit(srv *reports.Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", contentType)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestSubmitReport_Success(t *testing.T) {
	srv := newTestServer(t)
	body, contentType := multipartBody(t, validFields(), nil)

	rec := submit(srv, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["report_id"])
}

func TestSubmitReport_MissingFieldRejected(t *testing.T) {
	for _, field := range []string{"location", "threat_type", "message"} {
		t.Run(field, func(t *testing.T) {
			srv := newTestServer(t)
			fields := validFields()
			delete(fields, field)
			body, contentType := multipartBody(t, fields, nil)

			rec := submit(srv, body, contentType)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitReport_DefaultsReporterName(t *testing.T) {
	srv := newTestServer(t)
	fields := validFields()
	delete(fields, "reporter_name")
	body, contentType := multipartBody(t, fields, nil)

	rec := submit(srv, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	listRec := httptest.NewRecorder()
	srv.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	var list []reports.Report
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Anonymous", list[0].ReporterName)
}

func TestSubmitReport_StoresAndServesImages(t *testing.T) {
	srv := newTestServer(t)
	body, contentType := multipartBody(t, validFields(), map[string][]byte{
		"../sneaky photo.jpg": []byte("jpegdata"),
	})

	rec := submit(srv, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listRec := httptest.NewRecorder()
	srv.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	var list []reports.Report
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Len(t, list[0].ImageURLs, 1)

	url := list[0].ImageURLs[0]
	assert.True(t, len(url) > len("/uploads/"))
	assert.NotContains(t, url, "..")

	imgRec := httptest.NewRecorder()
	srv.ServeHTTP(imgRec, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, imgRec.Code)
	assert.Equal(t, "jpegdata", imgRec.Body.String())
}

func TestListReports_EmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSubmitReport_ContextPropagates(t *testing.T) {
	// Guards against handlers ignoring request context: a cancelled
	// context must not panic the handler chain.
	srv := newTestServer(t)
	body, contentType := multipartBody(t, validFields(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", body).WithContext(ctx)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
