package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/bwise1/incident_reports/config"
	"github.com/bwise1/incident_reports/internal/model"
	"github.com/bwise1/incident_reports/util/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ReportStore backed by a real upload directory.
type memStore struct {
	mu        sync.Mutex
	disk      *storage.Disk
	reports   []model.Report
	nextID    int64
	createErr error
	listErr   error
}

func (s *memStore) SaveImage(name string, src io.Reader) (string, error) {
	return s.disk.Save(name, src)
}

func (s *memStore) CreateReport(_ context.Context, imagePath, location, description string) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return model.Report{}, s.createErr
	}
	s.nextID++
	report := model.Report{
		ID:          s.nextID,
		ImagePath:   imagePath,
		Location:    location,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.reports = append(s.reports, report)
	return report, nil
}

func (s *memStore) ListReports(_ context.Context, order model.ListOrder) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Report, 0, len(s.reports))
	if order == model.OrderDescending {
		for i := len(s.reports) - 1; i >= 0; i-- {
			out = append(out, s.reports[i])
		}
		return out, nil
	}
	return append(out, s.reports...), nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func newTestAPI(t *testing.T) (*API, *memStore, http.Handler) {
	t.Helper()
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	store := &memStore{disk: storage.NewDisk(uploadDir)}
	a := &API{
		Config:  &config.Config{UploadDir: uploadDir},
		Reports: store,
		Logger:  &log.Logger{Handler: discard.New(), Level: log.DebugLevel},
	}
	return a, store, a.setUpServerHandler()
}

type uploadPart struct {
	name, value string
}

func uploadRequest(t *testing.T, fileName string, content []byte, fields ...uploadPart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		fw, err := mw.CreateFormFile(formImageFile, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.name, f.value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func listReports(t *testing.T, h http.Handler, query string) []model.Report {
	t.Helper()
	w := serve(h, httptest.NewRequest(http.MethodGet, "/reports"+query, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reports []model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	return reports
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestUploadThenList(t *testing.T) {
	a, _, h := newTestAPI(t)
	before := time.Now()

	w := serve(h, uploadRequest(t, "photo1.jpg", []byte("jpeg bytes"),
		uploadPart{formLocation, "Main St"},
		uploadPart{formDescription, "pothole"},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body, "error")

	reports := listReports(t, h, "")
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].ID)
	assert.Equal(t, "photo1.jpg", reports[0].ImagePath)
	assert.Equal(t, "Main St", reports[0].Location)
	assert.Equal(t, "pothole", reports[0].Description)
	assert.False(t, reports[0].CreatedAt.Before(before), "fecha %v is before %v", reports[0].CreatedAt, before)

	saved, err := os.ReadFile(filepath.Join(a.Config.UploadDir, "photo1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(saved))
}

func TestListUsesFechaField(t *testing.T) {
	_, _, h := newTestAPI(t)

	w := serve(h, uploadRequest(t, "photo1.jpg", []byte("x"),
		uploadPart{formLocation, "Main St"},
		uploadPart{formDescription, "pothole"},
	))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "imagePath", "location", "description", "fecha"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestListEmpty(t *testing.T) {
	_, _, h := newTestAPI(t)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUploadMissingParts(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		fields   []uploadPart
		missing  string
	}{
		{
			name:     "missing description",
			fileName: "photo1.jpg",
			fields:   []uploadPart{{formLocation, "Main St"}},
			missing:  formDescription,
		},
		{
			name:     "missing location",
			fileName: "photo1.jpg",
			fields:   []uploadPart{{formDescription, "pothole"}},
			missing:  formLocation,
		},
		{
			name:    "missing image",
			fields:  []uploadPart{{formLocation, "Main St"}, {formDescription, "pothole"}},
			missing: formImageFile,
		},
		{
			name:     "empty location",
			fileName: "photo1.jpg",
			fields:   []uploadPart{{formLocation, ""}, {formDescription, "pothole"}},
			missing:  formLocation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, store, h := newTestAPI(t)

			w := serve(h, uploadRequest(t, tc.fileName, []byte("x"), tc.fields...))
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Contains(t, body["error"], tc.missing)

			assert.Equal(t, 0, store.count())
			assert.Empty(t, listReports(t, h, ""))

			_, err := os.Stat(filepath.Join(a.Config.UploadDir, "photo1.jpg"))
			assert.True(t, os.IsNotExist(err), "no image may be stored for a rejected upload")
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	_, store, h := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{"location":"Main St"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(h, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], ErrMissingField.Error())
	assert.Equal(t, 0, store.count())
}

func TestUploadAssignsIncreasingIDs(t *testing.T) {
	_, _, h := newTestAPI(t)

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		w := serve(h, uploadRequest(t, name, []byte(name),
			uploadPart{formLocation, "Main St"},
			uploadPart{formDescription, "pothole"},
		))
		require.Equal(t, http.StatusOK, w.Code)
	}

	reports := listReports(t, h, "")
	require.Len(t, reports, 3)
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i].ID, reports[i-1].ID)
	}

	desc := listReports(t, h, "?order=desc")
	require.Len(t, desc, 3)
	assert.Equal(t, "c.jpg", desc[0].ImagePath)
	assert.Equal(t, "a.jpg", desc[2].ImagePath)
}

func TestUploadSameNameKeepsBothRecords(t *testing.T) {
	a, _, h := newTestAPI(t)

	for _, content := range []string{"first", "second"} {
		w := serve(h, uploadRequest(t, "photo1.jpg", []byte(content),
			uploadPart{formLocation, "Main St"},
			uploadPart{formDescription, "pothole"},
		))
		require.Equal(t, http.StatusOK, w.Code)
	}

	reports := listReports(t, h, "")
	require.Len(t, reports, 2)
	assert.Equal(t, reports[0].ImagePath, reports[1].ImagePath)

	saved, err := os.ReadFile(filepath.Join(a.Config.UploadDir, "photo1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(saved))
}

func TestStoreFailuresExposeRawMessage(t *testing.T) {
	_, store, h := newTestAPI(t)

	store.createErr = errors.New("insert report: connection refused")
	w := serve(h, uploadRequest(t, "photo1.jpg", []byte("x"),
		uploadPart{formLocation, "Main St"},
		uploadPart{formDescription, "pothole"},
	))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "insert report: connection refused", decodeBody(t, w)["error"])

	store.listErr = errors.New("list reports: connection refused")
	w = serve(h, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "list reports: connection refused", decodeBody(t, w)["error"])
}

func TestServeUploadedImage(t *testing.T) {
	_, _, h := newTestAPI(t)

	w := serve(h, uploadRequest(t, "photo1.jpg", []byte("jpeg bytes"),
		uploadPart{formLocation, "Main St"},
		uploadPart{formDescription, "pothole"},
	))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/uploads/photo1.jpg", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg bytes", w.Body.String())

	w = serve(h, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	_, _, h := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")

	w := serve(h, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
