package rest

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/bwise1/incident_reports/internal/model"
	"github.com/bwise1/incident_reports/util"
	"github.com/bwise1/incident_reports/util/tracing"
	"github.com/bwise1/incident_reports/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

const (
	formImageFile   = "imageFile"
	formLocation    = "location"
	formDescription = "description"
)

func (api *API) ReportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Method(http.MethodGet, "/", Handler(api.ListReports))
		if api.Hub != nil {
			r.Get("/live", api.Hub.HandleConnections)
		}
	})

	return mux
}

// UploadReport stores the uploaded image and records a report for it.
func (api *API) UploadReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	req, fileHeader, err := api.bindUploadForm(r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		if errors.Is(err, ErrMissingField) {
			return api.respondWithError(err, "incomplete upload request", values.BadRequestBody, &tc)
		}
		return api.respondWithError(err, "unable to read upload request", values.Error, &tc)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return api.respondWithError(err, "unable to open uploaded file", values.Error, &tc)
	}
	defer file.Close()

	savedPath, err := api.Reports.SaveImage(req.ImageName, file)
	if err != nil {
		return api.respondWithError(err, "failed to store image", values.Error, &tc)
	}

	report, status, message, err := api.CreateReportHelper(r.Context(), req)
	if err != nil {
		return api.respondWithError(err, message, status, &tc)
	}

	go api.reportCreated(context.WithoutCancel(r.Context()), report, savedPath)

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

// bindUploadForm parses the multipart body and checks that the image file
// and both text fields are present and non-empty.
func (api *API) bindUploadForm(r *http.Request) (model.CreateReportRequest, *multipart.FileHeader, error) {
	var req model.CreateReportRequest

	if err := r.ParseMultipartForm(api.maxUploadMemory()); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return req, nil, &MissingFieldError{Fields: []string{formImageFile, formLocation, formDescription}}
		}
		return req, nil, errors.Wrap(err, "parse multipart form")
	}

	form := r.MultipartForm
	var fileHeader *multipart.FileHeader
	if files := form.File[formImageFile]; len(files) > 0 {
		fileHeader = files[0]
		req.ImageName = fileHeader.Filename
	}
	req.Location = firstValue(form, formLocation)
	req.Description = firstValue(form, formDescription)

	if err := util.ValidateStruct(req); err != nil {
		if fields := util.FailedFields(err); len(fields) > 0 {
			return req, nil, &MissingFieldError{Fields: fields}
		}
		return req, nil, err
	}

	return req, fileHeader, nil
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// ListReports returns every stored report. ?order=desc lists newest first.
func (api *API) ListReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	order := model.ParseListOrder(r.URL.Query().Get("order"))

	reports, status, message, err := api.ListReportsHelper(r.Context(), order)
	if err != nil {
		return api.respondWithError(err, message, status, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       reports,
	}
}
