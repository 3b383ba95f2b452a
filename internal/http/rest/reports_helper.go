// internal/http/rest/reports_helper.go
package rest

import (
	"context"

	"github.com/bwise1/incident_reports/internal/model"
	"github.com/bwise1/incident_reports/util/values"
)

func (api *API) CreateReportHelper(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	report, err := api.Reports.CreateReport(ctx, req.ImageName, req.Location, req.Description)
	if err != nil {
		return model.Report{}, values.Error, "Failed to create report", err
	}
	return report, values.Success, "Report and image received successfully", nil
}

func (api *API) ListReportsHelper(ctx context.Context, order model.ListOrder) ([]model.Report, string, string, error) {
	reports, err := api.Reports.ListReports(ctx, order)
	if err != nil {
		return nil, values.Error, "Failed to fetch reports", err
	}
	return reports, values.Success, "Reports fetched successfully", nil
}
