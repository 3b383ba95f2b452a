package rest

import (
	"context"

	"github.com/apex/log"
	"github.com/bwise1/incident_reports/internal/model"
	"github.com/bwise1/incident_reports/util/websockets"
)

// reportCreated runs the optional post-create hooks. None of them can
// affect the response already sent for the upload.
func (api *API) reportCreated(ctx context.Context, report model.Report, savedPath string) {
	entry := api.logger().WithFields(log.Fields{
		"report_id": report.ID,
		"imagePath": report.ImagePath,
	})
	entry.Info("report created")

	if api.Config != nil && api.Config.DumpReportsOnCreate {
		api.dumpReports(ctx)
	}

	if api.Hub != nil {
		if err := api.Hub.Broadcast(websockets.MsgTypeReportCreated, report); err != nil {
			entry.WithError(err).Warn("live feed broadcast failed")
		}
	}

	if api.Mirror != nil {
		url, err := api.Mirror.UploadImage(ctx, savedPath)
		if err != nil {
			entry.WithError(err).Warn("image mirror failed")
			return
		}
		entry.WithField("url", url).Info("image mirrored")
	}
}

// dumpReports logs every stored report at debug level.
func (api *API) dumpReports(ctx context.Context) {
	reports, err := api.Reports.ListReports(ctx, model.OrderAscending)
	if err != nil {
		api.logger().WithError(err).Warn("report dump failed")
		return
	}
	for _, r := range reports {
		api.logger().WithFields(log.Fields{
			"id":          r.ID,
			"imagePath":   r.ImagePath,
			"location":    r.Location,
			"description": r.Description,
			"fecha":       r.CreatedAt,
		}).Debug("stored report")
	}
}
