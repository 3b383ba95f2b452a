package rest

import (
	"context"
	"io"
	"time"

	"github.com/bwise1/incident_reports/internal/db"
	"github.com/bwise1/incident_reports/internal/model"
	"github.com/bwise1/incident_reports/util/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ReportStore persists reports and their images.
type ReportStore interface {
	SaveImage(name string, src io.Reader) (string, error)
	CreateReport(ctx context.Context, imagePath, location, description string) (model.Report, error)
	ListReports(ctx context.Context, order model.ListOrder) ([]model.Report, error)
}

// ReportRepo owns the reports table and the upload directory.
type ReportRepo struct {
	DB   *db.DB
	Disk *storage.Disk
	now  func() time.Time
}

func NewReportRepo(database *db.DB, disk *storage.Disk) *ReportRepo {
	return &ReportRepo{DB: database, Disk: disk, now: time.Now}
}

const createReportsTable = `
    CREATE TABLE IF NOT EXISTS reports (
        id          BIGSERIAL PRIMARY KEY,
        "imagePath" TEXT NOT NULL,
        location    TEXT NOT NULL,
        description TEXT NOT NULL,
        fecha       TIMESTAMPTZ NOT NULL
    )
`

// Initialize creates the reports table if it does not exist yet.
func (repo *ReportRepo) Initialize(ctx context.Context) error {
	err := repo.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, createReportsTable)
		return err
	})
	return errors.Wrap(err, "initialize reports table")
}

// SaveImage stores the image under the client-supplied name.
func (repo *ReportRepo) SaveImage(name string, src io.Reader) (string, error) {
	return repo.Disk.Save(name, src)
}

// CreateReport inserts a new report; id and fecha are assigned here.
func (repo *ReportRepo) CreateReport(ctx context.Context, imagePath, location, description string) (model.Report, error) {
	query := `
        INSERT INTO reports ("imagePath", location, description, fecha)
        VALUES ($1, $2, $3, $4)
        RETURNING id, "imagePath", location, description, fecha
    `
	var report model.Report
	err := repo.DB.WithConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, imagePath, location, description, repo.now()).Scan(
			&report.ID, &report.ImagePath, &report.Location, &report.Description, &report.CreatedAt,
		)
	})
	if err != nil {
		return model.Report{}, errors.Wrap(err, "insert report")
	}
	return report, nil
}

// ListReports returns every report ordered by id.
func (repo *ReportRepo) ListReports(ctx context.Context, order model.ListOrder) ([]model.Report, error) {
	query := `
        SELECT id, "imagePath", location, description, fecha
        FROM reports
        ORDER BY id ASC
    `
	if order == model.OrderDescending {
		query = `
        SELECT id, "imagePath", location, description, fecha
        FROM reports
        ORDER BY id DESC
    `
	}

	var reports []model.Report
	err := repo.DB.WithConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		reports, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Report])
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	return reports, nil
}
