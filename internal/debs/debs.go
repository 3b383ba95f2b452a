package deps

import (
	"github.com/bwise1/incident_reports/config"
	"github.com/bwise1/incident_reports/internal/db"
	"github.com/bwise1/incident_reports/util/storage"
	"github.com/bwise1/incident_reports/util/websockets"
	"github.com/pkg/errors"
)

type Dependencies struct {
	DB         *db.DB
	Disk       *storage.Disk
	Cloudinary *storage.Cloudinary
	Hub        *websockets.Hub
}

// New connects to the database and builds the optional integrations the
// configuration enables. Cloudinary and Hub are nil when disabled.
func New(cfg *config.Config) (*Dependencies, error) {
	database, err := db.New(cfg.Dsn, cfg.DBMaxConns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	deps := Dependencies{
		DB:   database,
		Disk: storage.NewDisk(cfg.UploadDir),
	}

	if cfg.CloudinaryEnabled() {
		cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			database.Close()
			return nil, err
		}
		deps.Cloudinary = cld
	}

	if cfg.LiveFeed {
		deps.Hub = websockets.NewHub()
	}

	return &deps, nil
}

// Close releases the database pool.
func (d *Dependencies) Close() {
	d.DB.Close()
}
