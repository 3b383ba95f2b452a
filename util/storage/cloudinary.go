package storage

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

// Cloudinary mirrors stored images to a Cloudinary folder.
type Cloudinary struct {
	CLD    *cloudinary.Cloudinary
	Folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}

	return &Cloudinary{CLD: cld, Folder: folder}, nil
}

// UploadImage uploads the file at filePath and returns its secure URL.
func (c *Cloudinary) UploadImage(ctx context.Context, filePath string) (string, error) {
	resp, err := c.CLD.Upload.Upload(ctx, filePath, uploader.UploadParams{Folder: c.Folder})
	if err != nil {
		return "", errors.Wrapf(err, "upload %s to cloudinary", filePath)
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("upload %s to cloudinary: %s", filePath, resp.Error.Message)
	}
	return resp.SecureURL, nil
}
