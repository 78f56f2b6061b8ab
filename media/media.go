// Package media stores profile photos with an external image host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	PhotoFolder         = "devmatch/photos"
	photoTransformation = "c_limit,w_800,h_800,q_auto"
)

var ErrNotConfigured = errors.New("photo uploads are not configured")

type PhotoUploader interface {
	// UploadPhoto stores the image under the given public id and returns its
	// public URL.
	UploadPhoto(ctx context.Context, publicID string, file io.Reader) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	if cloudinaryURL == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: PhotoFolder}, nil
}

func (u *CloudinaryUploader) UploadPhoto(ctx context.Context, publicID string, file io.Reader) (string, error) {
	overwrite := true
	params := uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       publicID,
		Overwrite:      &overwrite,
		Transformation: photoTransformation,
	}

	result, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload photo: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
