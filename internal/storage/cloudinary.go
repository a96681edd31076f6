package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore uploads storefront and CMS images to Cloudinary and deletes
// them by their public URL.
type ImageStore struct {
	cld *cloudinary.Cloudinary
}

// NewImageStore creates a Cloudinary-backed image store
func NewImageStore(cloudName, apiKey, apiSecret string) (*ImageStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &ImageStore{cld: cld}, nil
}

// Upload stores an image under the given folder and returns its secure URL
func (s *ImageStore) Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	unique := true
	overwrite := false
	params := uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		UniqueFilename: &unique,
		Overwrite:      &overwrite,
	}
	if filename != "" {
		params.PublicID = filename
	}

	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload succeeded but no URL returned")
	}

	return result.SecureURL, nil
}

// DeleteByURL removes an image given the delivery URL returned by Upload
func (s *ImageStore) DeleteByURL(ctx context.Context, url string) error {
	publicID, err := publicIDFromURL(url)
	if err != nil {
		return err
	}

	_, err = s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// publicIDFromURL extracts the Cloudinary public ID from a delivery URL:
// everything after the /upload/v<version>/ marker, without the extension.
func publicIDFromURL(url string) (string, error) {
	marker := "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", fmt.Errorf("not a cloudinary delivery URL: %s", url)
	}

	rest := url[i+len(marker):]
	// Skip the version segment if present (v1234567890/...).
	if strings.HasPrefix(rest, "v") {
		if j := strings.Index(rest, "/"); j > 0 && isDigits(rest[1:j]) {
			rest = rest[j+1:]
		}
	}

	if rest == "" {
		return "", fmt.Errorf("no public ID in URL: %s", url)
	}

	return strings.TrimSuffix(rest, path.Ext(rest)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
