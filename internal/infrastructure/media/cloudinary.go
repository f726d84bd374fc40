package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirupsen/logrus"
	"github.com/threaddit/backend/internal/config"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/logger"
)

// RootFolder prefixes every folder this service writes to.
const RootFolder = "threaddit"

// uploadAPI is the subset of the Cloudinary upload API the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore implements ports.MediaStore on Cloudinary.
type CloudinaryStore struct {
	api uploadAPI
}

var _ ports.MediaStore = (*CloudinaryStore)(nil)

// NewCloudinaryStore builds a store from the configured account credentials.
func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{api: &cld.Upload}, nil
}

// Upload stores r under threaddit/<folder> and returns its secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, opts ports.MediaUpload) (*ports.MediaAsset, error) {
	params := uploader.UploadParams{
		Folder:       path.Join(RootFolder, opts.Folder),
		ResourceType: "auto",
	}
	if opts.Filename != "" {
		params.FilenameOverride = opts.Filename
	}

	res, err := s.api.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("media upload rejected: %s", res.Error.Message)
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"public_id": res.PublicID,
		"bytes":     res.Bytes,
	}).Debug("media uploaded")

	return &ports.MediaAsset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes an asset. An empty id or an already-missing asset is not an error.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("media delete failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("media delete rejected: %s", res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("media delete returned %q", res.Result)
	}
	return nil
}
