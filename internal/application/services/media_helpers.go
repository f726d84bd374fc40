package services

import (
	"context"
	"fmt"
	"io"

	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/logger"
)

// MediaInput is an uploaded file handed over by a handler.
type MediaInput struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// mediaHelper uploads and replaces hosted assets for the content services.
type mediaHelper struct {
	store    ports.MediaStore
	maxBytes int64
}

func (m mediaHelper) upload(ctx context.Context, field, folder string, in *MediaInput) (*ports.MediaAsset, error) {
	if m.maxBytes > 0 && in.Size > m.maxBytes {
		return nil, errors.NewValidationError(field, fmt.Sprintf("File exceeds the %d MB limit.", m.maxBytes>>20))
	}
	asset, err := m.store.Upload(ctx, in.Reader, ports.MediaUpload{Folder: folder, Filename: in.Filename})
	if err != nil {
		return nil, errors.NewInternalError("media upload failed", err)
	}
	return asset, nil
}

// discard deletes a replaced or orphaned asset. Failures are logged only.
func (m mediaHelper) discard(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := m.store.Delete(ctx, publicID); err != nil {
		logger.For(ctx).WithError(err).WithField("public_id", publicID).Warn("⚠️ Could not delete hosted media")
	}
}
