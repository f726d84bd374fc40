package ports

import (
	"context"
	"io"
)

// MediaUpload describes where an upload lands on the media host.
type MediaUpload struct {
	Folder   string
	Filename string
}

// MediaAsset is a hosted file.
type MediaAsset struct {
	URL      string
	PublicID string
}

// MediaStore uploads and removes user media on the hosting service.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, opts MediaUpload) (*MediaAsset, error)
	Delete(ctx context.Context, publicID string) error
}
