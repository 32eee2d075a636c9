package repo

import (
	"context"

	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// MediaLibrary is the media collection plus the multipart upload the
// gallery pages use.
type MediaLibrary struct {
	*Collection[models.Media]
	upload Uploader
}

func NewMediaLibrary(u Uploader, path string) *MediaLibrary {
	return &MediaLibrary{Collection: NewCollection[models.Media](u, path), upload: u}
}

// Upload posts the file as multipart form data and appends the
// server-returned media record to the local list.
func (l *MediaLibrary) Upload(ctx context.Context, title, kind, filename string, content []byte) (models.Media, error) {
	fields := map[string]string{"title": title, "kind": kind}
	raw, err := l.upload.AuthUpload(ctx, l.path, fields, "file", filename, content)
	if err != nil {
		return models.Media{}, err
	}
	created := decodeRecord(raw, models.Media{Title: title, Kind: kind})
	l.mu.Lock()
	l.records = append(l.records, created)
	l.mu.Unlock()
	return created, nil
}
