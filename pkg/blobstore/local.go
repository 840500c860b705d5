package blobstore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"realtime-chat-be/internal/entity"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for anything that isn't an image, video or
// audio file by content.
var ErrUnsupportedType = errors.New("unsupported file type: only images, videos and audio files are allowed")

// Store keeps uploaded media and hands back opaque descriptors. The chat
// core only ever sees the descriptors.
type Store interface {
	Put(file *multipart.FileHeader) (entity.MediaAttachment, error)
	Remove(url string) error
}

// LocalStore writes files under a single directory and serves them under
// urlPrefix. Filenames are regenerated so client-supplied names never touch
// the filesystem.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

func (s *LocalStore) Put(file *multipart.FileHeader) (entity.MediaAttachment, error) {
	src, err := file.Open()
	if err != nil {
		return entity.MediaAttachment{}, err
	}
	defer src.Close()

	// Sniff the real content type; the client-declared one is not trusted.
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return entity.MediaAttachment{}, err
	}
	if !isAllowed(mtype.String()) {
		return entity.MediaAttachment{}, ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return entity.MediaAttachment{}, err
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(s.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return entity.MediaAttachment{}, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return entity.MediaAttachment{}, err
	}

	return entity.MediaAttachment{
		Filename:     filename,
		OriginalName: file.Filename,
		Mimetype:     mtype.String(),
		Size:         size,
		Url:          s.urlPrefix + "/" + filename,
	}, nil
}

// Remove unlinks the file behind a descriptor URL. Only URLs under the
// store's prefix are accepted; anything else is refused rather than resolved.
func (s *LocalStore) Remove(url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return fmt.Errorf("invalid media url: %s", url)
	}

	filename := filepath.Base(url)
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves a stored filename to its on-disk location, rejecting any
// path traversal in the name.
func (s *LocalStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

func isAllowed(mime string) bool {
	return strings.HasPrefix(mime, "image/") ||
		strings.HasPrefix(mime, "video/") ||
		strings.HasPrefix(mime, "audio/")
}
