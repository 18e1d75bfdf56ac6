package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/storage"
	"smilecare.backend/pkg/logger"
)

const mb = 1 << 20

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Policy is the allow-list applied to one upload field
type Policy struct {
	Name     string
	MaxSize  int64
	MaxFiles int
	Allowed  []string
}

var (
	ProfilePicture = Policy{Name: "profile picture", MaxSize: 5 * mb, MaxFiles: 1, Allowed: imageTypes}
	Documents      = Policy{Name: "document", MaxSize: 10 * mb, MaxFiles: 10, Allowed: append([]string{"application/pdf"}, imageTypes...)}
	ClinicPhotos   = Policy{Name: "clinic photo", MaxSize: 5 * mb, MaxFiles: 10, Allowed: imageTypes}
)

func (p Policy) allows(mime string) bool {
	return mimetype.EqualsAny(mime, p.Allowed...)
}

// Manager stages multipart files into storage
type Manager struct {
	store storage.Storage
	now   func() time.Time
}

// NewManager creates an upload manager on top of a storage driver
func NewManager(store storage.Storage) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Batch holds the files stored for one request.
// Cleanup removes them unless Commit was called first.
type Batch struct {
	Files     []entities.FileMeta
	store     storage.Storage
	committed bool
}

// First returns the first staged file or nil
func (b *Batch) First() *entities.FileMeta {
	if b == nil || len(b.Files) == 0 {
		return nil
	}
	f := b.Files[0]
	return &f
}

// Empty reports whether nothing was uploaded
func (b *Batch) Empty() bool {
	return b == nil || len(b.Files) == 0
}

// Commit keeps the staged files
func (b *Batch) Commit() {
	if b != nil {
		b.committed = true
	}
}

// Cleanup deletes every staged file of an uncommitted batch
func (b *Batch) Cleanup(ctx context.Context) {
	if b == nil || b.committed || len(b.Files) == 0 {
		return
	}
	deleteFiles(context.WithoutCancel(ctx), b.store, b.Files)
	b.Files = nil
}

// Stage validates and stores every file posted under field.
// A request without a multipart body yields an empty batch.
func (m *Manager) Stage(c *gin.Context, policy Policy, field string) (*Batch, error) {
	batch := &Batch{store: m.store}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return batch, nil
		}
		return nil, domainerrors.BadRequest("Invalid multipart form")
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return batch, nil
	}
	if len(headers) > policy.MaxFiles {
		return nil, domainerrors.BadRequest(fmt.Sprintf("At most %d %s files are allowed", policy.MaxFiles, policy.Name))
	}

	ctx := c.Request.Context()
	for _, fh := range headers {
		meta, err := m.storeFile(ctx, policy, fh)
		if err != nil {
			batch.Cleanup(ctx)
			return nil, err
		}
		batch.Files = append(batch.Files, *meta)
	}
	return batch, nil
}

func (m *Manager) storeFile(ctx context.Context, policy Policy, fh *multipart.FileHeader) (*entities.FileMeta, error) {
	if fh.Size > policy.MaxSize {
		return nil, domainerrors.BadRequest(fmt.Sprintf("%s exceeds the %dMB limit", fh.Filename, policy.MaxSize/mb))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	mime := mt.String()
	if !policy.allows(mime) {
		return nil, domainerrors.BadRequest(fmt.Sprintf("%s has an unsupported file type", fh.Filename))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	key := storage.NewKey(m.now(), fh.Filename)
	if err := m.store.Put(ctx, key, f, fh.Size, stripParams(mime)); err != nil {
		return nil, err
	}

	return &entities.FileMeta{
		Filename:     key[strings.LastIndex(key, "/")+1:],
		OriginalName: fh.Filename,
		MimeType:     stripParams(mime),
		Size:         fh.Size,
		Path:         key,
		URL:          m.store.URL(key),
	}, nil
}

// DeleteFiles removes stored files, logging failures
func (m *Manager) DeleteFiles(ctx context.Context, files []entities.FileMeta) {
	deleteFiles(ctx, m.store, files)
}

// IsManagedURL reports whether url points into this manager's storage
func (m *Manager) IsManagedURL(url string) bool {
	return url != "" && strings.HasPrefix(url, m.store.URL(""))
}

// DeleteURL removes the object behind a public URL issued by this manager.
// URLs from elsewhere (social profile pictures) are ignored.
func (m *Manager) DeleteURL(ctx context.Context, url string) {
	if !m.IsManagedURL(url) {
		return
	}
	key := strings.TrimPrefix(url, m.store.URL(""))
	if err := m.store.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "Failed to delete upload", zap.String("key", key), zap.Error(err))
	}
}

func deleteFiles(ctx context.Context, store storage.Storage, files []entities.FileMeta) {
	for _, key := range entities.FileMetaPaths(files) {
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn(ctx, "Failed to delete upload", zap.String("key", key), zap.Error(err))
		}
	}
}

func stripParams(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}
