package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/repository"
)

// ErrScanNotFound indicates no scan matches the id for this user.
var ErrScanNotFound = errors.New("scan not found")

// UploadScanInput carries the multipart payload for a scan upload.
type UploadScanInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ScanService stores scan images in the object store and tracks their
// metadata rows.
type ScanService struct {
	scans  port.ScanRepository
	store  port.ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewScanService constructs a ScanService.
func NewScanService(scans port.ScanRepository, store port.ObjectStore, log *zap.Logger) *ScanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanService{
		scans:  scans,
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *ScanService) WithClock(now func() time.Time) *ScanService {
	if now != nil {
		s.now = now
	}
	return s
}

// Upload writes the payload to the object store and records the metadata row.
// The object is removed again if the row cannot be written.
func (s *ScanService) Upload(ctx context.Context, userID string, input UploadScanInput) (*domain.Scan, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if input.Reader == nil {
		return nil, fmt.Errorf("payload is required")
	}
	if input.Size <= 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := uuid.NewString()
	key := objectKey(userID, id, fileName)

	if err := s.store.Upload(ctx, key, contentType, input.Reader, input.Size); err != nil {
		return nil, fmt.Errorf("upload scan: %w", err)
	}

	scan := domain.Scan{
		ID:          id,
		UserID:      userID,
		ObjectKey:   key,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   input.Size,
		CreatedAt:   s.now(),
	}

	if err := s.scans.Create(ctx, scan); err != nil {
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn("orphaned scan object left in store",
				zap.String("object_key", key),
				zap.Error(cleanupErr),
			)
		}
		return nil, fmt.Errorf("create scan record: %w", err)
	}

	return &scan, nil
}

// Get returns scan metadata owned by the user.
func (s *ScanService) Get(ctx context.Context, userID, id string) (*domain.Scan, error) {
	scan, err := s.scans.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return scan, nil
}

// List returns all scans owned by the user, newest first.
func (s *ScanService) List(ctx context.Context, userID string) ([]domain.Scan, error) {
	scans, err := s.scans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return scans, nil
}

// Download streams the stored payload along with its metadata. The caller
// closes the reader.
func (s *ScanService) Download(ctx context.Context, userID, id string) (*domain.Scan, io.ReadCloser, error) {
	scan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Download(ctx, scan.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download scan: %w", err)
	}

	return scan, rc, nil
}

// Delete removes the metadata row and then the stored object. A failed object
// delete is logged, not surfaced: the row is already gone.
func (s *ScanService) Delete(ctx context.Context, userID, id string) error {
	scan, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.scans.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScanNotFound
		}
		return fmt.Errorf("delete scan: %w", err)
	}

	if err := s.store.Delete(ctx, scan.ObjectKey); err != nil {
		s.logger.Warn("delete scan object failed",
			zap.String("object_key", scan.ObjectKey),
			zap.Error(err),
		)
	}

	return nil
}

// objectKey namespaces objects by owner; the extension keeps downloads usable
// outside the API.
func objectKey(userID, id, fileName string) string {
	ext := path.Ext(fileName)
	return userID + "/" + id + ext
}
