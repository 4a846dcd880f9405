package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lambojac/mirriora/internal/core/domain"
)

func newScanFixture() (*ScanService, *mockScanRepository, *mockObjectStore) {
	repo := &mockScanRepository{}
	store := &mockObjectStore{}
	return NewScanService(repo, store, nil), repo, store
}

func TestScanUpload(t *testing.T) {
	service, repo, store := newScanFixture()

	scan, err := service.Upload(context.Background(), "user-1", UploadScanInput{
		FileName:    "face.jpg",
		ContentType: "image/jpeg",
		Size:        11,
		Reader:      bytes.NewReader([]byte("image-bytes")),
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if store.uploadCalls != 1 || store.uploadType != "image/jpeg" || store.uploadSize != 11 {
		t.Fatalf("unexpected store upload: %+v", store)
	}
	if !strings.HasPrefix(store.uploadKey, "user-1/") || !strings.HasSuffix(store.uploadKey, ".jpg") {
		t.Fatalf("unexpected object key: %s", store.uploadKey)
	}
	if len(repo.created) != 1 || repo.created[0].ObjectKey != store.uploadKey {
		t.Fatal("metadata row must reference the stored object")
	}
	if scan.FileName != "face.jpg" || scan.SizeBytes != 11 {
		t.Fatalf("unexpected scan: %+v", scan)
	}
}

func TestScanUploadCleansUpOnRowFailure(t *testing.T) {
	service, repo, store := newScanFixture()
	repo.createErr = errors.New("insert failed")

	_, err := service.Upload(context.Background(), "user-1", UploadScanInput{
		FileName:    "face.jpg",
		ContentType: "image/jpeg",
		Size:        11,
		Reader:      bytes.NewReader([]byte("image-bytes")),
	})
	if err == nil {
		t.Fatal("expected error when metadata insert fails")
	}
	if len(store.deleteKeys) != 1 || store.deleteKeys[0] != store.uploadKey {
		t.Fatal("uploaded object must be removed when the row fails")
	}
}

func TestScanUploadValidation(t *testing.T) {
	service, _, store := newScanFixture()
	ctx := context.Background()

	if _, err := service.Upload(ctx, "user-1", UploadScanInput{Size: 5, Reader: bytes.NewReader(nil)}); err == nil {
		t.Fatal("expected error for missing file name")
	}
	if _, err := service.Upload(ctx, "user-1", UploadScanInput{FileName: "x.jpg", Size: 0, Reader: bytes.NewReader(nil)}); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := service.Upload(ctx, "user-1", UploadScanInput{FileName: "x.jpg", Size: 5}); err == nil {
		t.Fatal("expected error for nil reader")
	}
	if store.uploadCalls != 0 {
		t.Fatal("no upload must happen on validation failure")
	}
}

func TestScanDownload(t *testing.T) {
	service, repo, store := newScanFixture()
	repo.byID = &domain.Scan{ID: "s-1", UserID: "user-1", ObjectKey: "user-1/s-1.jpg", ContentType: "image/jpeg"}
	store.downloadData = []byte("image-bytes")

	scan, rc, err := service.Download(context.Background(), "user-1", "s-1")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	defer rc.Close()

	if scan.ContentType != "image/jpeg" {
		t.Fatalf("unexpected scan: %+v", scan)
	}
	data, err := io.ReadAll(rc)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("unexpected payload: %q (%v)", data, err)
	}
}

func TestScanDelete(t *testing.T) {
	service, repo, store := newScanFixture()
	repo.byID = &domain.Scan{ID: "s-1", UserID: "user-1", ObjectKey: "user-1/s-1.jpg"}

	if err := service.Delete(context.Background(), "user-1", "s-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != "s-1" {
		t.Fatalf("unexpected row deletes: %v", repo.deletedIDs)
	}
	if len(store.deleteKeys) != 1 || store.deleteKeys[0] != "user-1/s-1.jpg" {
		t.Fatalf("unexpected object deletes: %v", store.deleteKeys)
	}
}

func TestScanDeleteToleratesObjectFailure(t *testing.T) {
	service, repo, store := newScanFixture()
	repo.byID = &domain.Scan{ID: "s-1", UserID: "user-1", ObjectKey: "user-1/s-1.jpg"}
	store.deleteErr = errors.New("store down")

	if err := service.Delete(context.Background(), "user-1", "s-1"); err != nil {
		t.Fatalf("Delete must succeed when only the object removal fails, got %v", err)
	}
}

func TestScanUnknown(t *testing.T) {
	service, _, _ := newScanFixture()

	if _, err := service.Get(context.Background(), "user-1", "ghost"); !errors.Is(err, ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound, got %v", err)
	}
	if _, _, err := service.Download(context.Background(), "user-1", "ghost"); !errors.Is(err, ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound, got %v", err)
	}
}
