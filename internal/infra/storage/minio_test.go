package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minio "github.com/minio/minio-go/v7"
)

type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putErr     error
	putKey     string
	putOpts    minio.PutObjectOptions
	getRC      io.ReadCloser
	getErr     error
	removeErr  error
	removedKey string
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, _ io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putKey = key
	f.putOpts = opts
	return minio.UploadInfo{}, f.putErr
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	f.removedKey = key
	return f.removeErr
}

func TestNewObjectStoreCreatesMissingBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}

	store, err := newObjectStoreWithAPI(context.Background(), api, "scans")
	if err != nil {
		t.Fatalf("newObjectStoreWithAPI returned error: %v", err)
	}
	if store == nil {
		t.Fatal("expected store")
	}
	if !api.madeBucket {
		t.Fatal("expected bucket to be created")
	}
}

func TestNewObjectStoreBucketCheckError(t *testing.T) {
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}

	if _, err := newObjectStoreWithAPI(context.Background(), api, "scans"); err == nil {
		t.Fatal("expected error when bucket check fails")
	}
}

func TestObjectStoreUpload(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	store, err := newObjectStoreWithAPI(context.Background(), api, "scans")
	if err != nil {
		t.Fatalf("newObjectStoreWithAPI returned error: %v", err)
	}

	payload := bytes.NewReader([]byte("image-bytes"))
	if err := store.Upload(context.Background(), "user-1/scan-1.jpg", "image/jpeg", payload, 11); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if api.putKey != "user-1/scan-1.jpg" {
		t.Fatalf("unexpected object key: %s", api.putKey)
	}
	if api.putOpts.ContentType != "image/jpeg" {
		t.Fatalf("unexpected content type: %s", api.putOpts.ContentType)
	}

	api.putErr = errors.New("put-fail")
	if err := store.Upload(context.Background(), "k", "image/png", payload, 1); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestObjectStoreDownload(t *testing.T) {
	api := &fakeMinio{bucketExists: true, getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}
	store, err := newObjectStoreWithAPI(context.Background(), api, "scans")
	if err != nil {
		t.Fatalf("newObjectStoreWithAPI returned error: %v", err)
	}

	rc, err := store.Download(context.Background(), "key")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(data) != "abc" {
		t.Fatalf("unexpected payload: %q", data)
	}
}

func TestObjectStoreDelete(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	store, err := newObjectStoreWithAPI(context.Background(), api, "scans")
	if err != nil {
		t.Fatalf("newObjectStoreWithAPI returned error: %v", err)
	}

	if err := store.Delete(context.Background(), "key"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if api.removedKey != "key" {
		t.Fatalf("unexpected removed key: %s", api.removedKey)
	}
}
