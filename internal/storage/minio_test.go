package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

type fakeObjects struct {
	exists   bool
	made     []string
	puts     map[string][]byte
	types    map[string]string
	removed  []string
	putErr   error
	checkErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.checkErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeObjects) PutObject(_ context.Context, _, object string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	f.puts[object] = b
	f.types[object] = opts.ContentType
	return minio.UploadInfo{Key: object, Size: int64(len(b))}, nil
}

func (f *fakeObjects) RemoveObject(_ context.Context, _, object string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, object)
	return nil
}

func testConfig() common.ObjectStoreConfig {
	return common.ObjectStoreConfig{Endpoint: "localhost:9000", Bucket: "contracts"}
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("Agreement.PDF")
	assert.True(t, strings.HasPrefix(p, "uploads/"))
	assert.True(t, strings.HasSuffix(p, ".pdf"))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(p, "uploads/"), ".pdf"), 36)
	assert.NotEqual(t, p, ObjectPath("Agreement.PDF"))
}

func TestMinioStore_Store(t *testing.T) {
	fake := newFakeObjects()
	s := newMinioStore(fake, testConfig(), nil)

	stored, err := s.Store(context.Background(), []byte("%PDF-1.4"), "application/pdf", "c.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), fake.puts[stored.Path])
	assert.Equal(t, "application/pdf", fake.types[stored.Path])
	assert.Equal(t, "http://localhost:9000/contracts/"+stored.Path, stored.PublicURL)
}

func TestMinioStore_StoreFailureIsUploadError(t *testing.T) {
	fake := newFakeObjects()
	fake.putErr = errors.New("connection refused")
	s := newMinioStore(fake, testConfig(), nil)

	_, err := s.Store(context.Background(), []byte("x"), "application/pdf", "c.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpload)
	assert.ErrorIs(t, err, fake.putErr)
}

func TestMinioStore_EnsureBucket(t *testing.T) {
	fake := newFakeObjects()
	s := newMinioStore(fake, testConfig(), nil)

	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.Equal(t, []string{"contracts"}, fake.made)

	fake.exists = true
	fake.made = nil
	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.Empty(t, fake.made)

	fake.checkErr = errors.New("denied")
	assert.Error(t, s.EnsureBucket(context.Background()))
}

func TestMinioStore_PublicURL(t *testing.T) {
	cfg := testConfig()
	cfg.UseSSL = true
	cfg.Endpoint = "minio.example.com"
	s := newMinioStore(newFakeObjects(), cfg, nil)

	assert.Equal(t, "https://minio.example.com/contracts/uploads/a.pdf", s.PublicURL("uploads/a.pdf"))
}

func TestMinioStore_Delete(t *testing.T) {
	fake := newFakeObjects()
	s := newMinioStore(fake, testConfig(), nil)

	require.NoError(t, s.Delete(context.Background(), "uploads/a.pdf"))
	assert.Equal(t, []string{"uploads/a.pdf"}, fake.removed)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	stored, err := m.Store(context.Background(), []byte("abc"), "application/pdf", "x.pdf")
	require.NoError(t, err)

	b, ok := m.Get(stored.Path)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), b)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(context.Background(), stored.Path))
	assert.Equal(t, 0, m.Len())
}
