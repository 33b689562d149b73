package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolioapi/internal/model"
	"portfolioapi/internal/session"
	"portfolioapi/internal/storage"
	"portfolioapi/internal/storage/mocks"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLocalStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.NewLocal(dir)
	require.NoError(t, err)
	return NewStore(backend, session.NewMemoryStore(), opts...), dir
}

func TestStage(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocalStore(t)
	data := pngBytes(t, 4, 3)

	images, err := s.Stage(ctx, "S1", []model.UploadFile{
		{Name: "a.png", Data: data},
		{Name: "notes.txt", Data: []byte("hi")},
		{Name: "", Data: data},
		{Name: "b.JPG", Data: data},
		{Name: "script.exe", Data: []byte("MZ")},
	})
	require.NoError(t, err)

	require.Len(t, images, 2)
	assert.Equal(t, "a.png", images[0].Name)
	assert.Equal(t, "S1_a.png", images[0].Asset.Key)
	assert.Equal(t, "image/png", images[0].Asset.ContentType)
	assert.Equal(t, "b.JPG", images[1].Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"S1_a.png", "S1_b.JPG"}, names)

	us, err := s.Session(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, us.Has("a.png"))
	assert.True(t, us.Has("b.JPG"))
}

func TestStageSameNameInTwoSessions(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStore(t)

	_, err := s.Stage(ctx, "S1", []model.UploadFile{{Name: "a.png", Data: []byte("one")}})
	require.NoError(t, err)
	_, err = s.Stage(ctx, "S2", []model.UploadFile{{Name: "a.png", Data: []byte("two")}})
	require.NoError(t, err)

	a1, err := s.Resolve(ctx, "S1", "a.png")
	require.NoError(t, err)
	a2, err := s.Resolve(ctx, "S2", "a.png")
	require.NoError(t, err)
	assert.NotEqual(t, a1.Key, a2.Key)

	rc, err := s.Open(ctx, a1)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
}

func TestStageInvalidSession(t *testing.T) {
	s, dir := newLocalStore(t)

	for _, id := range []string{"", "a_b", "../up"} {
		_, err := s.Stage(context.Background(), id, []model.UploadFile{{Name: "a.png", Data: []byte("x")}})
		assert.ErrorIs(t, err, ErrInvalidSession)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveAfterPurge(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocalStore(t)

	_, err := s.Stage(ctx, "S1", []model.UploadFile{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	})
	require.NoError(t, err)
	_, err = s.Stage(ctx, "S2", []model.UploadFile{{Name: "a.png", Data: []byte("other")}})
	require.NoError(t, err)

	require.NoError(t, s.PurgeSession(ctx, "S1"))

	_, err = s.Resolve(ctx, "S1", "a.png")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve(ctx, "S1", "b.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Session(ctx, "S1")
	assert.ErrorIs(t, err, ErrUnknownSession)

	// other sessions are untouched
	assert.FileExists(t, filepath.Join(dir, "S2_a.png"))

	// purging twice is harmless
	assert.NoError(t, s.PurgeSession(ctx, "S1"))
}

func TestResolveSanitizesName(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStore(t)

	_, err := s.Stage(ctx, "S1", []model.UploadFile{{Name: "etc_passwd.png", Data: []byte("a")}})
	require.NoError(t, err)

	asset, err := s.Resolve(ctx, "S1", "../../etc/passwd.png")
	require.NoError(t, err)
	assert.Equal(t, "S1_etc_passwd.png", asset.Key)

	_, err = s.Resolve(ctx, "S1", "///")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeSessionErrors(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(st *mocks.MockStorage)
		wantErr    bool
	}{
		{
			name: "missing file is not an error",
			setupMocks: func(st *mocks.MockStorage) {
				st.On("List", mock.Anything, "S1_").Return([]storage.ObjectInfo{{Key: "S1_a.png"}}, nil)
				st.On("Delete", mock.Anything, "S1_a.png").Return(storage.ErrObjectNotFound)
			},
		},
		{
			name: "delete failure is reported",
			setupMocks: func(st *mocks.MockStorage) {
				st.On("List", mock.Anything, "S1_").Return([]storage.ObjectInfo{{Key: "S1_a.png"}, {Key: "S1_b.png"}}, nil)
				st.On("Delete", mock.Anything, "S1_a.png").Return(errors.New("disk gone"))
				st.On("Delete", mock.Anything, "S1_b.png").Return(nil)
			},
			wantErr: true,
		},
		{
			name: "list failure is reported",
			setupMocks: func(st *mocks.MockStorage) {
				st.On("List", mock.Anything, "S1_").Return(nil, errors.New("unreachable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := new(mocks.MockStorage)
			tt.setupMocks(st)
			registry := session.NewMemoryStore()
			require.NoError(t, registry.Save(ctx, &model.UploadSession{ID: "S1"}))

			s := NewStore(st, registry)
			err := s.PurgeSession(ctx, "S1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			// the registry entry goes regardless
			_, err = registry.Get(ctx, "S1")
			assert.ErrorIs(t, err, session.ErrNotFound)
			st.AssertExpectations(t)
		})
	}
}

func TestSweepStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s, dir := newLocalStore(t, WithClock(func() time.Time { return now }))

	_, err := s.Stage(ctx, "S1", []model.UploadFile{
		{Name: "old.png", Data: []byte("a")},
		{Name: "fresh.png", Data: []byte("b")},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	age := func(name string, d time.Duration) {
		ts := now.Add(-d)
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), ts, ts))
	}
	age("S1_old.png", 3601*time.Second)
	age("S1_fresh.png", 3599*time.Second)
	age("keep.txt", 5*time.Hour)

	n, err := s.SweepStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, filepath.Join(dir, "S1_old.png"))
	assert.FileExists(t, filepath.Join(dir, "S1_fresh.png"))
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}

func TestSweepStaleForgetsOldSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	registry := session.NewMemoryStore()
	backend, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	s := NewStore(backend, registry, WithClock(func() time.Time { return now }))

	require.NoError(t, registry.Save(ctx, &model.UploadSession{ID: "old", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, registry.Save(ctx, &model.UploadSession{ID: "new", CreatedAt: now}))

	_, err = s.SweepStale(ctx, time.Hour)
	require.NoError(t, err)

	_, err = s.Session(ctx, "old")
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = s.Session(ctx, "new")
	assert.NoError(t, err)
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, 10*time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
