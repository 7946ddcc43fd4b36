package transcoder_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/woozymasta/basisview/internal/transcoder"
	mock_transcoder "github.com/woozymasta/basisview/internal/transcoder/mocks"
)

func TestCreateSessionBeforeInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock_transcoder.NewMockBackend(ctrl)

	loader := transcoder.NewLoader(backend, nil)

	assert.Nil(t, loader.CreateSession([]byte{1, 2, 3}))
	select {
	case <-loader.Ready():
		t.Fatal("ready before Initialize")
	default:
	}
}

func TestInitializeRunsBackendOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mock_transcoder.NewMockFactory(ctrl)
	backend := mock_transcoder.NewMockBackend(ctrl)
	backend.EXPECT().Load(gomock.Any()).Return(factory, nil).Times(1)

	loader := transcoder.NewLoader(backend, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := loader.Initialize(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, factory, got)
		}()
	}
	wg.Wait()

	<-loader.Ready()

	session := mock_transcoder.NewMockSession(ctrl)
	data := []byte{0xb5}
	factory.EXPECT().Open(data).Return(session)

	assert.Equal(t, session, loader.CreateSession(data))
}

func TestInitializeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock_transcoder.NewMockBackend(ctrl)
	backend.EXPECT().Load(gomock.Any()).Return(nil, errors.New("boom"))

	loader := transcoder.NewLoader(backend, nil)

	_, err := loader.Initialize(context.Background())
	require.ErrorIs(t, err, transcoder.ErrInitialize)

	_, err = loader.Initialize(context.Background())
	require.ErrorIs(t, err, transcoder.ErrInitialize)

	assert.Nil(t, loader.CreateSession([]byte{1}))
}

func TestInitializeNilBackend(t *testing.T) {
	loader := transcoder.NewLoader(nil, nil)

	_, err := loader.Initialize(context.Background())
	require.ErrorIs(t, err, transcoder.ErrNilBackend)
}

func TestWithReleasesOnEveryPath(t *testing.T) {
	errFn := errors.New("fn failed")

	tests := []struct {
		name    string
		fnErr   error
		wantErr error
	}{
		{name: "success"},
		{name: "error", fnErr: errFn, wantErr: errFn},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := mock_transcoder.NewMockSession(ctrl)
			src := mock_transcoder.NewMockSessionSource(ctrl)
			src.EXPECT().CreateSession(gomock.Any()).Return(session)

			gomock.InOrder(
				session.EXPECT().Close().Times(1),
				session.EXPECT().Delete().Times(1),
			)

			err := transcoder.With(src, []byte{1}, func(transcoder.Session) error {
				return tc.fnErr
			})
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestWithPanicStillReleases(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := mock_transcoder.NewMockSession(ctrl)
	src := mock_transcoder.NewMockSessionSource(ctrl)
	src.EXPECT().CreateSession(gomock.Any()).Return(session)
	session.EXPECT().Close()
	session.EXPECT().Delete()

	assert.Panics(t, func() {
		_ = transcoder.With(src, nil, func(transcoder.Session) error {
			panic("transcode crashed")
		})
	})
}

func TestWithNotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_transcoder.NewMockSessionSource(ctrl)
	src.EXPECT().CreateSession(gomock.Any()).Return(nil)

	called := false
	err := transcoder.With(src, nil, func(transcoder.Session) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, transcoder.ErrNotReady)
	assert.False(t, called)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    transcoder.Format
		wantErr bool
	}{
		{in: "RGBA32", want: transcoder.FormatRGBA32},
		{in: "bc1", want: transcoder.FormatBC1},
		{in: "astc_4x4", want: transcoder.FormatASTC4x4},
		{in: "PVRTC1_4_RGBA", want: transcoder.FormatPVRTC1RGBA},
		{in: "nope", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := transcoder.ParseFormat(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, transcoder.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatNumbering(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, int(transcoder.FormatETC1))
	assert.Equal(t, 3, int(transcoder.FormatBC3))
	assert.Equal(t, 10, int(transcoder.FormatASTC4x4))
	assert.Equal(t, 13, int(transcoder.FormatRGBA32))
	assert.Equal(t, 14, int(transcoder.FormatRGB565))
	assert.Equal(t, "Format(99)", transcoder.Format(99).String())
}
