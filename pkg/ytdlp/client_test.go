package ytdlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoJSON = `{
  "id": "abc",
  "title": "My Song!!",
  "uploader": "ChannelX",
  "thumbnail": "https://i.example/default.jpg",
  "thumbnails": [
    {"url": "https://i.example/small.jpg", "width": 120, "height": 90},
    {"url": "https://i.example/big.jpg", "width": 1280, "height": 720}
  ],
  "formats": [
    {"format_id": "18", "url": "https://v.example/18", "acodec": "mp4a.40.2", "vcodec": "avc1"},
    {"format_id": "140", "url": "https://v.example/140", "acodec": "mp4a.40.2", "vcodec": "none", "abr": 129.5}
  ]
}`

func TestGetInfoParsesJSON(t *testing.T) {
	c := New("")
	var gotName string
	var gotArgs []string
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotName, gotArgs = name, args
		return []byte(infoJSON + "\n"), nil, nil
	}

	info, err := c.GetInfo(context.Background(), "https://example.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "yt-dlp", gotName)
	assert.Contains(t, gotArgs, "--dump-single-json")
	assert.Equal(t, "https://example.com/watch?v=abc", gotArgs[len(gotArgs)-1])

	assert.Equal(t, "My Song!!", info.Title)
	assert.Equal(t, "ChannelX", info.Uploader)
	require.Len(t, info.Thumbnails, 2)
	assert.Equal(t, 1280, info.Thumbnails[1].Width)
	require.Len(t, info.Formats, 2)
	assert.True(t, info.Formats[0].HasVideo())
	assert.False(t, info.Formats[1].HasVideo())
	assert.True(t, info.Formats[1].HasAudio())
}

func TestGetInfoWrapsExecError(t *testing.T) {
	c := New("/opt/yt-dlp")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("ERROR: Video unavailable\n"), errors.New("boom")
	}

	_, err := c.GetInfo(context.Background(), "https://example.com")
	require.Error(t, err)
	var ee *ExecError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "/opt/yt-dlp", ee.Cmd)
	assert.Equal(t, "ERROR: Video unavailable", ee.Stderr)
	assert.EqualError(t, errors.Unwrap(err), "boom")
}

func TestGetInfoRejectsEmptyURL(t *testing.T) {
	c := New("")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		t.Fatal("exec must not run")
		return nil, nil, nil
	}
	_, err := c.GetInfo(context.Background(), "  ")
	assert.Error(t, err)
}

func TestExtractAudioArgs(t *testing.T) {
	c := New("")
	var gotArgs []string
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		return nil, nil, nil
	}

	err := c.ExtractAudio(context.Background(), "https://example.com/v", "/music/Song.mp3", "192k", "/usr/bin/ffmpeg")
	require.NoError(t, err)
	assert.Subset(t, gotArgs, []string{"-x", "--audio-format", "mp3", "--audio-quality", "192k", "-o", "/music/Song.%(ext)s", "--ffmpeg-location", "/usr/bin/ffmpeg"})
	assert.Equal(t, "https://example.com/v", gotArgs[len(gotArgs)-1])
}

func TestOutputTemplate(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"/music/Song.mp3", "/music/Song.%(ext)s"},
		{"/music/100% Pure (live).mp3", "/music/100%% Pure (live).%(ext)s"},
		{"/music/%(title)s.mp3", "/music/%%(title)s.%(ext)s"},
		{"/music/v1.2 Remix.mp3", "/music/v1.2 Remix.%(ext)s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputTemplate(tt.out), tt.out)
	}
}

func TestExtraArgsPrecedeCallArgs(t *testing.T) {
	c := New("")
	c.ExtraArgs = []string{"--cookies", "/tmp/c.txt"}
	var gotArgs []string
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		return []byte(`{"id":"x"}`), nil, nil
	}

	_, err := c.GetInfo(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, []string{"--cookies", "/tmp/c.txt", "--dump-single-json"}, gotArgs[:3])
}

func TestFormatCodecPresence(t *testing.T) {
	assert.False(t, Format{ACodec: "none"}.HasAudio())
	assert.False(t, Format{}.HasAudio())
	assert.True(t, Format{ACodec: "opus"}.HasAudio())
	assert.False(t, Format{VCodec: "none"}.HasVideo())
}
