package converter

import (
	"context"
	"fmt"
	"strings"

	"github.com/gcottom/zeromusic/config"
)

type ConverterService interface {
	Convert(ctx context.Context, inPath string, outPath string) error
}

type Service struct {
	Config *config.Config
}

func NewConverterService(cfg *config.Config) *Service {
	return &Service{Config: cfg}
}

type FFmpegError struct {
	Args   []string
	Stderr string
	Cause  error
}

func (e *FFmpegError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg failed: %v: %s", e.Cause, lastLine(e.Stderr))
	}
	return fmt.Sprintf("ffmpeg failed: %v", e.Cause)
}

func (e *FFmpegError) Unwrap() error { return e.Cause }

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
