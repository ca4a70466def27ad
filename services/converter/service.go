package converter

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/gcottom/go-zaplog"
	"go.uber.org/zap"
)

// Convert transcodes inPath to an MP3 at the configured bitrate, overwriting outPath.
func (s *Service) Convert(ctx context.Context, inPath string, outPath string) error {
	args := s.args(inPath, outPath)
	cmd := exec.CommandContext(ctx, s.Config.FFMPEGPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	zaplog.InfoC(ctx, "converting file", zap.String("in", inPath), zap.String("out", outPath))
	if err := cmd.Start(); err != nil {
		zaplog.ErrorC(ctx, "conversion error", zap.Error(err))
		return &FFmpegError{Args: args, Cause: err}
	}
	if err := cmd.Wait(); err != nil {
		zaplog.ErrorC(ctx, "conversion error", zap.Error(err), zap.String("stderr", lastLine(stderr.String())))
		return &FFmpegError{Args: args, Stderr: stderr.String(), Cause: err}
	}
	zaplog.InfoC(ctx, "conversion complete", zap.String("out", outPath))
	return nil
}

func (s *Service) args(inPath string, outPath string) []string {
	return []string{"-y", "-i", inPath, "-vn", "-c:a", "libmp3lame", "-b:a", s.Config.Bitrate, "-f", "mp3", outPath}
}
