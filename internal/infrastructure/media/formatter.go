package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
)

const (
	tiktokAspect    = 9.0 / 16.0
	aspectTolerance = 0.01
	verticalFilter  = "scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2"
)

// ErrNoVideoStream is returned when a file has no video stream
var ErrNoVideoStream = errors.New("media: no video stream found")

// VideoInfo is the probed shape of a video file
type VideoInfo struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	SizeMB   float64 `json:"size_mb"`
	Codec    string  `json:"codec"`
	Format   string  `json:"format"`
	Bitrate  int64   `json:"bitrate"`
}

// Compatibility is the result of CheckCompatibility
type Compatibility struct {
	Compatible      bool          `json:"compatible"`
	VideoInfo       *VideoInfo    `json:"video_info,omitempty"`
	PlatformSpecs   *PlatformSpec `json:"platform_specs,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// CommandRunner runs an external tool and returns its stdout
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec, folding stderr into errors
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[len(msg)-500:]
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// Formatter converts videos for platform uploads
type Formatter struct {
	outputDir string
	run       CommandRunner
	logger    *zap.Logger
}

// NewFormatter writes converted files under {storagePath}/formatted
func NewFormatter(storagePath string, logger *zap.Logger) *Formatter {
	return NewFormatterWithRunner(storagePath, ExecRunner, logger)
}

// NewFormatterWithRunner uses run instead of os/exec
func NewFormatterWithRunner(storagePath string, run CommandRunner, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{
		outputDir: filepath.Join(storagePath, "formatted"),
		run:       run,
		logger:    logger.Named("media"),
	}
}

// OutputDir is where converted files and thumbnails are written
func (f *Formatter) OutputDir() string {
	return f.outputDir
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
}

// Probe reads stream and container metadata with ffprobe
func (f *Formatter) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	out, err := f.run(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", path)
	if err != nil {
		f.logger.Error("ffprobe failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("media: failed to get video info: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("media: parse ffprobe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType != "video" {
			continue
		}
		duration, _ := strconv.ParseFloat(probe.Format.Duration, 64)
		size, _ := strconv.ParseInt(probe.Format.Size, 10, 64)
		bitrate, _ := strconv.ParseInt(probe.Format.BitRate, 10, 64)
		return &VideoInfo{
			Width:    s.Width,
			Height:   s.Height,
			Duration: duration,
			SizeMB:   float64(size) / (1024 * 1024),
			Codec:    s.CodecName,
			Format:   probe.Format.FormatName,
			Bitrate:  bitrate,
		}, nil
	}
	return nil, ErrNoVideoStream
}

// NeedsConversion reports whether info violates the platform constraints
func NeedsConversion(info *VideoInfo, platform publishing.Platform) bool {
	spec, ok := SpecFor(platform)
	if !ok {
		return false
	}
	if info.Duration > spec.MaxDurationSeconds || info.SizeMB > spec.MaxFileSizeMB {
		return true
	}
	if !spec.allowsCodec(info.Codec) {
		return true
	}
	if platform == publishing.PlatformTikTok {
		if info.Height == 0 || math.Abs(float64(info.Width)/float64(info.Height)-tiktokAspect) > aspectTolerance {
			return true
		}
		if info.Width < spec.MinWidth || info.Height < spec.MinHeight {
			return true
		}
	}
	return false
}

// Recommendations lists the changes that would make info compatible
func Recommendations(info *VideoInfo, platform publishing.Platform) []string {
	spec, ok := SpecFor(platform)
	if !ok {
		return nil
	}
	recs := []string{}
	if info.Duration > spec.MaxDurationSeconds {
		recs = append(recs, fmt.Sprintf("Trim video to %gs or less", spec.MaxDurationSeconds))
	}
	if info.SizeMB > spec.MaxFileSizeMB {
		recs = append(recs, fmt.Sprintf("Reduce file size to under %gMB", spec.MaxFileSizeMB))
	}
	if !spec.allowsCodec(info.Codec) {
		recs = append(recs, fmt.Sprintf("Re-encode with %s", strings.Join(spec.Codecs, " or ")))
	}
	switch platform {
	case publishing.PlatformTikTok:
		if info.Height == 0 || math.Abs(float64(info.Width)/float64(info.Height)-tiktokAspect) > aspectTolerance {
			recs = append(recs, "Convert to 9:16 vertical aspect ratio (1080x1920)")
		}
	case publishing.PlatformInstagram:
		if info.Duration > 90 {
			recs = append(recs, "Trim to 90 seconds for Instagram Reels")
		}
	}
	return recs
}

// FormatForPlatform returns path unchanged when it already fits the
// platform, else converts it to {output}/{stem}_{platform}{ext}
func (f *Formatter) FormatForPlatform(ctx context.Context, path string, platform publishing.Platform) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", shared.NotFoundf("Video not found: %s", path)
	}
	spec, ok := SpecFor(platform)
	if !ok {
		return "", publishing.UnsupportedPlatformError(platform)
	}

	info, err := f.Probe(ctx, path)
	if err != nil {
		return "", err
	}
	if !NeedsConversion(info, platform) {
		f.logger.Info("Video already meets platform specs", zap.String("platform", string(platform)))
		return path, nil
	}

	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create output dir: %w", err)
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	out := filepath.Join(f.outputDir, fmt.Sprintf("%s_%s%s", stem, platform, ext))

	args := ConvertArgs(path, out, platform, spec)
	f.logger.Info("Running ffmpeg", zap.Strings("args", args))
	if _, err := f.run(ctx, "ffmpeg", args...); err != nil {
		f.logger.Error("ffmpeg failed", zap.Error(err))
		return "", fmt.Errorf("media: video conversion failed: %w", err)
	}
	f.logger.Info("Video formatted", zap.String("platform", string(platform)), zap.String("output", out))
	return out, nil
}

// ConvertArgs builds the ffmpeg argument list for a platform conversion
func ConvertArgs(in, out string, platform publishing.Platform, spec PlatformSpec) []string {
	args := []string{"-i", in, "-c:v", "libx264", "-c:a", "aac"}
	switch platform {
	case publishing.PlatformTikTok, publishing.PlatformInstagram:
		args = append(args, "-vf", verticalFilter, "-r", "30", "-b:v", "5000k")
	case publishing.PlatformYouTube:
		args = append(args, "-preset", "slow", "-crf", "18")
	}
	return append(args,
		"-t", strconv.FormatFloat(spec.MaxDurationSeconds, 'f', -1, 64),
		"-y", out,
	)
}

// CreateThumbnail extracts the frame at second at into {stem}_thumb.jpg
func (f *Formatter) CreateThumbnail(ctx context.Context, path string, at float64) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", shared.NotFoundf("Video not found: %s", path)
	}
	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create output dir: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(f.outputDir, stem+"_thumb.jpg")

	_, err := f.run(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(at, 'f', -1, 64),
		"-i", path,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", out,
	)
	if err != nil {
		f.logger.Error("Thumbnail creation failed", zap.Error(err))
		return "", fmt.Errorf("media: failed to create thumbnail: %w", err)
	}
	f.logger.Info("Thumbnail created", zap.String("path", out))
	return out, nil
}

// ResizeThumbnailForYouTube scales an image to 1280x720
func (f *Formatter) ResizeThumbnailForYouTube(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", shared.NotFoundf("Image not found: %s", imagePath)
	}
	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create output dir: %w", err)
	}
	ext := filepath.Ext(imagePath)
	stem := strings.TrimSuffix(filepath.Base(imagePath), ext)
	out := filepath.Join(f.outputDir, stem+"_youtube"+ext)

	if _, err := f.run(ctx, "ffmpeg", "-i", imagePath, "-vf", "scale=1280:720:flags=lanczos", "-q:v", "2", "-y", out); err != nil {
		f.logger.Error("Thumbnail resize failed", zap.Error(err))
		return "", fmt.Errorf("media: failed to resize thumbnail: %w", err)
	}
	return out, nil
}

// CheckCompatibility probes path and compares it against the platform.
// Probe failures are reported in the result rather than returned.
func (f *Formatter) CheckCompatibility(ctx context.Context, path string, platform publishing.Platform) *Compatibility {
	spec, ok := SpecFor(platform)
	if !ok {
		return &Compatibility{Error: fmt.Sprintf("Platform %s not supported", platform)}
	}
	info, err := f.Probe(ctx, path)
	if err != nil {
		f.logger.Error("Compatibility check failed", zap.String("path", path), zap.Error(err))
		return &Compatibility{Error: err.Error()}
	}
	return &Compatibility{
		Compatible:      !NeedsConversion(info, platform),
		VideoInfo:       info,
		PlatformSpecs:   &spec,
		Recommendations: Recommendations(info, platform),
	}
}
