// Package media inspects and converts rendered videos with ffprobe and
// ffmpeg so they satisfy platform upload limits.
package media

import (
	"github.com/contentgen/backend/internal/domain/publishing"
)

// PlatformSpec lists the upload constraints of a platform
type PlatformSpec struct {
	AspectRatios           []string `json:"aspect_ratios"`
	MaxFileSizeMB          float64  `json:"max_file_size_mb"`
	MaxDurationSeconds     float64  `json:"max_duration_seconds"`
	RecommendedResolutions []string `json:"recommended_resolutions"`
	Formats                []string `json:"formats"`
	Codecs                 []string `json:"codecs"`
	MinWidth               int      `json:"min_width,omitempty"`
	MinHeight              int      `json:"min_height,omitempty"`
}

var platformSpecs = map[publishing.Platform]PlatformSpec{
	publishing.PlatformYouTube: {
		AspectRatios:           []string{"16:9", "9:16", "1:1", "4:3"},
		MaxFileSizeMB:          256 * 1024,
		MaxDurationSeconds:     12 * 3600,
		RecommendedResolutions: []string{"1920x1080", "2560x1440", "3840x2160"},
		Formats:                []string{"mp4", "mov", "avi", "flv", "wmv"},
		Codecs:                 []string{"h264", "h265"},
	},
	publishing.PlatformTikTok: {
		AspectRatios:           []string{"9:16"},
		MaxFileSizeMB:          287,
		MaxDurationSeconds:     10 * 60,
		RecommendedResolutions: []string{"1080x1920"},
		Formats:                []string{"mp4", "mov"},
		Codecs:                 []string{"h264"},
		MinWidth:               540,
		MinHeight:              960,
	},
	publishing.PlatformInstagram: {
		AspectRatios:           []string{"9:16", "1:1", "4:5"},
		MaxFileSizeMB:          1024,
		MaxDurationSeconds:     90,
		RecommendedResolutions: []string{"1080x1920", "1080x1080", "1080x1350"},
		Formats:                []string{"mp4", "mov"},
		Codecs:                 []string{"h264"},
	},
}

// SpecFor returns the constraints of platform
func SpecFor(platform publishing.Platform) (PlatformSpec, bool) {
	spec, ok := platformSpecs[platform]
	return spec, ok
}

func (s PlatformSpec) allowsCodec(codec string) bool {
	for _, c := range s.Codecs {
		if c == codec {
			return true
		}
	}
	return false
}
