package publishing

import "strings"

// Platform is a social platform a video can be published to
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

var platforms = []Platform{PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformFacebook, PlatformTwitter}

// ParsePlatform parses a case-insensitive platform name
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range platforms {
		if p == known {
			return p, nil
		}
	}
	return "", ErrUnknownPlatform
}

// Status is the publication state of a PublishedVideo
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusPublishing Status = "publishing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
	StatusDeleted    Status = "deleted"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublishing, StatusPublished, StatusFailed, StatusDeleted:
		return true
	}
	return false
}

// Privacy is the platform visibility of an upload
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

// IsValid reports whether p is a known privacy setting
func (p Privacy) IsValid() bool {
	return p == PrivacyPublic || p == PrivacyUnlisted || p == PrivacyPrivate
}
