package router

import (
	"github.com/contentgen/backend/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted under the versioned prefix
type Handlers struct {
	System      *handler.SystemHandler
	News        *handler.NewsHandler
	Ideas       *handler.IdeaHandler
	Videos      *handler.VideoHandler
	Publish     *handler.PublishHandler
	Credentials *handler.CredentialHandler
}

// APIGroups builds one DomainGroup per API area
func APIGroups(h Handlers) []*DomainGroup {
	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	news := NewDomainGroup("news", "/news").
		POST("/fetch", h.News.Fetch).
		GET("", h.News.List).
		GET("/:id", h.News.Get).
		DELETE("/:id", h.News.Delete)

	ideas := NewDomainGroup("ideas", "/ideas").
		POST("/generate", h.Ideas.Generate).
		GET("", h.Ideas.List).
		GET("/:id", h.Ideas.Get).
		PUT("/:id/approve", h.Ideas.Approve).
		DELETE("/:id", h.Ideas.Delete)

	videos := NewDomainGroup("videos", "/videos").
		POST("", h.Videos.Create).
		GET("", h.Videos.List).
		GET("/models", h.Videos.Models).
		GET("/models/:model", h.Videos.ModelInfo).
		GET("/:id", h.Videos.Get).
		POST("/:id/download", h.Videos.Download).
		GET("/:id/content", h.Videos.Content).
		GET("/:id/url", h.Videos.URL).
		GET("/:id/compatibility", h.Videos.Compatibility).
		DELETE("/:id", h.Videos.Delete)

	publish := NewDomainGroup("publish", "/publish").
		POST("/metadata", h.Publish.GenerateMetadata).
		POST("/metadata/bulk", h.Publish.GenerateBulkMetadata).
		POST("/youtube", h.Publish.PublishYouTube).
		POST("/bulk", h.Publish.BulkPublish).
		GET("", h.Publish.List).
		GET("/:id", h.Publish.Get).
		DELETE("/:id", h.Publish.Delete).
		GET("/:id/analytics", h.Publish.Analytics).
		POST("/:id/retry", h.Publish.Retry)

	credentials := NewDomainGroup("credentials", "/credentials").
		GET("", h.Credentials.List).
		GET("/:platform/auth-url", h.Credentials.AuthURL).
		GET("/:platform/callback", h.Credentials.Callback).
		DELETE("/:platform", h.Credentials.Deactivate)

	return []*DomainGroup{system, news, ideas, videos, publish, credentials}
}
