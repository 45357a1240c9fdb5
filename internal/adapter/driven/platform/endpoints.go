// Package platform implements the PlatformGateway port: credential validation
// and OAuth authorization URLs for every supported social platform.
package platform

import "github.com/ericfisherdev/socialhub/internal/domain/model"

// Endpoint is the static per-platform API metadata.
type Endpoint struct {
	Platform       model.Platform
	Name           string
	Description    string
	BaseURL        string
	ValidationPath string // Appended to BaseURL; may carry a query string.
	AuthURL        string
	Scopes         []string
}

// ValidationURL returns the full URL of the read-only validation request.
func (e Endpoint) ValidationURL() string {
	return e.BaseURL + e.ValidationPath
}

// DefaultEndpoints returns the production endpoint table keyed by platform.
// Callers receive a fresh map and may override entries (tests point BaseURL
// at an httptest server).
func DefaultEndpoints() map[model.Platform]Endpoint {
	return map[model.Platform]Endpoint{
		model.PlatformYouTube: {
			Platform:       model.PlatformYouTube,
			Name:           "YouTube Data API v3",
			Description:    "Manage YouTube content, analytics, and channel data",
			BaseURL:        "https://www.googleapis.com/youtube/v3",
			ValidationPath: "/channels?part=id&mine=true",
			AuthURL:        "https://accounts.google.com/o/oauth2/v2/auth",
			Scopes: []string{
				"https://www.googleapis.com/auth/youtube.readonly",
				"https://www.googleapis.com/auth/youtube.upload",
				"https://www.googleapis.com/auth/youtube.force-ssl",
			},
		},
		model.PlatformInstagram: {
			Platform:       model.PlatformInstagram,
			Name:           "Instagram Graph API",
			Description:    "Access Instagram business account features and insights",
			BaseURL:        "https://graph.instagram.com/v12.0",
			ValidationPath: "/me?fields=id,username",
			AuthURL:        "https://api.instagram.com/oauth/authorize",
			Scopes:         []string{"instagram_basic", "instagram_content_publish", "instagram_manage_insights"},
		},
		model.PlatformTikTok: {
			Platform:       model.PlatformTikTok,
			Name:           "TikTok API v2",
			Description:    "Manage TikTok content and access analytics",
			BaseURL:        "https://open-api.tiktok.com/v2",
			ValidationPath: "/user/info/",
			AuthURL:        "https://www.tiktok.com/auth/authorize/",
			Scopes:         []string{"user.info.basic", "video.list", "video.upload"},
		},
		model.PlatformTwitter: {
			Platform:       model.PlatformTwitter,
			Name:           "Twitter API v2",
			Description:    "Post tweets and access Twitter analytics",
			BaseURL:        "https://api.twitter.com/2",
			ValidationPath: "/users/me",
			AuthURL:        "https://twitter.com/i/oauth2/authorize",
			Scopes:         []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		},
		model.PlatformSnapchat: {
			Platform:       model.PlatformSnapchat,
			Name:           "Snap Kit API",
			Description:    "Integrate with Snapchat features",
			BaseURL:        "https://kit.snapchat.com/v1",
			ValidationPath: "/me",
			AuthURL:        "https://accounts.snapchat.com/accounts/oauth2/auth",
			Scopes: []string{
				"https://auth.snapchat.com/oauth2/api/user.display_name",
				"https://auth.snapchat.com/oauth2/api/user.bitmoji.avatar",
			},
		},
	}
}
