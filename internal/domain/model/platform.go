package model

import (
	"fmt"
	"strings"
)

// Platform identifies a supported social platform.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformSnapchat  Platform = "snapchat"
)

// Secret field names used across platforms.
const (
	FieldAPIKey       = "apiKey"
	FieldAPISecret    = "apiSecret"
	FieldAccessToken  = "accessToken"
	FieldBearerToken  = "bearerToken"
	FieldClientID     = "clientId"
	FieldClientKey    = "clientKey"
	FieldClientSecret = "clientSecret"
	FieldUserID       = "userId"
)

// platformFields lists the exact secret field set each platform requires.
// The order is the order fields are presented to users.
var platformFields = map[Platform][]string{
	PlatformYouTube:   {FieldAPIKey, FieldClientID, FieldClientSecret, FieldAccessToken},
	PlatformInstagram: {FieldAccessToken, FieldUserID},
	PlatformTikTok:    {FieldClientKey, FieldClientSecret, FieldAccessToken},
	PlatformTwitter:   {FieldAPIKey, FieldAPISecret, FieldBearerToken, FieldClientID, FieldClientSecret},
	PlatformSnapchat:  {FieldClientID, FieldClientSecret, FieldAccessToken},
}

// bearerFields maps each platform to the secret sent as the bearer credential.
var bearerFields = map[Platform]string{
	PlatformYouTube:   FieldAccessToken,
	PlatformInstagram: FieldAccessToken,
	PlatformTikTok:    FieldAccessToken,
	PlatformTwitter:   FieldBearerToken,
	PlatformSnapchat:  FieldAccessToken,
}

// AllPlatforms returns every supported platform in display order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformYouTube,
		PlatformInstagram,
		PlatformTikTok,
		PlatformTwitter,
		PlatformSnapchat,
	}
}

// ParsePlatform converts a case-insensitive platform name into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported platform %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	_, ok := platformFields[p]
	return ok
}

// RequiredFields returns a copy of the secret field names p requires.
// Returns nil for an unsupported platform.
func (p Platform) RequiredFields() []string {
	fields, ok := platformFields[p]
	if !ok {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// BearerField returns the secret field used as the bearer credential, or ""
// for an unsupported platform.
func (p Platform) BearerField() string {
	return bearerFields[p]
}

// IsRequiredField reports whether name belongs to p's required field set.
func (p Platform) IsRequiredField(name string) bool {
	for _, f := range platformFields[p] {
		if f == name {
			return true
		}
	}
	return false
}
