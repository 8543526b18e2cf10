package models

// Credentials holds the named secrets of one platform. A missing key means
// the value is not configured.
type Credentials map[string]string

func (c Credentials) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// Has reports whether every key is present and non-empty.
func (c Credentials) Has(keys ...string) bool {
	for _, k := range keys {
		if c.Get(k) == "" {
			return false
		}
	}
	return true
}

// CredentialKeys lists the secrets each platform reads from the credential source.
var CredentialKeys = map[Platform][]string{
	PlatformFacebook:  {"APP_ID", "APP_SECRET", "ACCESS_TOKEN", "PAGE_ID"},
	PlatformTwitter:   {"ACCESS_TOKEN"},
	PlatformLinkedIn:  {"CLIENT_ID", "CLIENT_SECRET", "ACCESS_TOKEN", "AUTHOR_URN"},
	PlatformTikTok:    {"ACCESS_TOKEN"},
	PlatformInstagram: {"ACCESS_TOKEN", "ACCOUNT_ID"},
	PlatformSnapchat:  {"AD_ACCOUNT_ID", "CLIENT_SECRET", "ACCESS_TOKEN"},
	PlatformYoutube:   {"CLIENT_ID", "CLIENT_SECRET", "ACCESS_TOKEN", "REFRESH_TOKEN"},
}
