package models

// TokenPair holds the opaque credentials for cloud API access. The pair is
// always persisted and read as a unit; a reader must never observe a new
// access token alongside a stale refresh token or vice versa.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether no credentials are present (signed out).
func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
