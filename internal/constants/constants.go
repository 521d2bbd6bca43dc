package constants

// Session
const (
	SessionCookieName = "izwi_session"
	SessionMaxAge     = 86400 * 7 // 7 days
	// SessionMaxAgeRemember applies when the login form's remember-me
	// box is checked.
	SessionMaxAgeRemember = 86400 * 30

	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyCommunity = "community"

	SessionKeyInviteCommunityID = "invite_community_id"
	SessionKeyCSRFToken         = "csrf_token"
	SessionKeyWelcomeName       = "welcome_name"
)

// CSRF
const (
	CSRFFormField  = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// Validation limits
const (
	MinPasswordLength      = 8
	MaxCommunityNameLength = 100
	MaxDescriptionLength   = 500
)

// Community soft limits for the free plan
const (
	DefaultMaxMembers        = 50
	DefaultMaxAlertsPerMonth = 100
)

// Default map region when no alert carries a real coordinate
// (Johannesburg, the original deployment area).
const (
	DefaultMapLatitude  = -26.2041
	DefaultMapLongitude = 28.0473
)
