package res

const (
	EMAIL_VERIFICATION = "email_verification"
	PASSWORD_RESET     = "password_reset"
)

type NotifyEmail struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Subject  string            `json:"subject"`
	Data     map[string]string `json:"data"`
}

type PreferencesUpdated struct {
	UserID             string `json:"user_id"`
	NotificationsAbout string `json:"notifications_about"`
}

// ListingEvent is published by the admin process on
// listings.<kind>.<action> when a listing changes.
type ListingEvent struct {
	ID   string `json:"_id"`
	Slug string `json:"slug,omitempty"`
}

const (
	LISTING_UPSERTED = "upserted"
	LISTING_DELETED  = "deleted"
)
