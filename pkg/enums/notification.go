package enums

import "fmt"

// NotificationPreference selects the channel(s) a vendor receives order
// notifications on.
type NotificationPreference string

const (
	NotificationPreferenceSMS      NotificationPreference = "sms"
	NotificationPreferenceWhatsApp NotificationPreference = "whatsapp"
	NotificationPreferenceBoth     NotificationPreference = "both"
)

var validNotificationPreferences = []NotificationPreference{
	NotificationPreferenceSMS,
	NotificationPreferenceWhatsApp,
	NotificationPreferenceBoth,
}

// String implements fmt.Stringer.
func (p NotificationPreference) String() string {
	return string(p)
}

// IsValid reports whether the value is a known NotificationPreference.
func (p NotificationPreference) IsValid() bool {
	for _, candidate := range validNotificationPreferences {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseNotificationPreference converts raw input into a NotificationPreference.
func ParseNotificationPreference(value string) (NotificationPreference, error) {
	for _, candidate := range validNotificationPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification preference %q", value)
}
