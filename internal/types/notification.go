package types

// NotificationKind names the event a counterpart is notified about
type NotificationKind string

const (
	NotificationKindRenewalRequested         NotificationKind = "RenewalRequested"
	NotificationKindRenewalCountered         NotificationKind = "RenewalCountered"
	NotificationKindRenewalAccepted          NotificationKind = "RenewalAccepted"
	NotificationKindRenewalDeclined          NotificationKind = "RenewalDeclined"
	NotificationKindTerminationNoticeCreated NotificationKind = "TerminationNoticeCreated"
)

func (k NotificationKind) String() string {
	return string(k)
}
