package threshold

// Config holds the operator-tunable detection parameters. There is exactly
// one active Config at a time; updates replace the whole object and every
// accepted change triggers a full re-evaluation of the detection engine.
type Config struct {
	RapidActionsCount              int `json:"rapidActionsCount" validate:"gte=1"`
	RapidActionsWindowMinutes      int `json:"rapidActionsWindowMinutes" validate:"gte=1"`
	MassStatusChangesCount         int `json:"massStatusChangesCount" validate:"gte=1"`
	MassStatusChangesWindowMinutes int `json:"massStatusChangesWindowMinutes" validate:"gte=1"`
	MassRejectionsCount            int `json:"massRejectionsCount" validate:"gte=1"`
	MassRejectionsWindowMinutes    int `json:"massRejectionsWindowMinutes" validate:"gte=1"`
	QuickResolutionMinutes         int `json:"quickResolutionMinutes" validate:"gte=1"`
	OffHoursStart                  int `json:"offHoursStart" validate:"gte=0,lte=23"`
	OffHoursEnd                    int `json:"offHoursEnd" validate:"gte=0,lte=23"`

	// Notification channel toggles. Stored with the rest of the config but
	// not consumed by the detection engine itself.
	NotifyEmail bool `json:"notifyEmail"`
	NotifyInApp bool `json:"notifyInApp"`
}

// Default returns the configuration used until an operator tunes it.
func Default() Config {
	return Config{
		RapidActionsCount:              10,
		RapidActionsWindowMinutes:      5,
		MassStatusChangesCount:         5,
		MassStatusChangesWindowMinutes: 10,
		MassRejectionsCount:            3,
		MassRejectionsWindowMinutes:    30,
		QuickResolutionMinutes:         5,
		OffHoursStart:                  0,
		OffHoursEnd:                    6,
		NotifyEmail:                    false,
		NotifyInApp:                    true,
	}
}
