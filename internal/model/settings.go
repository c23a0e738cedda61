package model

type StartMode string

const (
	StartNow    StartMode = "now"
	StartCustom StartMode = "custom"
)

type DurationUnit string

const (
	UnitDays  DurationUnit = "days"
	UnitHours DurationUnit = "hours"
)

// PublishSettings is what the publish dialog captures before a draft goes live.
type PublishSettings struct {
	IsBreaking      bool                `json:"is_breaking"`
	StartMode       StartMode           `json:"start_mode"`
	CustomDate      string              `json:"custom_date,omitempty"` // 2006-01-02
	CustomTime      string              `json:"custom_time,omitempty"` // 15:04
	DurationUnit    DurationUnit        `json:"duration_unit"`
	DurationValue   int                 `json:"duration_value"`
	UserExpiryUnit  DurationUnit        `json:"user_expiry_unit"`
	UserExpiryValue int                 `json:"user_expiry_value"`
	Targeting       map[string][]string `json:"targeting"`
}

// DefaultPublishSettings mirrors the dialog's initial values.
func DefaultPublishSettings() PublishSettings {
	return PublishSettings{
		StartMode:       StartNow,
		CustomTime:      "12:00",
		DurationUnit:    UnitDays,
		DurationValue:   1,
		UserExpiryUnit:  UnitDays,
		UserExpiryValue: 1,
		Targeting:       map[string][]string{},
	}
}

// RequiredTargeting lists the targeting groups that must be non-empty per kind.
var RequiredTargeting = map[Kind][]string{
	KindRoundup: {"experiments", "oems", "segments", "regions"},
	KindStory:   {"content_types", "regions", "audiences", "platforms"},
}
