package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/model"
)

const (
	DisplayTimeLayout = "15:04"
	DisplayDateLayout = "Mon, 2 Jan"
	customLayout      = "2006-01-02 15:04"
)

// Display is the zone schedule strings are rendered in.
type Display struct {
	Location *time.Location
	Label    string
}

func (d Display) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

// ValidateSettings checks the publish dialog for one kind. Custom start times
// may not lie in the past.
func ValidateSettings(kind model.Kind, s model.PublishSettings, now time.Time, display Display) error {
	if s.DurationValue < 1 {
		return model.Reject(model.ErrValidation, "Invalid duration", "Duration must be at least 1.")
	}
	if !validUnit(s.DurationUnit) {
		return model.Reject(model.ErrValidation, "Invalid duration unit", fmt.Sprintf("Unknown unit %q.", s.DurationUnit))
	}
	if s.UserExpiryValue < 1 {
		return model.Reject(model.ErrValidation, "Invalid user expiry", "User expiry must be at least 1.")
	}
	if !validUnit(s.UserExpiryUnit) {
		return model.Reject(model.ErrValidation, "Invalid user expiry unit", fmt.Sprintf("Unknown unit %q.", s.UserExpiryUnit))
	}
	switch s.StartMode {
	case model.StartNow:
	case model.StartCustom:
		start, err := customStart(s, display)
		if err != nil {
			return err
		}
		if start.Before(now) {
			return model.Reject(model.ErrValidation, "Start time is in the past", "Please pick a future date and time.")
		}
	default:
		return model.Reject(model.ErrValidation, "Invalid start mode", fmt.Sprintf("Unknown start mode %q.", s.StartMode))
	}
	for _, group := range model.RequiredTargeting[kind] {
		if len(s.Targeting[group]) == 0 {
			return model.Reject(model.ErrValidation, "Targeting incomplete",
				fmt.Sprintf("Please select at least one option for %s.", strings.ReplaceAll(group, "_", " ")))
		}
	}
	return nil
}

// ScheduleFor computes the publish window and its display strings.
func ScheduleFor(s model.PublishSettings, now time.Time, display Display) (model.Schedule, error) {
	start := now
	if s.StartMode == model.StartCustom {
		t, err := customStart(s, display)
		if err != nil {
			return model.Schedule{}, err
		}
		start = t
	}
	unit := 24 * time.Hour
	if s.DurationUnit == model.UnitHours {
		unit = time.Hour
	}
	expire := start.Add(time.Duration(s.DurationValue) * unit)
	return Window(start, expire, display), nil
}

// Window renders a publish window in the display zone.
func Window(start, expire time.Time, display Display) model.Schedule {
	loc := display.location()
	return model.Schedule{
		PublishAt:         start,
		ExpireAt:          expire,
		PublishedTime:     start.In(loc).Format(DisplayTimeLayout),
		PublishedDate:     start.In(loc).Format(DisplayDateLayout),
		PublishedTimezone: display.Label,
		ExpiresTime:       expire.In(loc).Format(DisplayTimeLayout),
		ExpiresDate:       expire.In(loc).Format(DisplayDateLayout),
		ExpiresTimezone:   display.Label,
	}
}

// BuildCollection turns a previewed draft into a live record.
func BuildCollection(d model.Draft, selected []string, s model.PublishSettings, now time.Time, display Display) (model.Collection, error) {
	if err := ValidateSettings(d.Kind, s, now, display); err != nil {
		return model.Collection{}, err
	}
	sched, err := ScheduleFor(s, now, display)
	if err != nil {
		return model.Collection{}, err
	}
	col := model.Collection{
		ID:         fmt.Sprintf("%s-%s", d.Kind, uuid.NewString()),
		Kind:       d.Kind,
		Title:      d.Title,
		Subtitle:   d.Description,
		Type:       d.Type,
		Status:     model.CollectionLive,
		Tags:       slices.Clone(d.Tags),
		ArticleIDs: slices.Clone(selected),
		IsBreaking: s.IsBreaking,
		Schedule:   sched,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if len(s.Targeting) > 0 {
		col.Targeting = make(map[string][]string, len(s.Targeting))
		for k, v := range s.Targeting {
			col.Targeting[k] = slices.Clone(v)
		}
	}
	if d.Kind == model.KindStory {
		col.Type = d.Type + " - " + d.Subtype
		col.EventCount = len(selected)
		at := now
		col.LastEventAt = &at
	}
	return col, nil
}

func validUnit(u model.DurationUnit) bool {
	return u == model.UnitDays || u == model.UnitHours
}

func customStart(s model.PublishSettings, display Display) (time.Time, error) {
	t, err := time.ParseInLocation(customLayout, s.CustomDate+" "+s.CustomTime, display.location())
	if err != nil {
		return time.Time{}, model.Reject(model.ErrValidation, "Invalid start time",
			"Please provide the date as YYYY-MM-DD and the time as HH:MM.")
	}
	return t, nil
}
