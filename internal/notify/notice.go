// Package notify carries operator-facing notices (toasts) from the dashboard
// to whatever feed the front end reads.
package notify

import (
	"context"
	"errors"
	"time"

	"newsdesk/internal/model"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// FeedCap is how many notices a feed retains.
const FeedCap = 50

type Notice struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Feed is a Notifier that can be read back, newest first.
type Feed interface {
	Notifier
	Recent(ctx context.Context, limit int) ([]Notice, error)
}

func Success(title, description string, at time.Time) Notice {
	return Notice{Level: LevelSuccess, Title: title, Description: description, At: at}
}

func Info(title, description string, at time.Time) Notice {
	return Notice{Level: LevelInfo, Title: title, Description: description, At: at}
}

func Warning(title, description string, at time.Time) Notice {
	return Notice{Level: LevelWarning, Title: title, Description: description, At: at}
}

// ForError turns a failed action into the notice shown for it. Capacity and
// insufficient-input rejections are warnings; everything else is an error.
func ForError(err error, at time.Time) Notice {
	var rej *model.Rejection
	if !errors.As(err, &rej) {
		if errors.Is(err, model.ErrConflict) {
			return Notice{Level: LevelError, Title: "Record changed", Description: "Someone else updated this item. Refresh and try again.", At: at}
		}
		if errors.Is(err, model.ErrNotFound) {
			return Notice{Level: LevelError, Title: "Not found", Description: err.Error(), At: at}
		}
		return Notice{Level: LevelError, Title: "Something went wrong", Description: err.Error(), At: at}
	}
	level := LevelError
	if errors.Is(rej, model.ErrCapacity) || errors.Is(rej, model.ErrInsufficient) {
		level = LevelWarning
	}
	return Notice{Level: level, Title: rej.Title, Description: rej.Description, At: at}
}
