// Package dashboard is the single state container behind the newsroom UI.
// Every operation takes the lock, validates, mutates, and only then delivers
// notices and events, so a rejected call leaves nothing behind.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/event"
	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/notify"
	"newsdesk/internal/prefs"
	"newsdesk/internal/selection"
	"newsdesk/internal/store"
	"newsdesk/internal/workflow"
)

type Tab string

const (
	TabPublishing Tab = "news-publishing"
	TabRoundups   Tab = "news-roundup"
	TabStories    Tab = "news-stories"
)

func (t Tab) Valid() bool {
	switch t {
	case TabPublishing, TabRoundups, TabStories:
		return true
	}
	return false
}

func (t Tab) kind() (model.Kind, bool) {
	switch t {
	case TabRoundups:
		return model.KindRoundup, true
	case TabStories:
		return model.KindStory, true
	}
	return "", false
}

func tabFor(kind model.Kind) Tab {
	if kind == model.KindStory {
		return TabStories
	}
	return TabRoundups
}

type Options struct {
	Store    store.Store
	Notifier notify.Notifier
	Events   event.Publisher
	Flags    prefs.Flags // nil keeps the onboarding flag in memory
	Logger   *zap.Logger
	Clock    func() time.Time
	Display  workflow.Display
}

type Dashboard struct {
	mu sync.Mutex

	store    store.Store
	notifier notify.Notifier
	events   event.Publisher
	flags    prefs.Flags
	logger   *zap.Logger
	clock    func() time.Time
	display  workflow.Display

	tab       Tab
	query     filter.Query
	subtabs   map[Tab]string
	selection *selection.Manager
	curations map[model.Kind]*workflow.Curation
	candidate filter.CandidateQuery

	focused           string
	focusedCollection map[model.Kind]string
	viewed            []string

	onboardingPending bool
}

func New(opts Options) (*Dashboard, error) {
	if opts.Store == nil {
		return nil, errors.New("dashboard: store is required")
	}
	d := &Dashboard{
		store:    opts.Store,
		notifier: opts.Notifier,
		events:   opts.Events,
		flags:    opts.Flags,
		logger:   opts.Logger,
		clock:    opts.Clock,
		display:  opts.Display,
		tab:      TabPublishing,
		query:    filter.DefaultQuery(),
		subtabs: map[Tab]string{
			TabRoundups: string(model.CollectionLive),
			TabStories:  string(model.CollectionLive),
		},
		selection: selection.NewManager(),
		curations: map[model.Kind]*workflow.Curation{
			model.KindRoundup: workflow.NewCuration(model.KindRoundup),
			model.KindStory:   workflow.NewCuration(model.KindStory),
		},
		candidate:         filter.CandidateQuery{Sort: filter.SortIngestionDesc},
		focusedCollection: map[model.Kind]string{},
		onboardingPending: true,
	}
	if d.notifier == nil {
		d.notifier = notify.NewRecorder()
	}
	if d.events == nil {
		d.events = event.Nop{}
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	d.query.Location = d.display.Location

	if d.flags != nil {
		shown, err := d.flags.Get(prefs.DisclaimerShown)
		if err != nil {
			return nil, fmt.Errorf("read onboarding flag: %w", err)
		}
		d.onboardingPending = !shown
	}

	d.refocus()
	return d, nil
}

// outbox collects the side effects of one operation until the lock is released.
type outbox struct {
	notices []notify.Notice
	events  []event.Event
}

func (o *outbox) notice(n notify.Notice) {
	o.notices = append(o.notices, n)
}

func (o *outbox) emit(name, subject string, at time.Time, payload any) {
	o.events = append(o.events, event.Event{Name: name, Timestamp: at, Subject: subject, Payload: payload})
}

// do runs fn under the lock. A failed fn becomes an error notice and its
// other side effects are dropped.
func (d *Dashboard) do(ctx context.Context, op string, fn func(now time.Time, o *outbox) error) error {
	var o outbox
	d.mu.Lock()
	now := d.clock()
	err := fn(now, &o)
	d.mu.Unlock()

	if err != nil {
		var rej *model.Rejection
		if errors.As(err, &rej) {
			d.logger.Debug("Action rejected", zap.String("op", op), zap.String("reason", rej.Title))
		} else {
			d.logger.Warn("Action failed", zap.String("op", op), zap.Error(err))
		}
		o = outbox{notices: []notify.Notice{notify.ForError(err, now)}}
	}
	d.flush(ctx, o)
	return err
}

func (d *Dashboard) flush(ctx context.Context, o outbox) {
	for _, n := range o.notices {
		if err := d.notifier.Notify(ctx, n); err != nil {
			d.logger.Warn("Notice delivery failed", zap.String("title", n.Title), zap.Error(err))
		}
	}
	for _, e := range o.events {
		if err := d.events.Publish(ctx, e); err != nil {
			d.logger.Warn("Event delivery failed", zap.String("event", e.Name), zap.Error(err))
		}
	}
}

// DismissOnboarding records that the operator has seen the onboarding notice.
func (d *Dashboard) DismissOnboarding(ctx context.Context) error {
	return d.do(ctx, "dismiss-onboarding", func(time.Time, *outbox) error {
		if d.flags != nil {
			if err := d.flags.Set(prefs.DisclaimerShown, true); err != nil {
				return fmt.Errorf("persist onboarding flag: %w", err)
			}
		}
		d.onboardingPending = false
		return nil
	})
}

// Ingest adds a freshly ingested pending article.
func (d *Dashboard) Ingest(ctx context.Context, a model.Article) error {
	var o outbox
	d.mu.Lock()
	now := d.clock()
	err := d.store.InsertArticle(a)
	if err == nil {
		if d.focused == "" {
			d.refocus()
		}
		o.notice(notify.Info("New article ingested", a.Title, now))
	}
	d.mu.Unlock()

	if err != nil {
		return err
	}
	d.flush(ctx, o)
	return nil
}
