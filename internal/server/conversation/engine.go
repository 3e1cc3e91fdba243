package conversation

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
)

type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, text string) ([]models.MealItem, error)
}

type MealStore interface {
	InsertItems(ctx context.Context, sender string, items []models.MealItem) error
	QueryToday(ctx context.Context, sender string) ([]models.LoggedMeal, error)
}

// ChartRenderer returns a media link for the day's macro split, or "" when
// there is nothing to draw.
type ChartRenderer interface {
	Render(ctx context.Context, totals models.Totals) (string, error)
}

// Metrics receives one call per handled message and per collaborator failure.
type Metrics interface {
	MessageHandled(intent string)
	CollaboratorFailed(collaborator string)
}

type nopMetrics struct{}

func (nopMetrics) MessageHandled(string)     {}
func (nopMetrics) CollaboratorFailed(string) {}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

func WithChartRenderer(r ChartRenderer) Option {
	return func(e *Engine) { e.charts = r }
}

// WithPendingTTL lets unconfirmed meals expire. Zero keeps them indefinitely.
func WithPendingTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.pendingTTL = ttl }
}

// Engine turns one inbound message into one reply. Messages from the same
// sender are processed one at a time; different senders never wait on each
// other.
type Engine struct {
	transcriber Transcriber
	extractor   Extractor
	store       MealStore
	charts      ChartRenderer

	logger     logging.Logger
	metrics    Metrics
	pendingTTL time.Duration
	now        func() time.Time

	sessions *sessions
}

func NewEngine(transcriber Transcriber, extractor Extractor, store MealStore, opts ...Option) *Engine {
	e := &Engine{
		transcriber: transcriber,
		extractor:   extractor,
		store:       store,
		logger:      logging.Nop{},
		metrics:     nopMetrics{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("module", "conversation")
	e.sessions = newSessions(e.pendingTTL)
	return e
}

// HandleMessage never fails: every collaborator error becomes a reply. If ctx
// ends while waiting for the sender's turn, ReplyRetry is returned and no
// state is touched.
func (e *Engine) HandleMessage(ctx context.Context, msg models.InboundMessage) models.Reply {
	sender := NormalizeSender(msg.Sender)
	log := e.logger.With("sender", sender)

	unlock, err := e.sessions.lock(ctx, sender)
	if err != nil {
		log.Warn(ctx, "message dropped before processing", "error", err)
		return models.Reply{Text: ReplyRetry}
	}
	defer unlock()

	text := e.resolveInput(ctx, log, msg)

	pending, hasPending := e.sessions.getPending(sender)
	intent := Classify(text, hasPending)
	e.metrics.MessageHandled(intent.String())
	log.Info(ctx, "message classified", "intent", intent.String(), "has_pending", hasPending)

	switch intent {
	case IntentSummary:
		return e.summary(ctx, log, sender)
	case IntentConfirm:
		return e.confirm(ctx, log, sender, pending)
	case IntentReject:
		e.sessions.clearPending(sender)
		return models.Reply{Text: ReplyDiscarded}
	case IntentExtract:
		return e.extract(ctx, log, sender, text)
	default:
		return models.Reply{Text: ReplyNoInput}
	}
}

// resolveInput returns the normalized text used for both classification and
// extraction. A voice note that cannot be transcribed yields "".
func (e *Engine) resolveInput(ctx context.Context, log logging.Logger, msg models.InboundMessage) string {
	if !msg.HasMedia() {
		return NormalizeText(msg.Body)
	}

	if e.transcriber == nil {
		log.Warn(ctx, "media received but no transcriber configured")
		return ""
	}

	transcript, err := e.transcriber.Transcribe(ctx, msg.MediaURL)
	if err != nil {
		e.metrics.CollaboratorFailed("transcriber")
		log.Warn(ctx, "transcription failed", "error", err, "content_type", msg.MediaContentType)
		return ""
	}

	log.Debug(ctx, "voice note transcribed", "chars", len(transcript))
	return NormalizeText(transcript)
}

func (e *Engine) summary(ctx context.Context, log logging.Logger, sender string) models.Reply {
	rows, err := e.store.QueryToday(ctx, sender)
	if err != nil {
		e.metrics.CollaboratorFailed("store")
		log.Error(ctx, "summary query failed", "error", err)
		return models.Reply{Text: ReplySummaryFailed}
	}

	text, totals, ok := FormatSummary(rows)
	reply := models.Reply{Text: text}
	if !ok || e.charts == nil {
		return reply
	}

	link, err := e.charts.Render(ctx, totals)
	if err != nil {
		e.metrics.CollaboratorFailed("charts")
		log.Warn(ctx, "chart unavailable, sending text only", "error", err)
		return reply
	}
	reply.MediaURL = link
	return reply
}

func (e *Engine) confirm(ctx context.Context, log logging.Logger, sender string, pending models.PendingMeal) models.Reply {
	err := e.store.InsertItems(ctx, sender, pending.Items)
	e.sessions.clearPending(sender)

	if err != nil {
		e.metrics.CollaboratorFailed("store")
		log.Error(ctx, "saving meal failed", "error", err, "items", len(pending.Items))
		return models.Reply{Text: ReplySaveFailed}
	}

	log.Info(ctx, "meal saved", "items", len(pending.Items))
	return models.Reply{Text: ReplySaved}
}

func (e *Engine) extract(ctx context.Context, log logging.Logger, sender, text string) models.Reply {
	items, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.metrics.CollaboratorFailed("extractor")
		log.Warn(ctx, "extraction failed", "error", err)
		return models.Reply{Text: ReplyExtractionFailed}
	}
	if len(items) == 0 {
		log.Info(ctx, "no food found in message")
		return models.Reply{Text: ReplyExtractionFailed}
	}

	e.sessions.setPending(sender, models.PendingMeal{
		Owner:     sender,
		Items:     slices.Clone(items),
		CreatedAt: e.now(),
	})

	return models.Reply{Text: FormatPreview(items)}
}
