// Package responder answers utterances inside a conversation, walking each
// session through a short follow-up sequence per response bucket.
package responder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"banking-chatbot/internal/chatbot/classifier"
	"banking-chatbot/internal/chatbot/escalation"
	"banking-chatbot/internal/chatbot/matcher"
	"banking-chatbot/internal/chatbot/normalizer"
	"banking-chatbot/internal/chatbot/session"
	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/logger"
	"banking-chatbot/internal/common/metrics"
	"banking-chatbot/internal/common/observability"
)

// Fixed replies outside the bucket templates.
const (
	NotUnderstoodResponse   = "I'm sorry, I didn't understand that. Could you please rephrase your request?"
	CardStatusResponse      = "Please provide the card number to check its status."
	CardInformationResponse = "Please specify what information you would like about your card."
	StartOverResponse       = "Let's start over. How can I assist you today?"
	TroubleResponse         = "I'm having trouble processing your request. Could you please try again?"
)

// Phrases recognised only at the start of a sequence.
const (
	phraseReportProblem   = "report a problem"
	phraseCheckCardStatus = "check card status"
	phraseCardInformation = "get card information"
)

// maxStage is where the sequence resets.
const maxStage = 3

type Responder struct {
	classifier classifier.IntentClassifier
	store      session.Store
	normalizer *normalizer.Normalizer
	matcher    *matcher.Matcher
	escalator  *escalation.Dispatcher
	obs        *observability.Observability
	log        logger.Logger
}

type Option func(*Responder)

func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(r *Responder) { r.normalizer = n }
}

func WithMatcher(m *matcher.Matcher) Option {
	return func(r *Responder) { r.matcher = m }
}

func WithEscalation(d *escalation.Dispatcher) Option {
	return func(r *Responder) { r.escalator = d }
}

func WithObservability(o *observability.Observability) Option {
	return func(r *Responder) { r.obs = o }
}

func WithLogger(l logger.Logger) Option {
	return func(r *Responder) { r.log = l }
}

func New(cls classifier.IntentClassifier, store session.Store, opts ...Option) *Responder {
	r := &Responder{
		classifier: cls,
		store:      store,
		normalizer: normalizer.New(),
		matcher:    matcher.New(),
		log:        logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.Component(r.log, "responder")
	return r
}

// Store returns the session store the responder writes to.
func (r *Responder) Store() session.Store { return r.store }

// GenerateResponse answers rawText within sessionID. It always returns a
// reply; failures are logged and answered with TroubleResponse, leaving the
// session untouched.
func (r *Responder) GenerateResponse(ctx context.Context, rawText, sessionID string) string {
	start := time.Now()
	ctx, span := r.obs.StartSpan(ctx, "responder.generate", attribute.String("session.id", sessionID))
	defer span.End()

	reply, kind, err := r.generate(ctx, rawText, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	elapsed := time.Since(start)
	metrics.PredictionsTotal.WithLabelValues(metrics.VariantSession, kind).Inc()
	metrics.PredictionDuration.WithLabelValues(metrics.VariantSession).Observe(elapsed.Seconds())
	r.obs.RecordPrediction(ctx, metrics.VariantSession, kind, elapsed)
	return reply
}

func (r *Responder) generate(ctx context.Context, rawText, sessionID string) (reply, kind string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewResponseLookupFailedError(panicError{rec})
			r.fail("panic", sessionID, err)
			reply, kind = TroubleResponse, metrics.KindFallback
		}
	}()

	if m, ok := r.matcher.Match(rawText); ok {
		metrics.CustomIntentMatches.WithLabelValues(m.Rule).Inc()
		if m.Escalation() && r.escalator != nil {
			r.escalator.Escalate(ctx, sessionID, rawText)
		}
		return m.Response, metrics.KindCustom, nil
	}

	if r.classifier == nil {
		err = apperrors.NewModelNotInitializedError()
		r.fail("classify", sessionID, err)
		return TroubleResponse, metrics.KindFallback, err
	}

	norm := r.normalizer.Normalize(rawText)
	if norm.Err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.VariantSession, "normalize").Inc()
		r.log.Warn("normalization failed, continuing with sentinel", map[string]interface{}{
			"session_id": sessionID,
			"error":      norm.Err,
		})
	}

	id, err := r.classifier.Classify(norm.Text)
	if err != nil {
		err = apperrors.NewClassificationFailedError(err)
		r.fail("classify", sessionID, err)
		return TroubleResponse, metrics.KindFallback, err
	}

	intent, ok := r.classifier.CategoryName(id)
	if !ok {
		if _, err := r.store.Create(ctx, sessionID); err != nil {
			r.log.Warn("failed to register session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err,
			})
		}
		r.log.Debug("classifier returned an unmapped category", map[string]interface{}{
			"session_id": sessionID,
			"error":      apperrors.NewCategoryNotMappedError(id),
		})
		return NotUnderstoodResponse, metrics.KindFallback, nil
	}

	bucket := BucketFor(intent)
	var step transition
	_, err = r.store.Update(ctx, sessionID, func(st *session.State) error {
		step = advance(st, intent, bucket, norm)
		return nil
	})
	if err != nil {
		err = apperrors.NewSessionStoreFailedError("update", err)
		r.fail("session", sessionID, err)
		return TroubleResponse, metrics.KindFallback, err
	}

	if step.stage >= 0 {
		metrics.FollowUpStages.WithLabelValues(bucket.String(), step.stage.String()).Inc()
	}
	r.log.Debug("generated response", map[string]interface{}{
		"session_id":  sessionID,
		"category_id": id,
		"intent":      intent,
		"bucket":      bucket.String(),
		"stage":       step.stage.String(),
	})
	return step.reply, step.kind, nil
}

func (r *Responder) fail(stage, sessionID string, err error) {
	metrics.PredictionFailures.WithLabelValues(metrics.VariantSession, stage).Inc()
	r.log.Error("failed to generate response", map[string]interface{}{
		"session_id": sessionID,
		"stage":      stage,
		"error":      err,
	})
}

// transition is the outcome of one state-machine step. stage is -1 when no
// bucket template was served.
type transition struct {
	reply string
	kind  string
	stage Stage
}

// advance applies one message to st.
func advance(st *session.State, intent string, bucket Bucket, norm normalizer.Result) transition {
	st.CurrentIntent = intent

	if st.FollowUpCount == 0 {
		switch {
		case norm.Contains(phraseReportProblem):
			st.FollowUpCount = 1
			return transition{reply: bucket.Template(StageFollowUp1), kind: metrics.KindModel, stage: StageFollowUp1}
		case norm.Contains(phraseCheckCardStatus):
			return transition{reply: CardStatusResponse, kind: metrics.KindModel, stage: -1}
		case norm.Contains(phraseCardInformation):
			return transition{reply: CardInformationResponse, kind: metrics.KindModel, stage: -1}
		}
	}

	if st.FollowUpCount < maxStage {
		stage := Stage(st.FollowUpCount)
		if stage < StageInitial {
			stage = StageInitial
		}
		st.FollowUpCount = int(stage) + 1
		return transition{reply: bucket.Template(stage), kind: metrics.KindModel, stage: stage}
	}

	st.FollowUpCount = 0
	return transition{reply: StartOverResponse, kind: metrics.KindReset, stage: -1}
}

type panicError struct{ v interface{} }

func (p panicError) Error() string {
	if s, ok := p.v.(string); ok {
		return "panic: " + s
	}
	if err, ok := p.v.(error); ok {
		return "panic: " + err.Error()
	}
	return "panic during response generation"
}
