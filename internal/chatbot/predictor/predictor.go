// Package predictor answers single utterances without conversation state.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"banking-chatbot/internal/chatbot/catalog"
	"banking-chatbot/internal/chatbot/classifier"
	"banking-chatbot/internal/chatbot/escalation"
	"banking-chatbot/internal/chatbot/matcher"
	"banking-chatbot/internal/chatbot/normalizer"
	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/logger"
	"banking-chatbot/internal/common/metrics"
	"banking-chatbot/internal/common/observability"
)

// Category is either a numeric category id or the custom tag.
type Category struct {
	ID     int
	Custom bool
}

func (c Category) MarshalJSON() ([]byte, error) {
	if c.Custom {
		return json.Marshal(matcher.Category)
	}
	return json.Marshal(c.ID)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != matcher.Category {
			return fmt.Errorf("unknown category tag %q", tag)
		}
		*c = Category{Custom: true}
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*c = Category{ID: id}
	return nil
}

// Prediction is the stateless answer for one utterance.
type Prediction struct {
	Category Category `json:"category"`
	Response string   `json:"response"`
}

type Predictor struct {
	classifier classifier.IntentClassifier
	normalizer *normalizer.Normalizer
	matcher    *matcher.Matcher
	escalator  *escalation.Dispatcher
	obs        *observability.Observability
	log        logger.Logger
}

type Option func(*Predictor)

func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(p *Predictor) { p.normalizer = n }
}

func WithMatcher(m *matcher.Matcher) Option {
	return func(p *Predictor) { p.matcher = m }
}

func WithEscalation(d *escalation.Dispatcher) Option {
	return func(p *Predictor) { p.escalator = d }
}

func WithObservability(o *observability.Observability) Option {
	return func(p *Predictor) { p.obs = o }
}

func WithLogger(l logger.Logger) Option {
	return func(p *Predictor) { p.log = l }
}

// New builds a predictor. cls may be nil, in which case every Predict call
// fails with MODEL_NOT_INITIALIZED.
func New(cls classifier.IntentClassifier, opts ...Option) *Predictor {
	p := &Predictor{
		classifier: cls,
		normalizer: normalizer.New(),
		matcher:    matcher.New(),
		log:        logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logger.Component(p.log, "predictor")
	return p
}

// Ready reports whether a model is loaded.
func (p *Predictor) Ready() bool { return p != nil && p.classifier != nil }

// Predict answers text. Custom intents are checked first; everything else is
// classified and resolved through the catalog.
func (p *Predictor) Predict(ctx context.Context, text string) (*Prediction, error) {
	if !p.Ready() {
		return nil, apperrors.NewModelNotInitializedError()
	}

	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "predictor.predict")
	defer span.End()

	pred, kind, err := p.predict(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.PredictionFailures.WithLabelValues(metrics.VariantStateless, "classify").Inc()
		p.log.Error("prediction failed", map[string]interface{}{"error": err})
		return nil, err
	}

	elapsed := time.Since(start)
	span.SetAttributes(attribute.String("prediction.kind", kind))
	metrics.PredictionsTotal.WithLabelValues(metrics.VariantStateless, kind).Inc()
	metrics.PredictionDuration.WithLabelValues(metrics.VariantStateless).Observe(elapsed.Seconds())
	p.obs.RecordPrediction(ctx, metrics.VariantStateless, kind, elapsed)
	return pred, nil
}

func (p *Predictor) predict(ctx context.Context, text string) (pred *Prediction, kind string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pred, kind = nil, metrics.KindFallback
			err = apperrors.NewClassificationFailedError(errorFromPanic(rec))
		}
	}()

	if m, ok := p.matcher.Match(text); ok {
		metrics.CustomIntentMatches.WithLabelValues(m.Rule).Inc()
		if m.Escalation() && p.escalator != nil {
			p.escalator.Escalate(ctx, "", text)
		}
		return &Prediction{Category: Category{Custom: true}, Response: m.Response}, metrics.KindCustom, nil
	}

	norm := p.normalizer.Normalize(text)
	if norm.Err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.VariantStateless, "normalize").Inc()
		p.log.Warn("normalization failed, continuing with sentinel", map[string]interface{}{"error": norm.Err})
	}

	id, err := p.classifier.Classify(norm.Text)
	if err != nil {
		return nil, metrics.KindFallback, apperrors.NewClassificationFailedError(err)
	}

	kind = metrics.KindModel
	if _, ok := catalog.Lookup(id); !ok {
		kind = metrics.KindFallback
	}
	p.log.Info("prediction successful", map[string]interface{}{
		"category_id": id,
		"normalized":  norm.Text,
	})
	return &Prediction{Category: Category{ID: id}, Response: catalog.Resolve(id)}, kind, nil
}

type panicError string

func (e panicError) Error() string { return "panic: " + string(e) }

func errorFromPanic(v interface{}) error {
	switch x := v.(type) {
	case error:
		return x
	case string:
		return panicError(x)
	default:
		return panicError("unexpected value")
	}
}
