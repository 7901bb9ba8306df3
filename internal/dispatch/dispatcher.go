package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"imagerelay/internal/config"
	"imagerelay/internal/convert"
	"imagerelay/internal/core"
	"imagerelay/internal/util"
	"imagerelay/internal/validate"
)

// Upstream outcome labels reported to the metrics collector
const (
	outcomeOK          = "ok"
	outcomeUnavailable = "unavailable"
	outcomeRejected    = "rejected"
	outcomeTransport   = "transport_error"
)

// ModelTable is the read side of the model registry.
type ModelTable interface {
	Lookup(id string) (core.ModelDescriptor, bool)
	Default() core.ModelDescriptor
	Fallback() (core.ModelDescriptor, bool)
	IDs() []string
}

// Sender delivers a payload to a model's upstream endpoint.
type Sender interface {
	Send(ctx context.Context, model core.ModelDescriptor, payload []byte) ([]byte, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Dispatcher. Nil Sleep, Metrics and Logger get defaults.
type Options struct {
	Models    ModelTable
	Upstream  Sender
	APIKey    string
	Retry     config.RetrySettings
	Sleep     SleepFunc
	Validator *validate.ImageValidator
	Metrics   core.MetricsCollector
	Logger    core.Logger
}

// Dispatcher turns a GenerationRequest into a GenerationResult: validation,
// model selection, payload construction, retry with backoff, fallback and
// response normalization.
type Dispatcher struct {
	models    ModelTable
	upstream  Sender
	apiKey    string
	retry     config.RetrySettings
	sleep     SleepFunc
	validator *validate.ImageValidator
	metrics   core.MetricsCollector
	logger    core.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		models:    opts.Models,
		upstream:  opts.Upstream,
		apiKey:    opts.APIKey,
		retry:     opts.Retry,
		sleep:     opts.Sleep,
		validator: opts.Validator,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
	if d.retry.MaxAttempts < 1 {
		d.retry.MaxAttempts = 1
	}
	if d.sleep == nil {
		d.sleep = SleepContext
	}
	if d.validator == nil {
		d.validator = validate.NewImageValidator()
	}
	if d.metrics == nil {
		d.metrics = &core.NopMetrics{}
	}
	if d.logger == nil {
		d.logger = &core.NopLogger{}
	}
	return d
}

// Dispatch runs one generation request to completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req core.GenerationRequest) (*core.GenerationResult, error) {
	startTime := time.Now()
	prefix := logPrefix(ctx)

	prompt, err := validate.NormalizePrompt(req.Prompt)
	if err != nil {
		return nil, err
	}
	if err := validate.AspectRatio(req.AspectRatio); err != nil {
		return nil, err
	}

	model, err := d.resolveModel(req.ModelID)
	if err != nil {
		return nil, err
	}

	if d.apiKey == "" {
		return nil, core.ErrMissingCredential()
	}

	d.logger.Info("%sGenerating with %s: %q", prefix, model.ID, util.TruncateForLog(prompt, core.MaxLoggedPromptLength))

	result, err := d.generate(ctx, model, prompt, req.AspectRatio)
	if err != nil && core.IsServiceUnavailable(err) {
		if fallback, ok := d.fallbackFor(model); ok {
			d.logger.Warn("%s%s is unavailable, falling back to %s", prefix, model.ID, fallback.ID)
			d.metrics.RecordFallback(model.ID, fallback.ID)
			model = fallback
			result, err = d.generate(ctx, model, prompt, req.AspectRatio)
		}
	}

	duration := time.Since(startTime)
	d.metrics.RecordGeneration(model.ID, generationOutcome(result, err), duration)
	if err != nil {
		d.logger.Error("%sGeneration with %s failed after %v: %v", prefix, model.ID, duration, err)
		return nil, err
	}

	d.logger.Info("%sGeneration with %s returned %s in %v", prefix, model.ID, result.Kind, duration)
	return result, nil
}

func (d *Dispatcher) resolveModel(id string) (core.ModelDescriptor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return d.models.Default(), nil
	}
	model, ok := d.models.Lookup(id)
	if !ok {
		return core.ModelDescriptor{}, core.ErrUnsupportedModel(id, d.models.IDs())
	}
	return model, nil
}

// fallbackFor returns the fallback model when model is the default one.
func (d *Dispatcher) fallbackFor(model core.ModelDescriptor) (core.ModelDescriptor, bool) {
	if model.ID != d.models.Default().ID {
		return core.ModelDescriptor{}, false
	}
	fallback, ok := d.models.Fallback()
	if !ok || fallback.ID == model.ID {
		return core.ModelDescriptor{}, false
	}
	return fallback, true
}

func (d *Dispatcher) generate(ctx context.Context, model core.ModelDescriptor, prompt, aspectRatio string) (*core.GenerationResult, error) {
	payload, err := convert.BuildPayload(model, prompt, aspectRatio)
	if err != nil {
		return nil, err
	}

	body, err := d.sendWithRetry(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	result, err := convert.NormalizeResponse(body, model)
	if err != nil {
		d.logger.Debug("%sUnusable response from %s: %s", logPrefix(ctx), model.ID,
			util.TruncateForLog(string(body), core.MaxLoggedBodyLength))
		return nil, err
	}

	if result.Kind == core.ResultImage {
		if err := d.validator.ValidateImageData(result.Image.MimeType, result.Image.Data); err != nil {
			return nil, core.ErrNoContent("upstream returned an unusable image", err)
		}
	}
	return result, nil
}

// sendWithRetry sends payload up to MaxAttempts times. Only upstream 503 and
// transport failures are retried; the wait after failed attempt n is
// BackoffBase * 2^n. The last error is returned on exhaustion.
func (d *Dispatcher) sendWithRetry(ctx context.Context, model core.ModelDescriptor, payload []byte) ([]byte, error) {
	prefix := logPrefix(ctx)
	maxAttempts := d.retry.MaxAttempts

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, core.ErrTransport(err)
		}

		attemptStart := time.Now()
		body, err := d.upstream.Send(ctx, model, payload)
		d.metrics.RecordUpstreamAttempt(model.ID, attemptOutcome(err), time.Since(attemptStart))
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !core.IsRetryable(err) {
			return nil, err
		}
		if attempt == maxAttempts {
			d.logger.Warn("%s%s attempt %d/%d failed: %v", prefix, model.ID, attempt, maxAttempts, err)
			break
		}

		delay := d.backoff(attempt)
		d.logger.Warn("%s%s attempt %d/%d failed: %v, retrying in %v", prefix, model.ID, attempt, maxAttempts, err, delay)
		d.metrics.RecordRetry(model.ID, delay)
		if err := d.sleep(ctx, delay); err != nil {
			return nil, core.ErrTransport(err)
		}
	}

	return nil, lastErr
}

// backoff returns the wait after failed attempt n (1-based).
func (d *Dispatcher) backoff(attempt int) time.Duration {
	return d.retry.BackoffBase * time.Duration(1<<attempt)
}

// SleepContext sleeps for d unless ctx is done first.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func attemptOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case core.IsServiceUnavailable(err):
		return outcomeUnavailable
	case core.HasCode(err, core.ErrCodeTransportFailure):
		return outcomeTransport
	default:
		return outcomeRejected
	}
}

func generationOutcome(result *core.GenerationResult, err error) string {
	if err != nil {
		if appErr, ok := core.AsAppError(err); ok {
			return strings.ToLower(appErr.Code)
		}
		return "internal_error"
	}
	return result.Kind.String()
}

func logPrefix(ctx context.Context) string {
	if id := core.RequestIDFrom(ctx); id != "" {
		return fmt.Sprintf(core.RequestIDLogFormat, id)
	}
	return ""
}
