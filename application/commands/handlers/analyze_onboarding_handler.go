package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"museum-backend/application/commands"
	"museum-backend/application/ports"
	"museum-backend/application/services"
	"museum-backend/domain/catalog"
	domainconfig "museum-backend/domain/config"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	"museum-backend/domain/events"
	pkgerrors "museum-backend/pkg/errors"
)

const lockResourcePrefix = "onboarding#"

var errLockHeld = errors.New("another onboarding is already in progress for this user")

// DefaultObjectOutcome is the best-effort sub-result of onboarding
type DefaultObjectOutcome struct {
	Created bool   `json:"created"`
	ID      string `json:"id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// AnalyzeResult is everything the caller needs to render a successful analysis
type AnalyzeResult struct {
	Classification entities.ClassificationResult
	Theme          catalog.ThemeDescriptor
	DefaultObject  DefaultObjectOutcome
	UserID         string
	AnalyzedAt     time.Time
}

// AnalyzeOnboardingHandler classifies a questionnaire and gives the user the theme's starter artifact
type AnalyzeOnboardingHandler struct {
	classifier   ports.Classifier
	catalog      *catalog.Catalog
	resolver     *services.TemplateResolver
	materializer *services.Materializer
	linker       *services.UserLinker
	publisher    ports.EventPublisher
	lock         ports.UserLock
	metrics      ports.OnboardingMetrics
	clock        ports.Clock
	config       *domainconfig.DomainConfig
	logger       *zap.Logger
}

// HandlerOption configures an AnalyzeOnboardingHandler
type HandlerOption func(*AnalyzeOnboardingHandler)

// WithUserLock serializes the default-object step per user. It only takes effect when
// the domain config enables SerializeUserOnboarding.
func WithUserLock(lock ports.UserLock) HandlerOption {
	return func(h *AnalyzeOnboardingHandler) { h.lock = lock }
}

// WithEventPublisher publishes ThemeAssigned after each analysis
func WithEventPublisher(publisher ports.EventPublisher) HandlerOption {
	return func(h *AnalyzeOnboardingHandler) { h.publisher = publisher }
}

// WithOnboardingMetrics records default-object outcomes
func WithOnboardingMetrics(metrics ports.OnboardingMetrics) HandlerOption {
	return func(h *AnalyzeOnboardingHandler) { h.metrics = metrics }
}

// WithClock overrides the clock used for analyzedAt
func WithClock(clock ports.Clock) HandlerOption {
	return func(h *AnalyzeOnboardingHandler) { h.clock = clock }
}

// NewAnalyzeOnboardingHandler creates a new handler instance
func NewAnalyzeOnboardingHandler(
	classifier ports.Classifier,
	cat *catalog.Catalog,
	resolver *services.TemplateResolver,
	materializer *services.Materializer,
	linker *services.UserLinker,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	opts ...HandlerOption,
) *AnalyzeOnboardingHandler {
	if cfg == nil {
		cfg = domainconfig.DefaultDomainConfig()
	}
	h := &AnalyzeOnboardingHandler{
		classifier:   classifier,
		catalog:      cat,
		resolver:     resolver,
		materializer: materializer,
		linker:       linker,
		metrics:      ports.NopOnboardingMetrics{},
		clock:        ports.SystemClock{},
		config:       cfg,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle runs the pipeline. Only validation and classification failures are returned as errors;
// the default-object step reports its failures inside the result.
func (h *AnalyzeOnboardingHandler) Handle(ctx context.Context, cmd commands.AnalyzeOnboardingCommand) (*AnalyzeResult, error) {
	if cmd.MinResponses <= 0 {
		cmd.MinResponses = h.config.MinOnboardingResponses
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	classification, err := h.classifier.Classify(ctx, cmd.Responses)
	if err != nil {
		h.logger.Error("theme classification failed",
			zap.String("userID", cmd.UserID),
			zap.Int("responses", len(cmd.Responses)),
			zap.Error(err),
		)
		return nil, err
	}

	theme, ok := h.catalog.Lookup(classification.Choice)
	if !ok {
		// The classifier only returns catalog members
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("classifier returned unknown theme %d", classification.Choice.Int()))
	}

	outcome := h.defaultObject(ctx, cmd.UserID, classification.Choice)
	h.publishThemeAssigned(ctx, cmd.UserID, classification, outcome)

	h.logger.Info("onboarding analyzed",
		zap.String("userID", cmd.UserID),
		zap.Int("themeID", classification.Choice.Int()),
		zap.Bool("defaultObjectCreated", outcome.Created),
	)

	return &AnalyzeResult{
		Classification: classification,
		Theme:          theme,
		DefaultObject:  outcome,
		UserID:         cmd.UserID,
		AnalyzedAt:     h.clock.Now(),
	}, nil
}

func (h *AnalyzeOnboardingHandler) defaultObject(ctx context.Context, userID string, themeID valueobjects.ThemeID) DefaultObjectOutcome {
	if h.resolver.Status(themeID) != catalog.StatusFinalized {
		h.metrics.RecordDefaultObject(ctx, themeID.Int(), ports.DefaultObjectPending)
		return DefaultObjectOutcome{Created: false, Reason: h.config.PendingDefaultObjectReason}
	}

	if h.config.SerializeUserOnboarding && h.lock != nil {
		owner := uuid.New().String()
		resource := lockResourcePrefix + userID
		acquired, err := h.lock.AcquireLock(ctx, resource, owner, h.config.OnboardingLockTTL)
		if err != nil {
			return h.failed(ctx, userID, themeID, err)
		}
		if !acquired {
			return h.failed(ctx, userID, themeID, pkgerrors.NewPersistenceError("acquire onboarding lock", errLockHeld))
		}
		defer func() {
			if err := h.lock.ReleaseLock(context.WithoutCancel(ctx), resource, owner); err != nil {
				h.logger.Warn("failed to release onboarding lock", zap.String("userID", userID), zap.Error(err))
			}
		}()
	}

	id, err := h.createAndLink(ctx, userID, themeID)
	if err != nil {
		return h.failed(ctx, userID, themeID, err)
	}
	h.metrics.RecordDefaultObject(ctx, themeID.Int(), ports.DefaultObjectCreated)
	return DefaultObjectOutcome{Created: true, ID: id}
}

func (h *AnalyzeOnboardingHandler) createAndLink(ctx context.Context, userID string, themeID valueobjects.ThemeID) (string, error) {
	source, err := h.resolver.LoadSource(ctx, themeID)
	if err != nil {
		return "", err
	}
	template, _ := h.resolver.Template(themeID)

	id, err := h.materializer.Materialize(ctx, themeID, userID, source, template)
	if err != nil {
		return "", err
	}

	if err := h.linker.Link(ctx, userID, id); err != nil {
		// The artifact stays behind as an orphan that references the user only through provenance
		h.logger.Warn("default object created but not linked",
			zap.String("userID", userID),
			zap.String("artifactID", id),
			zap.Int("themeID", themeID.Int()),
		)
		return "", err
	}
	return id, nil
}

func (h *AnalyzeOnboardingHandler) failed(ctx context.Context, userID string, themeID valueobjects.ThemeID, err error) DefaultObjectOutcome {
	h.logger.Warn("default object step failed",
		zap.String("userID", userID),
		zap.Int("themeID", themeID.Int()),
		zap.Error(err),
	)
	h.metrics.RecordDefaultObject(ctx, themeID.Int(), ports.DefaultObjectFailed)
	return DefaultObjectOutcome{Created: false, Reason: pkgerrors.ReasonOf(err)}
}

func (h *AnalyzeOnboardingHandler) publishThemeAssigned(
	ctx context.Context,
	userID string,
	classification entities.ClassificationResult,
	outcome DefaultObjectOutcome,
) {
	if h.publisher == nil {
		return
	}
	event := events.NewThemeAssigned(userID, classification.Choice, classification.Reason, outcome.ID, h.clock.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish theme assigned event",
			zap.String("userID", userID),
			zap.Int("themeID", classification.Choice.Int()),
			zap.Error(err),
		)
	}
}
