package services

import (
	"context"

	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	"museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

// Materializer creates a user's default artifact from a theme template
type Materializer struct {
	artifacts ports.ArtifactRepository
	clock     ports.Clock
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewMaterializer creates a new materializer
func NewMaterializer(artifacts ports.ArtifactRepository, clock ports.Clock, tracer *observability.Tracer, logger *zap.Logger) *Materializer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Materializer{
		artifacts: artifacts,
		clock:     clock,
		tracer:    tracer,
		logger:    logger,
	}
}

// Materialize persists exactly one new modified artifact and returns its id.
// Any store failure is returned as a persistence error with the store message kept as the cause.
func (m *Materializer) Materialize(
	ctx context.Context,
	themeID valueobjects.ThemeID,
	userID string,
	source *entities.SourceArtifact,
	template valueobjects.DefaultObjectTemplate,
) (string, error) {
	artifact, err := entities.NewDefaultModifiedArtifact(themeID, userID, source, template, m.clock.Now())
	if err != nil {
		return "", errors.NewInternalError(err.Error())
	}

	var id string
	err = m.tracer.TraceFunction(ctx, "materializer.create_modified", func(ctx context.Context) error {
		created, err := m.artifacts.CreateModified(ctx, artifact)
		if err != nil {
			return errors.NewPersistenceError("create modified artifact", err)
		}
		id = created
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("default object materialized",
		zap.String("artifactID", id),
		zap.String("userID", userID),
		zap.Int("themeID", themeID.Int()),
		zap.String("sourceID", source.ID),
	)
	return id, nil
}
