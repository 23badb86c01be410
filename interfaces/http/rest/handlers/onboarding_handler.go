package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"museum-backend/application/commands"
	apphandlers "museum-backend/application/commands/handlers"
	"museum-backend/domain/core/entities"
	"museum-backend/pkg/auth"
	"museum-backend/pkg/common"
	pkgerrors "museum-backend/pkg/errors"
	"museum-backend/pkg/utils"
)

// Messages of the analyze endpoint
const (
	MsgAnalysisCompleted = "AI analysis completed successfully"
	MsgAnalysisFailed    = "AI analysis failed"
)

const maxAnalyzeBodyBytes = 1 << 20

// OnboardingAnalyzer runs the onboarding pipeline for one command
type OnboardingAnalyzer interface {
	Handle(ctx context.Context, cmd commands.AnalyzeOnboardingCommand) (*apphandlers.AnalyzeResult, error)
}

// OnboardingHandler serves POST /arti/analyze
type OnboardingHandler struct {
	analyzer     OnboardingAnalyzer
	errorHandler *pkgerrors.ErrorHandler
	minResponses int
	logger       *zap.Logger
}

// NewOnboardingHandler creates a new onboarding handler. 5xx responses are reported as
// "AI analysis failed" regardless of the failing stage.
func NewOnboardingHandler(analyzer OnboardingAnalyzer, errorHandler *pkgerrors.ErrorHandler, minResponses int, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		analyzer:     analyzer,
		errorHandler: errorHandler.WithInternalMessage(MsgAnalysisFailed),
		minResponses: minResponses,
		logger:       logger,
	}
}

// AnalyzeRequest is the envelope of the questionnaire. Responses is kept raw so a
// non-array value can be told apart from a short one.
type AnalyzeRequest struct {
	Responses json.RawMessage `json:"responses"`
}

// ResponseItem is one answered question as sent by the client
type ResponseItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// AnalysisView is the classification part of the response
type AnalysisView struct {
	Choice     int    `json:"choice"`
	Reason     string `json:"reason"`
	AnalyzedAt string `json:"analyzedAt"`
}

// ThemeView is the public part of a theme descriptor
type ThemeView struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Characteristics []string `json:"characteristics"`
	Description     string   `json:"description"`
}

// UserView identifies the caller
type UserView struct {
	ID string `json:"id"`
}

// AnalyzeResponse is the data of a successful analysis
type AnalyzeResponse struct {
	Analysis      AnalysisView                     `json:"analysis"`
	Theme         ThemeView                        `json:"theme"`
	DefaultObject apphandlers.DefaultObjectOutcome `json:"defaultObject"`
	User          UserView                         `json:"user"`
}

// Analyze handles POST /arti/analyze
func (h *OnboardingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthenticatedError(""))
		return
	}

	responses, err := h.decodeResponses(w, r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	cmd := commands.AnalyzeOnboardingCommand{
		UserID:       user.UserID,
		Responses:    responses,
		MinResponses: h.minResponses,
	}

	result, err := h.analyzer.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, clientVisible(err))
		return
	}

	h.logger.Info("Onboarding analysis completed",
		zap.String("userID", result.UserID),
		zap.Int("themeID", result.Theme.ID.Int()),
		zap.Bool("defaultObjectCreated", result.DefaultObject.Created),
		zap.String("requestID", common.ExtractRequestID(r)),
	)

	if err := common.RespondJSON(w, http.StatusOK, MsgAnalysisCompleted, toAnalyzeResponse(result)); err != nil {
		h.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}

// decodeResponses turns the body into typed responses. Items that are not objects with
// string question and answer fields decode as empty, leaving the count check to run
// before the completeness check.
func (h *OnboardingHandler) decodeResponses(w http.ResponseWriter, r *http.Request) ([]entities.OnboardingResponse, error) {
	var req AnalyzeRequest
	if err := common.ReadJSONBody(w, r, &req, maxAnalyzeBodyBytes); err != nil {
		return nil, pkgerrors.NewBadRequestError(commands.MsgInvalidResponsesShape)
	}

	raw := bytes.TrimSpace(req.Responses)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, pkgerrors.NewBadRequestError(commands.MsgInvalidResponsesShape)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, pkgerrors.NewBadRequestError(commands.MsgInvalidResponsesShape)
	}

	responses := make([]entities.OnboardingResponse, len(items))
	for i, item := range items {
		var ri ResponseItem
		if err := json.Unmarshal(item, &ri); err != nil {
			continue
		}
		if err := utils.ValidateStruct(ri); err != nil {
			continue
		}
		responses[i] = entities.OnboardingResponse{Question: ri.Question, Answer: ri.Answer}
	}
	return responses, nil
}

// clientVisible folds every failure that is not a client error into a 500
func clientVisible(err error) error {
	if pkgerrors.IsBadRequest(err) || pkgerrors.IsUnauthenticated(err) {
		return err
	}
	if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.HTTPStatus >= http.StatusInternalServerError {
		return err
	}
	return pkgerrors.NewInternalError(MsgAnalysisFailed).WithCause(err)
}

func toAnalyzeResponse(result *apphandlers.AnalyzeResult) AnalyzeResponse {
	characteristics := result.Theme.Characteristics
	if characteristics == nil {
		characteristics = []string{}
	}
	return AnalyzeResponse{
		Analysis: AnalysisView{
			Choice:     result.Classification.Choice.Int(),
			Reason:     result.Classification.Reason,
			AnalyzedAt: utils.FormatISO8601(result.AnalyzedAt),
		},
		Theme: ThemeView{
			ID:              result.Theme.ID.Int(),
			Name:            result.Theme.Name,
			Characteristics: characteristics,
			Description:     result.Theme.Description,
		},
		DefaultObject: result.DefaultObject,
		User:          UserView{ID: result.UserID},
	}
}
