package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/platform/logging"
	"github.com/bagaspr/matchday/internal/usecase"
)

type Handler struct {
	matchService       *usecase.MatchService
	standingsService   *usecase.StandingsService
	playerStatsService *usecase.PlayerStatsService
	recomputeService   *usecase.RecomputeService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	playerStatsService *usecase.PlayerStatsService,
	recomputeService *usecase.RecomputeService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:       matchService,
		standingsService:   standingsService,
		playerStatsService: playerStatsService,
		recomputeService:   recomputeService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createMatchRequest struct {
	SeasonID   string `json:"season_id" validate:"required"`
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"away_team_id" validate:"required"`
	KickoffAt  string `json:"kickoff_at" validate:"required"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoffAt, err := time.Parse(time.RFC3339, req.KickoffAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: kickoff_at must be RFC3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		SeasonID:   req.SeasonID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		KickoffAt:  kickoffAt,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toMatchDTO(created))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	item, err := h.matchService.Get(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) ResumeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResumeMatch")
	defer span.End()

	item, err := h.matchService.Resume(ctx, r.PathValue("matchID"))
	if err != nil {
		h.logger.ErrorContext(ctx, "resume match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

type finishMatchRequest struct {
	HomeScore *int `json:"home_score" validate:"required"`
	AwayScore *int `json:"away_score" validate:"required"`
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	var req finishMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Finish(ctx, r.PathValue("matchID"), usecase.FinishMatchInput{
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "finish match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

type setMatchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) SetMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchStatus")
	defer span.End()

	var req setMatchStatusRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	target, ok := match.ParseStatus(req.Status)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown status %q", usecase.ErrInvalidInput, req.Status))
		return
	}

	item, err := h.matchService.SetStatus(ctx, r.PathValue("matchID"), target)
	if err != nil {
		h.logger.ErrorContext(ctx, "set match status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

type appendEventRequest struct {
	TeamID   string  `json:"team_id" validate:"required"`
	PlayerID *string `json:"player_id"`
	Type     string  `json:"type" validate:"required"`
	Minute   int     `json:"minute" validate:"gte=0"`
}

func (h *Handler) AppendMatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AppendMatchEvent")
	defer span.End()

	var req appendEventRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.matchService.AppendEvent(ctx, r.PathValue("matchID"), usecase.AppendEventInput{
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
		Type:     req.Type,
		Minute:   req.Minute,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "append match event failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toEventDTO(event))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	filter := matchevent.Filter{
		PlayerID: r.URL.Query().Get("player_id"),
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		eventType, ok := matchevent.ParseEventType(raw)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown event type %q", usecase.ErrInvalidInput, raw))
			return
		}
		filter.Type = eventType
	}

	events, err := h.matchService.Events(ctx, r.PathValue("matchID"), filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toEventDTO(event))
	}

	writeSuccess(ctx, w, http.StatusOK, matchEventsDTO{Events: dtos})
}

func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStandings")
	defer span.End()

	table, err := h.standingsService.Table(ctx, r.PathValue("seasonID"))
	if err != nil {
		h.logger.ErrorContext(ctx, "get season standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]standingDTO, 0, len(table))
	for _, row := range table {
		rows = append(rows, toStandingDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, standingsDTO{
		SeasonID:  r.PathValue("seasonID"),
		Standings: rows,
	})
}

type patchDeductionRequest struct {
	Points *int `json:"points" validate:"required,gte=0"`
}

func (h *Handler) PatchPointsDeduction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PatchPointsDeduction")
	defer span.End()

	var req patchDeductionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	teamID := r.PathValue("teamID")
	if err := h.standingsService.PatchDeduction(ctx, seasonID, teamID, *req.Points); err != nil {
		h.logger.ErrorContext(ctx, "patch points deduction failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"season_id": seasonID,
		"team_id":   teamID,
		"points":    *req.Points,
	})
}

func (h *Handler) GetPlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerSeasonStats")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	playerID := r.PathValue("playerID")
	stats, err := h.playerStatsService.SeasonStats(ctx, seasonID, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := make([]seasonStatDTO, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, toSeasonStatDTO(stat))
	}

	writeSuccess(ctx, w, http.StatusOK, seasonStatsDTO{
		SeasonID: seasonID,
		PlayerID: playerID,
		Stats:    rows,
	})
}

type recomputeStandingsRequest struct {
	SeasonID string `json:"season_id" validate:"required"`
}

func (h *Handler) EnqueueRecomputeStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnqueueRecomputeStandings")
	defer span.End()

	var req recomputeStandingsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.recomputeService.EnqueueStandings(ctx, req.SeasonID); err != nil {
		h.logger.ErrorContext(ctx, "enqueue standings recompute failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"season_id": req.SeasonID,
	})
}

type recomputeStatsRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

func (h *Handler) EnqueueRecomputeStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnqueueRecomputeStats")
	defer span.End()

	var req recomputeStatsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.recomputeService.EnqueueStats(ctx, req.MatchID); err != nil {
		h.logger.ErrorContext(ctx, "enqueue stats recompute failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"match_id": req.MatchID,
	})
}
