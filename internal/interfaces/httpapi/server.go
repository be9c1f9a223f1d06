package httpapi

import (
	"net/http"

	"github.com/bagaspr/matchday/internal/domain/user"
	"github.com/bagaspr/matchday/internal/platform/logging"
	"github.com/bagaspr/matchday/internal/usecase"
)

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	lock *usecase.MatchLockService,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicDomainRoutes(mux, handler)
	registerModerationRoutes(mux, handler, verifier, lock)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.GetSeasonStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/players/{playerID}/stats", handler.GetPlayerSeasonStats)
}

// registerModerationRoutes wires the mutating match lifecycle routes. The
// chain is auth, then role check, then the lock gate, so a locked match is
// reported only to callers that could otherwise act on it.
func registerModerationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, lock *usecase.MatchLockService) {
	moderator := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(user.RoleModerator, MatchLockGate(lock, next)))
	}

	mux.Handle("POST /v1/matches", moderator(handler.CreateMatch))
	mux.Handle("POST /v1/matches/{matchID}/resume", moderator(handler.ResumeMatch))
	mux.Handle("POST /v1/matches/{matchID}/finish", moderator(handler.FinishMatch))
	mux.Handle("POST /v1/matches/{matchID}/status", moderator(handler.SetMatchStatus))
	mux.Handle("POST /v1/matches/{matchID}/events", moderator(handler.AppendMatchEvent))

	mux.Handle("PATCH /v1/seasons/{seasonID}/standings/{teamID}/deduction",
		RequireAuth(verifier, RequireRole(user.RoleAdmin, http.HandlerFunc(handler.PatchPointsDeduction))))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recompute-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.EnqueueRecomputeStandings)))
	mux.Handle("POST /v1/internal/jobs/recompute-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.EnqueueRecomputeStats)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
