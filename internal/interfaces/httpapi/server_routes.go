package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/time/offset", handler.ServerTime)
}

func registerViewerRoutes(mux *http.ServeMux, handler *Handler, liveFeed http.Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/view", handler.GetMatchView)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/matches/{matchID}/statistics", handler.GetMatchStatistics)
	mux.HandleFunc("GET /v1/matches/{matchID}/timer", handler.ReadTimer)
	if liveFeed != nil {
		mux.Handle("GET /v1/matches/{matchID}/live", liveFeed)
	}
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler, scorerToken string) {
	scorer := func(h http.HandlerFunc) http.Handler {
		return RequireScorerToken(scorerToken, h)
	}

	mux.Handle("POST /v1/matches", scorer(handler.CreateMatch))

	mux.Handle("POST /v1/matches/{matchID}/cricket/batting-team", scorer(handler.SelectBattingTeam))
	mux.Handle("POST /v1/matches/{matchID}/cricket/striker", scorer(handler.SelectStriker))
	mux.Handle("POST /v1/matches/{matchID}/cricket/non-striker", scorer(handler.SelectNonStriker))
	mux.Handle("POST /v1/matches/{matchID}/cricket/bowler", scorer(handler.SelectBowler))
	mux.Handle("POST /v1/matches/{matchID}/cricket/deliveries", scorer(handler.RecordDelivery))
	mux.Handle("POST /v1/matches/{matchID}/cricket/wickets", scorer(handler.RecordWicket))
	mux.Handle("POST /v1/matches/{matchID}/cricket/extras", scorer(handler.RecordExtra))

	mux.Handle("POST /v1/matches/{matchID}/football/period", scorer(handler.AdvancePeriod))
	mux.Handle("POST /v1/matches/{matchID}/football/tie-break", scorer(handler.ResolveTieBreak))
	mux.Handle("POST /v1/matches/{matchID}/football/goals", scorer(handler.RecordGoal))
	mux.Handle("POST /v1/matches/{matchID}/football/cards", scorer(handler.RecordCard))
	mux.Handle("POST /v1/matches/{matchID}/football/substitutions", scorer(handler.RecordSubstitution))
	mux.Handle("POST /v1/matches/{matchID}/football/stats", scorer(handler.RecordMatchStat))
	mux.Handle("POST /v1/matches/{matchID}/football/penalties/adjust", scorer(handler.AdjustPenalty))
	mux.Handle("POST /v1/matches/{matchID}/football/complete", scorer(handler.CompleteMatch))

	mux.Handle("POST /v1/matches/{matchID}/timer/start", scorer(handler.StartTimer))
	mux.Handle("POST /v1/matches/{matchID}/timer/stop", scorer(handler.StopTimer))
	mux.Handle("POST /v1/matches/{matchID}/timer/rebase", scorer(handler.RebaseTimer))
}
