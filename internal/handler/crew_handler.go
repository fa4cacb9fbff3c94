package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/logx"
	"crewchat/internal/pkg/resp"
)

// crewQueryTimeout bounds how long the roster endpoint waits for the hub.
const crewQueryTimeout = 2 * time.Second

// HandleCrew returns the current roster snapshot.
func HandleCrew(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), crewQueryTimeout)
		defer cancel()

		crew, err := deps.Hub.Crew(ctx)
		if err != nil {
			var customErr *errs.CustomError
			if errors.As(err, &customErr) {
				resp.RespondError(w, r, customErr)
				return
			}

			logx.Error(err, "Crew query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"crew":  crew,
			"count": len(crew),
		})
	}
}
