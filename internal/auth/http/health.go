package http

import (
	"net/http"

	"github.com/aussiebroadwan/logind/pkg/authsdk"
	"github.com/aussiebroadwan/logind/pkg/httpx"
)

// HealthHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always returns {"status":"ok"} while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status"
//	@Router			/health [get].
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{Status: "ok"})
	}
}
