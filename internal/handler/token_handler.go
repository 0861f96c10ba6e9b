/*
Package handler provides HTTP handler functions for token issuance.
*/
package handler

import (
	"errors"
	"net/http"
	"time"

	"roomtoken/internal/pkg/errs"
	"roomtoken/internal/pkg/logx"
	"roomtoken/internal/pkg/metrics"
	"roomtoken/internal/pkg/req"
	"roomtoken/internal/pkg/resp"
)

// RoomQueryParam is the query parameter naming the requested room.
const RoomQueryParam = "roomId"

// IssueTokenInput is the optional JSON body of a POST token request.
type IssueTokenInput struct {
	// RoomID is the room to grant. Empty selects the deployment default.
	RoomID string `json:"roomId,omitempty"`
}

// IssueTokenOutput is the data returned with an issued token.
type IssueTokenOutput struct {
	AppID     string `json:"appId"`
	Token     string `json:"token"`
	PeerID    string `json:"peerId"`
	RoomID    string `json:"roomId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// HandleIssueToken issues a token for the room named by the roomId query parameter (GET)
// or the optional JSON body (POST).
func HandleIssueToken(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input IssueTokenInput

		if r.Method == http.MethodPost {
			if customErr := req.BindJSON(w, r, &input, true); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		} else {
			input.RoomID = r.URL.Query().Get(RoomQueryParam)
		}

		start := time.Now()
		issued, err := deps.Issuer.Issue(input.RoomID)
		metrics.ObserveIssue(int(deps.Issuer.SchemaVersion()), start, err)

		if err != nil {
			if errors.Is(err, errs.ErrInvalidScopeInput) {
				logx.Warn("Token request rejected", "error", err.Error())
			} else {
				logx.Error(err, "Token generation failed")
			}
			resp.RespondError(w, r, errs.FromError(err))
			return
		}

		logx.Debug("Token issued",
			"token_id", issued.ID,
			"peer_id", issued.PeerID,
			"room", issued.Room,
			"schema_version", int(issued.SchemaVersion),
			"expires_at", issued.ExpiresAt.Unix(),
		)

		resp.RespondSuccess(w, r, IssueTokenOutput{
			AppID:     deps.Issuer.AppID(),
			Token:     issued.Token,
			PeerID:    issued.PeerID,
			RoomID:    issued.Room,
			ExpiresAt: issued.ExpiresAt.Unix(),
		})
	}
}
