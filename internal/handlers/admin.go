package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/pollbox/internal/services"
	"github.com/abrezinsky/pollbox/internal/session"
)

func (h *Handlers) handleAdminView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")
	sessionID := session.IDFromContext(r.Context())

	view, err := h.Polls.AdminView(r.Context(), id, password)
	if err == services.ErrUnauthorized {
		redirect(w, r, resultsPath(id))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	resp := AdminResponse{
		ID:              view.Poll.ID,
		Question:        view.Poll.Question,
		Changed:         h.Flash.PullBool(sessionID, id, session.FlagChanged),
		Closed:          view.Closed,
		VoteCount:       view.VoteCount,
		ExtraVotingURLs: []string{},
		UnusedCodes:     view.UnusedCodes,
		Settings: PollSettingsResponse{
			DuplicateVoteChecking:  string(view.Poll.DuplicateVoteChecking),
			AllowMultipleAnswers:   view.Poll.AllowMultipleAnswers,
			HideResultsUntilClosed: view.Poll.HideResultsUntilClosed,
			ClosesAt:               view.Poll.ClosesAt,
		},
	}
	for _, code := range h.Flash.PullStrings(sessionID, id, session.FlagExtraCodes) {
		resp.ExtraVotingURLs = append(resp.ExtraVotingURLs, h.Polls.VotingURL(id, code))
	}
	for _, code := range view.Codes {
		resp.Codes = append(resp.Codes, CodeResponse{
			Code:      code.ID,
			Used:      code.Used,
			VotingURL: h.Polls.VotingURL(id, code.ID),
		})
	}

	respondOK(w, resp)
}

func (h *Handlers) handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")
	sessionID := session.IDFromContext(r.Context())

	var body AdminEditRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	switch {
	case body.ExtraCodes != nil:
		codes, err := h.Polls.IssueExtraCodes(r.Context(), id, *body.ExtraCodes, password)
		if h.adminFailed(w, r, id, err) {
			return
		}
		ids := make([]string, len(codes))
		for i, c := range codes {
			ids[i] = c.ID
		}
		h.Flash.Set(sessionID, id, session.FlagExtraCodes, ids)
		redirect(w, r, adminPath(id, password))

	case body.CloseNow:
		err := h.Polls.CloseNow(r.Context(), id, password)
		if h.adminFailed(w, r, id, err) {
			return
		}
		redirect(w, r, resultsPath(id))

	default:
		req, err := h.toEditPoll(body)
		if err != nil {
			respondError(w, err)
			return
		}
		result, err := h.Polls.EditPoll(r.Context(), id, req, password)
		if h.adminFailed(w, r, id, err) {
			return
		}
		if result.Closed || result.AdminRemoved {
			redirect(w, r, resultsPath(id))
			return
		}
		h.Flash.Set(sessionID, id, session.FlagChanged, nil)
		redirect(w, r, adminPath(id, *req.AdminSecret))
	}
}

// adminFailed responds to a failed admin action. A wrong secret sends the
// client to the public results, like any visitor.
func (h *Handlers) adminFailed(w http.ResponseWriter, r *http.Request, id string, err error) bool {
	switch {
	case err == nil:
		return false
	case err == services.ErrUnauthorized:
		redirect(w, r, resultsPath(id))
	default:
		respondError(w, err)
	}
	return true
}
