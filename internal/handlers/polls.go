package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/pollbox/internal/chart"
	"github.com/abrezinsky/pollbox/internal/services"
	"github.com/abrezinsky/pollbox/internal/session"
)

func (h *Handlers) handleConfig(w http.ResponseWriter, r *http.Request) {
	respondOK(w, ConfigResponse{Timezone: h.location.String()})
}

func credential(r *http.Request) services.VoterCredential {
	return services.VoterCredential{
		SessionID: session.IDFromContext(r.Context()),
		Code:      r.URL.Query().Get("code"),
	}
}

func (h *Handlers) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var body CreatePollRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	req, err := h.toCreatePoll(body)
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.Polls.CreatePoll(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := CreatePollResponse{ID: created.Poll.ID}
	for _, code := range created.Codes {
		resp.VotingURLs = append(resp.VotingURLs, h.Polls.VotingURL(created.Poll.ID, code.ID))
	}

	h.Flash.Set(session.IDFromContext(r.Context()), created.Poll.ID, session.FlagNew, resp.VotingURLs)
	w.Header().Set("Location", pollPath(created.Poll.ID))
	respondCreated(w, resp)
}

func (h *Handlers) handleViewPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sessionID := session.IDFromContext(r.Context())

	view, err := h.Polls.View(r.Context(), id, credential(r))
	if err != nil {
		respondError(w, err)
		return
	}

	if view.Closed {
		h.Flash.Set(sessionID, id, session.FlagAlreadyClosed, nil)
		redirect(w, r, resultsPath(id))
		return
	}

	resp := PollResponse{
		ID:                     view.Poll.ID,
		Question:               view.Poll.Question,
		Options:                make([]OptionResponse, len(view.Options)),
		MultipleAnswersAllowed: view.Poll.AllowMultipleAnswers,
		HasVoted:               view.HasVoted,
		ClosesAt:               view.Poll.ClosesAt,
	}
	for i, o := range view.Options {
		resp.Options[i] = OptionResponse{ID: o.ID, Text: o.Text}
	}
	if view.Poll.ClosesAt != nil {
		resp.ClosesIn = humanize.RelTime(*view.Poll.ClosesAt, h.now(), "ago", "from now")
	}
	if urls, ok := h.Flash.Pull(sessionID, id, session.FlagNew); ok {
		resp.New = true
		resp.VotingURLs, _ = urls.([]string)
	}

	respondOK(w, resp)
}

func (h *Handlers) handleVote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cred := credential(r)

	var body VoteRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	outcome, err := h.Polls.CastVote(r.Context(), id, body.Options, cred)
	if err != nil {
		respondError(w, err)
		return
	}

	switch outcome {
	case services.VoteClosed:
		h.Flash.Set(cred.SessionID, id, session.FlagAlreadyClosed, nil)
		redirect(w, r, resultsPath(id))
	case services.VoteAlreadyVoted:
		redirect(w, r, pollWithCodePath(id, cred.Code))
	case services.VoteInvalidOptions:
		respondError(w, outcome.Err())
	default:
		h.Flash.Set(cred.SessionID, id, session.FlagVoted, nil)
		redirect(w, r, resultsPath(id))
	}
}

func (h *Handlers) handleResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sessionID := session.IDFromContext(r.Context())

	results, err := h.Polls.GetResults(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := ResultsResponse{
		ID:             results.Poll.ID,
		Question:       results.Poll.Question,
		Voted:          h.Flash.PullBool(sessionID, id, session.FlagVoted),
		AlreadyClosed:  h.Flash.PullBool(sessionID, id, session.FlagAlreadyClosed),
		Closed:         results.Closed,
		ResultsVisible: results.Visible,
	}
	if results.Visible {
		total := results.TotalVotes
		resp.TotalVotes = &total
		resp.Chart = chart.DataURI(results.Chart)
		resp.Results = make([]ResultResponse, len(results.Tallies))
		for i, t := range results.Tallies {
			resp.Results[i] = ResultResponse{
				ID:        t.ID,
				Text:      t.Text,
				VoteCount: t.VoteCount,
				Share:     t.Share,
				Swatch:    chart.DataURI(results.Swatches[t.ID]),
			}
		}
	}

	respondOK(w, resp)
}

func (h *Handlers) handleChart(w http.ResponseWriter, r *http.Request) {
	results, err := h.Polls.GetResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !results.Visible {
		respondError(w, NotFound("Results are hidden until the poll closes"))
		return
	}
	respondPNG(w, results.Chart)
}

func (h *Handlers) handleQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Polls.QRCode(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPNG(w, png)
}
