package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/abrezinsky/pollbox/internal/handlers"
)

func adminView(t *testing.T, c *client, id, password string) handlers.AdminResponse {
	t.Helper()
	rec := c.do("GET", "/api/polls/"+id+"/admin?password="+url.QueryEscape(password), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp handlers.AdminResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestAdminView(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password":      true,
		"admin_password":          "s3cret",
		"duplicate_vote_checking": "codes",
		"number_of_codes":         2,
	})

	view := adminView(t, c, created.ID, "s3cret")
	if view.Changed || view.Closed || view.VoteCount != 0 {
		t.Errorf("unexpected admin view: %+v", view)
	}
	if view.UnusedCodes != 2 || len(view.Codes) != 2 {
		t.Errorf("expected 2 unused codes, got %d of %d", view.UnusedCodes, len(view.Codes))
	}
	if view.Settings.DuplicateVoteChecking != "codes" {
		t.Errorf("expected codes strategy, got %s", view.Settings.DuplicateVoteChecking)
	}
	if len(view.ExtraVotingURLs) != 0 {
		t.Errorf("expected no extra urls, got %v", view.ExtraVotingURLs)
	}
}

func TestAdminView_WrongPasswordRedirects(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]interface{}
		password string
	}{
		{"wrong password", map[string]interface{}{"set_admin_password": true, "admin_password": "right"}, "wrong"},
		{"empty password", map[string]interface{}{"set_admin_password": true, "admin_password": "right"}, ""},
		{"no admin configured", map[string]interface{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := newTestSetup(t)
			c := setup.client(t)
			created := createPoll(t, c, tt.body)

			rec := c.do("GET", "/api/polls/"+created.ID+"/admin?password="+tt.password, nil)
			expectRedirect(t, rec, "/api/polls/"+created.ID+"/results")

			rec = c.do("POST", "/api/polls/"+created.ID+"/admin?password="+tt.password, map[string]bool{"close_now": true})
			expectRedirect(t, rec, "/api/polls/"+created.ID+"/results")

			if res := results(t, c, created.ID); res.Closed {
				t.Error("expected poll to stay open after a rejected close")
			}
		})
	}
}

func TestAdminView_UnknownPoll(t *testing.T) {
	setup := newTestSetup(t)
	rec := setup.client(t).do("GET", "/api/polls/missing/admin?password=x", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAdminEdit_ExtraCodes(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password":      true,
		"admin_password":          "pw",
		"duplicate_vote_checking": "codes",
		"number_of_codes":         2,
	})

	rec := c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", map[string]int{"extra_codes": 3})
	expectRedirect(t, rec, "/api/polls/"+created.ID+"/admin?password=pw")

	view := adminView(t, c, created.ID, "pw")
	if len(view.ExtraVotingURLs) != 3 {
		t.Errorf("expected 3 extra voting urls, got %v", view.ExtraVotingURLs)
	}
	if view.UnusedCodes != 5 {
		t.Errorf("expected 5 unused codes, got %d", view.UnusedCodes)
	}

	if view := adminView(t, c, created.ID, "pw"); len(view.ExtraVotingURLs) != 0 {
		t.Error("expected extra urls to be shown once")
	}
}

func TestAdminEdit_ExtraCodesRejected(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		count    int
		code     string
	}{
		{"not a code poll", "cookies", 2, "CODES_NOT_ENABLED"},
		{"zero codes", "codes", 0, "INVALID_CODE_COUNT"},
		{"negative codes", "codes", -4, "INVALID_CODE_COUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := newTestSetup(t)
			c := setup.client(t)
			created := createPoll(t, c, map[string]interface{}{
				"set_admin_password":      true,
				"admin_password":          "pw",
				"duplicate_vote_checking": tt.strategy,
				"number_of_codes":         2,
			})

			rec := c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", map[string]int{"extra_codes": tt.count})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var apiErr handlers.APIError
			decodeBody(t, rec, &apiErr)
			if apiErr.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, apiErr.Code)
			}
		})
	}
}

func TestAdminEdit_ExtraCodesReopenExhaustedPoll(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password":      true,
		"admin_password":          "pw",
		"duplicate_vote_checking": "codes",
		"number_of_codes":         2,
	})

	for _, link := range created.VotingURLs {
		u, _ := url.Parse(link)
		code := u.Query().Get("code")
		view := viewPoll(t, c, "/api/polls/"+created.ID+"?code="+code)
		c.do("POST", "/api/polls/"+created.ID+"/vote?code="+code, handlers.VoteRequest{Options: []string{view.Options[0].ID}})
	}

	if res := results(t, c, created.ID); !res.Closed {
		t.Fatal("expected poll to close once every code is used")
	}

	c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", map[string]int{"extra_codes": 1})

	if res := results(t, c, created.ID); res.Closed {
		t.Error("expected extra codes to reopen the poll")
	}
}

func TestAdminEdit_CloseNow(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password":        true,
		"admin_password":            "pw",
		"hide_results_until_closed": true,
	})

	expectRedirect(t, c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", map[string]bool{"close_now": true}), "/api/polls/"+created.ID+"/results")

	res := results(t, c, created.ID)
	if !res.Closed || !res.ResultsVisible {
		t.Errorf("expected closed poll with visible results, got %+v", res)
	}
}

func TestAdminEdit_Settings(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password": true,
		"admin_password":     "old",
	})
	deadline := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	rec := c.do("POST", "/api/polls/"+created.ID+"/admin?password=old", map[string]interface{}{
		"hide_results_until_closed":         true,
		"automatically_close_poll":          true,
		"automatically_close_poll_datetime": deadline,
		"set_admin_password":                true,
		"admin_password":                    "new pw",
	})
	expectRedirect(t, rec, "/api/polls/"+created.ID+"/admin?password=new+pw")

	view := adminView(t, c, created.ID, "new pw")
	if !view.Changed {
		t.Error("expected changed flag after editing")
	}
	if !view.Settings.HideResultsUntilClosed || view.Settings.ClosesAt == nil {
		t.Errorf("settings not saved: %+v", view.Settings)
	}

	expectRedirect(t, c.do("GET", "/api/polls/"+created.ID+"/admin?password=old", nil), "/api/polls/"+created.ID+"/results")
}

func TestAdminEdit_RemoveAdmin(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password": true,
		"admin_password":     "pw",
	})

	rec := c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", map[string]interface{}{})
	expectRedirect(t, rec, "/api/polls/"+created.ID+"/results")

	expectRedirect(t, c.do("GET", "/api/polls/"+created.ID+"/admin?password=pw", nil), "/api/polls/"+created.ID+"/results")
}

func TestAdminEdit_Validation(t *testing.T) {
	setup := newTestSetup(t)
	c := setup.client(t)
	created := createPoll(t, c, map[string]interface{}{
		"set_admin_password": true,
		"admin_password":     "pw",
	})

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"past deadline", map[string]interface{}{"automatically_close_poll": true, "automatically_close_poll_datetime": "2001-01-01 10:00", "set_admin_password": true, "admin_password": "pw"}},
		{"empty new password", map[string]interface{}{"set_admin_password": true, "admin_password": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do("POST", "/api/polls/"+created.ID+"/admin?password=pw", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	// failed edits leave admin access intact
	adminView(t, c, created.ID, "pw")
}
