package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"golf-match-service/internal/app/enrollment"
	"golf-match-service/internal/app/leaderboard"
	"golf-match-service/internal/app/matches"
	"golf-match-service/internal/app/scoring"
	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/metrics"
	"golf-match-service/internal/store"
	"golf-match-service/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *store.SQLStore) {
	t.Helper()
	st := testutil.NewTestStore(t)
	rec := metrics.NewRecorder()
	svc := Services{
		Matches:     matches.NewService(st, 36, rec),
		Enrollment:  enrollment.NewService(st, rec),
		Scoring:     scoring.NewService(st, rec),
		Leaderboard: leaderboard.NewService(st),
	}
	return NewHandler(svc, nil, st.Ping), st
}

func call(h http.HandlerFunc, method, path, id, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if id != "" {
		req.SetPathValue("id", id)
	}
	return testutil.ServeRequest(h, req)
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	return body["detail"]
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := call(h.Health, http.MethodGet, "/health", "", "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if got := detail(t, rr); got != "shutting down" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestReady(t *testing.T) {
	h, st := newTestHandler(t)
	testutil.AssertStatus(t, call(h.Ready, http.MethodGet, "/ready", "", ""), http.StatusOK)

	_ = st.Close()
	rr := call(h.Ready, http.MethodGet, "/ready", "", "")
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if got := detail(t, rr); got != "store unavailable" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestReadyWithoutCheck(t *testing.T) {
	h := NewHandler(Services{}, nil, nil)
	testutil.AssertStatus(t, call(h.Ready, http.MethodGet, "/ready", "", ""), http.StatusOK)
}

func TestCreateMatchDefaultsHoles(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := call(h.CreateMatch, http.MethodPost, "/api/matches", "", `{"name":"  Saturday  "}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var m golf.Match
	testutil.DecodeJSON(t, rr, &m)
	if m.Name != "Saturday" || m.NumHoles != golf.DefaultHoles || m.ID == 0 {
		t.Fatalf("unexpected match %+v", m)
	}

	rr = call(h.CreateMatch, http.MethodPost, "/api/matches", "", `{"name":"Nulls","num_holes":null}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.DecodeJSON(t, rr, &m)
	if m.NumHoles != golf.DefaultHoles {
		t.Fatalf("expected null num_holes to default, got %d", m.NumHoles)
	}
}

func TestCreateMatchRejections(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
	}{
		{"zero holes", `{"name":"x","num_holes":0}`, "num_holes must be at least 1"},
		{"negative holes", `{"name":"x","num_holes":-2}`, "num_holes must be at least 1"},
		{"over cap", `{"name":"x","num_holes":37}`, "num_holes must be at most 36"},
		{"blank name", `{"name":"   ","num_holes":9}`, "name is required"},
		{"missing name", `{"num_holes":9}`, "name is required"},
		{"malformed", `{"name":`, "invalid JSON body"},
		{"wrong type", `{"name":"x","num_holes":"nine"}`, "invalid JSON body"},
		{"empty body", ``, "request body is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rr := call(h.CreateMatch, http.MethodPost, "/api/matches", "", tc.body)
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			if got := detail(t, rr); got != tc.detail {
				t.Fatalf("expected detail %q, got %q", tc.detail, got)
			}
		})
	}
}

func TestListMatchesEmptyArray(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := call(h.ListMatches, http.MethodGet, "/api/matches", "", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty JSON array, got %s", got)
	}
}

func TestGetMatch(t *testing.T) {
	h, st := newTestHandler(t)
	m := testutil.SeedMatch(t, st, "Sunday", 9)

	rr := call(h.GetMatch, http.MethodGet, "/api/matches/x", "1", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var got golf.Match
	testutil.DecodeJSON(t, rr, &got)
	if got.ID != m.ID || got.NumHoles != 9 {
		t.Fatalf("unexpected match %+v", got)
	}

	rr = call(h.GetMatch, http.MethodGet, "/api/matches/999", "999", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if d := detail(t, rr); d != "Match not found" {
		t.Fatalf("unexpected detail %q", d)
	}

	rr = call(h.GetMatch, http.MethodGet, "/api/matches/abc", "abc", "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestEnrollPlayer(t *testing.T) {
	h, st := newTestHandler(t)
	m := testutil.SeedMatch(t, st, "m", 18)
	id := strconv.FormatInt(m.ID, 10)

	first := call(h.EnrollPlayer, http.MethodPost, "/api/matches/1/players", id, `{"name":"Eve"}`)
	testutil.AssertStatus(t, first, http.StatusOK)
	second := call(h.EnrollPlayer, http.MethodPost, "/api/matches/1/players", id, `{"name":"Eve"}`)
	testutil.AssertStatus(t, second, http.StatusOK)

	var p1, p2 golf.Player
	testutil.DecodeJSON(t, first, &p1)
	testutil.DecodeJSON(t, second, &p2)
	if p1 != p2 || p1.Name != "Eve" {
		t.Fatalf("expected same player twice, got %+v %+v", p1, p2)
	}

	rr := call(h.ListMatchPlayers, http.MethodGet, "/api/matches/1/players", id, "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var players []golf.Player
	testutil.DecodeJSON(t, rr, &players)
	if len(players) != 1 {
		t.Fatalf("expected one enrolled player, got %+v", players)
	}
}

func TestEnrollPlayerErrors(t *testing.T) {
	h, st := newTestHandler(t)
	testutil.SeedMatch(t, st, "m", 18)

	rr := call(h.EnrollPlayer, http.MethodPost, "/api/matches/9/players", "9", `{"name":"Eve"}`)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = call(h.EnrollPlayer, http.MethodPost, "/api/matches/1/players", "1", `{"name":""}`)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if d := detail(t, rr); d != "name is required" {
		t.Fatalf("unexpected detail %q", d)
	}

	rr = call(h.ListMatchPlayers, http.MethodGet, "/api/matches/9/players", "9", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRecordScoreFlow(t *testing.T) {
	h, st := newTestHandler(t)
	m := testutil.SeedMatch(t, st, "Saturday", 3)
	testutil.SeedPlayer(t, st, m.ID, "Eve")

	rr := call(h.RecordScore, http.MethodPost, "/api/matches/1/scores", "1", `{"player_id":1,"hole_number":1,"strokes":4}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	rr = call(h.RecordScore, http.MethodPost, "/api/matches/1/scores", "1", `{"player_id":1,"hole_number":1,"strokes":5}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var sc map[string]any
	testutil.DecodeJSON(t, rr, &sc)
	if sc["strokes"] != float64(5) || sc["hole_number"] != float64(1) || sc["player_id"] != float64(1) {
		t.Fatalf("unexpected score body %+v", sc)
	}
	if _, leaked := sc["match_id"]; leaked {
		t.Fatalf("score body should not carry match_id")
	}

	rr = call(h.Leaderboard, http.MethodGet, "/api/matches/1/leaderboard", "1", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var rows []golf.LeaderboardRow
	testutil.DecodeJSON(t, rr, &rows)
	if len(rows) != 1 || rows[0].PlayerName != "Eve" || rows[0].TotalStrokes != 5 {
		t.Fatalf("expected Eve on 5, got %+v", rows)
	}

	rr = call(h.ListPlayerScores, http.MethodGet, "/api/matches/1/scores?player_id=1", "1", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var scores []golf.Score
	testutil.DecodeJSON(t, rr, &scores)
	if len(scores) != 1 || scores[0].Strokes != 5 {
		t.Fatalf("unexpected scorecard %+v", scores)
	}
}

func TestRecordScoreErrors(t *testing.T) {
	h, st := newTestHandler(t)
	m := testutil.SeedMatch(t, st, "Saturday", 3)
	other := testutil.SeedMatch(t, st, "Other", 18)
	testutil.SeedPlayer(t, st, m.ID, "Eve")
	testutil.SeedPlayer(t, st, other.ID, "Dan")

	cases := []struct {
		name   string
		id     string
		body   string
		status int
		detail string
	}{
		{"unknown match", "99", `{"player_id":1,"hole_number":1,"strokes":4}`, http.StatusNotFound, "Match not found"},
		{"unknown player", "1", `{"player_id":99,"hole_number":1,"strokes":4}`, http.StatusNotFound, "Player not found"},
		{"not enrolled", "1", `{"player_id":2,"hole_number":1,"strokes":4}`, http.StatusBadRequest, "Player not in this match"},
		{"hole too high", "1", `{"player_id":1,"hole_number":4,"strokes":4}`, http.StatusBadRequest, "hole_number must be between 1 and 3"},
		{"hole zero", "1", `{"player_id":1,"hole_number":0,"strokes":4}`, http.StatusBadRequest, "hole_number must be between 1 and 3"},
		{"zero strokes", "1", `{"player_id":1,"hole_number":1,"strokes":0}`, http.StatusBadRequest, "strokes must be at least 1"},
		{"missing strokes", "1", `{"player_id":1,"hole_number":1}`, http.StatusBadRequest, "strokes is required"},
		{"bad id", "one", `{"player_id":1,"hole_number":1,"strokes":4}`, http.StatusBadRequest, "invalid match id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := call(h.RecordScore, http.MethodPost, "/api/matches/x/scores", tc.id, tc.body)
			testutil.AssertStatus(t, rr, tc.status)
			if got := detail(t, rr); got != tc.detail {
				t.Fatalf("expected detail %q, got %q", tc.detail, got)
			}
		})
	}
}

func TestListPlayerScoresQueryValidation(t *testing.T) {
	h, st := newTestHandler(t)
	testutil.SeedMatch(t, st, "m", 18)

	rr := call(h.ListPlayerScores, http.MethodGet, "/api/matches/1/scores", "1", "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	rr = call(h.ListPlayerScores, http.MethodGet, "/api/matches/1/scores?player_id=x", "1", "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	rr = call(h.ListPlayerScores, http.MethodGet, "/api/matches/1/scores?player_id=5", "1", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestLeaderboardTieBreak(t *testing.T) {
	h, st := newTestHandler(t)
	m := testutil.SeedMatch(t, st, "m", 18)
	bob := testutil.SeedPlayer(t, st, m.ID, "Bob")
	amy := testutil.SeedPlayer(t, st, m.ID, "Amy")
	testutil.SeedPlayer(t, st, m.ID, "Cid")
	for hole := 1; hole <= 10; hole++ {
		testutil.SeedScore(t, st, m.ID, bob.ID, hole, 4)
		testutil.SeedScore(t, st, m.ID, amy.ID, hole, 4)
	}

	rr := call(h.Leaderboard, http.MethodGet, "/api/matches/1/leaderboard", "1", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var rows []golf.LeaderboardRow
	testutil.DecodeJSON(t, rr, &rows)
	if len(rows) != 2 || rows[0].PlayerName != "Amy" || rows[1].PlayerName != "Bob" || rows[0].TotalStrokes != 40 {
		t.Fatalf("expected Amy then Bob on 40, got %+v", rows)
	}

	rr = call(h.Leaderboard, http.MethodGet, "/api/matches/7/leaderboard", "7", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDomainError(w, r, errors.New("disk I/O error at /var/lib/golf.db"), logger)
	}), req)

	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	if got := detail(t, rr); got != "internal server error" {
		t.Fatalf("expected generic detail, got %q", got)
	}
	if !strings.Contains(buf.String(), "disk I/O error") {
		t.Fatalf("expected raw error to be logged")
	}
}

func TestNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := call(h.NotFound, http.MethodGet, "/api/nope", "", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if got := detail(t, rr); got != "Not Found" {
		t.Fatalf("unexpected detail %q", got)
	}
}
