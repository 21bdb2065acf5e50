package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/feedback"
	"github.com/hyperjump/emosuggest/internal/ingest"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/search"
	"github.com/hyperjump/emosuggest/internal/server"
	"github.com/hyperjump/emosuggest/internal/session"
	"github.com/hyperjump/emosuggest/internal/storage"
	"go.uber.org/zap"
)

type env struct {
	cfg    *config.Config
	path   string
	source *storage.WorkbookSource
	engine *search.Engine
	report *ingest.Report
}

func newEnv(t *testing.T, corpus *Corpus) *env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emoji.xlsx")
	if err := WriteWorkbook(path, corpus.Order(), corpus.Sheets()); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Source.WorkbookPath = path
	cfg.Recommend.Categories = corpus.Order()

	src, err := storage.OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })

	policy := ingest.DefaultRetryPolicy()
	policy.CategoryDelay = 0
	tbl, report, err := ingest.New(src, ingest.WithPolicy(policy)).
		Build(context.Background(), cfg.Recommend.Categories, cfg.Recommend.WeightedOrDefault())
	if err != nil {
		t.Fatal(err)
	}
	engine, err := search.NewEngineFromConfig(tbl, &cfg.Recommend)
	if err != nil {
		t.Fatal(err)
	}
	return &env{cfg: cfg, path: path, source: src, engine: engine, report: report}
}

func TestE2E_RecommendReturnsExpectedTop(t *testing.T) {
	corpus := BuildCorpus()
	e := newEnv(t, corpus)
	if len(e.report.Loaded) != len(corpus.Categories) {
		t.Fatalf("loaded %d of %d categories: %+v", len(e.report.Loaded), len(corpus.Categories), e.report)
	}

	for _, tc := range corpus.TestCases {
		t.Run(tc.Description, func(t *testing.T) {
			rec := e.engine.Recommend(tc.Text)
			if len(rec.Candidates) == 0 {
				t.Fatalf("%q: no candidates (trace %q)", tc.Text, rec.Trace)
			}
			if got := rec.Candidates[0].Emoji; got != tc.ExpectedTop {
				t.Errorf("%q: top = %s, want %s (candidates %v)", tc.Text, got, tc.ExpectedTop, rec.CandidateIDs())
			}
		})
	}
}

func TestE2E_sharedKeywordTiesFollowCategoryOrder(t *testing.T) {
	corpus := BuildCorpus()
	e := newEnv(t, corpus)

	rec := e.engine.Recommend("今日はいい" + SharedKeyword)
	want := corpus.Order()[:5]
	if got := rec.CandidateIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
	if rec.Trace != SharedKeyword {
		t.Errorf("trace = %q", rec.Trace)
	}
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestE2E_HTTPSessionLogsToWorkbook(t *testing.T) {
	corpus := BuildCorpus()
	e := newEnv(t, corpus)

	sink := feedback.NewSheetSink(e.source, e.cfg.Source.LogSheet)
	manager := session.NewManager(func(id string) *session.Session {
		return session.New(e.engine, sink, session.WithID(id))
	})
	srv := server.NewServer(e.engine, manager, e.cfg, zap.NewNop(), server.WithSource(e.source, e.report))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	var snap session.Snapshot
	if code := postJSON(t, ts.URL+"/api/v1/sessions", nil, &snap); code != http.StatusCreated {
		t.Fatalf("create session: %d", code)
	}
	base := ts.URL + "/api/v1/sessions/" + snap.ID

	for _, step := range []struct {
		text   string
		accept string
	}{
		{"涙が止まらない", "😭"},
		{"雪が積もった", models.None},
	} {
		if code := postJSON(t, base+"/search", models.TextRequest{Text: step.text}, &snap); code != http.StatusOK {
			t.Fatalf("search %q: %d", step.text, code)
		}
		if snap.State != session.StateResults {
			t.Fatalf("search %q: state %s", step.text, snap.State)
		}
		if code := postJSON(t, base+"/accept", models.AcceptRequest{Candidate: step.accept}, &snap); code != http.StatusOK {
			t.Fatalf("accept %q: %d", step.accept, code)
		}
		if snap.Outcome == nil || snap.Outcome.Level != session.LevelSuccess {
			t.Fatalf("accept %q: outcome %+v", step.accept, snap.Outcome)
		}
	}
	if snap.Text != "雪が積もった" {
		t.Errorf("text = %q", snap.Text)
	}

	var st models.Status
	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if st.Categories != len(corpus.Categories) || st.Sessions != 1 || st.DiskUsageBytes <= 0 {
		t.Errorf("status = %+v", st)
	}

	// The log survives reopening the workbook.
	if err := e.source.Close(); err != nil {
		t.Fatal(err)
	}
	reopened, err := storage.OpenWorkbook(e.path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	rows, err := reopened.Rows(context.Background(), e.cfg.Source.LogSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("log rows = %v", rows)
	}
	if !reflect.DeepEqual(rows[0], models.LogHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "涙が止まらない" || rows[1][3] != "涙" || rows[1][4] != "😭" {
		t.Errorf("first record = %v", rows[1])
	}
	if rows[2][4] != models.None {
		t.Errorf("second record = %v", rows[2])
	}
}
