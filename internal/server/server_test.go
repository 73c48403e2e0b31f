package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapquery/internal/testutil"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/paging"
	"github.com/leapstack-labs/leapquery/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register the built-in dialects for /api/dialects.
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/all"
)

var person = core.Entity{
	Name:  "Person",
	Table: "person",
	ID:    "id",
	Attributes: []core.Attribute{
		{Name: "id", Column: "id", Type: core.TypeInteger},
		{Name: "ssn", Column: "ssn", Type: core.TypeString},
		{Name: "lastName", Column: "last_name", Type: core.TypeString, Nullable: true},
	},
}

// setupTestServer builds a server over an in-memory database holding
// seven people; people with an even id are named Doe.
func setupTestServer(t *testing.T, reload func() ([]core.Entity, error)) (*Server, *httptest.Server) {
	t.Helper()
	ctx := context.Background()

	adp := testutil.OpenSQLite(t, `create table person (id integer primary key, ssn text not null, last_name text)`)
	for i := 1; i <= 7; i++ {
		name := "Roe"
		if i%2 == 0 {
			name = "Doe"
		}
		_, err := adp.Exec(ctx, "insert into person (id, ssn, last_name) values (?, ?, ?)", i, fmt.Sprintf("%d-%d", 7*i, 123*i), name)
		require.NoError(t, err)
	}

	mm := mapping.NewMetamodel()
	require.NoError(t, mm.Replace([]core.Entity{person}))
	f, err := session.NewFactory(session.Config{
		Adapter:  adp,
		Models:   mm,
		Logger:   testutil.NewTestLogger(t),
		PageSize: 3,
	})
	require.NoError(t, err)

	s := New(Config{Factory: f, Reload: reload, Logger: testutil.NewTestLogger(t)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/healthz", &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sqlite", body["dialect"])
	assert.InDelta(t, 1, body["entities"], 0)
}

func TestDialects(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	var body []map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/dialects", &body))

	names := map[string]bool{}
	for _, d := range body {
		names[d["name"].(string)] = true
		assert.Contains(t, d, "string_aggregation")
	}
	for _, want := range []string{"sqlite", "duckdb", "postgres", "mysql"} {
		assert.True(t, names[want], "dialect %s listed", want)
	}
}

func TestEntities(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	var body []entityView
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/entities", &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Person", body[0].Name)
	assert.Equal(t, "person", body[0].Table)
	require.Len(t, body[0].Attributes, 3)
	assert.Equal(t, attributeView{Name: "lastName", Column: "last_name", Type: "string", Nullable: true}, body[0].Attributes[2])
}

func TestEntityPage_WalkForward(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	var ids []float64
	path := "/api/entities/person?order=id:desc"
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "paging did not terminate")

		var body pageView
		require.Equal(t, http.StatusOK, getJSON(t, ts, path, &body))
		assert.Equal(t, pages, body.Page)
		for _, row := range body.Rows {
			ids = append(ids, row["id"].(float64))
		}
		if body.NextCursor == "" {
			break
		}
		path = "/api/entities/person?cursor=" + url.QueryEscape(body.NextCursor)
	}
	assert.Equal(t, []float64{7, 6, 5, 4, 3, 2, 1}, ids)
}

func TestEntityPage_WhereAndParams(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	q := url.Values{}
	q.Set("where", "e.lastName = :name")
	q.Set("name", "Doe")
	q.Set("order", "ssn")
	q.Set("size", "2")

	var first pageView
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/api/entities/Person?"+q.Encode(), &first))
	require.Len(t, first.Rows, 2)
	assert.Equal(t, "14-246", first.Rows[0]["ssn"])
	assert.Equal(t, "28-492", first.Rows[1]["ssn"])
	require.NotEmpty(t, first.NextCursor)

	q.Del("order")
	q.Del("size")
	q.Set("cursor", first.NextCursor)
	var second pageView
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/api/entities/Person?"+q.Encode(), &second))
	require.Len(t, second.Rows, 1)
	assert.Equal(t, "42-738", second.Rows[0]["ssn"])
	assert.Empty(t, second.NextCursor)
	assert.NotEmpty(t, second.PreviousCursor)
}

func TestEntityPage_Errors(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"unknown entity", "/api/entities/Nobody", http.StatusNotFound, `unknown entity "Nobody"`},
		{"unknown order attribute", "/api/entities/Person?order=height", http.StatusBadRequest, "height"},
		{"bad size", "/api/entities/Person?size=0", http.StatusBadRequest, "size"},
		{"huge size", "/api/entities/Person?size=5000", http.StatusBadRequest, "size"},
		{"bad cursor", "/api/entities/Person?cursor=abc", http.StatusBadRequest, "cursor"},
		{"cursor carrying a huge size", "/api/entities/Person?cursor=" + url.QueryEscape(hugeCursor(t)), http.StatusBadRequest, "size"},
		{"unbound parameter", "/api/entities/Person?where=" + url.QueryEscape("e.id = :id"), http.StatusBadRequest, "not bound"},
		{"bad where", "/api/entities/Person?where=" + url.QueryEscape("e.id ="), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			assert.Equal(t, tt.wantStatus, getJSON(t, ts, tt.path, &body))
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}

func hugeCursor(t *testing.T) string {
	t.Helper()
	token, err := paging.First(5000).KeyedBy(paging.Asc("Person", "id")).Encode()
	require.NoError(t, err)
	return token
}

func TestQuery(t *testing.T) {
	_, ts := setupTestServer(t, nil)

	post := func(body string) (*http.Response, map[string]any) {
		resp, err := http.Post(ts.URL+"/api/query", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, out := post(`{"hql": "select p.lastName, count(*) from Person p where p.id <= :upto group by p.lastName order by p.lastName", "params": {"upto": "4"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := out["rows"].([]any)
	require.Len(t, rows, 2)

	resp, out = post(`{"hql": ""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["error"], "hql is required")

	resp, _ = post(`{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(`{"hql": "from Nobody n"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReload(t *testing.T) {
	next := []core.Entity{person, {
		Name:  "Basic",
		Table: "person",
		ID:    "id",
		Attributes: []core.Attribute{
			{Name: "id", Column: "id", Type: core.TypeInteger},
			{Name: "code", Column: "ssn", Type: core.TypeString},
		},
	}}
	var fail bool
	s, ts := setupTestServer(t, func() ([]core.Entity, error) {
		if fail {
			return nil, errors.New("broken config")
		}
		return next, nil
	})

	events := s.notifier.subscribe()
	defer s.notifier.unsubscribe(events)

	require.NoError(t, s.Reload())
	select {
	case ev := <-events:
		assert.Equal(t, "reload", ev.Type)
		assert.Equal(t, []string{"Person", "Basic"}, ev.Entities)
	case <-time.After(time.Second):
		t.Fatal("no reload event")
	}

	var page pageView
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/api/entities/Basic?size=1", &page))
	assert.Equal(t, "7-123", page.Rows[0]["code"])

	fail = true
	assert.Error(t, s.Reload())
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/api/entities/Basic?size=1", nil), "failed reload keeps entities")

	assert.Error(t, New(Config{Factory: s.factory}).Reload(), "reload not configured")
}

func TestEvents(t *testing.T) {
	s, ts := setupTestServer(t, func() ([]core.Entity, error) { return []core.Entity{person}, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	require.NoError(t, s.Reload())
	for {
		line, err = rd.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			break
		}
	}
	assert.Equal(t, "event: reload\n", line)
	line, err = rd.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"entities":["Person"]`)
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "leapquery.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("entities: []\n"), 0600))

	reloaded := make(chan struct{}, 1)
	s, _ := setupTestServer(t, func() ([]core.Entity, error) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return []core.Entity{person}, nil
	})
	s.configFile = cfgFile

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchConfig(ctx) }()

	// Keep touching the file until the watcher is up and reacts.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
wait:
	for {
		select {
		case <-reloaded:
			break wait
		case <-tick.C:
			require.NoError(t, os.WriteFile(cfgFile, []byte("entities: []\n# touched\n"), 0600))
		case <-deadline:
			t.Fatal("config change did not trigger a reload")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
