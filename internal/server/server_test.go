package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chorepoints/internal/model"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Reward{}, &model.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	srv := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return ts, &http.Client{Jar: jar}
}

// do sends a JSON request, optionally pinning the calendar date with the
// X-Client-Date header, and decodes the response into out when non-nil.
func do(t *testing.T, client *http.Client, method, url, date string, body, out any) int {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if date != "" {
		req.Header.Set("X-Client-Date", date)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func signUp(t *testing.T, client *http.Client, base, username string) {
	t.Helper()
	code := do(t, client, http.MethodPost, base+"/api/user", "", map[string]string{
		"username": username,
		"password": "hunter2",
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("sign up status = %d, want 201", code)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	ts, client := newTestServer(t)
	signUp(t, client, ts.URL, "alice")

	var created taskResponse
	code := do(t, client, http.MethodPost, ts.URL+"/api/task/", "2021-01-01", map[string]any{
		"name":   "water the plants",
		"points": 5,
		"recurrence": map[string]any{
			"unit":  "days",
			"every": 3,
		},
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", code)
	}
	if created.NextDue != "2021-01-04" || created.DaysToNextDue != 3 || created.IsDone {
		t.Fatalf("created = %+v", created)
	}

	var completed taskResponse
	url := ts.URL + "/api/task/complete/" + itoa(created.ID)
	if code := do(t, client, http.MethodPost, url, "2021-01-04", nil, &completed); code != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", code)
	}
	if !completed.IsDone || completed.NextDue != "2021-01-07" {
		t.Fatalf("completed = %+v", completed)
	}

	var me userResponse
	if code := do(t, client, http.MethodGet, ts.URL+"/api/user", "", nil, &me); code != http.StatusOK {
		t.Fatalf("whoami status = %d, want 200", code)
	}
	if me.Points != 5 {
		t.Errorf("points after completion = %d, want 5", me.Points)
	}

	if code := do(t, client, http.MethodPost, url, "2021-01-04", nil, nil); code != http.StatusConflict {
		t.Errorf("second complete status = %d, want 409", code)
	}

	var todo, done []taskResponse
	do(t, client, http.MethodGet, ts.URL+"/api/task/todo", "2021-01-04", nil, &todo)
	do(t, client, http.MethodGet, ts.URL+"/api/task/done", "2021-01-04", nil, &done)
	if len(todo) != 0 || len(done) != 1 {
		t.Fatalf("todo = %d tasks, done = %d tasks", len(todo), len(done))
	}

	// The deadline arrives: the sweep flips the task back to todo with a
	// fresh due date, no points clawed back.
	var flipped []taskResponse
	if code := do(t, client, http.MethodPost, ts.URL+"/api/task/undo", "2021-01-07", nil, &flipped); code != http.StatusOK {
		t.Fatalf("undo status = %d, want 200", code)
	}
	if len(flipped) != 1 || flipped[0].IsDone || flipped[0].NextDue != "2021-01-10" {
		t.Fatalf("flipped = %+v", flipped)
	}
	do(t, client, http.MethodGet, ts.URL+"/api/user", "", nil, &me)
	if me.Points != 5 {
		t.Errorf("points after undo = %d, want 5", me.Points)
	}
}

func TestCompletePastDueOverHTTP(t *testing.T) {
	ts, client := newTestServer(t)
	signUp(t, client, ts.URL, "alice")

	var created taskResponse
	do(t, client, http.MethodPost, ts.URL+"/api/task/", "2021-01-01", map[string]any{
		"name":       "laundry",
		"recurrence": map[string]any{"unit": "days", "every": 1},
	}, &created)

	url := ts.URL + "/api/task/complete/" + itoa(created.ID)
	if code := do(t, client, http.MethodPost, url, "2021-01-05", nil, nil); code != http.StatusConflict {
		t.Errorf("past-due complete status = %d, want 409", code)
	}
}

func TestRewardRedeemOverHTTP(t *testing.T) {
	ts, client := newTestServer(t)
	signUp(t, client, ts.URL, "alice")

	var reward rewardResponse
	code := do(t, client, http.MethodPost, ts.URL+"/api/reward/", "", map[string]any{
		"name": "movie night",
		"cost": 30,
	}, &reward)
	if code != http.StatusCreated {
		t.Fatalf("create reward status = %d, want 201", code)
	}

	var balance map[string]int
	url := ts.URL + "/api/reward/redeem/" + itoa(reward.ID)
	if code := do(t, client, http.MethodPost, url, "", nil, &balance); code != http.StatusOK {
		t.Fatalf("redeem status = %d, want 200", code)
	}
	if balance["points"] != -30 {
		t.Errorf("balance = %d, want -30", balance["points"])
	}
}

func TestAuthRequiredAndSignOut(t *testing.T) {
	ts, client := newTestServer(t)

	if code := do(t, client, http.MethodGet, ts.URL+"/api/user", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous whoami status = %d, want 401", code)
	}

	signUp(t, client, ts.URL, "alice")
	if code := do(t, client, http.MethodGet, ts.URL+"/api/user", "", nil, nil); code != http.StatusOK {
		t.Fatalf("whoami status = %d, want 200", code)
	}

	if code := do(t, client, http.MethodPost, ts.URL+"/api/logout", "", nil, nil); code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", code)
	}
	if code := do(t, client, http.MethodGet, ts.URL+"/api/user", "", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("whoami after logout status = %d, want 401", code)
	}
}

func TestBadRequests(t *testing.T) {
	ts, client := newTestServer(t)
	signUp(t, client, ts.URL, "alice")

	// Malformed date header.
	if code := do(t, client, http.MethodGet, ts.URL+"/api/task/todo", "01/04/2021", nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad date header status = %d, want 400", code)
	}

	// Missing required fields.
	if code := do(t, client, http.MethodPost, ts.URL+"/api/task/", "", map[string]any{
		"recurrence": map[string]any{"unit": "days", "every": 1},
	}, nil); code != http.StatusBadRequest {
		t.Errorf("nameless task status = %d, want 400", code)
	}

	// Unsupported recurrence unit.
	if code := do(t, client, http.MethodPost, ts.URL+"/api/task/", "", map[string]any{
		"name":       "stretch",
		"recurrence": map[string]any{"unit": "decades", "every": 1},
	}, nil); code != http.StatusBadRequest {
		t.Errorf("bad unit status = %d, want 400", code)
	}

	// Unknown task ids.
	if code := do(t, client, http.MethodGet, ts.URL+"/api/task/999", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown task status = %d, want 404", code)
	}
}

func TestDuplicateUsernameOverHTTP(t *testing.T) {
	ts, client := newTestServer(t)
	signUp(t, client, ts.URL, "alice")

	code := do(t, client, http.MethodPost, ts.URL+"/api/user", "", map[string]string{
		"username": "alice",
		"password": "other",
	}, nil)
	if code != http.StatusConflict {
		t.Errorf("duplicate sign up status = %d, want 409", code)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
