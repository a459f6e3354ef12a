package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := stubConfigDir(t)

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	settingsPath := filepath.Join(expectedDefault, "settings.json")

	customDir := "/custom/nutriuni/dir"
	if err := os.WriteFile(settingsPath, []byte(fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}

	if err := os.WriteFile(settingsPath, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != expectedDefault {
		t.Errorf("unreadable settings should fall back to %s, got %s", expectedDefault, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err != ErrTrayNotRunning {
		t.Errorf("missing lockfile: got %v, want %v", err, ErrTrayNotRunning)
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two-part format", "8080|12345", "nutriuni-tray", "malformed"},
		{"garbage", "invalid", "nutriuni-tray", "malformed"},
		{"empty secret", "8080|12345|", "nutriuni-tray", "secret"},
		{"empty port", "|12345|s3cret", "nutriuni-tray", "port"},
		{"port out of range", "99999|12345|s3cret", "nutriuni-tray", "range"},
		{"bad pid", "8080|abc|s3cret", "nutriuni-tray", "process ID"},
		{"process gone", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not nutriuni-tray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		stubProcess(t, "nutriuni-tray")
		if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
			t.Fatal(err)
		}
		port, secret, err := findAndValidateTrayProcess(lockfilePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if port != "8080" || secret != "s3cret" {
			t.Errorf("got (%s, %s), want (8080, s3cret)", port, secret)
		}
	})
}

// trayServer accepts payloads carrying the expected secret and records them.
func trayServer(t *testing.T, fail *atomic.Int32) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var last atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(secretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if fail != nil && fail.Add(-1) >= 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		last.Store(payload)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &last
}

func testNotifier() *Notifier {
	n := New()
	n.retryDelay = 0
	return n
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	server, last := trayServer(t, nil)
	n := testNotifier()

	if err := n.send(ctx, server.URL, "test-secret", WebhookPayload{Text: "hello", DurationMs: 5000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := last.Load().(WebhookPayload); got.Text != "hello" || got.DurationMs != 5000 {
		t.Errorf("server received %+v", got)
	}

	err := n.send(ctx, server.URL, "wrong-secret", WebhookPayload{Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("wrong secret: got %v", err)
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	ctx := context.Background()

	var fail atomic.Int32
	fail.Store(int32(constants.NotifyMaxRetries - 1))
	server, _ := trayServer(t, &fail)
	if err := testNotifier().send(ctx, server.URL, "test-secret", WebhookPayload{Text: "hi"}); err != nil {
		t.Errorf("should succeed on the last attempt: %v", err)
	}

	var always atomic.Int32
	always.Store(100)
	server, _ = trayServer(t, &always)
	if err := testNotifier().send(ctx, server.URL, "test-secret", WebhookPayload{Text: "hi"}); err == nil {
		t.Error("expected error after exhausting retries")
	}
	if used := 100 - always.Load(); used != int32(constants.NotifyMaxRetries) {
		t.Errorf("made %d attempts, want %d", used, constants.NotifyMaxRetries)
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	stubConfigDir(t)
	if err := testNotifier().Notify(context.Background(), "hello"); err != ErrTrayNotRunning {
		t.Errorf("got %v, want %v", err, ErrTrayNotRunning)
	}
}

func TestNotifyEndToEnd(t *testing.T) {
	dir := stubConfigDir(t)
	stubProcess(t, "nutriuni-tray")
	server, last := trayServer(t, nil)

	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	port := server.URL[strings.LastIndex(server.URL, ":")+1:]
	lock := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}

	if err := testNotifier().Notify(context.Background(), "day done"); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}
	if got := last.Load().(WebhookPayload); got.Text != "day done" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("server received %+v", got)
	}
}

func TestDaySummary(t *testing.T) {
	log := models.NewDailyLog("2024-03-10")
	if got := DaySummary(log, nil); got != "2024-03-10: nothing logged" {
		t.Errorf("empty day: %q", got)
	}

	log.Items = []models.TrackedItem{
		{Name: "Chicken Bowl", NutritionValues: models.NutritionValues{Calories: 1250, Protein: 80}},
		{Name: "Cookie", NutritionValues: models.NutritionValues{Calories: 800.4, Protein: 40.3}},
	}
	log.Recalculate()

	tests := []struct {
		name  string
		goals *models.NutritionGoals
		want  string
	}{
		{"no goals", nil, "2024-03-10: 2 items, 2,050 kcal, 120.3 g protein"},
		{"with goals", &models.NutritionGoals{NutritionValues: models.NutritionValues{Calories: 2400}}, "2024-03-10: 2 items, 2,050 kcal (of 2,400), 120.3 g protein"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaySummary(log, tt.goals); got != tt.want {
				t.Errorf("DaySummary() = %q, want %q", got, tt.want)
			}
		})
	}

	log.Items = log.Items[:1]
	log.Recalculate()
	if got := DaySummary(log, nil); !strings.Contains(got, "1 item,") {
		t.Errorf("singular: %q", got)
	}
}
