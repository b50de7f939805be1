package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func mockDisplayProcess(t *testing.T) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.DisplayExecutable}, nil
	}
}

func serverPort(t *testing.T, url string) string {
	t.Helper()
	parts := strings.Split(url, ":")
	return parts[len(parts)-1]
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, constants.DisplayLockfileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGetDisplayConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	expectedDefault := filepath.Join(tempDir, constants.DisplayAppIdentifier)
	dir, err := GetDisplayConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/streakly/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetDisplayConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestGetDisplayConfigDirError(t *testing.T) {
	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return "", errors.New("no home")
	}

	if _, err := GetDisplayConfigDir(); err == nil {
		t.Error("expected error when the user config dir is unknown")
	}
}

func TestFindAndValidateDisplayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, constants.DisplayLockfileName)

	_, _, err := findAndValidateDisplayProcess(lockfilePath)
	if !errors.Is(err, ErrDisplayNotRunning) {
		t.Errorf("expected ErrDisplayNotRunning for missing lockfile, got %v", err)
	}

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"non-numeric port", "http|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeLockfile(t, tempDir, tt.content)
			_, _, err := findAndValidateDisplayProcess(lockfilePath)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}

	writeLockfile(t, tempDir, "8080|12345|s3cret")

	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, _, err := findAndValidateDisplayProcess(lockfilePath); !errors.Is(err, ErrDisplayNotRunning) {
		t.Errorf("expected ErrDisplayNotRunning for missing process, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findAndValidateDisplayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "streakly-display.exe"}, nil
	}
	port, secret, err := findAndValidateDisplayProcess(lockfilePath)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if port != "8080" {
		t.Errorf("expected port 8080, got %s", port)
	}
	if secret != "s3cret" {
		t.Errorf("expected secret s3cret, got %s", secret)
	}
}

func TestTrayPublisherPublish(t *testing.T) {
	mockDisplayProcess(t)

	var received models.LiveStatus
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(constants.DisplaySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	writeLockfile(t, dir, fmt.Sprintf("%s|%d|test-secret", serverPort(t, server.URL), os.Getpid()))

	pub := NewTrayPublisher(dir)
	status := models.LiveStatus{
		HabitID:        "h1",
		HabitName:      "Read",
		ElapsedSeconds: 65,
		TargetSeconds:  1800,
		Running:        true,
		UpdatedAt:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := pub.Publish(context.Background(), status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.HabitID != "h1" || received.ElapsedSeconds != 65 || !received.Running {
		t.Errorf("unexpected payload %+v", received)
	}
}

func TestTrayPublisherRejectedIsNotRetried(t *testing.T) {
	mockDisplayProcess(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorized"))
	}))
	defer server.Close()

	dir := t.TempDir()
	writeLockfile(t, dir, fmt.Sprintf("%s|%d|wrong", serverPort(t, server.URL), os.Getpid()))

	err := NewTrayPublisher(dir).Publish(context.Background(), models.LiveStatus{HabitID: "h1"})
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rejected.StatusCode)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
}

func TestTrayPublisherRetriesTransportErrors(t *testing.T) {
	mockDisplayProcess(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	port := serverPort(t, server.URL)
	server.Close()

	dir := t.TempDir()
	writeLockfile(t, dir, fmt.Sprintf("%s|%d|s3cret", port, os.Getpid()))

	var attempts atomic.Int32
	pub := NewTrayPublisher(dir)
	pub.retryDelay = time.Millisecond
	pub.client = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})}

	if err := pub.Publish(context.Background(), models.LiveStatus{HabitID: "h1"}); err == nil {
		t.Fatal("expected error when nothing is listening")
	}
	if n := attempts.Load(); n != constants.PublishMaxRetries+1 {
		t.Errorf("expected %d attempts, got %d", constants.PublishMaxRetries+1, n)
	}
}

func TestTrayPublisherNoDisplay(t *testing.T) {
	err := NewTrayPublisher(t.TempDir()).Publish(context.Background(), models.LiveStatus{HabitID: "h1"})
	if !errors.Is(err, ErrDisplayNotRunning) {
		t.Errorf("expected ErrDisplayNotRunning, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
