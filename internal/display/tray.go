package display

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrDisplayNotRunning is returned when no live display process can be found.
var ErrDisplayNotRunning = errors.New("streakly-display is not running")

// TrayPublisher pushes live status to the streakly-display companion app.
type TrayPublisher struct {
	// Dir overrides the lockfile directory; empty uses GetDisplayConfigDir.
	Dir        string
	client     *http.Client
	retryDelay time.Duration
}

func NewTrayPublisher(dir string) *TrayPublisher {
	return &TrayPublisher{
		Dir:        dir,
		client:     &http.Client{},
		retryDelay: constants.PublishRetryDelay,
	}
}

func (p *TrayPublisher) Publish(ctx context.Context, status models.LiveStatus) error {
	dir := p.Dir
	if dir == "" {
		var err error
		dir, err = GetDisplayConfigDir()
		if err != nil {
			return err
		}
	}

	port, secret, err := findAndValidateDisplayProcess(filepath.Join(dir, constants.DisplayLockfileName))
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= constants.PublishMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish cancelled: %w", ctx.Err())
			case <-time.After(p.retryDelay):
			}
		}
		lastErr = p.sendStatus(ctx, port, secret, status)
		if lastErr == nil {
			return nil
		}
		var rejected *RejectedError
		if errors.As(lastErr, &rejected) || ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

// GetDisplayConfigDir returns the directory holding the display's lockfile.
func GetDisplayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	displayConfigDir := filepath.Join(configDir, constants.DisplayAppIdentifier)

	// settings.json may point the lockfile somewhere else
	settingsPath := filepath.Join(displayConfigDir, "settings.json")
	if data, err := os.ReadFile(settingsPath); err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return displayConfigDir, nil
}

func findAndValidateDisplayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrDisplayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrDisplayNotRunning
	}

	if !strings.HasPrefix(process.Executable(), constants.DisplayExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.DisplayExecutable, process.Executable())
	}

	return port, secret, nil
}

// RejectedError is a non-2xx answer from the display. It is not retried.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("live status rejected with status %d: %s", e.StatusCode, e.Body)
}

func (p *TrayPublisher) sendStatus(ctx context.Context, port, secret string, status models.LiveStatus) error {
	url := fmt.Sprintf("http://127.0.0.1:%s/status", port)

	jsonData, err := json.Marshal(status)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.DisplaySecretHeader, secret)

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return &RejectedError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
}
