package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Client calls the Orlem backend's HTTP surface: speech endpoints, meeting
// logs and the hub meeting listing.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// LogRecord is one line of a meeting log (newline-delimited JSON on the
// wire).
type LogRecord struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Meeting is one entry of the hub meeting listing.
type Meeting struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// New constructs a client for one backend base URL.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("server base url is required")
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}, nil
}

// Speak renders text to speech and returns the audio bytes. A non-2xx
// response yields no audio and no error; voice playback is best effort.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("Speak request ignored", "status", resp.StatusCode)
		return nil, nil
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speak response: %w", err)
	}

	return audio, nil
}

// Transcribe uploads recorded audio as multipart form data and returns the
// transcript. An absent or blank transcript returns empty with no error;
// the caller decides how to surface it.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stt", &body)
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("transcribe request: status %d", resp.StatusCode)
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	return strings.TrimSpace(decoded.Text), nil
}

// Logs lists the meeting log filenames stored on the server.
func (c *Client) Logs(ctx context.Context) ([]string, error) {
	var decoded struct {
		Logs []string `json:"logs"`
	}
	if err := c.getJSON(ctx, "/logs", &decoded); err != nil {
		return nil, err
	}

	return decoded.Logs, nil
}

// LogRecords fetches one meeting log and parses its newline-delimited JSON
// records. Unparseable lines are skipped.
func (c *Client) LogRecords(ctx context.Context, name string) ([]LogRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/logs/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("build log request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("log request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("log %q: %s", name, errorDetail(resp))
	}

	var records []LogRecord
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record LogRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			c.log.Debug("Skipping malformed log line", "log", name)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log %q: %w", name, err)
	}

	return records, nil
}

// RenameLog renames a stored meeting log and returns the final name the
// server settled on (the server appends the .jsonl suffix when missing).
// Renaming never touches the live session identifier.
func (c *Client) RenameLog(ctx context.Context, oldName string, newName string) (string, error) {
	body, err := json.Marshal(map[string]string{"old_name": oldName, "new_name": newName})
	if err != nil {
		return "", fmt.Errorf("encode rename request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logs/rename", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build rename request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("rename request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rename %q: %s", oldName, errorDetail(resp))
	}

	var decoded struct {
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode rename response: %w", err)
	}

	return decoded.NewName, nil
}

// Meetings lists the hub's processed meetings.
func (c *Client) Meetings(ctx context.Context) ([]Meeting, error) {
	var decoded struct {
		Meetings []Meeting `json:"meetings"`
	}
	if err := c.getJSON(ctx, "/api/meetings", &decoded); err != nil {
		return nil, err
	}

	return decoded.Meetings, nil
}

// MeetingMessages fetches the message transcript of one meeting.
func (c *Client) MeetingMessages(ctx context.Context, id int64) ([]LogRecord, error) {
	var decoded struct {
		Messages []LogRecord `json:"messages"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/%d", id), &decoded); err != nil {
		return nil, err
	}

	return decoded.Messages, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: %s", path, errorDetail(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}

	return nil
}

// errorDetail extracts the backend's {"detail": ...} error body when
// present, falling back to the HTTP status.
func errorDetail(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var decoded struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &decoded) == nil && strings.TrimSpace(decoded.Detail) != "" {
			return decoded.Detail
		}
	}

	return fmt.Sprintf("status %d", resp.StatusCode)
}
