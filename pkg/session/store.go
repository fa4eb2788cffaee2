package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultStateFileName = ".orlem/state.json"

// IDPrefix marks client-generated session identifiers.
const IDPrefix = "sess-"

type state struct {
	SessionID string `json:"session_id"`
}

// Store holds the durable session identifier for this client. The identifier
// is immutable for the process lifetime once established; only the initial
// adoption of a server-assigned id can fill an empty slot.
type Store struct {
	path string
	id   string
}

// Open resolves the state file path, creates its directory when missing, and
// loads any previously persisted session identifier.
func Open(statePath string) (*Store, error) {
	resolved, err := resolvePath(statePath)
	if err != nil {
		return nil, err
	}

	store := &Store{path: resolved}

	content, err := os.ReadFile(resolved)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session state: %w", err)
	}

	var persisted state
	if err := json.Unmarshal(content, &persisted); err != nil {
		return nil, fmt.Errorf("parse session state: %w", err)
	}
	store.id = strings.TrimSpace(persisted.SessionID)

	return store, nil
}

// ID returns the current session identifier, empty when none is established.
func (s *Store) ID() string {
	return s.id
}

// Path returns the resolved state file location.
func (s *Store) Path() string {
	return s.path
}

// EnsureID returns the session identifier, generating and persisting a new
// one when none exists yet.
func (s *Store) EnsureID() (string, error) {
	if s.id != "" {
		return s.id, nil
	}

	s.id = IDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := s.persist(); err != nil {
		return "", err
	}

	return s.id, nil
}

// Adopt stores a server-assigned identifier, but only when no identifier is
// established locally. It reports whether the identifier was adopted.
func (s *Store) Adopt(serverID string) (bool, error) {
	serverID = strings.TrimSpace(serverID)
	if serverID == "" || s.id != "" {
		return false, nil
	}

	s.id = serverID
	if err := s.persist(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store) persist() error {
	content, err := json.Marshal(state{SessionID: s.id})
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}

	return nil
}

// resolvePath normalizes the state file location and ensures its parent
// directory exists. An empty input falls back to ~/.orlem/state.json.
func resolvePath(statePath string) (string, error) {
	trimmed := strings.TrimSpace(statePath)
	if trimmed == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(homeDir, defaultStateFileName)
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve session state path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return "", fmt.Errorf("create session state directory: %w", err)
	}

	return cleanPath, nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}

	prefix := "~" + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, prefix)), nil
	}

	return path, nil
}
