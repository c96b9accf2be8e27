package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"envault/internal/fsutil"
	"envault/internal/logging"
)

const (
	// DefaultLifetime is the validity window stamped on issued tokens.
	DefaultLifetime = 3 * time.Hour

	revocationFile = "revoked_tokens.json"
	tokenLogFile   = "tokens.json"
)

// Config holds token manager configuration
type Config struct {
	// StateDir is where the revocation list and token log live.
	StateDir string
	// Lifetime is the validity window for issued tokens. Zero means
	// DefaultLifetime.
	Lifetime time.Duration
}

// Manager issues, validates, renews and revokes HS256-signed session tokens.
// It owns the revocation set and the persisted token log exclusively; all
// mutation goes through its lock.
//
// Generate and Renew never write anything to disk. Persist is the only way a
// token string reaches the token log, and Revoke is the only writer of the
// revocation list.
type Manager struct {
	mu       sync.Mutex
	revoked  map[string]struct{}
	lifetime time.Duration
	stateDir string
	logger   *logging.Logger
}

// NewManager creates a token manager and loads the revocation list from disk.
// A missing, corrupt or unreadable revocation file yields an empty set with a
// logged warning rather than an error: blocking startup on bad revocation
// state would trade availability for nothing, since the file is rewritten in
// full on the next revocation.
func NewManager(cfg Config, logger *logging.Logger) *Manager {
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	m := &Manager{
		revoked:  make(map[string]struct{}),
		lifetime: lifetime,
		stateDir: cfg.StateDir,
		logger:   logger,
	}
	m.loadRevocations()
	return m
}

// Generate signs payload with secret and returns the token string. It stamps
// exp = now + lifetime and, when the caller did not supply one, a fresh jti.
// The caller's payload map is not modified. Nothing is persisted; callers
// that want the token in the on-disk log call Persist themselves.
func (m *Manager) Generate(payload map[string]interface{}, secret string) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}

	claims["exp"] = time.Now().UTC().Add(m.lifetime).Unix()
	if _, ok := claims["jti"]; !ok {
		claims["jti"] = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	m.logger.Info("token.issued", "Generated session token", map[string]interface{}{
		"jti": claims["jti"],
	})
	return signed, nil
}

// Validate verifies signature and expiry, then checks the jti against the
// revocation set. A revoked token is rejected with ErrRevoked even when its
// exp has not passed. The decoded claims are returned on success.
func (m *Manager) Validate(tokenString, secret string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if jti, ok := claims["jti"].(string); ok {
		if m.IsRevoked(jti) {
			return nil, fmt.Errorf("%w: jti %s", ErrRevoked, jti)
		}
	}

	return claims, nil
}

// Renew validates oldToken and issues a brand-new token carrying the same
// claims with a fresh jti and a refreshed exp. Validation failures propagate
// unchanged: an expired or revoked token cannot be renewed. The source token
// is left untouched and stays independently valid until its own expiry or an
// explicit Revoke.
func (m *Manager) Renew(oldToken, secret string) (string, error) {
	payload, err := m.Validate(oldToken, secret)
	if err != nil {
		return "", err
	}

	delete(payload, "exp")
	payload["jti"] = uuid.NewString()

	return m.Generate(payload, secret)
}

// Revoke adds the token's jti to the revocation set and persists the full set
// to disk before returning. The claims are decoded without verifying the
// signature or expiry, so revocation works on already-expired tokens and on
// tokens whose signing secret is unknown at the call site.
//
// On a persistence failure the in-memory revocation stays in effect and the
// error propagates: the token is revoked in this process but not guaranteed
// durable, and the caller should retry.
func (m *Manager) Revoke(tokenString string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return ErrMissingJTI
	}

	// The lock is held across the disk write: Revoke's contract is that the
	// revocation is durable before it returns, and holding the lock keeps
	// the set and the file from diverging under concurrent revokes.
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[jti] = struct{}{}

	if err := m.saveRevocationsLocked(); err != nil {
		m.logger.Error("token.revoke.persist_failed", "Failed to persist revocation list", map[string]interface{}{
			"jti":   jti,
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("token.revoked", "Token revoked", map[string]interface{}{
		"jti": jti,
	})
	return nil
}

// IsRevoked reports whether the given jti is on the revocation list.
func (m *Manager) IsRevoked(jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok
}

// Persist appends tokenString to the on-disk token log. The log is an
// audit/history record and plays no part in validity decisions. A corrupt
// existing log is replaced with a fresh one after a logged warning.
func (m *Manager) Persist(tokenString string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens, err := m.readTokenLog()
	if err != nil {
		m.logger.Warn("token.log.reset", "Could not load existing token log, starting fresh", map[string]interface{}{
			"error": err.Error(),
		})
		tokens = nil
	}

	tokens = append(tokens, tokenString)

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode token log: %w", err)
	}
	if err := fsutil.AtomicWriteFile(m.tokenLogPath(), data); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}

// LoadPersisted returns the ordered token log. A missing or unreadable log
// yields an empty slice, never an error.
func (m *Manager) LoadPersisted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens, err := m.readTokenLog()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("token.log.load_failed", "Failed to load persisted tokens", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return []string{}
	}
	return tokens
}

func (m *Manager) readTokenLog() ([]string, error) {
	data, err := fsutil.ReadFile(m.tokenLogPath())
	if err != nil {
		return nil, err
	}
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse token log: %w", err)
	}
	return tokens, nil
}

// loadRevocations populates the revocation set from disk, failing open.
func (m *Manager) loadRevocations() {
	data, err := fsutil.ReadFile(m.revocationPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("token.revocations.load_failed", "Failed to load revocation list, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}

	var jtis []string
	if err := json.Unmarshal(data, &jtis); err != nil {
		m.logger.Warn("token.revocations.corrupt", "Revocation list is corrupt, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, jti := range jtis {
		m.revoked[jti] = struct{}{}
	}
	m.logger.Info("token.revocations.loaded", "Loaded revocation list", map[string]interface{}{
		"count": len(jtis),
	})
}

// saveRevocationsLocked writes the full revocation set; callers hold m.mu.
func (m *Manager) saveRevocationsLocked() error {
	jtis := make([]string, 0, len(m.revoked))
	for jti := range m.revoked {
		jtis = append(jtis, jti)
	}

	data, err := json.Marshal(jtis)
	if err != nil {
		return fmt.Errorf("failed to encode revocation list: %w", err)
	}
	return fsutil.AtomicWriteFile(m.revocationPath(), data)
}

func (m *Manager) revocationPath() string {
	return filepath.Join(m.stateDir, revocationFile)
}

func (m *Manager) tokenLogPath() string {
	return filepath.Join(m.stateDir, tokenLogFile)
}
