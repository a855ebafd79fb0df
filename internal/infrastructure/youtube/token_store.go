package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
)

// ErrNoToken is returned when no stored token exists
var ErrNoToken = errors.New("youtube: no stored token, run the OAuth flow first")

// TokenStore loads and persists the channel's OAuth token
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
}

// FileTokenStore keeps the token in a JSON file
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// tokenFile accepts both the oauth2 field names and the authorized-user
// layout written by Google's Python client
type tokenFile struct {
	AccessToken  string    `json:"access_token,omitempty"`
	Token        string    `json:"token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Load implements TokenStore
func (s *FileTokenStore) Load(_ context.Context) (*oauth2.Token, error) {
	if s.path == "" {
		return nil, ErrNoToken
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("youtube: read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("youtube: parse token file: %w", err)
	}
	access := tf.AccessToken
	if access == "" {
		access = tf.Token
	}
	if access == "" && tf.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    tf.TokenType,
		RefreshToken: tf.RefreshToken,
		Expiry:       tf.Expiry,
	}, nil
}

// Save implements TokenStore
func (s *FileTokenStore) Save(_ context.Context, tok *oauth2.Token) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("youtube: create token dir: %w", err)
	}
	raw, err := json.MarshalIndent(tokenFile{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("youtube: write token file: %w", err)
	}
	return nil
}

// CredentialTokenStore keeps the token on the active YouTube credential
type CredentialTokenStore struct {
	repo publishing.CredentialRepository
	now  func() time.Time
}

// NewCredentialTokenStore creates a store backed by the credential repository
func NewCredentialTokenStore(repo publishing.CredentialRepository) *CredentialTokenStore {
	return &CredentialTokenStore{repo: repo, now: time.Now}
}

// Load implements TokenStore
func (s *CredentialTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	cred, err := s.repo.FindActive(ctx, publishing.PlatformYouTube)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: cred.RefreshToken,
	}
	if cred.TokenExpiresAt != nil {
		tok.Expiry = *cred.TokenExpiresAt
	}
	return tok, nil
}

// Save implements TokenStore. The credential row must already exist.
func (s *CredentialTokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	cred, err := s.repo.FindByPlatform(ctx, publishing.PlatformYouTube)
	if err != nil {
		return err
	}
	cred.UpdateTokens(tok.AccessToken, tok.RefreshToken, expiryPtr(tok), s.now())
	return s.repo.Save(ctx, cred)
}

// ChainTokenStore loads from the first store holding a token and saves
// back to the store it loaded from
type ChainTokenStore struct {
	stores []TokenStore

	mu     sync.Mutex
	source TokenStore
}

// NewChainTokenStore creates a store that tries stores in order
func NewChainTokenStore(stores ...TokenStore) *ChainTokenStore {
	return &ChainTokenStore{stores: stores}
}

// Load implements TokenStore
func (s *ChainTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	for _, store := range s.stores {
		tok, err := store.Load(ctx)
		if errors.Is(err, ErrNoToken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.source = store
		s.mu.Unlock()
		return tok, nil
	}
	return nil, ErrNoToken
}

// Save implements TokenStore
func (s *ChainTokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	s.mu.Lock()
	target := s.source
	s.mu.Unlock()
	if target == nil {
		if len(s.stores) == 0 {
			return nil
		}
		target = s.stores[len(s.stores)-1]
	}
	return target.Save(ctx, tok)
}

// persistingTokenSource saves every token that differs from the last one seen
type persistingTokenSource struct {
	ctx    context.Context
	base   oauth2.TokenSource
	store  TokenStore
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func newPersistingTokenSource(ctx context.Context, oc *oauth2.Config, tok *oauth2.Token, store TokenStore, logger *zap.Logger) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(tok, &persistingTokenSource{
		ctx:    ctx,
		base:   oc.TokenSource(ctx, tok),
		store:  store,
		logger: logger,
		last:   tok.AccessToken,
	})
}

// Token implements oauth2.TokenSource
func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.store.Save(p.ctx, tok); err != nil {
			p.logger.Warn("Failed to persist refreshed YouTube token", zap.Error(err))
		} else {
			p.logger.Info("YouTube credentials refreshed")
		}
	}
	return tok, nil
}

func expiryPtr(tok *oauth2.Token) *time.Time {
	if tok.Expiry.IsZero() {
		return nil
	}
	t := tok.Expiry.UTC()
	return &t
}
