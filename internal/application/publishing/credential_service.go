package publishing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/youtube"
)

// OAuthClient runs the YouTube consent flow
type OAuthClient interface {
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	ListChannelsWithToken(ctx context.Context, tok *oauth2.Token) ([]youtube.Channel, error)
}

// StateSigner issues and checks OAuth state tokens
type StateSigner interface {
	Sign(platform string) (string, error)
	Verify(token string) (string, error)
}

// CredentialService connects platform accounts and manages their tokens
type CredentialService struct {
	repo      publishing.CredentialRepository
	oauth     OAuthClient
	states    StateSigner
	tokenFile youtube.TokenStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewCredentialService creates a new CredentialService. tokenFile may be
// nil; when set, authorised tokens are also written to it.
func NewCredentialService(repo publishing.CredentialRepository, oauth OAuthClient, states StateSigner, tokenFile youtube.TokenStore, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{
		repo:      repo,
		oauth:     oauth,
		states:    states,
		tokenFile: tokenFile,
		logger:    logger,
		now:       time.Now,
	}
}

func youtubeOnly(raw string) error {
	p, err := publishing.ParsePlatform(raw)
	if err != nil {
		return err
	}
	if p != publishing.PlatformYouTube {
		return publishing.UnsupportedPlatformError(p)
	}
	return nil
}

func oauthError(err error) error {
	if errors.Is(err, youtube.ErrNotConfigured) {
		return shared.WrapDomainError(shared.CodeNotConfigured, "YouTube OAuth client is not configured", err)
	}
	return shared.WrapDomainError(shared.CodeExternalService, "YouTube authorisation failed", err)
}

// AuthURL returns the consent URL with a signed state for platform
func (s *CredentialService) AuthURL(_ context.Context, platform string) (*AuthURLResponse, error) {
	if err := youtubeOnly(platform); err != nil {
		return nil, err
	}
	state, err := s.states.Sign(string(publishing.PlatformYouTube))
	if err != nil {
		return nil, err
	}
	url, err := s.oauth.AuthCodeURL(state)
	if err != nil {
		return nil, oauthError(err)
	}
	return &AuthURLResponse{Platform: string(publishing.PlatformYouTube), AuthURL: url, State: state}, nil
}

// HandleCallback verifies the state issued by AuthURL and stores the
// authorised account
func (s *CredentialService) HandleCallback(ctx context.Context, platform, state, code string) (*CredentialResponse, error) {
	if err := youtubeOnly(platform); err != nil {
		return nil, err
	}
	signed, err := s.states.Verify(state)
	if err != nil || signed != string(publishing.PlatformYouTube) {
		s.logger.Warn("Rejected OAuth callback", zap.Error(err))
		return nil, publishing.ErrInvalidOAuthState
	}
	if code == "" {
		return nil, shared.InvalidInputf("code is required")
	}
	return s.Authorize(ctx, code)
}

// Authorize exchanges code for a token, checks that the account owns a
// channel and upserts the YouTube credential
func (s *CredentialService) Authorize(ctx context.Context, code string) (*CredentialResponse, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, oauthError(err)
	}
	channels, err := s.oauth.ListChannelsWithToken(ctx, tok)
	if err != nil {
		s.logger.Error("Failed to verify YouTube channel", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeExternalService, "Failed to verify YouTube channel", err)
	}
	if len(channels) == 0 {
		return nil, shared.InvalidStatef("The authorised account has no YouTube channel")
	}

	cred, err := s.repo.FindByPlatform(ctx, publishing.PlatformYouTube)
	if errors.Is(err, shared.ErrNotFound) {
		cred = publishing.NewPlatformCredential(publishing.PlatformYouTube)
	} else if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if !tok.Expiry.IsZero() {
		t := tok.Expiry.UTC()
		expiresAt = &t
	}
	cred.UpdateTokens(tok.AccessToken, tok.RefreshToken, expiresAt, s.now())
	cred.ChannelID = channels[0].ID
	cred.CredentialsJSON = map[string]any{
		channelTitleKey: channels[0].Title,
		"token_type":    tok.TokenType,
		"scopes":        youtube.Scopes,
	}
	if err := s.repo.Save(ctx, cred); err != nil {
		return nil, err
	}

	if s.tokenFile != nil {
		if err := s.tokenFile.Save(ctx, tok); err != nil {
			s.logger.Warn("Failed to write YouTube token file", zap.Error(err))
		}
	}
	s.logger.Info("YouTube account connected",
		zap.String("channel_id", cred.ChannelID),
		zap.Bool("offline_access", cred.HasRefreshToken()),
	)
	resp := ToCredentialResponse(cred)
	return &resp, nil
}

// List describes every stored credential
func (s *CredentialService) List(ctx context.Context) ([]CredentialResponse, error) {
	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CredentialResponse, len(creds))
	for i := range creds {
		out[i] = ToCredentialResponse(&creds[i])
	}
	return out, nil
}

// Deactivate disables the credential of platform
func (s *CredentialService) Deactivate(ctx context.Context, platform string) (*CredentialResponse, error) {
	p, err := publishing.ParsePlatform(platform)
	if err != nil {
		return nil, err
	}
	cred, err := s.repo.FindByPlatform(ctx, p)
	if err != nil {
		return nil, err
	}
	cred.Deactivate(s.now())
	if err := s.repo.Save(ctx, cred); err != nil {
		return nil, err
	}
	resp := ToCredentialResponse(cred)
	return &resp, nil
}
