package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicstats/identity-api/internal/api/metrics"
	"github.com/civicstats/identity-api/internal/core/domain"
	"github.com/civicstats/identity-api/internal/core/ports"
)

const (
	smsCodeTTL = 10 * time.Minute
	loginScope = "snsapi_base"

	authorizeURL = "https://open.weixin.qq.com/connect/oauth2/authorize"
)

// AuthService implements the identity-binding flow: WeChat login, SMS phone
// verification, and registration completion.
type AuthService struct {
	users      ports.UserRepository
	wx         ports.WeChatClient
	wxTokens   ports.WxTokenCache
	sms        ports.SmsSender
	challenges ports.ChallengeStore
	issuer     *TokenIssuer
	wxAppID    string
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	wx ports.WeChatClient,
	wxTokens ports.WxTokenCache,
	sms ports.SmsSender,
	challenges ports.ChallengeStore,
	issuer *TokenIssuer,
	wxAppID string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		wx:         wx,
		wxTokens:   wxTokens,
		sms:        sms,
		challenges: challenges,
		issuer:     issuer,
		wxAppID:    wxAppID,
		log:        log,
	}
}

// LoginURL builds the WeChat authorize redirect per the official web-auth
// flow. Without a configured app credential the local stand-in endpoint is
// used so the flow stays walkable in development.
func (s *AuthService) LoginURL(scheme, host, redirectURI string) string {
	encoded := url.QueryEscape(redirectURI)
	if !s.wx.Configured() {
		return fmt.Sprintf("%s://%s/api/auth/login/FakeWeixinLogin?redirect_uri=%s&response_type=code&scope=%s#wechat_redirect",
			scheme, host, encoded, loginScope)
	}
	return fmt.Sprintf("%s?appid=%s&redirect_uri=%s&response_type=code&scope=%s#wechat_redirect",
		authorizeURL, s.wxAppID, encoded, loginScope)
}

// ExchangeCode resolves the OAuth code to a WeChat openid, finds or creates
// the matching user, and issues an access token. Exchanging the same code
// twice lands on the same user row both times.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (string, *domain.User, error) {
	openID := code // development mode: the code stands in for the openid
	loginMode := "dev"
	if s.wx.Configured() {
		loginMode = "wechat"
		wxToken, err := s.wx.ExchangeCode(ctx, code)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", domain.ErrWeChatExchange, err)
		}
		openID = wxToken.OpenID

		// Best-effort: a failed cache write must not abort the login.
		ttl := time.Duration(wxToken.ExpiresIn) * time.Second
		if err := s.wxTokens.Save(ctx, openID, wxToken, ttl); err != nil {
			s.log.Warn().Err(err).Msg("wechat token cache write failed")
		}
	}

	user, err := s.users.FindByOpenID(ctx, openID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.CreateWithOpenID(ctx, openID)
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues(loginMode).Inc()
	metrics.TokensIssuedTotal.Inc()
	s.log.Info().Int64("user_id", user.ID).Msg("access token issued")
	return token, user, nil
}

// SendSmsCode delivers a fresh verification code and records the challenge.
// No challenge is written when delivery fails, so a failed send cannot be
// verified against later.
func (s *AuthService) SendSmsCode(ctx context.Context, userID int64, mob string) (int, error) {
	bound, err := s.users.PhoneBoundToOther(ctx, mob, userID)
	if err != nil {
		return 0, err
	}
	if bound {
		return 0, domain.ErrPhoneAlreadyBound
	}

	code, err := generateSmsCode()
	if err != nil {
		return 0, err
	}

	if err := s.sms.SendCode(ctx, mob, code); err != nil {
		metrics.SmsSentTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%w: %v", domain.ErrSmsDelivery, err)
	}
	metrics.SmsSentTotal.WithLabelValues("ok").Inc()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash sms code: %w", err)
	}

	ch := &domain.SmsChallenge{
		Mob:       mob,
		CodeHash:  string(hash),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.challenges.Save(ctx, userID, ch, smsCodeTTL); err != nil {
		return 0, err
	}

	s.log.Info().Int64("user_id", userID).Msg("sms challenge issued")
	return int(smsCodeTTL.Seconds()), nil
}

// VerifySmsCode validates mob+code against the pending challenge and binds
// the phone on success. Any mismatch (wrong phone, wrong code, expired or
// absent challenge) is reported as false rather than an error so the
// response never reveals which part was off.
func (s *AuthService) VerifySmsCode(ctx context.Context, userID int64, mob, code string) (bool, error) {
	ch, err := s.challenges.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	if ch == nil || ch.Mob != mob {
		return false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		return false, nil
	}

	if err := s.users.SetPhone(ctx, userID, mob); err != nil {
		return false, err
	}

	s.log.Info().Int64("user_id", userID).Msg("phone verified")
	return true, nil
}

// CompleteRegistration fills in the profile fields for a phone-verified
// user. The stored phone must match the submitted one; otherwise the user
// has not verified this number and the update is refused outright instead
// of silently matching zero rows.
func (s *AuthService) CompleteRegistration(ctx context.Context, in ports.CompleteRegistrationInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !user.PhoneVerified() || user.Mob != in.Mob {
		return nil, domain.ErrPhoneNotVerified
	}

	updated, err := s.users.UpdateProfile(ctx, in.UserID, in.Name, in.IDCardNumber, in.Birthday)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", in.UserID).Msg("registration completed")
	return updated, nil
}

// generateSmsCode draws uniformly from [0, 999999] and zero-pads, so every
// six-digit code is equally likely, leading zeros included.
func generateSmsCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate sms code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
