// services/provider.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/config"
	"bookpilot-backend/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// MailSender is the send capability the resolver yields for one tenant.
type MailSender interface {
	Verify() error
	Send(to, subject, html string) (messageID string, err error)
}

// ProviderResolver turns a tenant id into a ready-to-use mail transport.
type ProviderResolver interface {
	Resolve(companyID uuid.UUID) (MailSender, error)
}

// providerConfigStore is the settings lookup the resolver reads through. A
// tenant without a row yields (nil, nil); absence is not an error.
type providerConfigStore interface {
	MailProviderFor(companyID uuid.UUID) (*models.MailProviderConfig, error)
	UpdateTokens(id uuid.UUID, accessToken string, expiry *time.Time) error
}

// Resolver hides the oauth vs smtp vs legacy differences behind MailSender.
// Tenants without configuration (or with unknown/partial configuration)
// deliberately fall back to the process-wide legacy transport.
type Resolver struct {
	store providerConfigStore
	cfg   config.MailConfig
}

func NewResolver(db *gorm.DB, cfg config.MailConfig) *Resolver {
	return &Resolver{store: &gormProviderStore{db: db}, cfg: cfg}
}

func (r *Resolver) Resolve(companyID uuid.UUID) (MailSender, error) {
	pc, err := r.store.MailProviderFor(companyID)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return r.legacySender(), nil
	}

	switch pc.Provider {
	case models.ProviderSMTP:
		if pc.SMTPHost == "" {
			return r.legacySender(), nil
		}
		return r.smtpSender(pc), nil
	case models.ProviderOAuth:
		if pc.RefreshToken == "" {
			return nil, apperrors.NewProvider(apperrors.ProviderDisconnected,
				fmt.Errorf("no refresh token stored; tenant must re-authorize"))
		}
		if r.cfg.OAuthClientID == "" || r.cfg.OAuthClientSecret == "" {
			return nil, apperrors.NewProvider(apperrors.ProviderDisconnected,
				fmt.Errorf("oauth client credentials not configured"))
		}
		return r.oauthSender(pc), nil
	default:
		return r.legacySender(), nil
	}
}

// ---------- legacy / smtp ----------

type smtpPreset struct {
	host string
	port int
}

// Recognized consumer webmail families. Tenants pointing at one of these get
// the provider's dedicated submission settings instead of whatever generic
// host/port they typed; delivery is noticeably more reliable that way.
var webmailPresets = map[string]smtpPreset{
	"gmail.com":      {"smtp.gmail.com", 465},
	"googlemail.com": {"smtp.gmail.com", 465},
	"outlook.com":    {"smtp-mail.outlook.com", 587},
	"hotmail.com":    {"smtp-mail.outlook.com", 587},
	"live.com":       {"smtp-mail.outlook.com", 587},
	"yahoo.com":      {"smtp.mail.yahoo.com", 465},
	"zoho.com":       {"smtp.zoho.com", 465},
}

// presetForHost matches a configured host against the webmail families, by
// exact domain or suffix ("smtp.gmail.com" and "gmail.com" both match).
func presetForHost(host string) (smtpPreset, bool) {
	h := strings.ToLower(strings.TrimSpace(host))
	for domain, preset := range webmailPresets {
		if h == domain || strings.HasSuffix(h, "."+domain) {
			return preset, true
		}
	}
	return smtpPreset{}, false
}

type gomailSender struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
	timeout   time.Duration
}

func (r *Resolver) legacySender() MailSender {
	d := gomail.NewDialer(r.cfg.LegacyHost, r.cfg.LegacyPort,
		r.cfg.LegacyUsername, r.cfg.LegacyPassword)
	d.SSL = r.cfg.LegacyPort == 465
	return &gomailSender{
		dialer:    d,
		fromEmail: r.cfg.LegacyFromEmail,
		fromName:  r.cfg.LegacyFromName,
		timeout:   r.cfg.SendTimeout,
	}
}

func (r *Resolver) smtpSender(pc *models.MailProviderConfig) MailSender {
	host, port := pc.SMTPHost, pc.SMTPPort
	if preset, ok := presetForHost(host); ok {
		host, port = preset.host, preset.port
	}
	d := gomail.NewDialer(host, port, pc.SMTPUsername, pc.SMTPPassword)
	d.SSL = port == 465 // implicit TLS
	return &gomailSender{
		dialer:    d,
		fromEmail: pc.FromEmail,
		fromName:  pc.FromName,
		timeout:   r.cfg.SendTimeout,
	}
}

func (s *gomailSender) Verify() error {
	done := make(chan error, 1)
	go func() {
		closer, err := s.dialer.Dial()
		if err == nil {
			closer.Close()
		}
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			return apperrors.NewProvider(apperrors.ProviderUnavailable, err)
		}
		return nil
	case <-time.After(s.timeout):
		return apperrors.NewProvider(apperrors.ProviderUnavailable,
			fmt.Errorf("smtp dial timed out after %v", s.timeout))
	}
}

func (s *gomailSender) Send(to, subject, html string) (string, error) {
	msgID := newMessageID(s.fromEmail)
	m := buildMessage(s.fromEmail, s.fromName, to, subject, html, msgID)
	if err := sendWithTimeout(s.dialer, s.timeout, m); err != nil {
		return "", apperrors.NewProvider(apperrors.ProviderUnavailable, err)
	}
	return msgID, nil
}

// ---------- oauth ----------

type oauthSender struct {
	store   providerConfigStore
	pc      *models.MailProviderConfig
	conf    *oauth2.Config
	host    string
	port    int
	timeout time.Duration
}

func (r *Resolver) oauthSender(pc *models.MailProviderConfig) MailSender {
	return &oauthSender{
		store: r.store,
		pc:    pc,
		conf: &oauth2.Config{
			ClientID:     r.cfg.OAuthClientID,
			ClientSecret: r.cfg.OAuthClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: r.cfg.OAuthTokenURL},
		},
		host:    r.cfg.OAuthSMTPHost,
		port:    r.cfg.OAuthSMTPPort,
		timeout: r.cfg.SendTimeout,
	}
}

// freshToken exchanges the stored refresh token for a fresh access token on
// every call, and best-effort caches a changed token back to the tenant
// config. A cache write failure never blocks the send.
func (s *oauthSender) freshToken() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	src := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.pc.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, apperrors.NewProvider(apperrors.ProviderUnavailable, err)
	}

	if tok.AccessToken != s.pc.AccessToken {
		expiry := tok.Expiry
		if err := s.store.UpdateTokens(s.pc.ID, tok.AccessToken, &expiry); err != nil {
			log.Printf("Failed to cache refreshed token for company %s: %v", s.pc.CompanyID, err)
		}
		s.pc.AccessToken = tok.AccessToken
		s.pc.TokenExpiry = &expiry
	}
	return tok, nil
}

func (s *oauthSender) dialer(token string) *gomail.Dialer {
	d := &gomail.Dialer{
		Host:     s.host,
		Port:     s.port,
		Username: s.pc.OAuthEmail,
		SSL:      s.port == 465,
	}
	d.Auth = XOAUTH2(s.pc.OAuthEmail, token)
	return d
}

func (s *oauthSender) Verify() error {
	tok, err := s.freshToken()
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		closer, dialErr := s.dialer(tok.AccessToken).Dial()
		if dialErr == nil {
			closer.Close()
		}
		done <- dialErr
	}()
	select {
	case err := <-done:
		if err != nil {
			return apperrors.NewProvider(apperrors.ProviderUnavailable, err)
		}
		return nil
	case <-time.After(s.timeout):
		return apperrors.NewProvider(apperrors.ProviderUnavailable,
			fmt.Errorf("smtp dial timed out after %v", s.timeout))
	}
}

func (s *oauthSender) Send(to, subject, html string) (string, error) {
	tok, err := s.freshToken()
	if err != nil {
		return "", err
	}
	from := s.pc.FromEmail
	if from == "" {
		from = s.pc.OAuthEmail
	}
	msgID := newMessageID(from)
	m := buildMessage(from, s.pc.FromName, to, subject, html, msgID)
	if err := sendWithTimeout(s.dialer(tok.AccessToken), s.timeout, m); err != nil {
		return "", apperrors.NewProvider(apperrors.ProviderUnavailable, err)
	}
	return msgID, nil
}

// ---------- shared ----------

func buildMessage(fromEmail, fromName, to, subject, html, msgID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", fromEmail, fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", msgID)
	m.SetBody("text/html", html)
	return m
}

func newMessageID(fromEmail string) string {
	domain := "bookpilot.local"
	if at := strings.LastIndex(fromEmail, "@"); at >= 0 && at < len(fromEmail)-1 {
		domain = fromEmail[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.New(), domain)
}

// No timeout is enforced by the dialer itself, so sends run under a watchdog.
func sendWithTimeout(d *gomail.Dialer, timeout time.Duration, m *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("smtp send timed out after %v", timeout)
	}
}

// ---------- gorm-backed store ----------

type gormProviderStore struct {
	db *gorm.DB
}

func (g *gormProviderStore) MailProviderFor(companyID uuid.UUID) (*models.MailProviderConfig, error) {
	var pc models.MailProviderConfig
	err := g.db.Where("company_id = ?", companyID).First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

func (g *gormProviderStore) UpdateTokens(id uuid.UUID, accessToken string, expiry *time.Time) error {
	return g.db.Model(&models.MailProviderConfig{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"token_expiry": expiry,
		}).Error
}
