package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubSender struct {
	verifyErr error
}

func (s *stubSender) Verify() error {
	return s.verifyErr
}

func (s *stubSender) Send(to, subject, html string) (string, error) {
	return "<id@test>", nil
}

type stubResolver struct {
	sender services.MailSender
	err    error
}

func (s *stubResolver) Resolve(companyID uuid.UUID) (services.MailSender, error) {
	return s.sender, s.err
}

func verifyRequest(t *testing.T, mc *MailerController) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("companyId", uuid.New().String()) })
	r.POST("/api/settings/mail-provider/verify", mc.VerifyMailProvider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/settings/mail-provider/verify", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return body
}

func TestVerifyMailProviderConnected(t *testing.T) {
	mc := &MailerController{Providers: &stubResolver{sender: &stubSender{}}}

	body := verifyRequest(t, mc)
	if body["connected"] != true {
		t.Errorf("expected connected=true, got %v", body)
	}
}

func TestVerifyMailProviderDialFailure(t *testing.T) {
	mc := &MailerController{Providers: &stubResolver{
		sender: &stubSender{verifyErr: apperrors.NewProvider(apperrors.ProviderUnavailable, nil)},
	}}

	body := verifyRequest(t, mc)
	if body["connected"] != false {
		t.Errorf("expected connected=false, got %v", body)
	}
	if body["error"] == "" || body["error"] == nil {
		t.Error("expected an error message on a failed dial")
	}
}

func TestVerifyMailProviderDisconnected(t *testing.T) {
	mc := &MailerController{Providers: &stubResolver{
		err: apperrors.NewProvider(apperrors.ProviderDisconnected, nil),
	}}

	body := verifyRequest(t, mc)
	if body["connected"] != false {
		t.Errorf("expected connected=false, got %v", body)
	}
}
