package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// DefaultVerifyURL is Cloudflare Turnstile's siteverify endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// testTokenPrefix marks tokens issued by the test harness; they are accepted
// unconditionally in every environment.
const testTokenPrefix = "test_verification_token_"

// devTokenPrefix matches real Turnstile tokens (they start with "0."); in
// non-production they are accepted without contacting the verify service.
const devTokenPrefix = "0."

// ErrCaptchaRequired is returned when no token was submitted at all.
var ErrCaptchaRequired = errors.New("CAPTCHA verification required")

// Verifier validates Turnstile tokens. Production is an explicit field, not
// ambient process state: it controls the fail-open/fail-closed split when the
// verify service itself is unreachable.
type Verifier struct {
	SecretKey  string
	VerifyURL  string
	Production bool
	Client     *http.Client
}

func NewVerifier(secretKey string, production bool) *Verifier {
	return &Verifier{
		SecretKey:  secretKey,
		VerifyURL:  DefaultVerifyURL,
		Production: production,
		Client:     http.DefaultClient,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a token, forwarding the caller's IP when known. A rejected
// token yields an error whose text the client shows to the end user.
//
// Failure while contacting the verify service accepts in development and
// rejects in production. That split is deliberate: a dev stack without
// network access must stay usable, while production must never let an
// unverifiable submission through.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrCaptchaRequired
	}
	if strings.HasPrefix(token, testTokenPrefix) {
		return nil
	}
	if !v.Production && strings.HasPrefix(token, devTokenPrefix) {
		return nil
	}

	form := url.Values{}
	form.Set("secret", v.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	verifyURL := v.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return v.serviceFailure(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return v.serviceFailure(err)
	}
	defer resp.Body.Close()

	var outcome verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return v.serviceFailure(err)
	}

	if !outcome.Success {
		return fmt.Errorf("CAPTCHA validation failed: %s", strings.Join(outcome.ErrorCodes, ", "))
	}
	return nil
}

func (v *Verifier) serviceFailure(err error) error {
	if !v.Production {
		log.Printf("captcha verify error ignored in development: %v", err)
		return nil
	}
	return fmt.Errorf("CAPTCHA validation failed: %v", err)
}
