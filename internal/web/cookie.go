package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

var cookieNameSession = "session_token"

// signSessionToken derives the cookie signature for a raw session token using the configured session secret
func (service *Service) signSessionToken(rawToken string) string {
	mac := hmac.New(sha256.New, []byte(service.Config.SessionSecret))
	mac.Write([]byte(rawToken))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// cookieValue builds the signed cookie value '<raw token>.<signature>'
func (service *Service) cookieValue(rawToken string) string {
	return rawToken + "." + service.signSessionToken(rawToken)
}

// verifyCookieValue splits a cookie value into raw token and signature and verifies the signature.
// A cookie whose signature does not match is treated as if no cookie was sent at all.
func (service *Service) verifyCookieValue(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i < 0 {
		return "", false
	}
	rawToken, signature := value[:i], value[i+1:]
	if !hmac.Equal([]byte(signature), []byte(service.signSessionToken(rawToken))) {
		return "", false
	}
	return rawToken, true
}

// setSessionCookie issues or updates the session cookie
func (service *Service) setSessionCookie(writer http.ResponseWriter, rawToken string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameSession,
		Value:    service.cookieValue(rawToken),
		Path:     "/",
		Secure:   service.Config.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// unsetSessionCookie invalidates the session cookie
func (service *Service) unsetSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameSession,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Second),
		HttpOnly: true,
	})
}
