package web

import (
	"context"
	"net/http"

	"github.com/OmarCloud20/bedtime-stories/internal/session"
	"github.com/rs/zerolog/log"
)

var contextValueSession = "session"

// MiddlewareVerifySession makes sure that the requesting browser holds a valid session.
// Requests without one are redirected to the login page; no story generation or
// main view is ever reachable without a session holding an identity token.
// Additionally, it injects the session object itself into the request context.
func (service *Service) MiddlewareVerifySession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ses := service.requestSession(request)
		if ses == nil {
			http.Redirect(writer, request, "/login", http.StatusFound)
			return
		}

		// Delegate to the next handler
		request = request.WithContext(context.WithValue(request.Context(), contextValueSession, ses))
		next(writer, request)
	}
}

// requestSession resolves the session a request belongs to.
// It returns nil if the request carries no cookie, a tampered cookie, an
// unknown token or an expired session.
func (service *Service) requestSession(request *http.Request) *session.Session {
	cookie, err := request.Cookie(cookieNameSession)
	if err != nil {
		return nil
	}
	rawToken, ok := service.verifyCookieValue(cookie.Value)
	if !ok {
		return nil
	}

	ses, err := service.Sessions.GetByRawToken(request.Context(), rawToken)
	if err != nil {
		log.Error().Err(err).Msg("could not look up a session")
		return nil
	}
	if ses == nil || ses.IsExpired() || ses.IDToken == "" {
		return nil
	}
	return ses
}
