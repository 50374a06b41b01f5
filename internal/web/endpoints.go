package web

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// EndpointHome handles the 'GET /' endpoint
func (service *Service) EndpointHome(writer http.ResponseWriter, _ *http.Request) {
	service.renderer.render(writer, "index.html", viewData{})
}

// EndpointAbout handles the 'GET /about' endpoint
func (service *Service) EndpointAbout(writer http.ResponseWriter, _ *http.Request) {
	service.renderer.render(writer, "about.html", viewData{})
}

// EndpointLoginForm handles the 'GET /login' endpoint
func (service *Service) EndpointLoginForm(writer http.ResponseWriter, _ *http.Request) {
	service.renderer.render(writer, "login.html", viewData{})
}

// EndpointLogin handles the 'POST /login' endpoint
func (service *Service) EndpointLogin(writer http.ResponseWriter, request *http.Request) {
	username := request.FormValue("username")
	password := request.FormValue("password")

	idToken, ok := service.Identity.Authenticate(request.Context(), username, password)
	if !ok {
		service.renderer.render(writer, "login.html", viewData{Error: "Invalid credentials"})
		return
	}

	expires := time.Now().Add(service.Config.SessionLifetime).Unix()
	rawToken, err := service.Sessions.Create(request.Context(), idToken, expires)
	if err != nil {
		log.Error().Err(err).Msg("could not create a session")
		service.renderer.render(writer, "login.html", viewData{Error: "Login failed. Please try again."})
		return
	}

	service.setSessionCookie(writer, rawToken)
	http.Redirect(writer, request, "/", http.StatusFound)
}

// EndpointLogout handles the 'GET /logout' endpoint.
// Logging out without a session is a no-op and succeeds as well.
func (service *Service) EndpointLogout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(cookieNameSession); err == nil {
		if rawToken, ok := service.verifyCookieValue(cookie.Value); ok {
			if err := service.Sessions.Terminate(request.Context(), rawToken); err != nil {
				log.Error().Err(err).Msg("could not terminate a session")
			}
		}
	}

	service.unsetSessionCookie(writer)
	http.Redirect(writer, request, "/login", http.StatusFound)
}

// EndpointGenerateStory handles the 'POST /generate-story' endpoint
func (service *Service) EndpointGenerateStory(writer http.ResponseWriter, request *http.Request) {
	topic := request.FormValue("topic")
	if topic == "" {
		service.renderer.render(writer, "index.html", viewData{Error: "Please provide a topic for the story."})
		return
	}

	text, ok := service.Stories.Generate(request.Context(), topic)
	if !ok {
		service.renderer.render(writer, "index.html", viewData{Error: "Failed to generate story."})
		return
	}

	service.renderer.render(writer, "index.html", viewData{Story: text})
}
