package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/debounce"
	"github.com/fakhrymubarak/weather-locator/internal/geolocation"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
	"github.com/fakhrymubarak/weather-locator/internal/service"
)

const sessionCookie = "weather_session"

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface

	sessions  *service.Sessions
	debouncer *debounce.Debouncer
	positions *geolocation.Cache
}

func NewWeatherHandler(svc ...service.WeatherServiceInterface) *WeatherHandler {
	var weatherService service.WeatherServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		weatherService = svc[0]
	} else {
		weatherService = service.NewWeatherService(service.Deps{})
	}
	return &WeatherHandler{
		WeatherService: weatherService,
		sessions:       service.NewSessions(config.GetSessionExpiration()),
		debouncer:      debounce.New(config.GetSuggestionDebounce()),
		positions:      geolocation.NewCache(config.GetGeolocationMaximumAge()),
	}
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

func (h *WeatherHandler) writeServiceError(w http.ResponseWriter, err error) {
	h.writeError(w, statusFor(err), service.UserMessage(err))
}

// statusFor maps a failure class to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrStartupFailed):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrInvalidCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrExcludedPlace):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrNetwork), errors.Is(err, repository.ErrInvalidPayload):
		return http.StatusBadGateway
	case errors.Is(err, repository.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// session returns the caller's session, issuing a cookie when it is new.
func (h *WeatherHandler) session(w http.ResponseWriter, r *http.Request) *service.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess := h.sessions.Get(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(config.GetSessionExpiration().Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (h *WeatherHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, model.Response{Message: "pong"})
}

// HandleWeather searches by place name.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		h.writeServiceError(w, service.ErrEmptyQuery)
		return
	}

	sess := h.session(w, r)
	view, err := h.WeatherService.Search(r.Context(), sess, location)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    view,
		Message: "Success",
	})
}

// HandleCoordinates shows the weather at lat/lon. name carries the display
// name of a picked suggestion so no reverse lookup is needed.
func (h *WeatherHandler) HandleCoordinates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, ok := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if !ok {
		h.writeServiceError(w, service.ErrInvalidCoordinates)
		return
	}

	sess := h.session(w, r)
	view, err := h.WeatherService.ByCoordinates(r.Context(), sess, lat, lon, q.Get("name"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    view,
		Message: "Success",
	})
}

type startupPayload struct {
	Weather *model.WeatherView `json:"weather"`
	State   string             `json:"state"`
	Trace   []string           `json:"trace"`
}

// HandleStartup picks the first place to show. The client passes the
// device position as lat/lon, or denied=true when the user refused it.
func (h *WeatherHandler) HandleStartup(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	locator := h.startupLocator(sess.ID, r)

	view, res, err := h.WeatherService.Startup(r.Context(), sess, locator)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	payload := startupPayload{Weather: view, State: res.State.String()}
	for _, s := range res.Trace {
		payload.Trace = append(payload.Trace, s.String())
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    payload,
		Message: "Success",
	})
}

// startupLocator turns the request into a one-shot position source. A
// reported position is remembered per session so a later startup without
// one can reuse it within the maximum age.
func (h *WeatherHandler) startupLocator(sessionID string, r *http.Request) geolocation.Locator {
	q := r.URL.Query()
	if denied, _ := strconv.ParseBool(q.Get("denied")); denied {
		return geolocation.Static{Err: geolocation.ErrPermissionDenied}
	}
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, lon, ok := parseCoordinates(q.Get("lat"), q.Get("lon"))
		if !ok {
			return geolocation.Static{Err: geolocation.ErrPositionUnavailable}
		}
		pos := geolocation.Position{Latitude: lat, Longitude: lon}
		h.positions.Remember(sessionID, pos)
		return geolocation.Static{Position: &pos}
	}

	var fallback geolocation.Locator
	if lat, lon, ok := config.GetStaticPosition(); ok {
		fallback = geolocation.Static{Position: &geolocation.Position{Latitude: lat, Longitude: lon}}
	}
	return h.positions.Locator(sessionID, fallback)
}

// HandleSuggestions answers autocomplete queries. Only the last request of a
// burst from one session is answered; earlier ones get 204.
func (h *WeatherHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	latest, err := h.debouncer.Wait(r.Context(), sess.ID)
	if err != nil {
		return
	}
	if !latest {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	suggestions, err := h.WeatherService.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    suggestions,
		Message: "Success",
	})
}

// HandlePreference returns the remembered display name.
func (h *WeatherHandler) HandlePreference(w http.ResponseWriter, r *http.Request) {
	name, ok := h.WeatherService.LastSearch(r.Context())
	if !ok {
		h.writeError(w, http.StatusNotFound, "No city searched yet")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    map[string]string{config.GetPreferenceKey(): name},
		Message: "Success",
	})
}

func parseCoordinates(latStr, lonStr string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
