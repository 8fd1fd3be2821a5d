package common

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/campsite-finder/pkg/types"
)

const SessionCookie = "sid"

// 30 days
const sessionMaxAge = 2592000

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    strconv.Itoa(sessionId),
		Domain:   strings.TrimPrefix(hostOnly(r.Host), "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
		Path:     "/",
	})
}

func hostOnly(host string) string {
	if i := strings.LastIndexByte(host, ':'); i > 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}

// HandleSessionCookie returns the session id from the sid cookie. Requests
// without a valid one get a new session, which is tracked as started.
func HandleSessionCookie(trk types.Tracking, w http.ResponseWriter, r *http.Request) int {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sessionId, err := strconv.Atoi(c.Value); err == nil {
			return sessionId
		}
	}
	sessionId := generateSessionId()
	if trk != nil {
		go trk.TrackSession(sessionId, r)
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
