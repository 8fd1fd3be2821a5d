package types

import (
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackSearch(sessionId int, filters FilterState, resultLen int, page int)
	Close() error
}
