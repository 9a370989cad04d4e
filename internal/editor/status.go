package editor

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const statusKey = "message"

// statusMessages holds the transient message shown in the status bar.
// Expired messages read back as empty. A ttl of zero keeps a message until
// it is replaced.
type statusMessages struct {
	cache *gocache.Cache
}

func newStatusMessages(ttl time.Duration) *statusMessages {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	// No janitor: expiry is checked on read, so no goroutine is started.
	return &statusMessages{cache: gocache.New(ttl, 0)}
}

func (s *statusMessages) Set(msg string) {
	s.cache.SetDefault(statusKey, msg)
}

func (s *statusMessages) Get() string {
	v, ok := s.cache.Get(statusKey)
	if !ok {
		return ""
	}
	msg, _ := v.(string)
	return msg
}
