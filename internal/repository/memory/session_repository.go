package memory

import (
	"time"

	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps open chat sessions in process memory. Sessions are
// keyed by the domain cache prefix plus the conversation key, so a notebook
// and a legal case with the same id never collide. Idle sessions expire and
// are closed on eviction.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Idle sessions expire after an hour; expired items purge every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*chat.Session); ok {
			s.Close()
		}
	})
	return &SessionRepository{
		cache: c,
	}
}

func key(cfg chatdomain.Config, sessionKey string) string {
	return cfg.CacheKeyPrefix + sessionKey
}

func (r *SessionRepository) Save(cfg chatdomain.Config, sessionKey string, session *chat.Session) {
	r.cache.Set(key(cfg, sessionKey), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(cfg chatdomain.Config, sessionKey string) (*chat.Session, bool) {
	if x, found := r.cache.Get(key(cfg, sessionKey)); found {
		return x.(*chat.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(cfg chatdomain.Config, sessionKey string) {
	r.cache.Delete(key(cfg, sessionKey))
}
