package cache

import (
	"fmt"

	"booking-flow/internal/flow"
)

// SessionCache holds the live flows. An idle session expires with the TTL of
// the underlying cache; every read extends it.
type SessionCache struct {
	cch *ShardedCache
}

func NewSessionCache(cch *ShardedCache) *SessionCache {
	return &SessionCache{cch: cch}
}

func (s *SessionCache) PutSession(id string, sess flow.Session) {
	s.cch.Put(id, sess)
}

func (s *SessionCache) GetSession(id string) (flow.Session, error) {
	v, ok := s.cch.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	sess, ok := v.(flow.Session)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrWrongType)
	}
	s.cch.Touch(id)
	return sess, nil
}

// DeleteSession removes the session and detaches it so a pending submit
// cannot write into it after it is gone.
func (s *SessionCache) DeleteSession(id string) bool {
	v, ok := s.cch.Get(id)
	s.cch.Delete(id)
	if sess, isSess := v.(flow.Session); ok && isSess {
		sess.Detach()
	}
	return ok
}
