package memory

import (
	"context"
	"sync"
	"time"

	domainauth "staycal/internal/domain/auth"
	domainuser "staycal/internal/domain/user"
)

// SessionStore keeps bearer sessions in process. Expired sessions are
// dropped lazily on read.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[domainauth.Token]domainauth.Session
	byUser map[domainuser.ID]map[domainauth.Token]struct{}
	now    func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens: make(map[domainauth.Token]domainauth.Session),
		byUser: make(map[domainuser.ID]map[domainauth.Token]struct{}),
		now:    time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = *session
	index, ok := s.byUser[session.UserID]
	if !ok {
		index = make(map[domainauth.Token]struct{})
		s.byUser[session.UserID] = index
	}
	index[session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	session, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil
	}
	delete(s.tokens, token)
	if index, ok := s.byUser[session.UserID]; ok {
		delete(index, token)
		if len(index) == 0 {
			delete(s.byUser, session.UserID)
		}
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.byUser[userID] {
		delete(s.tokens, token)
	}
	delete(s.byUser, userID)
	return nil
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
