package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainauth "staycal/internal/domain/auth"
	domainuser "staycal/internal/domain/user"
)

const (
	sessionPrefix = "session:"
	userPrefix    = "session:user:"
)

// SessionStore keeps each session under its token with the session's own
// expiry, plus a per-user set of tokens for bulk revocation. The set lives
// as long as the newest session.
type SessionStore struct {
	client goredis.Cmdable
}

func NewSessionStore(client goredis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	ttl := session.TTL(time.Now())
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	body, err := json.Marshal(session)
	if err != nil {
		return err
	}
	userKey := userPrefix + string(session.UserID)
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionPrefix+string(session.Token), body, ttl)
		p.SAdd(ctx, userKey, string(session.Token))
		p.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	body, err := s.client.Get(ctx, sessionPrefix+string(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domainauth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domainauth.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, domainauth.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, sessionPrefix+string(token))
		p.SRem(ctx, userPrefix+string(session.UserID), string(token))
		return nil
	})
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	userKey := userPrefix + string(userID)
	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionPrefix+t)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
