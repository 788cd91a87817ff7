package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "session"

// RedisStore keeps sessions in Redis. Keys expire together with the session.
//
// Key layout under the prefix:
//
//	{prefix}:token:{token} -> JSON session
//	{prefix}:id:{id}       -> token
//	{prefix}:user:{userID} -> set of session IDs
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store. An empty prefix defaults to "session".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) tokenKey(token string) string { return r.prefix + ":token:" + token }
func (r *RedisStore) idKey(id string) string       { return r.prefix + ":id:" + id }
func (r *RedisStore) userKey(uid string) string    { return r.prefix + ":user:" + uid }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.save(ctx, s, "")
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		_ = r.Delete(ctx, s.ID)
		return nil, ErrExpired
	}
	return s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	old, err := r.client.Get(ctx, r.idKey(s.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.save(ctx, s, old)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var userID string
	if data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes(); err == nil {
		if s, err := decode(data); err == nil && s.UserID != nil {
			userID = *s.UserID
		}
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.tokenKey(token), r.idKey(id))
		if userID != "" {
			p.SRem(ctx, r.userKey(userID), id)
		}
		return nil
	})
	return err
}

func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.userKey(userID)).Err()
}

func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt, expiresAt time.Time) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s, err := decode(data)
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt
	s.ExpiresAt = expiresAt
	return r.save(ctx, s, token)
}

// save writes the session and its indexes. oldToken is removed when it differs.
func (r *RedisStore) save(ctx context.Context, s *Session, oldToken string) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	ttl := max(time.Until(s.ExpiresAt), time.Second)

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if oldToken != "" && oldToken != s.Token {
			p.Del(ctx, r.tokenKey(oldToken))
		}
		p.Set(ctx, r.tokenKey(s.Token), data, ttl)
		p.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if s.UserID != nil && *s.UserID != "" {
			p.SAdd(ctx, r.userKey(*s.UserID), s.ID)
		}
		return nil
	})
	return err
}

var _ Store = (*RedisStore)(nil)
