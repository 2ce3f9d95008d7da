package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sidCookie = "sid"
	keyPrefix = "session:"
)

// RedisStore keeps snapshots server side. The browser only holds a random id.
type RedisStore struct {
	rdb  redis.Cmdable
	opts Options
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore stores snapshots in rdb with the TTL from opts.
func NewRedisStore(rdb redis.Cmdable, opts Options) *RedisStore {
	return &RedisStore{rdb: rdb, opts: opts}
}

// Load reads the snapshot referenced by the sid cookie.
func (s *RedisStore) Load(r *http.Request) (*model.Club, error) {
	sid, ok := sessionID(r)
	if !ok {
		return nil, ErrNoSession
	}

	raw, err := s.rdb.Get(r.Context(), keyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var club model.Club
	if err := json.Unmarshal(raw, &club); err != nil {
		return nil, fmt.Errorf("%w: corrupt snapshot: %v", ErrNoSession, err)
	}
	return &club, nil
}

// Save writes the snapshot under a fresh id and drops the previous one.
func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, club model.Club) error {
	raw, err := json.Marshal(club)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ctx := r.Context()
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+sid, raw, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if old, ok := sessionID(r); ok {
		s.rdb.Del(ctx, keyPrefix+old)
	}

	http.SetCookie(w, newCookie(sidCookie, sid, s.opts))
	return nil
}

// Clear deletes the snapshot and expires the sid cookie.
func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	expireCookie(w, sidCookie, s.opts.Secure)
	sid, ok := sessionID(r)
	if !ok {
		return nil
	}
	if err := s.rdb.Del(r.Context(), keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sidCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
