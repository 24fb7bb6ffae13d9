package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/pkg/ident"
)

// SessionService issues and resolves anonymous identities. Sessions are
// persisted in Redis under a hashed token with a sliding TTL. When Redis
// is unreachable the service degrades to pseudo-identities: a random id
// signed into the token itself, good enough to key upvote membership but
// not persisted server-side.
type SessionService struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	prefix string
}

// sessionClaims is the signed token payload.
type sessionClaims struct {
	Sub    string `json:"sub"`
	JTI    string `json:"jti"`
	Pseudo bool   `json:"pseudo,omitempty"`
	Exp    int64  `json:"exp"`
}

// sessionData is the record stored in Redis for each session token.
type sessionData struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

var errInvalidToken = errors.New("invalid session token")

// NewSessionService connects to Redis for session persistence. An empty
// URL or failed connection degrades to pseudo-identity issuance.
func NewSessionService(redisURL, secret string, ttl time.Duration) *SessionService {
	s := &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		prefix: "session:",
	}

	if redisURL == "" {
		log.Println("sessions: no Redis URL, pseudo-identity fallback only")
		return s
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("sessions: invalid Redis URL, pseudo-identity fallback only: %v", err)
		return s
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("sessions: Redis unreachable, pseudo-identity fallback only: %v", err)
		return s
	}

	s.rdb = rdb
	return s
}

// NewSessionServiceWithClient creates a SessionService over an existing client.
func NewSessionServiceWithClient(rdb *redis.Client, secret string, ttl time.Duration) *SessionService {
	return &SessionService{rdb: rdb, secret: []byte(secret), ttl: ttl, prefix: "session:"}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (s *SessionService) Client() *redis.Client {
	return s.rdb
}

// Resolve returns the identity for a bearer token, or nil if the token is
// absent, malformed, expired, or revoked. A nil identity is not an error;
// it means the caller must sign in.
func (s *SessionService) Resolve(ctx context.Context, token string) *model.Identity {
	if token == "" {
		return nil
	}

	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}

	if claims.Pseudo {
		return &model.Identity{UserID: claims.Sub, Pseudo: true}
	}

	if s.rdb == nil {
		// Store unreachable but the token signature is ours; keep the
		// identity stable rather than forcing a new one.
		return &model.Identity{UserID: claims.Sub, Pseudo: true}
	}

	key := s.prefix + ident.HashToken(token)
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // revoked or expired
	}
	if err != nil {
		log.Printf("sessions: lookup error: %v", err)
		return &model.Identity{UserID: claims.Sub, Pseudo: true}
	}

	var data sessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	// Sliding expiry: touching the session keeps it alive.
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		log.Printf("sessions: expire refresh error: %v", err)
	}

	return &model.Identity{UserID: data.UserID}
}

// ResolveOrCreate returns the identity for a valid token, or issues a new
// anonymous session. Identity resolution always completes: if Redis is
// down a pseudo-identity is issued instead of failing.
func (s *SessionService) ResolveOrCreate(ctx context.Context, token string) (*model.SessionResponse, error) {
	if identity := s.Resolve(ctx, token); identity != nil {
		return &model.SessionResponse{
			UserID: identity.UserID,
			Token:  token,
			Pseudo: identity.Pseudo,
		}, nil
	}

	userID := ident.NewUserID()

	if s.rdb != nil {
		newToken, err := s.issueToken(sessionClaims{
			Sub: userID,
			JTI: uuid.NewString(),
			Exp: time.Now().Add(s.ttl).Unix(),
		})
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(sessionData{UserID: userID, CreatedAt: time.Now()})
		if err != nil {
			return nil, err
		}

		key := s.prefix + ident.HashToken(newToken)
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err == nil {
			return &model.SessionResponse{UserID: userID, Token: newToken}, nil
		} else {
			log.Printf("sessions: save error, falling back to pseudo-identity: %v", err)
		}
	}

	pseudoToken, err := s.issueToken(sessionClaims{
		Sub:    userID,
		JTI:    uuid.NewString(),
		Pseudo: true,
		Exp:    time.Now().Add(s.ttl).Unix(),
	})
	if err != nil {
		return nil, err
	}
	return &model.SessionResponse{UserID: userID, Token: pseudoToken, Pseudo: true}, nil
}

// SignOut revokes the session behind the token. Revoking an unknown or
// pseudo token is a no-op.
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	if token == "" || s.rdb == nil {
		return nil
	}
	if _, err := s.parseToken(token); err != nil {
		return nil
	}
	return s.rdb.Del(ctx, s.prefix+ident.HashToken(token)).Err()
}

// Close shuts down the Redis connection.
func (s *SessionService) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *SessionService) issueToken(claims sessionClaims) (string, error) {
	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return payload + "." + s.sign(payload), nil
}

func (s *SessionService) parseToken(token string) (sessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return sessionClaims{}, errInvalidToken
	}
	payload, signature := parts[0], parts[1]

	if !hmac.Equal([]byte(signature), []byte(s.sign(payload))) {
		return sessionClaims{}, errInvalidToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return sessionClaims{}, errInvalidToken
	}

	var claims sessionClaims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return sessionClaims{}, errInvalidToken
	}
	if claims.Sub == "" || claims.Exp == 0 {
		return sessionClaims{}, errInvalidToken
	}
	if time.Now().Unix() >= claims.Exp {
		return sessionClaims{}, errInvalidToken
	}
	return claims, nil
}

func (s *SessionService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
