package storage

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog/log"
)

const (
	principalTTL  = time.Minute
	maxPrincipals = 10000
)

// PrincipalStorage caches the principal of already verified bearer tokens.
type PrincipalStorage struct {
	cache *ristretto.Cache[string, *Principal]
}

type Principal struct {
	UserID string
	Email  string
	Name   string
	// ExpiresAt of the token the principal was taken from.
	ExpiresAt time.Time
}

func NewPrincipalStorage() *PrincipalStorage {
	c, err := ristretto.NewCache(&ristretto.Config[string, *Principal]{
		NumCounters: maxPrincipals * 10,
		MaxCost:     maxPrincipals,
		BufferItems: 64,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create principal storage")
	}

	return &PrincipalStorage{
		cache: c,
	}
}

// Get returns the cached principal unless its token expired meanwhile.
func (s *PrincipalStorage) Get(token string) (*Principal, bool) {
	p, ok := s.cache.Get(token)
	if !ok {
		return nil, false
	}
	if !p.ExpiresAt.IsZero() && !time.Now().Before(p.ExpiresAt) {
		s.Delete(token)
		return nil, false
	}
	return p, true
}

func (s *PrincipalStorage) Set(token string, p *Principal) {
	ttl := principalTTL
	if !p.ExpiresAt.IsZero() {
		if left := time.Until(p.ExpiresAt); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	s.cache.SetWithTTL(token, p, 1, ttl)
	s.cache.Wait()
}

func (s *PrincipalStorage) Delete(token string) {
	s.cache.Del(token)
	s.cache.Wait()
}
