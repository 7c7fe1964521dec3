package tokenfakerepo

import (
	"sort"
	"sync"

	apperrors "github.com/jrsteele09/go-grant-server/internal/errors"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/pkg/errors"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token.Repo. Records are copied in and out so
// callers cannot mutate stored state.
type FakeTokenRepo struct {
	tokens map[string]token.IssuedToken
	lock   sync.RWMutex
}

func NewFakeTokensRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]token.IssuedToken),
	}
}

func (tr *FakeTokenRepo) Upsert(issued *token.IssuedToken) error {
	if issued == nil || issued.Hash == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "[FakeTokenRepo.Upsert] token hash is required")
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.tokens[issued.Hash] = *issued
	return nil
}

func (tr *FakeTokenRepo) Get(hash string) (*token.IssuedToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	issued, ok := tr.tokens[hash]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return &issued, nil
}

func (tr *FakeTokenRepo) Delete(hash string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[hash]; !ok {
		return apperrors.ErrTokenNotFound
	}
	delete(tr.tokens, hash)
	return nil
}

func (tr *FakeTokenRepo) List(offset, limit int) ([]*token.IssuedToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	all := make([]*token.IssuedToken, 0, len(tr.tokens))
	for _, v := range tr.tokens {
		issued := v
		all = append(all, &issued)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].IssuedAt.Before(all[j].IssuedAt)
	})

	if offset < 0 || offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
