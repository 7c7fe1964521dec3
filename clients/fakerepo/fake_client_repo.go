package fakeclientrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-grant-server/clients"
	apperrors "github.com/jrsteele09/go-grant-server/internal/errors"
	"github.com/pkg/errors"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	clients map[string]clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(clientData *clients.Client) error {
	if clientData == nil || clientData.ID == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "[FakeClientRepo.Upsert] client id is required")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clients[clientData.ID] = *clientData
	return nil
}

func (r *FakeClientRepo) Delete(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.clients[clientID]; !ok {
		return apperrors.ErrClientNotFound
	}
	delete(r.clients, clientID)
	return nil
}

func (r *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, apperrors.ErrClientNotFound
	}
	return &client, nil
}

func (r *FakeClientRepo) List(offset, limit int) ([]*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*clients.Client, 0, len(r.clients))
	for _, v := range r.clients {
		client := v
		all = append(all, &client)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
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
