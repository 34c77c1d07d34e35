package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// memStore backs both repositories for handler tests.
type memStore struct {
	mu        sync.Mutex
	rawLeads  map[string]*entity.RawLead
	leads     map[string]*entity.Lead
	seq       int
	leadErr   error
	linkErr   error
	rawErr    error
	rawWrites int
}

func newMemStore() *memStore {
	return &memStore{rawLeads: map[string]*entity.RawLead{}, leads: map[string]*entity.Lead{}}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type memRawLeads struct{ s *memStore }

func (r memRawLeads) Create(_ context.Context, raw *entity.RawLead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rawWrites++
	if r.s.rawErr != nil {
		return r.s.rawErr
	}
	raw.ID = r.s.nextID("raw")
	cp := *raw
	r.s.rawLeads[raw.ID] = &cp
	return nil
}

func (r memRawLeads) FindByID(_ context.Context, id string) (*entity.RawLead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	raw, ok := r.s.rawLeads[id]
	if !ok {
		return nil, entity.ErrRawLeadNotFound
	}
	cp := *raw
	return &cp, nil
}

func (r memRawLeads) MarkConverted(_ context.Context, rawLeadID, leadID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.linkErr != nil {
		return r.s.linkErr
	}
	raw, ok := r.s.rawLeads[rawLeadID]
	if !ok {
		return entity.ErrRawLeadNotFound
	}
	if raw.ConvertedToLead {
		return entity.ErrRawLeadAlreadyConverted
	}
	raw.Processed = true
	raw.ConvertedToLead = true
	raw.LinkedLeadID = &leadID
	raw.ConversionTimestamp = &at
	return nil
}

func (r memRawLeads) FindUnconvertedOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*entity.RawLead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.RawLead
	for _, raw := range r.s.rawLeads {
		if !raw.ConvertedToLead && raw.CreatedAt.Before(cutoff) && len(out) < limit {
			cp := *raw
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memLeads struct{ s *memStore }

func (l memLeads) Create(_ context.Context, lead *entity.Lead) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.leadErr != nil {
		return l.s.leadErr
	}
	lead.ID = l.s.nextID("lead")
	lead.CreatedAt = time.Now()
	cp := *lead
	l.s.leads[lead.ID] = &cp
	return nil
}

func (l memLeads) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	lead, ok := l.s.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	cp := *lead
	return &cp, nil
}
