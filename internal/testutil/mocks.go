package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
)

// MockAuditRepository is an in-memory audit.Repository. Set Err to make
// every call fail, which is how the stale-cache path is exercised.
type MockAuditRepository struct {
	Entries []*audit.Entry
	Err     error
}

func (m *MockAuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *MockAuditRepository) ListSince(ctx context.Context, since time.Time) ([]*audit.Entry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*audit.Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockAuditRepository) ListWithPagination(ctx context.Context, filter audit.Filter, limit, offset int) ([]*audit.Entry, int64, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	matched := make([]*audit.Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if filter.AgentID != "" && e.AgentID != filter.AgentID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// MockThresholdRepository is an in-memory threshold.Repository.
type MockThresholdRepository struct {
	Config *threshold.Config
	Err    error
}

func (m *MockThresholdRepository) Get(ctx context.Context) (*threshold.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Config, nil
}

func (m *MockThresholdRepository) Save(ctx context.Context, cfg *threshold.Config) error {
	if m.Err != nil {
		return m.Err
	}
	c := *cfg
	m.Config = &c
	return nil
}

// MockDismissalRepository is an in-memory dismissal.Repository.
type MockDismissalRepository struct {
	IDs map[string]struct{}
	Err error
}

func NewMockDismissalRepository() *MockDismissalRepository {
	return &MockDismissalRepository{IDs: make(map[string]struct{})}
}

func (m *MockDismissalRepository) Add(ctx context.Context, alertID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.IDs[alertID] = struct{}{}
	return nil
}

func (m *MockDismissalRepository) Remove(ctx context.Context, alertID string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.IDs, alertID)
	return nil
}

func (m *MockDismissalRepository) List(ctx context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ids := make([]string, 0, len(m.IDs))
	for id := range m.IDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MockAgentRepository is an in-memory agent.Repository.
type MockAgentRepository struct {
	Agents map[string]agent.Info
	Err    error
}

func (m *MockAgentRepository) GetByIDs(ctx context.Context, ids []string) (map[string]agent.Info, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]agent.Info, len(ids))
	for _, id := range ids {
		if info, ok := m.Agents[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func (m *MockAgentRepository) List(ctx context.Context) ([]agent.Info, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	agents := make([]agent.Info, 0, len(m.Agents))
	for _, info := range m.Agents {
		agents = append(agents, info)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

func (m *MockAgentRepository) Upsert(ctx context.Context, info agent.Info) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Agents == nil {
		m.Agents = make(map[string]agent.Info)
	}
	m.Agents[info.ID] = info
	return nil
}
