package voucher

import (
	"errors"
	"sync"

	"github.com/krazyTry/carbon-go/shared"
)

var ErrExists = errors.New("voucher exists")

// Memory is an in-memory ownership-ticket ledger: one voucher per strategy
// id, minted on creation and burned on deletion.
type Memory struct {
	mu     sync.Mutex
	owners map[shared.StrategyID]shared.Account
}

func NewMemory() *Memory {
	return &Memory{owners: make(map[shared.StrategyID]shared.Account)}
}

func (m *Memory) Mint(owner shared.Account, id shared.StrategyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner == "" {
		return shared.ErrInvalidAddress
	}
	if _, ok := m.owners[id]; ok {
		return ErrExists
	}
	m.owners[id] = owner
	return nil
}

func (m *Memory) Burn(id shared.StrategyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[id]; !ok {
		return shared.ErrStrategyDoesNotExist
	}
	delete(m.owners, id)
	return nil
}

func (m *Memory) OwnerOf(id shared.StrategyID) (shared.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[id]
	if !ok {
		return "", shared.ErrStrategyDoesNotExist
	}
	return owner, nil
}

// Transfer moves a voucher to a new owner.
func (m *Memory) Transfer(from, to shared.Account, id shared.StrategyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[id]
	if !ok {
		return shared.ErrStrategyDoesNotExist
	}
	if owner != from {
		return shared.ErrAccessDenied
	}
	if to == "" {
		return shared.ErrInvalidAddress
	}
	m.owners[id] = to
	return nil
}
