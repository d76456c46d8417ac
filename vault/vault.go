package vault

import (
	"math/big"
	"sync"

	"github.com/krazyTry/carbon-go/shared"
)

// Memory is an in-memory funds-movement port for tests and simulation. It
// tracks external account balances plus the engine's own holdings.
type Memory struct {
	mu       sync.Mutex
	accounts map[shared.Token]map[shared.Account]*big.Int
	holdings map[shared.Token]*big.Int
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[shared.Token]map[shared.Account]*big.Int),
		holdings: make(map[shared.Token]*big.Int),
	}
}

// Fund credits an external account, simulating an outside deposit.
func (m *Memory) Fund(token shared.Token, account shared.Account, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creditAccount(token, account, amount)
}

// Deposit credits the engine's own holdings directly, simulating fees or
// protocol-owned inventory arriving from outside.
func (m *Memory) Deposit(token shared.Token, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creditHoldings(token, amount)
}

func (m *Memory) creditAccount(token shared.Token, account shared.Account, amount *big.Int) {
	if m.accounts[token] == nil {
		m.accounts[token] = make(map[shared.Account]*big.Int)
	}
	if m.accounts[token][account] == nil {
		m.accounts[token][account] = new(big.Int)
	}
	m.accounts[token][account].Add(m.accounts[token][account], amount)
}

func (m *Memory) creditHoldings(token shared.Token, amount *big.Int) {
	if m.holdings[token] == nil {
		m.holdings[token] = new(big.Int)
	}
	m.holdings[token].Add(m.holdings[token], amount)
}

func (m *Memory) TransferIn(token shared.Token, from shared.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return shared.ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.accounts[token][from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return shared.ErrInsufficientAmountForTrading
	}
	balance.Sub(balance, amount)
	m.creditHoldings(token, amount)
	return nil
}

func (m *Memory) TransferOut(token shared.Token, to shared.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return shared.ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	holding := m.holdings[token]
	if holding == nil || holding.Cmp(amount) < 0 {
		return shared.ErrInsufficientAmountForTrading
	}
	holding.Sub(holding, amount)
	m.creditAccount(token, to, amount)
	return nil
}

// BalanceOf reports the engine's holdings of a token.
func (m *Memory) BalanceOf(token shared.Token) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.holdings[token]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// AccountBalance reports an external account's balance.
func (m *Memory) AccountBalance(token shared.Token, account shared.Account) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.accounts[token][account]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}
