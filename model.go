// Package ppview implements a valuation and performance engine for
// Portfolio Performance XML exports: the normalized domain model, point-in-
// time valuation (direct replay and an indexed fast path), and the
// performance metrics (TWR, IRR, capital flow, drawdown, volatility) built
// on top of it.
package ppview

import (
	"iter"

	"github.com/ppview/ppview/date"
)

// TxType tags a transaction with its economic meaning. Direction
// (inflow/outflow) is derived from the type only, never from the sign of
// the amount.
type TxType string

const (
	Buy              TxType = "BUY"
	Sell             TxType = "SELL"
	Deposit          TxType = "DEPOSIT"
	Removal          TxType = "REMOVAL"
	Withdrawal       TxType = "WITHDRAWAL"
	Dividend         TxType = "DIVIDEND"
	Interest         TxType = "INTEREST"
	Fees             TxType = "FEES"
	Taxes            TxType = "TAXES"
	DeliveryInbound  TxType = "DELIVERY_INBOUND"
	DeliveryOutbound TxType = "DELIVERY_OUTBOUND"
)

// CashEffect returns +1, -1 or 0 for the cash impact of the type, and false
// when the type is not part of the known vocabulary.
func (t TxType) CashEffect() (sign int, known bool) {
	switch t {
	case Deposit, Sell, Dividend, Interest:
		return +1, true
	case Withdrawal, Removal, Buy, Fees, Taxes:
		return -1, true
	case DeliveryInbound, DeliveryOutbound:
		// Pure security transfers, no cash leg.
		return 0, true
	default:
		return 0, false
	}
}

// ShareEffect returns +1 or -1 for the holding impact of the type, or 0
// when the type does not move shares.
func (t TxType) ShareEffect() int {
	switch t {
	case Buy, DeliveryInbound:
		return +1
	case Sell, DeliveryOutbound:
		return -1
	default:
		return 0
	}
}

// CrossEntry links a transaction to its mirrored double-entry counterpart
// in another container.
type CrossEntry struct {
	PortfolioID string
	Reference   string // UUID of the mirrored transaction
	Amount      float64
	Currency    string
}

// Transaction is a single cash or security movement. Amounts and shares are
// real-world magnitudes (the scaled wire integers are resolved at ingestion).
type Transaction struct {
	ID         string
	Date       date.Date
	Type       TxType
	Amount     float64
	Currency   string
	SecurityID string // empty when the transaction references no security
	Shares     float64
	Note       string
	CrossEntry *CrossEntry
}

// Security is a tradeable asset with its market price series. Prices are
// per-share values in the security's currency, ascending by date with at
// most one entry per day.
type Security struct {
	ID       string
	Name     string
	ISIN     string
	Ticker   string
	Currency string
	Prices   date.History[float64]
}

// Account holds cash-moving transactions (deposits, withdrawals, buys,
// sells, dividends, fees, taxes, interest).
type Account struct {
	ID           string
	Name         string
	Transactions []Transaction
}

// Portfolio holds security-moving transactions (buys, sells, deliveries).
// A transaction may be mirrored between an Account and a Portfolio under
// the same UUID; traversals that union both containers de-duplicate by ID.
type Portfolio struct {
	ID           string
	Name         string
	Transactions []Transaction
}

// TaxonomyNode is one node of a category tree. Leaf assignment nodes carry
// an Assignment referencing a security.
type TaxonomyNode struct {
	ID       string
	Name     string
	Color    string
	Children []*TaxonomyNode
	Data     *Assignment
}

// Assignment attaches a security to a category node with an optional weight.
type Assignment struct {
	SecurityID string
	Weight     float64
}

// PortfolioState is the aggregate every computation operates on. It is
// built once per ingestion and treated as immutable afterwards.
type PortfolioState struct {
	BaseCurrency string
	Securities   map[string]*Security
	Accounts     []Account
	Portfolios   []Portfolio
	Taxonomies   []*TaxonomyNode

	// categoriesByISIN maps a security's ISIN to the taxonomy category
	// nodes it is assigned to (the immediate parents of its assignment
	// leaves), de-duplicated by node ID.
	categoriesByISIN map[string][]*TaxonomyNode
}

// Security returns the security with the given UUID, or nil.
func (s *PortfolioState) Security(id string) *Security {
	return s.Securities[id]
}

// CategoriesFor returns the taxonomy category nodes a security belongs to,
// looked up by its ISIN.
func (s *PortfolioState) CategoriesFor(isin string) []*TaxonomyNode {
	return s.categoriesByISIN[isin]
}

// SetCategories records the ISIN to category-nodes index. It is called once
// by ingestion and by deserialization.
func (s *PortfolioState) SetCategories(index map[string][]*TaxonomyNode) {
	s.categoriesByISIN = index
}

// AllTransactions iterates the union of all account and portfolio
// transactions, de-duplicated by transaction ID: a mirrored transaction
// counts once, and the portfolio-side copy is the one kept, since it is
// the copy that carries the share count of the trade. Portfolios are
// iterated first, then accounts, each in container order; callers that
// need chronological order sort explicitly.
func (s *PortfolioState) AllTransactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		seen := make(map[string]struct{})
		emit := func(tx Transaction) bool {
			if _, ok := seen[tx.ID]; ok {
				return true
			}
			seen[tx.ID] = struct{}{}
			return yield(tx)
		}
		for _, p := range s.Portfolios {
			for _, tx := range p.Transactions {
				if !emit(tx) {
					return
				}
			}
		}
		for _, a := range s.Accounts {
			for _, tx := range a.Transactions {
				if !emit(tx) {
					return
				}
			}
		}
	}
}

// OldestTransactionDate returns the date of the earliest transaction in the
// state, or the zero Date when there are none.
func (s *PortfolioState) OldestTransactionDate() date.Date {
	var oldest date.Date
	for tx := range s.AllTransactions() {
		if oldest.IsZero() || tx.Date.Before(oldest) {
			oldest = tx.Date
		}
	}
	return oldest
}
