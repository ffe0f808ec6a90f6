package ppview

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ppview/ppview/date"
)

// The serialized form is plain structural data for the isolation boundary:
// keyed collections become explicit key/value pair lists, dates become ISO
// strings and taxonomy references become node ids. No live object identity
// crosses the boundary; Deserialize rebuilds the graph on the other side.

type wireState struct {
	BaseCurrency string          `msgpack:"baseCurrency"`
	Securities   []wireSecurity  `msgpack:"securities"`
	Accounts     []wireContainer `msgpack:"accounts"`
	Portfolios   []wireContainer `msgpack:"portfolios"`
	Taxonomies   []*wireNode     `msgpack:"taxonomies"`
	Categories   []wireCategory  `msgpack:"categories"`
}

type wireSecurity struct {
	ID       string      `msgpack:"id"`
	Name     string      `msgpack:"name"`
	ISIN     string      `msgpack:"isin"`
	Ticker   string      `msgpack:"ticker"`
	Currency string      `msgpack:"currency"`
	Prices   []wirePrice `msgpack:"prices"`
}

type wirePrice struct {
	Date  string  `msgpack:"t"`
	Value float64 `msgpack:"v"`
}

type wireContainer struct {
	ID           string   `msgpack:"id"`
	Name         string   `msgpack:"name"`
	Transactions []wireTx `msgpack:"transactions"`
}

type wireTx struct {
	ID         string      `msgpack:"id"`
	Date       string      `msgpack:"date"`
	Type       string      `msgpack:"type"`
	Amount     float64     `msgpack:"amount"`
	Currency   string      `msgpack:"currency"`
	SecurityID string      `msgpack:"securityId,omitempty"`
	Shares     float64     `msgpack:"shares,omitempty"`
	Note       string      `msgpack:"note,omitempty"`
	CrossEntry *CrossEntry `msgpack:"crossEntry,omitempty"`
}

type wireNode struct {
	ID       string      `msgpack:"id"`
	Name     string      `msgpack:"name"`
	Color    string      `msgpack:"color,omitempty"`
	Children []*wireNode `msgpack:"children"`
	Data     *Assignment `msgpack:"data,omitempty"`
}

// wireCategory is one entry of the ISIN to category-nodes index, referencing
// taxonomy nodes by id.
type wireCategory struct {
	ISIN    string   `msgpack:"isin"`
	NodeIDs []string `msgpack:"nodeIds"`
}

// Serialize encodes a PortfolioState into its boundary representation.
func Serialize(state *PortfolioState) ([]byte, error) {
	w := wireState{BaseCurrency: state.BaseCurrency}

	for _, id := range slices.Sorted(maps.Keys(state.Securities)) {
		sec := state.Securities[id]
		ws := wireSecurity{
			ID:       sec.ID,
			Name:     sec.Name,
			ISIN:     sec.ISIN,
			Ticker:   sec.Ticker,
			Currency: sec.Currency,
		}
		for on, v := range sec.Prices.Values() {
			ws.Prices = append(ws.Prices, wirePrice{Date: on.String(), Value: v})
		}
		w.Securities = append(w.Securities, ws)
	}

	for _, a := range state.Accounts {
		w.Accounts = append(w.Accounts, wireContainer{ID: a.ID, Name: a.Name, Transactions: toWireTxs(a.Transactions)})
	}
	for _, p := range state.Portfolios {
		w.Portfolios = append(w.Portfolios, wireContainer{ID: p.ID, Name: p.Name, Transactions: toWireTxs(p.Transactions)})
	}

	for _, root := range state.Taxonomies {
		w.Taxonomies = append(w.Taxonomies, toWireNode(root))
	}

	for _, isin := range slices.Sorted(maps.Keys(state.categoriesByISIN)) {
		entry := wireCategory{ISIN: isin}
		for _, node := range state.categoriesByISIN[isin] {
			entry.NodeIDs = append(entry.NodeIDs, node.ID)
		}
		w.Categories = append(w.Categories, entry)
	}

	return msgpack.Marshal(w)
}

// Deserialize reconstructs a PortfolioState from its boundary representation.
func Deserialize(data []byte) (*PortfolioState, error) {
	var w wireState
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("could not decode portfolio state: %w", err)
	}

	state := &PortfolioState{
		BaseCurrency: w.BaseCurrency,
		Securities:   make(map[string]*Security, len(w.Securities)),
	}

	for _, ws := range w.Securities {
		sec := &Security{
			ID:       ws.ID,
			Name:     ws.Name,
			ISIN:     ws.ISIN,
			Ticker:   ws.Ticker,
			Currency: ws.Currency,
		}
		for _, p := range ws.Prices {
			on, err := date.Parse(p.Date)
			if err != nil {
				return nil, fmt.Errorf("security %s: %w", ws.ID, err)
			}
			sec.Prices.AppendLatest(on, p.Value)
		}
		state.Securities[sec.ID] = sec
	}

	for _, wc := range w.Accounts {
		txs, err := fromWireTxs(wc.Transactions)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", wc.ID, err)
		}
		state.Accounts = append(state.Accounts, Account{ID: wc.ID, Name: wc.Name, Transactions: txs})
	}
	for _, wc := range w.Portfolios {
		txs, err := fromWireTxs(wc.Transactions)
		if err != nil {
			return nil, fmt.Errorf("portfolio %s: %w", wc.ID, err)
		}
		state.Portfolios = append(state.Portfolios, Portfolio{ID: wc.ID, Name: wc.Name, Transactions: txs})
	}

	nodesByID := make(map[string]*TaxonomyNode)
	for _, root := range w.Taxonomies {
		state.Taxonomies = append(state.Taxonomies, fromWireNode(root, nodesByID))
	}

	index := make(map[string][]*TaxonomyNode, len(w.Categories))
	for _, entry := range w.Categories {
		for _, id := range entry.NodeIDs {
			if node, ok := nodesByID[id]; ok {
				index[entry.ISIN] = append(index[entry.ISIN], node)
			}
		}
	}
	state.SetCategories(index)

	return state, nil
}

func toWireTxs(txs []Transaction) []wireTx {
	out := make([]wireTx, 0, len(txs))
	for _, tx := range txs {
		out = append(out, wireTx{
			ID:         tx.ID,
			Date:       tx.Date.String(),
			Type:       string(tx.Type),
			Amount:     tx.Amount,
			Currency:   tx.Currency,
			SecurityID: tx.SecurityID,
			Shares:     tx.Shares,
			Note:       tx.Note,
			CrossEntry: tx.CrossEntry,
		})
	}
	return out
}

func fromWireTxs(wtxs []wireTx) ([]Transaction, error) {
	out := make([]Transaction, 0, len(wtxs))
	for _, w := range wtxs {
		on, err := date.Parse(w.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", w.ID, err)
		}
		out = append(out, Transaction{
			ID:         w.ID,
			Date:       on,
			Type:       TxType(w.Type),
			Amount:     w.Amount,
			Currency:   w.Currency,
			SecurityID: w.SecurityID,
			Shares:     w.Shares,
			Note:       w.Note,
			CrossEntry: w.CrossEntry,
		})
	}
	return out, nil
}

func toWireNode(n *TaxonomyNode) *wireNode {
	w := &wireNode{ID: n.ID, Name: n.Name, Color: n.Color, Data: n.Data}
	for _, c := range n.Children {
		w.Children = append(w.Children, toWireNode(c))
	}
	return w
}

func fromWireNode(w *wireNode, byID map[string]*TaxonomyNode) *TaxonomyNode {
	n := &TaxonomyNode{ID: w.ID, Name: w.Name, Color: w.Color, Data: w.Data}
	byID[n.ID] = n
	for _, c := range w.Children {
		n.Children = append(n.Children, fromWireNode(c, byID))
	}
	return n
}
