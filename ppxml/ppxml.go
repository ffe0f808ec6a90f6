// Package ppxml ingests a Portfolio Performance XML export and produces the
// normalized ppview.PortfolioState. Parsing is a stateless one-shot: it
// either returns a fully-populated state or a SchemaError, never a partial
// result.
package ppxml

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
)

// SchemaError describes a structural mismatch in the ingested document:
// missing required fields, malformed values, wrong shape. It is always
// non-recoverable; the caller must fix or re-export the document.
type SchemaError struct {
	Path    string // element path of the offending node
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid portfolio document: %s", e.Message)
	}
	return fmt.Sprintf("invalid portfolio document at %s: %s", e.Path, e.Message)
}

func schemaErrorf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Parser converts raw document text into a PortfolioState.
type Parser struct {
	// StrictTypes turns transactions with a type outside the known
	// vocabulary into a SchemaError instead of tolerating them.
	StrictTypes bool
	// Log receives non-fatal ingestion diagnostics.
	Log zerolog.Logger
}

// NewParser returns a parser with the default tolerant policy and a silent logger.
func NewParser() *Parser {
	return &Parser{Log: zerolog.Nop()}
}

// Parse is a convenience for NewParser().Parse.
func Parse(data []byte) (*ppview.PortfolioState, error) {
	return NewParser().Parse(data)
}

// Parse ingests a document. Individual unresolved security references are
// tolerated (the owning transaction keeps an empty SecurityID); structural
// problems abort the whole load.
func (p *Parser) Parse(data []byte) (*ppview.PortfolioState, error) {
	var doc xmlClient
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, schemaErrorf("", "not a well-formed XML document: %v", err)
	}

	if doc.BaseCurrency == "" {
		return nil, schemaErrorf("client/baseCurrency", "base currency is required")
	}
	if len(doc.Securities) == 0 {
		return nil, schemaErrorf("client/securities", "at least one security is required")
	}

	state := &ppview.PortfolioState{
		BaseCurrency: doc.BaseCurrency,
		Securities:   make(map[string]*ppview.Security, len(doc.Securities)),
	}

	// Positional index for reference resolution: 1-based in the source
	// XPath-like references. Built in a single pass and never recomputed,
	// so reordering inside one ingestion cannot produce inconsistent
	// resolutions mid-parse.
	resolver := newSecurityResolver(len(doc.Securities))

	for i, xs := range doc.Securities {
		path := fmt.Sprintf("client/securities/security[%d]", i+1)
		if xs.UUID == "" {
			return nil, schemaErrorf(path, "security uuid is required")
		}
		if xs.Name == "" {
			return nil, schemaErrorf(path, "security name is required")
		}
		sec := &ppview.Security{
			ID:       xs.UUID,
			Name:     xs.Name,
			ISIN:     xs.ISIN,
			Ticker:   xs.Ticker,
			Currency: orDefault(xs.Currency, doc.BaseCurrency),
		}
		for j, xp := range xs.Prices {
			on, err := date.Parse(xp.T)
			if err != nil {
				return nil, schemaErrorf(fmt.Sprintf("%s/prices/price[%d]", path, j+1), "%v", err)
			}
			v, err := strconv.ParseInt(strings.TrimSpace(xp.V), 10, 64)
			if err != nil {
				return nil, schemaErrorf(fmt.Sprintf("%s/prices/price[%d]", path, j+1), "price is not a scaled integer: %v", err)
			}
			sec.Prices.AppendLatest(on, ppview.UnscalePrice(v))
		}
		state.Securities[sec.ID] = sec
		resolver.add(i, xs.UUID)
	}

	for i, xa := range doc.Accounts {
		path := fmt.Sprintf("client/accounts/account[%d]", i+1)
		account := ppview.Account{ID: xa.UUID, Name: xa.Name}
		for j, xt := range xa.Transactions {
			tx, err := p.mapTransaction(xt, fmt.Sprintf("%s/transactions[%d]", path, j+1), resolver, doc.BaseCurrency)
			if err != nil {
				return nil, err
			}
			account.Transactions = append(account.Transactions, tx)
		}
		state.Accounts = append(state.Accounts, account)
	}

	for i, xp := range doc.Portfolios {
		path := fmt.Sprintf("client/portfolios/portfolio[%d]", i+1)
		portfolio := ppview.Portfolio{ID: xp.UUID, Name: xp.Name}
		for j, xt := range xp.Transactions {
			tx, err := p.mapTransaction(xt, fmt.Sprintf("%s/transactions[%d]", path, j+1), resolver, doc.BaseCurrency)
			if err != nil {
				return nil, err
			}
			portfolio.Transactions = append(portfolio.Transactions, tx)
		}
		state.Portfolios = append(state.Portfolios, portfolio)
	}

	for _, xt := range doc.Taxonomies {
		state.Taxonomies = append(state.Taxonomies, p.parseTaxonomy(xt, resolver))
	}
	state.SetCategories(buildCategoryIndex(state))

	return state, nil
}

// mapTransaction converts one wire transaction, descaling amount and shares
// and defaulting a missing currency to the document's base currency.
func (p *Parser) mapTransaction(xt xmlTransaction, path string, resolver *securityResolver, baseCurrency string) (ppview.Transaction, error) {
	var tx ppview.Transaction

	if xt.UUID == "" {
		return tx, schemaErrorf(path, "transaction uuid is required")
	}
	if xt.Type == "" {
		return tx, schemaErrorf(path, "transaction type is required")
	}
	on, err := date.Parse(xt.Date)
	if err != nil {
		return tx, schemaErrorf(path, "%v", err)
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(xt.Amount), 10, 64)
	if err != nil {
		return tx, schemaErrorf(path, "amount is not a scaled integer: %v", err)
	}
	if amount < 0 {
		return tx, schemaErrorf(path, "amount must not be negative (direction is carried by the type)")
	}

	txType := ppview.TxType(xt.Type)
	if _, known := txType.CashEffect(); !known {
		if p.StrictTypes {
			return tx, schemaErrorf(path, "unknown transaction type %q", xt.Type)
		}
		p.Log.Warn().Str("type", xt.Type).Str("transaction", xt.UUID).
			Msg("unknown transaction type kept as-is")
	}

	tx = ppview.Transaction{
		ID:       xt.UUID,
		Date:     on,
		Type:     txType,
		Amount:   ppview.UnscaleAmount(amount),
		Currency: orDefault(xt.Currency, baseCurrency),
		Note:     xt.Note,
	}

	if xt.Shares != "" {
		shares, err := strconv.ParseInt(strings.TrimSpace(xt.Shares), 10, 64)
		if err != nil {
			return tx, schemaErrorf(path, "shares is not a scaled integer: %v", err)
		}
		tx.Shares = ppview.UnscaleShares(shares)
	}

	if ref := xt.Security.Reference; ref != "" {
		// An unresolvable reference is tolerated: the transaction keeps an
		// empty security reference rather than failing the load.
		if id, ok := resolver.resolve(ref); ok {
			tx.SecurityID = id
		} else {
			p.Log.Warn().Str("reference", ref).Str("transaction", xt.UUID).
				Msg("unresolvable security reference left unset")
		}
	}

	if xt.CrossEntry != nil && (xt.CrossEntry.Reference != "" || xt.CrossEntry.Portfolio.Reference != "") {
		ce := &ppview.CrossEntry{
			PortfolioID: xt.CrossEntry.Portfolio.Reference,
			Reference:   xt.CrossEntry.Reference,
			Currency:    orDefault(xt.CrossEntry.Currency, baseCurrency),
		}
		if xt.CrossEntry.Amount != "" {
			if v, err := strconv.ParseInt(strings.TrimSpace(xt.CrossEntry.Amount), 10, 64); err == nil {
				ce.Amount = ppview.UnscaleAmount(v)
			}
		}
		tx.CrossEntry = ce
	}

	return tx, nil
}

// orDefault normalizes empty-string leaf elements to the fallback: an empty
// tag in the document means "absent", not an invalid value.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// referenceIndex matches the positional part of an XPath-like security
// reference such as "../../../../securities/security[12]".
var referenceIndex = regexp.MustCompile(`security\[(\d+)\]$`)

// securityResolver maps the source document's security references to UUIDs.
// References are either path-like positional indices (1-based) or direct
// UUIDs. The mapping is immutable once ingestion has populated it.
type securityResolver struct {
	byPosition []string            // 0-based position -> uuid
	known      map[string]struct{} // declared uuids
}

func newSecurityResolver(n int) *securityResolver {
	return &securityResolver{
		byPosition: make([]string, 0, n),
		known:      make(map[string]struct{}, n),
	}
}

func (r *securityResolver) add(position int, id string) {
	_ = position // positions arrive in order; kept for clarity of intent
	r.byPosition = append(r.byPosition, id)
	r.known[id] = struct{}{}
}

// resolve returns the UUID a reference denotes, or false when it cannot be
// resolved. A path-like reference without an explicit index denotes the
// first security.
func (r *securityResolver) resolve(ref string) (string, bool) {
	if m := referenceIndex.FindStringSubmatch(ref); m != nil {
		i, err := strconv.Atoi(m[1])
		if err != nil || i < 1 || i > len(r.byPosition) {
			return "", false
		}
		return r.byPosition[i-1], true
	}
	if strings.HasSuffix(ref, "/security") {
		if len(r.byPosition) == 0 {
			return "", false
		}
		return r.byPosition[0], true
	}
	if _, err := uuid.Parse(ref); err == nil {
		if _, ok := r.known[ref]; ok {
			return ref, true
		}
	}
	return "", false
}

// parseTaxonomy converts one taxonomy tree. Classification nodes become
// category nodes; assignment leaves become virtual children carrying the
// resolved security reference.
func (p *Parser) parseTaxonomy(xt xmlTaxonomy, resolver *securityResolver) *ppview.TaxonomyNode {
	root := p.parseClassification(xt.Root, resolver)
	if xt.Name != "" {
		root.Name = xt.Name
	}
	return root
}

func (p *Parser) parseClassification(xc xmlClassification, resolver *securityResolver) *ppview.TaxonomyNode {
	node := &ppview.TaxonomyNode{
		ID:    orDefault(xc.ID, uuid.NewString()),
		Name:  xc.Name,
		Color: xc.Color,
	}

	for _, child := range xc.Children {
		node.Children = append(node.Children, p.parseClassification(child, resolver))
	}

	for _, xa := range xc.Assignments {
		var id string
		var ok bool
		switch {
		case xa.InvestmentVehicle.Reference != "":
			id, ok = resolver.resolve(xa.InvestmentVehicle.Reference)
		case xa.InvestmentVehicle.UUID != "":
			id, ok = resolver.resolve(xa.InvestmentVehicle.UUID)
		}
		if !ok {
			continue
		}
		assignment := &ppview.TaxonomyNode{
			ID:   uuid.NewString(),
			Name: "Security Assignment",
			Data: &ppview.Assignment{SecurityID: id, Weight: xa.Weight},
		}
		node.Children = append(node.Children, assignment)
	}

	return node
}

// buildCategoryIndex walks every taxonomy tree and records, for each
// assignment leaf, its immediate parent category node under the referenced
// security's ISIN, de-duplicated by node identity.
func buildCategoryIndex(state *ppview.PortfolioState) map[string][]*ppview.TaxonomyNode {
	index := make(map[string][]*ppview.TaxonomyNode)

	var walk func(node, parent *ppview.TaxonomyNode)
	walk = func(node, parent *ppview.TaxonomyNode) {
		if node.Data != nil && parent != nil {
			if sec := state.Security(node.Data.SecurityID); sec != nil && sec.ISIN != "" {
				if !containsNode(index[sec.ISIN], parent.ID) {
					index[sec.ISIN] = append(index[sec.ISIN], parent)
				}
			}
		}
		for _, child := range node.Children {
			walk(child, node)
		}
	}

	for _, root := range state.Taxonomies {
		walk(root, nil)
	}
	return index
}

func containsNode(nodes []*ppview.TaxonomyNode, id string) bool {
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
