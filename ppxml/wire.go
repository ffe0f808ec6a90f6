package ppxml

import "encoding/xml"

// Wire structs mirror the document's attributed tree: attributes and text
// leaves are distinguished by struct tags, nothing is interpreted at this
// layer. Numeric wire fields stay strings so the scaled integers can be
// validated and descaled explicitly.

type xmlClient struct {
	XMLName      xml.Name       `xml:"client"`
	BaseCurrency string         `xml:"baseCurrency"`
	Securities   []xmlSecurity  `xml:"securities>security"`
	Accounts     []xmlAccount   `xml:"accounts>account"`
	Portfolios   []xmlPortfolio `xml:"portfolios>portfolio"`
	Taxonomies   []xmlTaxonomy  `xml:"taxonomies>taxonomy"`
}

type xmlSecurity struct {
	UUID     string     `xml:"uuid"`
	Name     string     `xml:"name"`
	ISIN     string     `xml:"isin"`
	Ticker   string     `xml:"tickerSymbol"`
	Currency string     `xml:"currencyCode"`
	Prices   []xmlPrice `xml:"prices>price"`
}

type xmlPrice struct {
	T string `xml:"t,attr"`
	V string `xml:"v,attr"`
}

type xmlAccount struct {
	UUID         string           `xml:"uuid"`
	Name         string           `xml:"name"`
	Transactions []xmlTransaction `xml:"transactions>account-transaction"`
}

type xmlPortfolio struct {
	UUID         string           `xml:"uuid"`
	Name         string           `xml:"name"`
	Transactions []xmlTransaction `xml:"transactions>portfolio-transaction"`
}

type xmlTransaction struct {
	UUID       string         `xml:"uuid"`
	Date       string         `xml:"date"`
	Currency   string         `xml:"currencyCode"`
	Amount     string         `xml:"amount"`
	Shares     string         `xml:"shares"`
	Type       string         `xml:"type"`
	Note       string         `xml:"note"`
	Security   xmlReference   `xml:"security"`
	CrossEntry *xmlCrossEntry `xml:"crossEntry"`
}

type xmlReference struct {
	Reference string `xml:"reference,attr"`
	UUID      string `xml:"uuid,attr"`
}

type xmlCrossEntry struct {
	Class     string       `xml:"class,attr"`
	Portfolio xmlReference `xml:"portfolio"`
	Reference string       `xml:"reference"`
	Amount    string       `xml:"amount"`
	Currency  string       `xml:"currencyCode"`
}

type xmlTaxonomy struct {
	ID   string            `xml:"id"`
	Name string            `xml:"name"`
	Root xmlClassification `xml:"root"`
}

type xmlClassification struct {
	ID          string              `xml:"id"`
	Name        string              `xml:"name"`
	Color       string              `xml:"color"`
	Children    []xmlClassification `xml:"children>classification"`
	Assignments []xmlAssignment     `xml:"assignments>assignment"`
}

type xmlAssignment struct {
	InvestmentVehicle xmlReference `xml:"investmentVehicle"`
	Weight            float64      `xml:"weight"`
	Rank              int          `xml:"rank"`
}
