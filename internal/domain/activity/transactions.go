package activity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/narrative"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/rawtree"
)

// Transaction element and attribute names.
const (
	elemTransaction     = "transaction"
	elemTransactionType = "transaction-type"
	elemTransactionDate = "transaction-date"
	elemValue           = "value"
	elemSector          = "sector"
	attrCode            = "code"
	attrCurrency        = "currency"
	attrPercentage      = "percentage"
	attrISODate         = "iso-date"
	attrRef             = "ref"
)

const isoDateLayout = "2006-01-02"

// ExtractTransactions normalizes raw report text and extracts the first
// activity's financial transactions. Required metadata failures are the
// ExtractMeta taxonomy; within a transaction the extraction is tolerant:
// an unparsable value or date is left zero and a missing sector percentage
// on a sole sector defaults to a full allocation. Validation of the
// resulting codes and percentages is a separate advisory step.
func ExtractTransactions(raw string, opts ...Option) ([]model.TransactionRecord, error) {
	e := &extractor{
		maxBytes:      DefaultMaxBytes,
		preferredLang: narrative.DefaultLang,
	}
	for _, opt := range opts {
		opt(e)
	}

	if len(raw) > e.maxBytes {
		return nil, &ParseError{Kind: KindFileTooLarge}
	}

	root, err := rawtree.Parse(raw)
	if err != nil {
		return nil, &ParseError{Kind: KindMalformedInput, cause: err}
	}

	act := locateActivity(root)
	if act == nil {
		return nil, &ParseError{Kind: KindNoActivityElement, Field: elemActivity}
	}

	nodes := act.All(elemTransaction)
	out := make([]model.TransactionRecord, 0, len(nodes))
	for i, node := range nodes {
		out = append(out, extractTransaction(node, i+1, e.preferredLang))
	}
	return out, nil
}

func extractTransaction(node *rawtree.Node, ordinal int, preferredLang string) model.TransactionRecord {
	tx := model.TransactionRecord{}

	if ref, ok := node.Attr(attrRef); ok && strings.TrimSpace(ref) != "" {
		tx.ID = strings.TrimSpace(ref)
	} else {
		tx.ID = fmt.Sprintf("tx-%d", ordinal)
	}

	if t := node.First(elemTransactionType); t != nil {
		if code, ok := t.Attr(attrCode); ok {
			tx.Type = strings.TrimSpace(code)
		}
	}

	if v := node.First(elemValue); v != nil {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64); err == nil {
			tx.ValueAmount = amount
		}
		if cur, ok := v.Attr(attrCurrency); ok {
			tx.Currency = strings.ToUpper(strings.TrimSpace(cur))
		}
	}

	if d := node.First(elemTransactionDate); d != nil {
		if iso, ok := d.Attr(attrISODate); ok {
			if when, err := time.Parse(isoDateLayout, strings.TrimSpace(iso)); err == nil {
				tx.Date = when
			}
		}
	}

	sectors := node.All(elemSector)
	for _, s := range sectors {
		code, ok := s.Attr(attrCode)
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			continue
		}

		line := model.SectorLine{Code: code}
		if name, ok := narrative.Resolve(s, preferredLang); ok {
			line.Name = name
		}
		if _, stated := s.Attr(attrPercentage); stated {
			if pct, ok := numberAttr(s, attrPercentage); ok {
				line.Percentage = pct
			}
		} else if len(sectors) == 1 {
			// A sole sector with no stated split carries the whole
			// transaction.
			line.Percentage = 100
		}
		tx.SectorLines = append(tx.SectorLines, line)
	}
	return tx
}

// numberAttr reads a named attribute as a number, for the positions the
// report format defines as numeric.
func numberAttr(n *rawtree.Node, name string) (float64, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Number()
		}
	}
	return 0, false
}
