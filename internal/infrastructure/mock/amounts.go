package mock

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// decimalOf reads a numeric field that may have been decoded from JSON,
// built in Go, or typed in a form as a string
func decimalOf(v any) decimal.Decimal {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t)
	case float32:
		return decimal.NewFromFloat32(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		d, _ := decimal.NewFromString(t.String())
		return d
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// money rounds to cents and converts back to a JSON number
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// lineItems returns the record's item list as records
func lineItems(rec Record, key string) []Record {
	raw, _ := rec[key].([]any)
	out := make([]Record, 0, len(raw))
	for _, it := range raw {
		switch m := it.(type) {
		case map[string]any:
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}

// applyTotals sets amount = quantity * unitPrice on every line and the
// record's totalAmount and totalQuantity to their sums
func applyTotals(rec Record, key string) {
	items := lineItems(rec, key)
	if len(items) == 0 {
		return
	}

	total, qty := decimal.Zero, decimal.Zero
	lines := make([]any, 0, len(items))
	for _, it := range items {
		q := decimalOf(it["quantity"])
		amount := q.Mul(decimalOf(it["unitPrice"]))
		it["amount"] = money(amount)
		total = total.Add(amount)
		qty = qty.Add(q)
		lines = append(lines, map[string]any(it))
	}
	rec[key] = lines
	rec["totalAmount"] = money(total)
	rec["totalQuantity"] = qty.InexactFloat64()
}
