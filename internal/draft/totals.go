package draft

import "math"

// Calculate derives totals from a line sequence. The gross total is the
// sum of quantity times unit price, tax is the rounded share of gross, and
// net is obtained by subtraction so net+tax equals gross exactly.
func Calculate(lines []LineItem, taxRate float64) Totals {
	var gross float64
	for _, li := range lines {
		gross += float64(li.Quantity) * li.UnitPrice
	}
	tax := math.Round(gross * taxRate)
	return Totals{Gross: gross, Tax: tax, Net: gross - tax}
}
