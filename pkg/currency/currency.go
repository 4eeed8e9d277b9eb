// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Package currency formats monetary amounts for display.

Moneta accounts are denominated in Vietnamese đồng, which has no fractional
unit in practice. Amounts are carried as int64 đồng throughout the system and
only rendered with locale-aware digit grouping at the presentation edge.
*/
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Vietnamese)

// VND renders an amount of đồng with Vietnamese digit grouping and the
// currency suffix, e.g. 1500000 -> "1.500.000đ".
func VND(amount int64) string {
	return printer.Sprintf("%vđ", number.Decimal(amount))
}

// SignedVND renders like [VND] but always carries an explicit sign,
// matching how the dashboard displays transaction deltas.
func SignedVND(amount int64) string {
	if amount >= 0 {
		return "+" + VND(amount)
	}
	return "-" + VND(-amount)
}
