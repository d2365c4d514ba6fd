// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// Money renders an amount in rupees, e.g. "Rs. 3,000.00".
func Money(amount float64) string {
	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("Rs. %s.%02d", group(whole), cents)
}

// group inserts thousands separators.
func group(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return sign + s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return sign + string(out)
}

// Date renders a timestamp as a short local date.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

// FineStatusBadge renders a colored payment state.
func FineStatusBadge(s model.FineStatus) string {
	if s == model.FinePaid {
		return styles.StatusPaid.Render(string(s))
	}
	return styles.StatusUnpaid.Render(string(s))
}

// LicenseStatusBadge renders a colored license state.
func LicenseStatusBadge(s model.LicenseStatus) string {
	if s == model.LicenseActive {
		return styles.StatusPaid.Render(string(s))
	}
	return styles.StatusUnpaid.Render(string(s))
}
