package tui

import "fmt"

// formatMoney formats money as "R$ X.XXX,XX"
func formatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos+1:]

	// Group thousands with dots
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, '.')
		}
		result = append(result, byte(c))
	}

	prefix := "R$ "
	if negative {
		prefix = "-R$ "
	}
	return prefix + string(result) + "," + decPart
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
