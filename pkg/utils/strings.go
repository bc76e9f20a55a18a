package utils

import "strings"

func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}

// SplitTrim splits s on sep, trims every element and drops empty ones.
func SplitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return RemoveEmptyStrings(parts)
}

// TrimAll trims every element of slice and drops empty ones. Elements that
// still contain sep are split further.
func TrimAll(slice []string, sep string) []string {
	var result []string
	for _, s := range slice {
		result = append(result, SplitTrim(s, sep)...)
	}
	return result
}
