package pagination

import "strconv"

// OffsetRequest is a page-numbered request. Values are not clamped; the
// backend decides what a non-positive page or size means.
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"pageSize" query:"pagesize"`
}

// ParseOffsetRequest reads raw query values, falling back to the defaults
// when a value is missing, not an integer or zero.
func ParseOffsetRequest(rawPage, rawSize string) OffsetRequest {
	return OffsetRequest{
		Page: intOr(rawPage, DefaultPage),
		Size: intOr(rawSize, DefaultPageSize),
	}
}

// From is the zero-based offset of the first item of the page.
func (r OffsetRequest) From() int {
	return (r.Page - 1) * r.Size
}

func intOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return def
	}
	return n
}
