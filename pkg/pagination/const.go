package pagination

// DefaultPage is used when the page parameter is absent or not a positive number
const DefaultPage = 1

// DefaultPageSize is used when the page size parameter is absent or zero
const DefaultPageSize = 10
