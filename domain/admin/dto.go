package admin

import "github.com/akeren/waitlist-foundry/domain/waitlist"

const (
	FormatHTML = "html"
	FormatJSON = "json"
)

type ListQuery struct {
	Query  string `form:"q" binding:"max=256"`
	Format string `form:"format" binding:"omitempty,oneof=html json"`
}

type ListResponse struct {
	Total   int                      `json:"total"`
	Entries []waitlist.EntryResponse `json:"entries"`
}

// pageRow is one table row; Source is already defaulted for display.
type pageRow struct {
	Time      string
	Email     string
	Source    string
	UserAgent string
}

type pageData struct {
	Title string
	Query string
	Total int
	Rows  []pageRow
}
