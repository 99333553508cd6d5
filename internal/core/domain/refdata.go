package domain

import "time"

// Info is a published reference article served through the paginated
// public listing.
type Info struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Gdp is a single yearly GDP observation for a region.
type Gdp struct {
	Year   int     `json:"year"`
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// PagedInfo wraps a page of Info rows with pagination metadata.
type PagedInfo struct {
	PageNumber int     `json:"pageNumber"`
	PageSize   int     `json:"pageSize"`
	TotalCount int64   `json:"totalCount"`
	TotalPage  int64   `json:"totalPage"`
	Data       []*Info `json:"data"`
}
