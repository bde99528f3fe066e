package pagination

import (
	"math"
	"strings"
)

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxSize     = 100

	DefaultSortField = "id"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection is case-insensitive; anything other than "desc" is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort reads the "field,direction" form used by list query strings.
// An empty input yields the default sort (id ascending).
func ParseSort(raw string) Sort {
	field, dir, _ := strings.Cut(raw, ",")
	field = strings.TrimSpace(field)
	if field == "" {
		field = DefaultSortField
	}
	return Sort{Field: field, Direction: ParseDirection(dir)}
}

// Params describes a zero-indexed page request.
type Params struct {
	Page int
	Size int
	Sort Sort
}

func NewParams(page, size int, sort Sort) Params {
	if page < 0 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	// Keeps Offset from overflowing.
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}
	if sort.Field == "" {
		sort.Field = DefaultSortField
	}
	if sort.Direction != Desc {
		sort.Direction = Asc
	}
	return Params{
		Page: page,
		Size: size,
		Sort: sort,
	}
}

func (p Params) Offset() int {
	return p.Page * p.Size
}

func (p Params) Limit() int {
	return p.Size
}

type Info struct {
	Page       int  `json:"number"`
	Size       int  `json:"size"`
	TotalItems int  `json:"total_elements"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func NewInfo(page, size, totalItems int) *Info {
	totalPages := 0
	if size > 0 {
		totalPages = totalItems / size
		if totalItems%size > 0 {
			totalPages++
		}
	}

	return &Info{
		Page:       page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages-1,
		HasPrev:    page > 0,
	}
}
