package models

type PaginationResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func NewPaginationResponse[T any](data []T, total int64, page, limit int) *PaginationResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginationResponse[T]{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}
