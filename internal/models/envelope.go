package models

import "encoding/json"

// ApiResponse is the {message, data, status} envelope every backend response uses.
// Status is a pointer so a missing field can be told apart from zero.
type ApiResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Status  *int   `json:"status,omitempty"`
}

// RawResponse keeps data undecoded until the envelope has been checked.
type RawResponse = ApiResponse[json.RawMessage]

type PageResponse[T any] struct {
	Content       []T  `json:"content"`
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	HasNext       bool `json:"hasNext"`
	HasPrevious   bool `json:"hasPrevious"`
}
