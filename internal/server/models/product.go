package models

import "time"

type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	Img        string    `json:"img"`
	Categories []string  `json:"categories"`
	Size       string    `json:"size,omitempty"`
	Color      string    `json:"color,omitempty"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProductFilter narrows a product listing. Newest takes precedence over
// Category, matching the public listing endpoint.
type ProductFilter struct {
	Newest   bool
	Category string
}

// ImageUpload is a presigned upload target for a product image.
type ImageUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
