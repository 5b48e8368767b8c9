package models

import "time"

type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"video"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
