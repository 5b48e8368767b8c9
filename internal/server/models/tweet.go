package models

import "time"

type Tweet struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
