package models

import "time"

// LikeTarget names the kind of object a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether t is one of the known targets.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

type Like struct {
	ID        string     `json:"_id"`
	Target    LikeTarget `json:"target"`
	TargetID  string     `json:"targetId"`
	LikedBy   string     `json:"likedBy"`
	CreatedAt time.Time  `json:"createdAt"`
}
