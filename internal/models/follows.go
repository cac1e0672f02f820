package models

import "time"

// Follows is a directed edge: FollowerID follows FollowedID.
type Follows struct {
	FollowerID uint      `json:"followerId" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followedId" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	Follower   *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   *User     `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}
