package db

import "time"

// Comment 定义了访客评论，创建后不再修改。
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `json:"post,omitempty"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Comment) String() string {
	return c.Name
}
