package db

import "time"

// Category 定义了文章分类模型，展示时按标题字典序排列。
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;index;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`

	// PostCount 仅在后台列表查询时填充。
	PostCount int64 `gorm:"->;-:migration" json:"post_count"`
}

// URL 返回分类页面的站内路径，格式为 /<slug>/。
func (c Category) URL() string {
	return "/" + c.Slug + "/"
}

func (c Category) String() string {
	return c.Title
}
