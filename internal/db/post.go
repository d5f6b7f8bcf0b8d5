package db

import "time"

const (
	// PostStatusActive 表示前台可见的文章。
	PostStatusActive = "active"
	// PostStatusDraft 表示仅后台可见的草稿。
	PostStatusDraft = "draft"
)

// Post 定义了文章模型，每篇文章必须归属一个分类。
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   Category  `json:"category"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Slug       string    `gorm:"size:255;index;not null" json:"slug"`
	Intro      string    `gorm:"type:text" json:"intro"`
	Body       string    `gorm:"type:text" json:"body"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Status     string    `gorm:"size:10;not null;default:active;index" json:"status"`
	Image      string    `gorm:"size:255" json:"image,omitempty"`
	Comments   []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// IsActive 判断文章是否对公众可见。
func (p Post) IsActive() bool {
	return p.Status == PostStatusActive
}

// URL 返回文章详情的站内路径，格式为 /<category-slug>/<slug>/。
// 调用前需要预加载 Category。
func (p Post) URL() string {
	return "/" + p.Category.Slug + "/" + p.Slug + "/"
}

func (p Post) String() string {
	return p.Title
}

// ValidPostStatus 判断状态值是否受支持。
func ValidPostStatus(status string) bool {
	return status == PostStatusActive || status == PostStatusDraft
}
