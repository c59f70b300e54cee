package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
// Watchlist/Favorites 保存电影 ID，与电影侧的成员集合互为镜像，不做引用完整性约束
type User struct {
	ID        int            `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex"`
	Name      string         `json:"name"`
	Watchlist pq.StringArray `json:"watchlist" gorm:"type:text[]"`
	Favorites pq.StringArray `json:"favorites" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
