package model

// User 用户表 — 对应 users
type User struct {
	UserID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email           string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash    string `gorm:"type:varchar(255);not null"                     json:"-"`
	Track           string `gorm:"type:varchar(20);not null;default:'sayisal'"    json:"track"` // sayisal | ea | sozel | dil
	Level           int    `gorm:"type:smallint;not null;default:3"               json:"level"` // 1-5 总体水平
	WeeklyGoalHours int    `gorm:"type:smallint;not null;default:20"              json:"weekly_goal_hours"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
