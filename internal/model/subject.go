package model

// Subject 科目表 — 对应 subjects
// is_active=false 的科目不参与排程，但保留供历史统计
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	UserID    string `gorm:"type:uuid;not null"                             json:"user_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Level     int    `gorm:"type:smallint;not null;default:3"               json:"level"` // 1-5 熟练度
	Color     string `gorm:"type:varchar(20);not null;default:'#3b82f6'"    json:"color"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
