// Package achievement 定义静态成就目录。
// 目录在进程启动时构造一次，作为不可变值注入服务层；
// 每用户的解锁状态单独持久化，目录本身永不变更。
package achievement

// 需求指标类型
const (
	MetricStudyHours     = "study_hours"
	MetricStreakDays     = "streak_days"
	MetricTasksCompleted = "tasks_completed"
	MetricPerfectWeek    = "perfect_week"
	MetricEarlyRiser     = "early_riser"
	MetricNightOwl       = "night_owl"
	MetricSpeedLearner   = "speed_learner"
	MetricConsistency    = "consistency"
)

// 成就分类
const (
	CategoryStudy    = "study"
	CategoryStreak   = "streak"
	CategoryProgress = "progress"
	CategorySocial   = "social"
	CategorySpecial  = "special"
)

// 难度档位（仅展示用途，不参与判定）
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Requirement 解锁条件：指标 ≥ 目标值
type Requirement struct {
	Metric    string  `json:"metric"`
	Target    float64 `json:"target"`
	Timeframe string  `json:"timeframe,omitempty"` // daily | weekly | monthly | all_time
}

// Definition 成就目录项
type Definition struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
	Tier        string      `json:"tier"`
	Points      int         `json:"points"`
	Requirement Requirement `json:"requirement"`
}

// Catalog 不可变成就目录
type Catalog struct {
	defs  []Definition
	byKey map[string]Definition
}

// NewCatalog 构造默认目录
func NewCatalog() *Catalog {
	defs := []Definition{
		// ── 学时成就 ──
		{
			Key: "first_hour", Title: "İlk Adım", Description: "İlk 1 saatini tamamla",
			Icon: "🎯", Category: CategoryStudy, Tier: TierBronze, Points: 10,
			Requirement: Requirement{Metric: MetricStudyHours, Target: 1},
		},
		{
			Key: "study_marathon", Title: "Maraton Koşucusu", Description: "50 saat çalışma tamamla",
			Icon: "🏃", Category: CategoryStudy, Tier: TierSilver, Points: 100,
			Requirement: Requirement{Metric: MetricStudyHours, Target: 50},
		},
		{
			Key: "study_master", Title: "Çalışma Ustası", Description: "200 saat çalışma tamamla",
			Icon: "🎓", Category: CategoryStudy, Tier: TierGold, Points: 500,
			Requirement: Requirement{Metric: MetricStudyHours, Target: 200},
		},
		{
			Key: "study_legend", Title: "Efsane Öğrenci", Description: "500 saat çalışma tamamla",
			Icon: "👑", Category: CategoryStudy, Tier: TierPlatinum, Points: 1000,
			Requirement: Requirement{Metric: MetricStudyHours, Target: 500},
		},

		// ── 连续打卡成就 ──
		{
			Key: "week_warrior", Title: "Hafta Savaşçısı", Description: "7 gün üst üste çalış",
			Icon: "🔥", Category: CategoryStreak, Tier: TierBronze, Points: 50,
			Requirement: Requirement{Metric: MetricStreakDays, Target: 7},
		},
		{
			Key: "month_master", Title: "Ay Ustası", Description: "30 gün üst üste çalış",
			Icon: "⚡", Category: CategoryStreak, Tier: TierSilver, Points: 200,
			Requirement: Requirement{Metric: MetricStreakDays, Target: 30},
		},
		{
			Key: "unstoppable", Title: "Durdurulamaz", Description: "100 gün üst üste çalış",
			Icon: "🚀", Category: CategoryStreak, Tier: TierGold, Points: 1000,
			Requirement: Requirement{Metric: MetricStreakDays, Target: 100},
		},

		// ── 进度成就 ──
		{
			Key: "task_master", Title: "Görev Ustası", Description: "100 görevi tamamla",
			Icon: "✅", Category: CategoryProgress, Tier: TierSilver, Points: 150,
			Requirement: Requirement{Metric: MetricTasksCompleted, Target: 100},
		},
		{
			Key: "perfect_week", Title: "Mükemmel Hafta", Description: "Bir haftadaki tüm görevleri tamamla",
			Icon: "⭐", Category: CategoryProgress, Tier: TierGold, Points: 300,
			Requirement: Requirement{Metric: MetricPerfectWeek, Target: 1},
		},

		// ── 时段成就 ──
		{
			Key: "early_bird", Title: "Erken Kuş", Description: "09:00'dan önce 10 kez çalış",
			Icon: "🌅", Category: CategorySpecial, Tier: TierBronze, Points: 75,
			Requirement: Requirement{Metric: MetricEarlyRiser, Target: 10},
		},
		{
			Key: "night_owl", Title: "Gece Kuşu", Description: "21:00'dan sonra 10 kez çalış",
			Icon: "🌙", Category: CategorySpecial, Tier: TierBronze, Points: 75,
			Requirement: Requirement{Metric: MetricNightOwl, Target: 10},
		},
		{
			Key: "speed_demon", Title: "Hız Şeytanı", Description: "20 görevi hızlıca tamamla",
			Icon: "💨", Category: CategorySpecial, Tier: TierSilver, Points: 150,
			Requirement: Requirement{Metric: MetricSpeedLearner, Target: 20},
		},

		// ── 稳定性成就 ──
		{
			Key: "consistent_learner", Title: "Tutarlı Öğrenci", Description: "4 hafta boyunca haftalık hedefi tut",
			Icon: "📈", Category: CategoryProgress, Tier: TierGold, Points: 400,
			Requirement: Requirement{Metric: MetricConsistency, Target: 4, Timeframe: "weekly"},
		},
	}

	byKey := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	return &Catalog{defs: defs, byKey: byKey}
}

// All 返回目录全部成就（定义顺序）
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get 按 key 查找成就定义
func (c *Catalog) Get(key string) (Definition, bool) {
	d, ok := c.byKey[key]
	return d, ok
}

// Len 目录大小
func (c *Catalog) Len() int { return len(c.defs) }

// LevelForPoints 等级推导：每 100 分升 1 级
func LevelForPoints(totalPoints int) int {
	return totalPoints/100 + 1
}

// PointsToNextLevel 距下一级所需积分
func PointsToNextLevel(totalPoints int) int {
	return LevelForPoints(totalPoints)*100 - totalPoints
}
