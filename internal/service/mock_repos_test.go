package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.Version = 1
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock SubjectRepository ──

// 用切片保持插入顺序，轮转分配依赖科目顺序稳定
type mockSubjectRepo struct {
	subjects []*model.Subject
	seq      int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if subject.SubjectID == "" {
		m.seq++
		subject.SubjectID = fmt.Sprintf("subj-%d", m.seq)
	}
	subject.Version = 1
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockSubjectRepo) CreateBatch(ctx context.Context, subjects []model.Subject) error {
	for i := range subjects {
		if err := m.Create(ctx, &subjects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.SubjectID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByUser(_ context.Context, userID string, activeOnly bool) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if s.UserID != userID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	for i, s := range m.subjects {
		if s.SubjectID == subject.SubjectID {
			subject.Version++
			m.subjects[i] = subject
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	for i, s := range m.subjects {
		if s.SubjectID == id {
			m.subjects = append(m.subjects[:i], m.subjects[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	active   map[string]*model.StudyPlan // userID → 活跃计划
	archived []*model.StudyPlan
	seq      int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{active: make(map[string]*model.StudyPlan)}
}

func (m *mockPlanRepo) GetActiveByUser(_ context.Context, userID string) (*model.StudyPlan, error) {
	if p, ok := m.active[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) ReplaceActivePlan(_ context.Context, userID string, plan *model.StudyPlan) error {
	if old, ok := m.active[userID]; ok {
		old.Status = "archived"
		old.Sessions = nil
		m.archived = append(m.archived, old)
	}

	m.seq++
	plan.PlanID = fmt.Sprintf("plan-%d", m.seq)
	for i := range plan.Sessions {
		plan.Sessions[i].SessionID = fmt.Sprintf("%s-sess-%d", plan.PlanID, i)
		plan.Sessions[i].PlanID = plan.PlanID
	}
	m.active[userID] = plan
	return nil
}

func (m *mockPlanRepo) GetSessionByID(_ context.Context, sessionID string) (*model.StudySession, error) {
	for _, p := range m.active {
		for i := range p.Sessions {
			if p.Sessions[i].SessionID == sessionID {
				return &p.Sessions[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) CompleteSession(_ context.Context, sessionID string, completedAt time.Time) (bool, error) {
	for _, p := range m.active {
		for i := range p.Sessions {
			if p.Sessions[i].SessionID == sessionID {
				if p.Sessions[i].IsCompleted {
					return false, nil
				}
				p.Sessions[i].IsCompleted = true
				ts := completedAt
				p.Sessions[i].CompletedAt = &ts
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockPlanRepo) ListCompletedSince(_ context.Context, userID string, since time.Time) ([]model.StudySession, error) {
	var result []model.StudySession
	if p, ok := m.active[userID]; ok {
		for i := range p.Sessions {
			s := p.Sessions[i]
			if s.IsCompleted && s.CompletedAt != nil && !s.CompletedAt.Before(since) {
				result = append(result, s)
			}
		}
	}
	return result, nil
}

// ── Mock AchievementRepository ──

type achievementKey struct {
	userID string
	key    string
}

type mockAchievementRepo struct {
	states   map[achievementKey]*model.UserAchievement
	order    []achievementKey // 保持写入顺序，排行榜依赖稳定顺序
	counters map[string]*model.UserCounters
}

func newMockAchievementRepo() *mockAchievementRepo {
	return &mockAchievementRepo{
		states:   make(map[achievementKey]*model.UserAchievement),
		counters: make(map[string]*model.UserCounters),
	}
}

func (m *mockAchievementRepo) ListByUser(_ context.Context, userID string) ([]model.UserAchievement, error) {
	var result []model.UserAchievement
	for _, k := range m.order {
		if k.userID == userID {
			result = append(result, *m.states[k])
		}
	}
	return result, nil
}

func (m *mockAchievementRepo) Upsert(_ context.Context, ua *model.UserAchievement) error {
	k := achievementKey{userID: ua.UserID, key: ua.AchievementKey}
	if _, exists := m.states[k]; !exists {
		m.order = append(m.order, k)
	}
	clone := *ua
	m.states[k] = &clone
	return nil
}

func (m *mockAchievementRepo) ListUnlocked(_ context.Context) ([]model.UserAchievement, error) {
	var result []model.UserAchievement
	for _, k := range m.order {
		if m.states[k].Unlocked {
			result = append(result, *m.states[k])
		}
	}
	return result, nil
}

func (m *mockAchievementRepo) GetOrCreateCounters(_ context.Context, userID string) (*model.UserCounters, error) {
	if c, ok := m.counters[userID]; ok {
		return c, nil
	}
	c := &model.UserCounters{UserID: userID}
	m.counters[userID] = c
	return c, nil
}

func (m *mockAchievementRepo) SaveCounters(_ context.Context, counters *model.UserCounters) error {
	m.counters[counters.UserID] = counters
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.seq++
	n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, list []model.Notification) error {
	for i := range list {
		if err := m.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if onlyUnread && n.IsRead {
			continue
		}
		all = append(all, *n)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) (bool, error) {
	for _, n := range m.notifications {
		if n.NotificationID == notificationID && n.UserID == userID && !n.IsRead {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ── 测试装配辅助 ──

// newTestRepo 组装全 mock 的 Repository 聚合
func newTestRepo() *repository.Repository {
	return &repository.Repository{
		User:         newMockUserRepo(),
		Subject:      newMockSubjectRepo(),
		Plan:         newMockPlanRepo(),
		Achievement:  newMockAchievementRepo(),
		Notification: newMockNotificationRepo(),
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
