package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
	pkgerrors "yks-planner/backend/pkg/errors"
)

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound = errors.New("科目不存在")
	ErrSubjectConflict = errors.New("科目已被其他操作修改，请刷新后重试")
)

// defaultSubjectSeed 赛道默认科目种子
type defaultSubjectSeed struct {
	Name  string
	Level int
	Color string
}

// defaultSubjectsByTrack 注册时按赛道播种的默认科目集
var defaultSubjectsByTrack = map[string][]defaultSubjectSeed{
	"sayisal": {
		{Name: "Matematik", Level: 3, Color: "#3b82f6"},
		{Name: "Fizik", Level: 3, Color: "#10b981"},
		{Name: "Kimya", Level: 3, Color: "#f59e0b"},
		{Name: "Biyoloji", Level: 3, Color: "#ef4444"},
		{Name: "Türkçe", Level: 3, Color: "#8b5cf6"},
	},
	"ea": {
		{Name: "Matematik", Level: 3, Color: "#3b82f6"},
		{Name: "Türkçe", Level: 3, Color: "#8b5cf6"},
		{Name: "Sosyal Bilimler", Level: 3, Color: "#06b6d4"},
		{Name: "Geometri", Level: 3, Color: "#84cc16"},
	},
	"sozel": {
		{Name: "Türkçe", Level: 3, Color: "#8b5cf6"},
		{Name: "Sosyal Bilimler", Level: 3, Color: "#06b6d4"},
		{Name: "Matematik", Level: 2, Color: "#3b82f6"},
	},
	"dil": {
		{Name: "İngilizce", Level: 3, Color: "#f97316"},
		{Name: "Türkçe", Level: 3, Color: "#8b5cf6"},
	},
}

// DefaultSubjectsForTrack 按赛道构造默认科目模型（未知赛道回落到 sayisal）
func DefaultSubjectsForTrack(userID, track string) []model.Subject {
	seeds, ok := defaultSubjectsByTrack[track]
	if !ok {
		seeds = defaultSubjectsByTrack["sayisal"]
	}
	subjects := make([]model.Subject, 0, len(seeds))
	for _, seed := range seeds {
		subjects = append(subjects, model.Subject{
			UserID:   userID,
			Name:     seed.Name,
			Level:    seed.Level,
			Color:    seed.Color,
			IsActive: true,
		})
	}
	return subjects
}

// SubjectService 科目业务接口。
// 任何改变活跃科目集的操作都会触发周计划重新生成。
type SubjectService interface {
	List(ctx context.Context, userID string) ([]dto.SubjectResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	Update(ctx context.Context, userID, subjectID string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, userID, subjectID string) error
}

type subjectService struct {
	repo    *repository.Repository
	planSvc PlanService
	logger  *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, planSvc PlanService, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, planSvc: planSvc, logger: logger}
}

func (s *subjectService) List(ctx context.Context, userID string) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.ListByUser(ctx, userID, false)
	if err != nil {
		s.logger.Error("查询科目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *subjectService) Create(ctx context.Context, userID string, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	color := req.Color
	if color == "" {
		color = "#3b82f6"
	}

	subject := &model.Subject{
		UserID:   userID,
		Name:     req.Name,
		Level:    req.Level,
		Color:    color,
		IsActive: true,
	}

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.regenerate(ctx, userID)

	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) Update(ctx context.Context, userID, subjectID string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.getOwned(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Level != nil {
		subject.Level = *req.Level
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrSubjectConflict
		}
		s.logger.Error("更新科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, err
	}

	s.regenerate(ctx, userID)

	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) Delete(ctx context.Context, userID, subjectID string) error {
	if _, err := s.getOwned(ctx, userID, subjectID); err != nil {
		return err
	}

	if err := s.repo.Subject.Delete(ctx, subjectID); err != nil {
		s.logger.Error("删除科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return err
	}

	// 重新生成会整体替换场次，被删科目的场次随之清除
	s.regenerate(ctx, userID)
	return nil
}

// ── 内部辅助方法 ──

// getOwned 加载科目并校验归属
func (s *subjectService) getOwned(ctx context.Context, userID, subjectID string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, err
	}
	if subject.UserID != userID {
		return nil, ErrSubjectNotFound
	}
	return subject, nil
}

// regenerate 科目变更后的计划重建；失败只记日志，科目变更本身已生效
func (s *subjectService) regenerate(ctx context.Context, userID string) {
	if _, err := s.planSvc.Regenerate(ctx, userID); err != nil && !errors.Is(err, ErrPlanNotFound) {
		s.logger.Warn("科目变更后重建计划失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// toSubjectResponse 将 model.Subject 转换为响应
func toSubjectResponse(subject *model.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:       subject.SubjectID,
		Name:     subject.Name,
		Level:    subject.Level,
		Color:    subject.Color,
		IsActive: subject.IsActive,
	}
}
