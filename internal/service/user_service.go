package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/repository"
	pkgerrors "yks-planner/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var ErrUserConflict = errors.New("档案已被其他操作修改，请刷新后重试")

// UserService 用户档案业务接口
type UserService interface {
	// UpdateProfile 更新档案；赛道或总体水平变更会触发周计划重新生成
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo    *repository.Repository
	planSvc PlanService
	logger  *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, planSvc PlanService, logger *zap.Logger) UserService {
	return &userService{repo: repo, planSvc: planSvc, logger: logger}
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	needRegen := false

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Track != nil && *req.Track != user.Track {
		user.Track = *req.Track
		needRegen = true
	}
	if req.Level != nil && *req.Level != user.Level {
		user.Level = *req.Level
		needRegen = true
	}
	if req.WeeklyGoalHours != nil {
		user.WeeklyGoalHours = *req.WeeklyGoalHours
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrUserConflict
		}
		s.logger.Error("更新档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if needRegen {
		if _, err := s.planSvc.Regenerate(ctx, userID); err != nil && !errors.Is(err, ErrPlanNotFound) {
			s.logger.Warn("档案变更后重建计划失败", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return &dto.UserResponse{
		ID:              user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		Track:           user.Track,
		Level:           user.Level,
		WeeklyGoalHours: user.WeeklyGoalHours,
	}, nil
}
