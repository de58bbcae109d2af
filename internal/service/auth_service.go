package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yks-planner/backend/config"
	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
	"yks-planner/backend/pkg/jwt"
	"yks-planner/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidRefresh     = errors.New("refresh token 无效或已过期")
	ErrWrongOldPassword   = errors.New("原密码不正确")
)

// AuthService 认证业务接口
type AuthService interface {
	// Register 注册新用户：播种赛道默认科目并生成首个周计划
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	// Logout 将当前 access token 的 jti 拉黑至其自然过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg     *config.Config
	repo    *repository.Repository
	jwtMgr  *jwt.Manager
	cache   *redis.Client
	planSvc PlanService
	logger  *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// cache 可为 nil（未配置 Redis 时登出降级为无黑名单）
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	planSvc PlanService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:     cfg,
		repo:    repo,
		jwtMgr:  jwtMgr,
		cache:   cache,
		planSvc: planSvc,
		logger:  logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	level := req.Level
	if level == 0 {
		level = 3
	}

	user := &model.User{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Track:           req.Track,
		Level:           level,
		WeeklyGoalHours: s.cfg.Plan.WeeklyGoalHours,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 播种赛道默认科目
	subjects := DefaultSubjectsForTrack(user.UserID, user.Track)
	if err := s.repo.Subject.CreateBatch(ctx, subjects); err != nil {
		s.logger.Error("播种默认科目失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	// 生成首个周计划；失败不阻断注册，用户可稍后手动生成
	if _, err := s.planSvc.Regenerate(ctx, user.UserID); err != nil {
		s.logger.Warn("注册后生成周计划失败", zap.String("user_id", user.UserID), zap.Error(err))
	}

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.String("track", user.Track))

	return &dto.RegisterResponse{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
		Track: user.Track,
	}, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.buildTokenPair(user, req.RememberMe)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	// 黑名单检查（已登出的 refresh token 不可续签）
	if s.cache != nil {
		blacklisted, err := s.cache.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败，降级放行", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	return s.buildTokenPair(user, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.cache == nil {
		return nil // 无 Redis 时登出只在客户端丢弃 token
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("拉黑 token 失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.UserDetailResponse{
		ID:              user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		Track:           user.Track,
		Level:           user.Level,
		WeeklyGoalHours: user.WeeklyGoalHours,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("修改密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

// buildTokenPair 签发 access/refresh 对并组装响应
func (s *authService) buildTokenPair(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Track)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Track, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:              user.UserID,
			Name:            user.Name,
			Email:           user.Email,
			Track:           user.Track,
			Level:           user.Level,
			WeeklyGoalHours: user.WeeklyGoalHours,
		},
	}, nil
}
