package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// AuthService 负责管理员账号的校验与维护。密码只以 bcrypt 摘要形式保存，从不记录日志。
type AuthService interface {
	// Authenticate 校验用户名与密码，任何不匹配都返回 myErrors.ErrInvalidCredentials。
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)

	// EnsureOperator 创建管理员；已存在时重置密码。
	// legacyUsername 非空且目标用户不存在时，把旧账号改名为 username 后重置密码。
	EnsureOperator(ctx context.Context, username, password, legacyUsername string) (created bool, err error)

	GetUser(ctx context.Context, userID uint64) (*entities.User, error)
}

type authService struct {
	userRepo mysql.UserRepository
	cost     int
	logger   *zap.Logger
}

func NewAuthService(userRepo mysql.UserRepository, logger *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, cost: bcrypt.DefaultCost, logger: logger}
}

// dummyHash 用于用户不存在时仍执行一次 bcrypt 比较，避免通过耗时判断用户名是否存在
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func (s *authService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Warn("登录失败：用户不存在", zap.String("username", username))
			return nil, myErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("登录失败：密码错误", zap.String("username", username))
		return nil, myErrors.ErrInvalidCredentials
	}
	s.logger.Info("管理员登录成功", zap.Uint64("userID", user.ID))
	return user, nil
}

func (s *authService) EnsureOperator(ctx context.Context, username, password, legacyUsername string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, myErrors.NewValidationError("Username and password are required", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("生成密码摘要失败: %w", err)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return false, fmt.Errorf("查询用户失败: %w", err)
	}

	if user == nil && legacyUsername != "" && legacyUsername != username {
		legacy, err := s.userRepo.GetUserByUsername(ctx, legacyUsername)
		switch {
		case err == nil:
			if err := s.userRepo.RenameUser(ctx, legacy.ID, username); err != nil {
				return false, fmt.Errorf("重命名旧管理员失败: %w", err)
			}
			s.logger.Info("旧管理员账号已改名", zap.String("from", legacyUsername), zap.String("to", username))
			user = legacy
		case !errors.Is(err, commonerrors.ErrRepoNotFound):
			return false, fmt.Errorf("查询旧管理员失败: %w", err)
		}
	}

	if user != nil {
		if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
			return false, fmt.Errorf("重置管理员密码失败: %w", err)
		}
		s.logger.Info("管理员密码已重置", zap.String("username", username))
		return false, nil
	}

	if err := s.userRepo.CreateUser(ctx, &entities.User{Username: username, PasswordHash: string(hash)}); err != nil {
		return false, fmt.Errorf("创建管理员失败: %w", err)
	}
	s.logger.Info("管理员账号已创建", zap.String("username", username))
	return true, nil
}

func (s *authService) GetUser(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}
