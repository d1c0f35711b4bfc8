// Package cookie 管理发布账号的多份浏览器会话 Cookie
package cookie

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
)

const activeAccountFile = ".active_account"

// Account 单个已保存的账号
type Account struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Service 多账号 Cookie 管理。
// 每个账号一份 <name>.json 的 Cookie 文件，活动账号名记录在独立标记文件中，
// 激活时把对应 Cookie 复制到发布工具读取的默认位置。
type Service struct {
	accountsDir       string
	defaultCookiePath string
}

// NewService 创建 Cookie 管理服务并确保账号目录存在
func NewService(cfg *config.CookieConfig) (*Service, error) {
	if err := os.MkdirAll(cfg.AccountsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create accounts dir: %w", err)
	}
	return &Service{
		accountsDir:       cfg.AccountsDir,
		defaultCookiePath: filepath.Join(filepath.Dir(cfg.AccountsDir), "cookies.json"),
	}, nil
}

// safeName 归一化账号名。
// 只保留字母、数字、下划线和连字符，防止路径穿越；
// 归一化后的名字是账号的唯一标识，文件名、活动标记与对外列表都使用它。
func (s *Service) safeName(accountName string) (string, error) {
	safe := sanitizeName(accountName)
	if safe == "" {
		return "", apperrors.New(apperrors.CodeInvalidParam, "无效的账号名称").
			WithDetail("name=" + accountName)
	}
	return safe, nil
}

func (s *Service) cookiePath(safe string) string {
	return filepath.Join(s.accountsDir, safe+".json")
}

func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// List 列出所有已保存的账号及其激活状态
func (s *Service) List(ctx context.Context) ([]Account, error) {
	entries, err := os.ReadDir(s.accountsDir)
	if err != nil {
		return nil, fmt.Errorf("read accounts dir: %w", err)
	}

	active := s.ActiveAccount()
	accounts := make([]Account, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		accounts = append(accounts, Account{
			Name:     name,
			IsActive: name == active,
		})
	}
	return accounts, nil
}

// Save 保存某个账号的 Cookie 内容，新保存的账号自动设为活动账号
func (s *Service) Save(ctx context.Context, accountName string, cookies []byte) error {
	safe, err := s.safeName(accountName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cookiePath(safe), cookies, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	logger.Info(ctx, "账号 Cookie 已保存", "account", safe)
	return s.SetActive(ctx, safe)
}

// Delete 删除指定账号。
// 删除的是当前活动账号时一并清除活动标记。
func (s *Service) Delete(ctx context.Context, accountName string) error {
	safe, err := s.safeName(accountName)
	if err != nil {
		return err
	}
	path := s.cookiePath(safe)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return apperrors.New(apperrors.CodeNotFound, "账号未找到").
			WithDetail("account=" + safe)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove cookie file: %w", err)
	}

	if s.ActiveAccount() == safe {
		_ = os.Remove(filepath.Join(s.accountsDir, activeAccountFile))
		logger.Info(ctx, "活动账号已被删除，清除活动标记", "account", safe)
	}
	logger.Info(ctx, "账号已删除", "account", safe)
	return nil
}

// SetActive 设置当前活动账号并把其 Cookie 复制到默认位置。
// 活动标记里记录的是归一化后的账号名，与文件名和 List 的口径一致。
func (s *Service) SetActive(ctx context.Context, accountName string) error {
	safe, err := s.safeName(accountName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.cookiePath(safe))
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.New(apperrors.CodeNotFound, "无法激活不存在的账号").
				WithDetail("account=" + safe)
		}
		return fmt.Errorf("read cookie file: %w", err)
	}

	marker := filepath.Join(s.accountsDir, activeAccountFile)
	if err := os.WriteFile(marker, []byte(safe), 0o600); err != nil {
		return fmt.Errorf("write active marker: %w", err)
	}
	if err := os.WriteFile(s.defaultCookiePath, data, 0o600); err != nil {
		return fmt.Errorf("copy cookie to default path: %w", err)
	}

	logger.Info(ctx, "活动账号已切换", "account", safe)
	return nil
}

// ActiveAccount 返回当前活动账号名，未设置时返回空字符串
func (s *Service) ActiveAccount() string {
	data, err := os.ReadFile(filepath.Join(s.accountsDir, activeAccountFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DefaultCookiePath 发布工具读取的默认 Cookie 路径
func (s *Service) DefaultCookiePath() string {
	return s.defaultCookiePath
}
