package cookie

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewService(&config.CookieConfig{
		AccountsDir: filepath.Join(dir, "accounts"),
	})
	require.NoError(t, err)
	return svc
}

func TestSaveActivatesAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "alice", []byte(`[{"name":"session"}]`)))

	assert.Equal(t, "alice", svc.ActiveAccount())

	data, err := os.ReadFile(svc.DefaultCookiePath())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"session"}]`, string(data))
}

func TestListMarksActiveAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "alice", []byte(`[]`)))
	require.NoError(t, svc.Save(ctx, "bob", []byte(`[]`)))

	accounts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	byName := map[string]bool{}
	for _, a := range accounts {
		byName[a.Name] = a.IsActive
	}
	assert.False(t, byName["alice"])
	assert.True(t, byName["bob"], "最后保存的账号应为活动账号")
}

func TestDeleteActiveClearsMarker(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "alice", []byte(`[]`)))
	require.NoError(t, svc.Delete(ctx, "alice"))

	assert.Empty(t, svc.ActiveAccount())
}

func TestDeleteMissingAccount(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSetActiveMissingAccount(t *testing.T) {
	svc := newTestService(t)

	err := svc.SetActive(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestAccountNameSanitized(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "../evil/../name", []byte(`[]`)))

	accounts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "evilname", accounts[0].Name)
}

func TestSanitizedNameStaysActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "my account!", []byte(`[]`)))

	assert.Equal(t, "myaccount", svc.ActiveAccount(), "活动标记应记录归一化后的账号名")

	accounts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "myaccount", accounts[0].Name)
	assert.True(t, accounts[0].IsActive, "刚保存并激活的账号应显示为活动账号")

	// 用原始名字删除同样能清除活动标记
	require.NoError(t, svc.Delete(ctx, "my account!"))
	assert.Empty(t, svc.ActiveAccount())
}

func TestEmptyAccountNameRejected(t *testing.T) {
	svc := newTestService(t)

	err := svc.Save(context.Background(), "///", []byte(`[]`))

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}
