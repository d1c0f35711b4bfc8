package note

import (
	"testing"

	apperrors "ink-content-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairSections(t *testing.T) {
	t.Run("数量一致直接返回", func(t *testing.T) {
		sections, err := repairSections(`["hello"]`, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, sections)
	})

	t.Run("单区块多元素合并修复", func(t *testing.T) {
		sections, err := repairSections(`["a", "b"]`, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a b"}, sections)
	})

	t.Run("多区块数量不符返回 SectionCountMismatch", func(t *testing.T) {
		_, err := repairSections(`["x"]`, 2)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeSectionCountMismatch))
	})

	t.Run("剥离代码围栏后仍可解析", func(t *testing.T) {
		raw := "```json\n[\"第一部分\", \"第二部分\"]\n```"
		sections, err := repairSections(raw, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"第一部分", "第二部分"}, sections)
	})

	t.Run("控制字符在解析前被清理", func(t *testing.T) {
		raw := "[\"he\x01llo\"]"
		sections, err := repairSections(raw, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, sections)
	})

	t.Run("单区块纯字符串包装修复", func(t *testing.T) {
		sections, err := repairSections(`"只有一段"`, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"只有一段"}, sections)
	})

	t.Run("多区块非数组返回 MalformedOutput", func(t *testing.T) {
		_, err := repairSections(`"一段文本"`, 2)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedOutput))
	})

	t.Run("非法 JSON 返回 MalformedOutput 且携带原始响应", func(t *testing.T) {
		_, err := repairSections(`not json at all`, 2)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedOutput))
		appErr := apperrors.AsAppError(err)
		assert.Contains(t, appErr.Detail, "not json at all")
	})

	t.Run("空字符串元素返回 MalformedOutput", func(t *testing.T) {
		_, err := repairSections(`["ok", "  "]`, 2)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedOutput))
	})

	t.Run("单区块合并时跳过对象与数组元素", func(t *testing.T) {
		sections, err := repairSections(`["a", {"k": "v"}, "b", 3]`, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a b 3"}, sections)
	})

	t.Run("结果元素两侧空白被去除", func(t *testing.T) {
		sections, err := repairSections(`["  左右有空白  ", "干净"]`, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"左右有空白", "干净"}, sections)
	})
}
