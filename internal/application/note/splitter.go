package note

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	wfmodel "ink-content-api/internal/workflow/model"
	"ink-content-api/internal/workflow/node"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/tracer"
)

// SectionSplitter 将文案分割为指定数量的区块描述。
// 上游模型对"严格返回 N 个数组元素"的遵循度不可靠，尤其在 N=1 时，
// 因此解析失败不立即硬失败，而是按固定顺序的修复规则逐层兜底。
type SectionSplitter struct {
	chain sectionSplitInvoker
	retry *retrier
}

// Split 调用模型分割内容并解析修复结果。
// 修复规则依次为：剥离代码围栏、清理控制字符、JSON 解析、
// 单区块的字符串包装、单区块的元素拼接；仍不满足时返回类型化失败。
func (g *SectionSplitter) Split(ctx context.Context, in *wfmodel.SectionSplitInput) ([]string, error) {
	ctx, endSpan := tracer.StartStage(ctx, stageSectionSplit)
	start := time.Now()
	raw, err := g.retry.do(ctx, stageSectionSplit, func(ctx context.Context) (string, error) {
		return g.chain.Invoke(ctx, in)
	})
	observeStage(stageSectionSplit, start, err)
	if err != nil {
		endSpan(err)
		return nil, err
	}
	sections, err := repairSections(raw, in.NumSections)
	endSpan(err)
	return sections, err
}

// repairSections 解析并修复模型返回的分割结果
func repairSections(raw string, numSections int) ([]string, error) {
	cleaned := node.StripCodeFence(raw)
	cleaned = node.StripControlChars(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.UseNumber()
	var parsed any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformedOutput, "分割结果不是合法 JSON").
			WithStage(stageSectionSplit).
			WithDetail("raw=" + raw)
	}

	list, ok := parsed.([]any)
	if !ok {
		// 只请求一个区块且返回了纯字符串时包装成单元素列表
		if s, isString := parsed.(string); isString && numSections == 1 {
			list = []any{s}
		} else {
			return nil, apperrors.New(apperrors.CodeMalformedOutput, "分割结果不是 JSON 数组").
				WithStage(stageSectionSplit).
				WithDetail("raw=" + raw)
		}
	}

	if len(list) != numSections {
		if numSections != 1 {
			return nil, apperrors.New(apperrors.CodeSectionCountMismatch,
				fmt.Sprintf("期望 %d 个区块，实际返回 %d 个", numSections, len(list))).
				WithStage(stageSectionSplit).
				WithDetail("raw=" + raw)
		}
		// 只请求一个区块时把所有元素拼接成一个
		list = []any{joinElements(list)}
	}

	sections := make([]string, 0, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, apperrors.New(apperrors.CodeMalformedOutput,
				fmt.Sprintf("第 %d 个区块不是非空字符串", i+1)).
				WithStage(stageSectionSplit).
				WithDetail(fmt.Sprintf("element=%v raw=%s", elem, raw))
		}
		sections = append(sections, strings.TrimSpace(s))
	}
	return sections, nil
}

// joinElements 将所有可转为字符串的元素用空格拼接，
// 跳过对象/数组/null 这类无法有意义拼接的元素
func joinElements(list []any) string {
	parts := make([]string, 0, len(list))
	for _, elem := range list {
		if s, ok := coerceString(elem); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// coerceString 将标量 JSON 值转为字符串
func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
