// Package slug 从标题生成 URL 安全的文章标识。
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	// 保留字母、组合符号、数字、下划线、空白与连字符
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}-]+`)
	separators  = regexp.MustCompile(`[\s\p{Z}_-]+`)
)

// Slugify 把任意文本转换成小写、以单个连字符分隔的 slug。
// 结果可能为空串，例如标题全部由标点组成。
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = unsafeChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Checker 查询存储中某个 slug 是否已被占用。
// excludingID 非 nil 时忽略该 ID 对应的文章（编辑自身时使用）。
type Checker interface {
	SlugExists(ctx context.Context, slug string, excludingID *uint64) (bool, error)
}

// CheckerFunc 让普通函数实现 Checker
type CheckerFunc func(ctx context.Context, slug string, excludingID *uint64) (bool, error)

func (f CheckerFunc) SlugExists(ctx context.Context, slug string, excludingID *uint64) (bool, error) {
	return f(ctx, slug, excludingID)
}

// EnsureUnique 基于 title 计算一个当前未被占用的 slug。
// 依次尝试 base、base-1、base-2 ...；base 为空时从 "-1" 开始，保证不返回空串。
// 每次调用都实时查询存储，最终的唯一性由数据库唯一索引保证。
func EnsureUnique(ctx context.Context, title string, checker Checker, excludingID *uint64) (string, error) {
	base := Slugify(title)
	candidate := base
	counter := 1
	if base == "" {
		candidate = suffixed(base, counter)
		counter++
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		exists, err := checker.SlugExists(ctx, candidate, excludingID)
		if err != nil {
			return "", fmt.Errorf("检查 slug %q 是否存在失败: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = suffixed(base, counter)
		counter++
	}
}

func suffixed(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}
