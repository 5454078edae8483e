package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKey 判断错误是否由唯一索引冲突引起。
// 开启 TranslateError 后驱动会返回 gorm.ErrDuplicatedKey，字符串匹配用于未翻译的驱动错误。
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint failed")
}

// likePattern 把用户输入转换为子串匹配模式，使用 '!' 作为转义符以兼容 MySQL 与 SQLite。
// 大小写折叠交给 SQL 的 LOWER()，两侧使用同一套规则。
func likePattern(q string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(q) + "%"
}
