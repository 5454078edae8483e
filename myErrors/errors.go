package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 业务错误
var (
	// ErrSubmissionNotPending 投稿已处于终态，不能再次审核
	ErrSubmissionNotPending = errors.New("submission is not pending")
	// ErrDisallowedFileType 上传文件扩展名不在白名单中
	ErrDisallowedFileType = errors.New("file type not allowed")
	// ErrCategoryExists 分类名称已存在
	ErrCategoryExists = errors.New("category already exists")
	// ErrDefaultCategoryDelete 默认分类不可删除
	ErrDefaultCategoryDelete = errors.New("default category cannot be deleted")
	// ErrUnknownCategory 指定的分类不存在
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrCaptchaMismatch 算术验证答案错误
	ErrCaptchaMismatch = errors.New("captcha answer mismatch")
	// ErrSlugExhausted 多次重试后仍无法写入唯一 slug
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)

// ValidationError 表示可以直接展示给用户的输入错误
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError 创建校验错误，cause 可以为 nil
func NewValidationError(msg string, cause error) error {
	return &ValidationError{Msg: msg, Err: cause}
}

// IsValidation 报告 err 链中是否有 ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationMessage 返回 err 链中第一个 ValidationError 的提示
func ValidationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return ""
}
