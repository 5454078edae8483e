package controller

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// mathCaptcha 是投稿表单的算术验证题，正确答案只保存在服务端会话中。
type mathCaptcha struct {
	sessions *scs.SessionManager
}

// challenge 生成一道新题目并覆盖会话中的旧答案
func (m mathCaptcha) challenge(ctx context.Context) (a, b int) {
	a, b = rand.IntN(10)+1, rand.IntN(10)+1
	m.sessions.Put(ctx, constant.SessionCaptchaAnswerKey, a+b)
	return a, b
}

// verify 校验答案；无论对错，答案只能使用一次
func (m mathCaptcha) verify(ctx context.Context, answer string) error {
	expected, ok := m.sessions.Pop(ctx, constant.SessionCaptchaAnswerKey).(int)
	if !ok {
		return myErrors.ErrCaptchaMismatch
	}
	if got, err := strconv.Atoi(strings.TrimSpace(answer)); err != nil || got != expected {
		return myErrors.ErrCaptchaMismatch
	}
	return nil
}
