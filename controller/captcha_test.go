package controller

import (
	"context"
	"strconv"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/myErrors"
)

func TestMathCaptchaAnswerIsSingleUse(t *testing.T) {
	sessions := scs.New()
	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	captcha := mathCaptcha{sessions: sessions}

	assert.ErrorIs(t, captcha.verify(ctx, "2"), myErrors.ErrCaptchaMismatch, "no challenge issued yet")

	a, b := captcha.challenge(ctx)
	assert.True(t, a >= 1 && a <= 10 && b >= 1 && b <= 10)
	answer := strconv.Itoa(a + b)
	require.NoError(t, captcha.verify(ctx, " "+answer+" "))
	assert.ErrorIs(t, captcha.verify(ctx, answer), myErrors.ErrCaptchaMismatch, "answer already consumed")

	a, b = captcha.challenge(ctx)
	assert.ErrorIs(t, captcha.verify(ctx, strconv.Itoa(a+b+1)), myErrors.ErrCaptchaMismatch)
	assert.ErrorIs(t, captcha.verify(ctx, strconv.Itoa(a+b)), myErrors.ErrCaptchaMismatch, "wrong guess burns the answer")
	assert.ErrorIs(t, captcha.verify(ctx, "abc"), myErrors.ErrCaptchaMismatch)
}
