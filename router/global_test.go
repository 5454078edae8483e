package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/controller"
	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/internal/testdb"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/service"
	"github.com/Xushengqwer/blog_service/web"
)

// newTestHandler 组装与 main 相同的控制器，数据库为内存 SQLite，不挂公共中间件
func newTestHandler(t *testing.T) (http.Handler, service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db := testdb.New(t)
	logger := zap.NewNop()

	postRepo := mysql.NewPostRepository(db, logger)
	categoryRepo := mysql.NewCategoryRepository(db, logger)
	submissionRepo := mysql.NewSubmissionRepository(db, logger)
	settingsRepo := mysql.NewSettingsRepository(db, logger)
	subscriberRepo := mysql.NewSubscriberRepository(db, logger)
	orderRepo := mysql.NewServiceOrderRepository(db, logger)
	batchRepo := mysql.NewPostBatchOperationsRepository(db, logger, config.ViewSyncConfig{ConcurrencyLevel: 1})

	storage, err := dependencies.NewLocalStorage(t.TempDir(), "/static", logger)
	require.NoError(t, err)
	uploads := service.NewUploadService(storage, constant.DefaultAllowedExtensions, logger)

	var events producer.NopProducer
	posts := service.NewPostService(db, postRepo, mysql.NewAttachmentRepository(db, logger), categoryRepo, nil, uploads, events, logger)
	lists := service.NewPostListService(postRepo, service.NewPopularPostService(nil, batchRepo, 0, logger), config.SiteConfig{}, logger)
	submissions := service.NewSubmissionService(db, submissionRepo, postRepo, categoryRepo, events, logger)
	comments := service.NewCommentService(db, mysql.NewCommentRepository(db, logger), postRepo, logger)
	categories := service.NewCategoryService(db, categoryRepo, postRepo, submissionRepo, logger)
	settings := service.NewSettingsService(settingsRepo, logger)
	dashboard := service.NewDashboardService(postRepo, subscriberRepo, submissionRepo, categoryRepo, settingsRepo, orderRepo, logger)
	auth := service.NewAuthService(mysql.NewUserRepository(db, logger), logger)
	require.NoError(t, categories.EnsureDefaults(ctx))

	sessions := scs.New()
	render := controller.NewRenderer(sessions, settings, categories, logger)
	controllers := Controllers{
		Render:       render,
		Post:         controller.NewPostController(render, posts, lists, comments, service.NewSubscriberService(subscriberRepo, logger), logger),
		PostAdmin:    controller.NewPostAdminController(render, posts, categories, uploads, 0, logger),
		Submission:   controller.NewSubmissionController(render, submissions, categories, uploads, logger),
		Admin:        controller.NewAdminController(render, dashboard, settings, categories, comments, posts, logger),
		ServiceOrder: controller.NewServiceOrderController(render, service.NewServiceOrderService(orderRepo, logger), logger),
		Auth:         controller.NewAuthController(render, auth, logger),
	}

	templates, err := web.Templates(uploads.URL)
	require.NoError(t, err)
	engine := gin.New()
	registerRoutes(engine, sessions, templates, nil, controllers, logger)
	return sessions.LoadAndSave(engine), auth
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPingAndNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = serve(h, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = serve(h, httptest.NewRequest(http.MethodGet, "/post/missing-slug", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicPagesRender(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, path := range []string{"/", "/?category=Tech", "/search?q=go", "/submit", "/services", "/about", "/login"} {
		w := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestOperatorRoutesRequireLogin(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/create"},
		{http.MethodGet, "/delete/1"},
		{http.MethodPost, "/submission/1/approve"},
		{http.MethodPost, "/category/add"},
	} {
		w := serve(h, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusSeeOther, w.Code, tc.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), tc.path)
	}
}

func TestLoginFlow(t *testing.T) {
	h, auth := newTestHandler(t)
	_, err := auth.EnsureOperator(context.Background(), "admin", "s3cret", "")
	require.NoError(t, err)

	login := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {"admin"}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(h, req)
	}

	w := login("wrong")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = login("s3cret")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = serve(h, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "World")
}
