package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/internal/testdb"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// recordingProducer 记录发送过的事件名称
type recordingProducer struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingProducer) record(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
	return nil
}

func (p *recordingProducer) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == name {
			n++
		}
	}
	return n
}

func (p *recordingProducer) SendPostPublishedEvent(context.Context, *entities.Post, *uint64) error {
	return p.record("post_published")
}

func (p *recordingProducer) SendPostDeletedEvent(context.Context, uint64) error {
	return p.record("post_deleted")
}

func (p *recordingProducer) SendSubmissionReceivedEvent(context.Context, *entities.Submission) error {
	return p.record("submission_received")
}

func (p *recordingProducer) SendSubmissionReviewedEvent(_ context.Context, _ uint64, status enums.SubmissionStatus, _ *uint64) error {
	return p.record("submission_" + status.String())
}

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	producer   *recordingProducer
	uploadRoot string
	operatorID uint64

	postRepo mysql.PostRepository

	uploads     UploadService
	posts       PostService
	lists       PostListService
	submissions SubmissionService
	comments    CommentService
	categories  CategoryService
	dashboard   DashboardService
	subscribers SubscriberService
	settings    SettingsService
	orders      ServiceOrderService
	auth        AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testdb.New(t)
	logger := zap.NewNop()

	userRepo := mysql.NewUserRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	attachmentRepo := mysql.NewAttachmentRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	subscriberRepo := mysql.NewSubscriberRepository(db, logger)
	submissionRepo := mysql.NewSubmissionRepository(db, logger)
	categoryRepo := mysql.NewCategoryRepository(db, logger)
	settingsRepo := mysql.NewSettingsRepository(db, logger)
	orderRepo := mysql.NewServiceOrderRepository(db, logger)
	batchRepo := mysql.NewPostBatchOperationsRepository(db, logger, config.ViewSyncConfig{ConcurrencyLevel: 1})

	uploadRoot := t.TempDir()
	storage, err := dependencies.NewLocalStorage(uploadRoot, "/static", logger)
	require.NoError(t, err)
	uploads := NewUploadService(storage, constant.DefaultAllowedExtensions, logger)
	producer := &recordingProducer{}

	f := &fixture{
		ctx:         ctx,
		db:          db,
		producer:    producer,
		uploadRoot:  uploadRoot,
		postRepo:    postRepo,
		uploads:     uploads,
		posts:       NewPostService(db, postRepo, attachmentRepo, categoryRepo, nil, uploads, producer, logger),
		lists:       NewPostListService(postRepo, NewPopularPostService(nil, batchRepo, 3, logger), config.SiteConfig{}, logger),
		submissions: NewSubmissionService(db, submissionRepo, postRepo, categoryRepo, producer, logger),
		comments:    NewCommentService(db, commentRepo, postRepo, logger),
		categories:  NewCategoryService(db, categoryRepo, postRepo, submissionRepo, logger),
		dashboard:   NewDashboardService(postRepo, subscriberRepo, submissionRepo, categoryRepo, settingsRepo, orderRepo, logger),
		subscribers: NewSubscriberService(subscriberRepo, logger),
		settings:    NewSettingsService(settingsRepo, logger),
		orders:      NewServiceOrderService(orderRepo, logger),
		auth:        &authService{userRepo: userRepo, cost: bcrypt.MinCost, logger: logger},
	}

	require.NoError(t, f.categories.EnsureDefaults(ctx))
	operator := &entities.User{Username: "operator", PasswordHash: "unused"}
	require.NoError(t, userRepo.CreateUser(ctx, operator))
	f.operatorID = operator.ID
	return f
}
