package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
)

type ServiceOrderRepository interface {
	CreateServiceOrder(ctx context.Context, order *entities.ServiceOrder) error
	GetServiceOrderByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error)
	UpdateServiceOrderStatus(ctx context.Context, id uint64, status enums.ServiceOrderStatus) error
	// ListServiceOrders 按创建时间倒序
	ListServiceOrders(ctx context.Context) ([]*entities.ServiceOrder, error)
}

type serviceOrderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewServiceOrderRepository(db *gorm.DB, logger *zap.Logger) ServiceOrderRepository {
	return &serviceOrderRepository{db: db, logger: logger}
}

func (r *serviceOrderRepository) CreateServiceOrder(ctx context.Context, order *entities.ServiceOrder) error {
	if order.Status == "" {
		order.Status = enums.ServiceOrderPending
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		r.logger.Error("插入服务单失败", zap.String("service", order.ServiceName), zap.Error(err))
		return err
	}
	return nil
}

func (r *serviceOrderRepository) GetServiceOrderByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error) {
	var order entities.ServiceOrder
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询服务单失败", zap.Uint64("orderID", id), zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *serviceOrderRepository) UpdateServiceOrderStatus(ctx context.Context, id uint64, status enums.ServiceOrderStatus) error {
	err := r.db.WithContext(ctx).Model(&entities.ServiceOrder{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		r.logger.Error("更新服务单状态失败", zap.Uint64("orderID", id), zap.Error(err))
	}
	return err
}

func (r *serviceOrderRepository) ListServiceOrders(ctx context.Context) ([]*entities.ServiceOrder, error) {
	var orders []*entities.ServiceOrder
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		r.logger.Error("查询服务单列表失败", zap.Error(err))
		return nil, err
	}
	return orders, nil
}
