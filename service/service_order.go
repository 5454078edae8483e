package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// ServiceOrderService 处理访客的服务咨询单
type ServiceOrderService interface {
	Create(ctx context.Context, form *dto.ServiceOrderForm) (*entities.ServiceOrder, error)
	// UpdateStatus 在边界处把字符串解析为封闭的状态枚举；订单不存在返回 NotFound
	UpdateStatus(ctx context.Context, orderID uint64, status string) (*entities.ServiceOrder, error)
}

type serviceOrderService struct {
	orderRepo mysql.ServiceOrderRepository
	logger    *zap.Logger
}

func NewServiceOrderService(orderRepo mysql.ServiceOrderRepository, logger *zap.Logger) ServiceOrderService {
	return &serviceOrderService{orderRepo: orderRepo, logger: logger}
}

func (s *serviceOrderService) Create(ctx context.Context, form *dto.ServiceOrderForm) (*entities.ServiceOrder, error) {
	if err := requireFields(
		[2]string{"Service", form.ServiceName},
		[2]string{"Name", form.CustomerName},
		[2]string{"Contact number", form.ContactNumber},
	); err != nil {
		return nil, err
	}
	order := &entities.ServiceOrder{
		ServiceName:   strings.TrimSpace(form.ServiceName),
		CustomerName:  strings.TrimSpace(form.CustomerName),
		ContactNumber: strings.TrimSpace(form.ContactNumber),
		Sex:           nullString(form.Sex),
		Location:      nullString(form.Location),
		Message:       nullString(form.Message),
		Status:        enums.ServiceOrderPending,
	}
	if form.Age != nil {
		order.Age = sql.NullInt64{Int64: int64(*form.Age), Valid: true}
	}
	if err := s.orderRepo.CreateServiceOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("保存服务单失败: %w", err)
	}
	s.logger.Info("收到服务咨询单", zap.Uint64("orderID", order.ID), zap.String("service", order.ServiceName))
	return order, nil
}

func (s *serviceOrderService) UpdateStatus(ctx context.Context, orderID uint64, status string) (*entities.ServiceOrder, error) {
	st, err := enums.ParseServiceOrderStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, myErrors.NewValidationError(fmt.Sprintf("Unknown status: %s", status), err)
	}
	order, err := s.orderRepo.GetServiceOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == st {
		return order, nil
	}
	if err := s.orderRepo.UpdateServiceOrderStatus(ctx, orderID, st); err != nil {
		return nil, fmt.Errorf("更新服务单状态失败: %w", err)
	}
	s.logger.Info("服务单状态已更新",
		zap.Uint64("orderID", orderID),
		zap.String("from", order.Status.String()),
		zap.String("to", st.String()))
	order.Status = st
	return order, nil
}
