package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// ServiceOrderController 处理服务咨询：公开表单与管理员状态流转
type ServiceOrderController struct {
	render *Renderer
	orders service.ServiceOrderService
	logger *zap.Logger
}

func NewServiceOrderController(render *Renderer, orders service.ServiceOrderService, logger *zap.Logger) *ServiceOrderController {
	return &ServiceOrderController{render: render, orders: orders, logger: logger}
}

// Services 服务介绍与咨询表单页
func (ctrl *ServiceOrderController) Services(c *gin.Context) {
	ctrl.render.HTML(c, http.StatusOK, "services.html", nil)
}

// Create 提交服务咨询单
// @Summary      提交服务咨询
// @Tags         public
// @Accept       x-www-form-urlencoded
// @Param        service_name formData string true "服务名称"
// @Param        customer_name formData string true "姓名"
// @Param        contact_number formData string true "联系电话"
// @Param        age formData int false "年龄"
// @Param        sex formData string false "性别"
// @Param        location formData string false "所在地"
// @Param        message formData string false "留言"
// @Success      303 {string} string "跳转回服务页"
// @Router       /service-order [post]
func (ctrl *ServiceOrderController) Create(c *gin.Context) {
	var form dto.ServiceOrderForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.logger.Debug("服务咨询表单校验失败", zap.Error(err))
		ctrl.render.Flash(c, "Something went wrong. Please try again.")
		ctrl.render.Redirect(c, "/services")
		return
	}
	if _, err := ctrl.orders.Create(c.Request.Context(), &form); err != nil {
		ctrl.render.Fail(c, err, "/services")
		return
	}
	ctrl.render.Flash(c, "Thank you! We will contact you shortly.")
	ctrl.render.Redirect(c, "/services")
}

// UpdateStatus 修改服务单状态 (pending / contacted / completed)
// @Summary      修改服务单状态
// @Tags         operator
// @Param        id path int true "服务单 ID"
// @Param        status formData string true "新状态" Enums(pending, contacted, completed)
// @Success      303 {string} string "跳转到管理后台"
// @Failure      404 {string} string "服务单不存在"
// @Router       /service-order/{id}/status [post]
func (ctrl *ServiceOrderController) UpdateStatus(c *gin.Context) {
	const back = "/dashboard#service-orders"
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	var form dto.ServiceOrderStatusForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Status is required.")
		ctrl.render.Redirect(c, back)
		return
	}
	order, err := ctrl.orders.UpdateStatus(c.Request.Context(), id, form.Status)
	if err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Flash(c, fmt.Sprintf("Order #%d marked as %s.", order.ID, order.Status))
	ctrl.render.Redirect(c, back)
}

// RegisterRoutes 注册服务咨询路由
func (ctrl *ServiceOrderController) RegisterRoutes(public, operator *gin.RouterGroup) {
	public.GET("/services", ctrl.Services)
	public.POST("/service-order", ctrl.Create)
	operator.POST("/service-order/:id/status", ctrl.UpdateStatus)
}
