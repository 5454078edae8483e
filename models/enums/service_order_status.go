package enums

import "fmt"

// ServiceOrderStatus 服务咨询单的处理状态
type ServiceOrderStatus string

const (
	ServiceOrderPending   ServiceOrderStatus = "pending"
	ServiceOrderContacted ServiceOrderStatus = "contacted"
	ServiceOrderCompleted ServiceOrderStatus = "completed"
)

func ParseServiceOrderStatus(s string) (ServiceOrderStatus, error) {
	switch st := ServiceOrderStatus(s); st {
	case ServiceOrderPending, ServiceOrderContacted, ServiceOrderCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("未知的服务单状态: %q", s)
	}
}

func (s ServiceOrderStatus) String() string { return string(s) }
