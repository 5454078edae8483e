package enums

import "fmt"

// SubmissionStatus 投稿审核状态
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ParseSubmissionStatus 在边界处校验外部传入的状态值
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	switch st := SubmissionStatus(s); st {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return st, nil
	default:
		return "", fmt.Errorf("未知的投稿状态: %q", s)
	}
}

// IsTerminal 报告状态是否为终态
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

func (s SubmissionStatus) String() string { return string(s) }
