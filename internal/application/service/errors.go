package service

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight 错误：已有一笔手动交易在途，拒绝并发提交
var ErrSubmissionInFlight = errors.New("a trade submission is already in flight")

// ErrSignalInFlight 错误：同一信号正在执行中
var ErrSignalInFlight = errors.New("signal execution already in flight")

// ValidationError is a local precondition failure on a trade submission.
// No network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// RiskLimitError reports a stake above the locally enforced risk cap.
// No network call is made.
type RiskLimitError struct {
	Cap float64
}

func (e *RiskLimitError) Error() string {
	return fmt.Sprintf("stake exceeds maximum 2%% of balance ($%.2f)", e.Cap)
}

// RejectedError carries a backend-supplied trade failure reason, verbatim.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return "trade rejected: " + e.Reason }

// ExecutionError is a transport-level failure during a trade submission.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return "trade execution failed: " + e.Err.Error() }
func (e *ExecutionError) Unwrap() error { return e.Err }
