package engine

import "errors"

var (
	// ErrNotFound 表示项目或组件不在登记表里
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition 表示操作与组件当前状态冲突
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrBusy 表示组件正在执行另一个操作
	ErrBusy = errors.New("component is busy")
)
