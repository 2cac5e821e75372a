// Package writegate 定义金库写入闸门接口
//
// 闸门同时承担两项职责：
//  1. 暂停（Pause）：受控地禁止用户写操作（存入/取回），特权操作不受影响
//  2. 重入守卫（Enter）：同一时刻只允许一个写操作处于受保护区间，
//     持有期间的任何再次进入立即失败，且不产生任何状态变化
package writegate

import "errors"

var (
	// ErrPaused 闸门处于暂停状态
	ErrPaused = errors.New("writegate: paused")
	// ErrReentrant 受保护区间已被占用
	ErrReentrant = errors.New("writegate: reentrant call")
)

// Release 释放受保护区间，重复调用是安全的
type Release func()

// WriteGate 写入闸门
type WriteGate interface {
	// Pause 进入暂停状态，返回状态是否发生变化
	Pause(reason string) bool

	// Unpause 退出暂停状态，返回状态是否发生变化
	Unpause() bool

	// IsPaused 检查是否处于暂停状态
	IsPaused() bool

	// PauseReason 返回暂停原因，未暂停时为空字符串
	PauseReason() string

	// AssertNotPaused 暂停时返回包装了 ErrPaused 的错误
	AssertNotPaused(op string) error

	// Enter 进入受保护区间
	//
	// 已被占用时返回包装了 ErrReentrant 的错误；
	// 成功时调用方必须在所有退出路径上调用返回的 Release（通常 defer）。
	Enter(op string) (Release, error)

	// IsBusy 受保护区间是否被占用
	IsBusy() bool

	// CurrentOp 返回当前占用者的操作名，空闲时为空字符串
	CurrentOp() string
}
