package writegate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	wgif "github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
)

// gateImpl 是 WriteGate 接口的默认实现
//
// 实现了两种写控制机制：
//  1. 暂停：禁止用户写操作，直到显式恢复
//  2. 重入守卫：受保护区间同一时刻只允许一个持有者
//
// 线程安全：使用 RWMutex 保护内部状态
type gateImpl struct {
	mu sync.RWMutex

	// 暂停相关字段
	paused   bool
	reason   string
	pausedAt time.Time

	// 受保护区间相关字段
	holderToken string
	holderOp    string
	enteredAt   time.Time
}

// 编译时检查：确保 gateImpl 实现了 WriteGate 接口
var _ wgif.WriteGate = (*gateImpl)(nil)

// New 创建一个新的 WriteGate 实例
//
// 每个金库持有独立的闸门实例。
func New() wgif.WriteGate {
	return &gateImpl{}
}

// Pause 进入暂停状态
func (g *gateImpl) Pause(reason string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return false
	}
	g.paused = true
	g.reason = reason
	g.pausedAt = time.Now()
	return true
}

// Unpause 退出暂停状态
func (g *gateImpl) Unpause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return false
	}
	g.paused = false
	g.reason = ""
	g.pausedAt = time.Time{}
	return true
}

// IsPaused 检查是否处于暂停状态
func (g *gateImpl) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// PauseReason 返回暂停原因
func (g *gateImpl) PauseReason() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.reason
}

// AssertNotPaused 校验写操作是否允许
func (g *gateImpl) AssertNotPaused(op string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.paused {
		return fmt.Errorf("%w: op=%s reason=%s", wgif.ErrPaused, op, g.reason)
	}
	return nil
}

// Enter 进入受保护区间
//
// 每次成功进入生成一个随机 token，Release 只释放与自身 token 匹配的占用，
// 因此重复调用或过期的 Release 不会误释放后续持有者。
func (g *gateImpl) Enter(op string) (wgif.Release, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holderToken != "" {
		return nil, fmt.Errorf("%w: op=%s held_by=%s", wgif.ErrReentrant, op, g.holderOp)
	}
	g.holderToken = token
	g.holderOp = op
	g.enteredAt = time.Now()

	var once sync.Once
	return func() {
		once.Do(func() { g.release(token) })
	}, nil
}

// release 释放 token 对应的占用
func (g *gateImpl) release(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holderToken != token {
		return
	}
	g.holderToken = ""
	g.holderOp = ""
	g.enteredAt = time.Time{}
}

// IsBusy 受保护区间是否被占用
func (g *gateImpl) IsBusy() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.holderToken != ""
}

// CurrentOp 返回当前占用者的操作名
func (g *gateImpl) CurrentOp() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.holderOp
}

// randomToken 生成随机 token
func randomToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
