// Package writegate 提供 WriteGate 接口的默认实现
//
// # 架构定位
//
//   - 接口定义：pkg/interfaces/infrastructure/writegate/
//   - 实现：internal/core/infrastructure/writegate/（本包）
//
// # 功能说明
//
// 1. 暂停（Pause）
//   - 用途：控制者受控地停止用户写操作（存入/取回）
//   - 行为：AssertNotPaused 返回 ErrPaused；特权操作（提取收益、紧急清空）不检查暂停
//
// 2. 重入守卫（Enter）
//   - 用途：保证同一时刻只有一个写操作位于受保护区间内
//   - 行为：区间被占用时 Enter 立即返回 ErrReentrant，不等待、不排队
//   - 外部场所回调、资产转账钩子等在区间内再次调用金库写操作，都会在此失败
//
// # 使用方式
//
//	release, err := gate.Enter("deposit")
//	if err != nil {
//	    return err
//	}
//	defer release()
//	if err := gate.AssertNotPaused("deposit"); err != nil {
//	    return err
//	}
//
// # 线程安全
//
// gateImpl 使用 sync.RWMutex 保护暂停状态；受保护区间的占用使用同一把锁。
// 只读查询使用 RLock，不进入受保护区间。
package writegate
