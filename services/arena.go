package services

import (
	"log"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// ArenaManager 竞技场管理器。本服务采用单场比赛模型：
// 进程内只有一个房间实例，所有玩家加入同一场比赛。
type ArenaManager struct {
	controller *GameController
	webSocket  *WebSocketManager
}

// NewArenaManager 创建竞技场：加载数值配置、布置障碍物并组装控制器与传输层
func NewArenaManager() *ArenaManager {
	balance := LoadBalanceConfig()
	controller := NewGameController(balance, DefaultObstacles())
	webSocket := NewWebSocketManager(controller)
	controller.SetBroadcaster(webSocket)

	log.Printf("[竞技场] 初始化完成，等待玩家加入")
	return &ArenaManager{
		controller: controller,
		webSocket:  webSocket,
	}
}

// Run 启动比赛模拟循环（阻塞）
func (am *ArenaManager) Run() {
	am.controller.Run()
}

// Stop 停止比赛模拟循环
func (am *ArenaManager) Stop() {
	am.controller.Stop()
}

// Join 新玩家加入比赛，返回分配的实体信息
func (am *ArenaManager) Join(name string) *models.Entity {
	return am.controller.Join(name)
}

// WebSocket 返回WebSocket管理器，供传输入口注册连接
func (am *ArenaManager) WebSocket() *WebSocketManager {
	return am.webSocket
}

// Snapshot 返回当前比赛状态快照
func (am *ArenaManager) Snapshot() map[string]interface{} {
	return am.controller.Snapshot()
}

// Balance 返回当前生效的数值配置
func (am *ArenaManager) Balance() models.BalanceConfig {
	return am.controller.Balance()
}

// HasPlayer 玩家是否在比赛中
func (am *ArenaManager) HasPlayer(playerID string) bool {
	return am.controller.HasPlayer(playerID)
}
