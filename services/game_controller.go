package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// 模拟tick参数：10Hz固定频率
const (
	tickInterval = 100 * time.Millisecond
	tickSeconds  = 0.1
)

var (
	ErrPlayerNotFound = errors.New("玩家不存在")
	ErrInvalidRole    = errors.New("无效的角色")
)

// Broadcaster 状态广播出口，由传输层实现
type Broadcaster interface {
	Broadcast(message interface{})
}

// GameController 比赛流程控制器：固定频率的tick循环加统一的输入入口。
// 所有对共享状态的修改都在同一把锁下完成，输入到达即生效、按接收顺序应用，
// 不做tick边界的批处理。
type GameController struct {
	mutex       sync.RWMutex
	game        *GameState
	balance     models.BalanceConfig
	combat      *CombatResolver
	ai          *AIController
	sm          *StateMachine
	rng         *rand.Rand
	broadcaster Broadcaster
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewGameController 创建比赛控制器实例并组装各子系统
func NewGameController(balance models.BalanceConfig, obstacles []models.Obstacle) *GameController {
	gc := &GameController{
		game:    NewGameState(obstacles),
		balance: balance,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		stopCh:  make(chan struct{}),
	}
	gc.combat = NewCombatResolver(&gc.balance, gc.rng)
	gc.ai = NewAIController(gc.game, &gc.balance, gc.rng, gc.applyInput)
	gc.sm = NewStateMachine(gc.game, &gc.balance, gc.rng, gc.ai)
	return gc
}

// SetBroadcaster 设置状态广播出口
func (gc *GameController) SetBroadcaster(b Broadcaster) {
	gc.broadcaster = b
}

// Run 启动10Hz的模拟循环，阻塞直到Stop被调用
func (gc *GameController) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	log.Printf("[控制器] 模拟循环启动，tick间隔 %v", tickInterval)
	for {
		select {
		case <-ticker.C:
			gc.tick()
		case <-gc.stopCh:
			log.Printf("[控制器] 模拟循环停止")
			return
		}
	}
}

// Stop 停止模拟循环
func (gc *GameController) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

// tick 推进一个模拟tick并广播最新状态
func (gc *GameController) tick() {
	now := time.Now()

	gc.mutex.Lock()
	gc.sm.Tick(tickSeconds, now)
	snapshot := gc.buildSnapshot()
	gc.mutex.Unlock()

	if gc.broadcaster != nil {
		gc.broadcaster.Broadcast(snapshot)
	}
}

// buildSnapshot 在锁内构建广播快照，实体深拷贝避免序列化时与后续输入竞争
func (gc *GameController) buildSnapshot() map[string]interface{} {
	gs := gc.game
	players := make([]models.Entity, 0, len(gs.Entities))
	for _, e := range gs.EntityList() {
		players = append(players, *e)
	}
	events := make([]models.GameEvent, len(gs.Events))
	copy(events, gs.Events)
	chats := make([]models.ChatMessage, len(gs.Chats))
	copy(chats, gs.Chats)

	return map[string]interface{}{
		"type":        "game_state",
		"phase":       gs.Phase,
		"phase_timer": gs.PhaseTimer,
		"gorilla_id":  gs.GorillaID,
		"human_lives": gs.HumanLives,
		"players":     players,
		"obstacles":   gs.Obstacles,
		"events":      events,
		"chats":       chats,
	}
}

// Join 新玩家加入：分配默认人类角色和安全出生点
func (gc *GameController) Join(name string) *models.Entity {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	rb := gc.balance.ForRole(models.RoleHuman)
	x, y := RandomSpawnPosition(gc.rng, rb.BodyRadius, gc.game.Obstacles)
	e := &models.Entity{
		ID:      generatePlayerID(gc.rng),
		Name:    name,
		Role:    models.RoleHuman,
		X:       x,
		Y:       y,
		HP:      rb.MaxHealth,
		MaxHP:   rb.MaxHealth,
		Lives:   rb.Lives,
		Stamina: rb.Stamina,
		State:   models.StatePlaying,
	}
	gc.game.AddEntity(e)
	log.Printf("[控制器] 玩家 %s (%s) 加入比赛", e.Name, e.ID)

	copied := *e
	return &copied
}

// generatePlayerID 生成玩家唯一ID
func generatePlayerID(rng *rand.Rand) string {
	return fmt.Sprintf("p_%d_%d", time.Now().UnixNano(), rng.Intn(1000))
}

// Leave 玩家离开：移除实体、清理候选队列，大猩猩离开时触发空缺处理
func (gc *GameController) Leave(playerID string) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	e := gc.game.Entity(playerID)
	if e == nil {
		return
	}
	wasGorilla := playerID == gc.game.GorillaID

	gc.game.RemoveEntity(playerID)
	gc.ai.RemoveBot(playerID)
	log.Printf("[控制器] 玩家 %s (%s) 离开比赛", e.Name, e.ID)

	if wasGorilla {
		gc.sm.HandleGorillaDeparture()
	}
}

// SelectRole 角色申请：申请大猩猩进入候选队列（大厅内无猩猩时立即上位），
// 现任大猩猩改选人类视作主动让位。
func (gc *GameController) SelectRole(playerID string, role models.Role) error {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	e := gc.game.Entity(playerID)
	if e == nil {
		return ErrPlayerNotFound
	}

	switch role {
	case models.RoleGorilla:
		if gc.game.GorillaID == "" && gc.game.Phase == models.PhaseLobby {
			gc.sm.AssignGorilla(e)
			return nil
		}
		gc.game.EnqueueGorilla(playerID)
		return nil
	case models.RoleHuman:
		gc.game.RemoveFromGorillaQueue(playerID)
		if playerID == gc.game.GorillaID {
			e.Role = models.RoleHuman
			gc.sm.HandleGorillaDeparture()
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

// HandleInput 统一的输入入口，真人客户端经传输层调用。
// 输入到达即在锁内同步生效，保持接收顺序语义。
func (gc *GameController) HandleInput(playerID string, input models.PlayerInput) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()
	gc.applyInput(playerID, input)
}

// applyInput 锁内的输入应用逻辑，机器人直接调用此路径（调用方已持锁）
func (gc *GameController) applyInput(playerID string, input models.PlayerInput) {
	e := gc.game.Entity(playerID)
	if e == nil || e.State != models.StatePlaying {
		return
	}
	if gc.game.Phase != models.PhaseRound {
		return
	}

	switch input.Kind {
	case models.InputMove:
		ResolveMovement(&gc.balance, e, input.DX, input.DY, gc.game.Obstacles, tickSeconds)
	case models.InputAttack:
		gc.applyAttack(e)
	}
}

// applyAttack 攻击输入：先过冷却和耐力两道闸，再交给战斗结算器
func (gc *GameController) applyAttack(e *models.Entity) {
	now := time.Now()
	cooldown := time.Duration(gc.balance.ForRole(e.Role).AttackCooldown * float64(time.Second))
	if now.Sub(e.LastAttack) < cooldown {
		return
	}
	if !ConsumeStamina(&gc.balance, e) {
		return
	}
	e.LastAttack = now

	events := gc.combat.ResolveAttack(e, gc.game.EntityList())
	for _, ev := range events {
		// 重生的实体由房间层重新随机出生点
		if ev.Type == models.EventRespawn {
			if target := gc.game.Entity(ev.TargetID); target != nil {
				rb := gc.balance.ForRole(target.Role)
				target.X, target.Y = RandomSpawnPosition(gc.rng, rb.BodyRadius, gc.game.Obstacles)
			}
		}
	}
	gc.game.AddEvents(events...)
}

// Chat 聊天消息：超长截断后入环形缓冲，由下一次广播带出
func (gc *GameController) Chat(playerID, text string) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	e := gc.game.Entity(playerID)
	if e == nil {
		return
	}
	gc.game.AddChat(playerID, e.Name, text)
}

// Snapshot 返回当前状态快照，供REST调试接口使用
func (gc *GameController) Snapshot() map[string]interface{} {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return gc.buildSnapshot()
}

// Balance 返回当前生效的数值配置
func (gc *GameController) Balance() models.BalanceConfig {
	return gc.balance
}

// HasPlayer 玩家是否在比赛中
func (gc *GameController) HasPlayer(playerID string) bool {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return gc.game.Entity(playerID) != nil
}
