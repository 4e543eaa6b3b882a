package services

import (
	"log"
	"math/rand"
	"time"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// 比赛节奏参数
const (
	countdownSeconds = 5.0   // 开局倒计时时长
	roundSeconds     = 300.0 // 单回合时长上限
	resultsSeconds   = 15.0  // 结算展示时长
	targetHumanCount = 10    // 人类阵营目标人数，不足时用机器人补齐
)

// StateMachine 比赛阶段状态机：lobby → countdown → round → results 循环，永不终止
type StateMachine struct {
	game    *GameState
	balance *models.BalanceConfig
	rng     *rand.Rand
	ai      *AIController
}

// NewStateMachine 创建状态机实例
func NewStateMachine(game *GameState, balance *models.BalanceConfig, rng *rand.Rand, ai *AIController) *StateMachine {
	return &StateMachine{game: game, balance: balance, rng: rng, ai: ai}
}

// Tick 推进一个模拟tick。无论处于哪个阶段，都会清理过期事件并重算人类总生命数。
func (sm *StateMachine) Tick(dt float64, now time.Time) {
	gs := sm.game
	gs.PruneEvents(now)

	switch gs.Phase {
	case models.PhaseLobby:
		sm.tickLobby()
	case models.PhaseCountdown:
		sm.tickCountdown(dt)
	case models.PhaseRound:
		sm.tickRound(dt, now)
	case models.PhaseResults:
		sm.tickResults(dt)
	}

	gs.RecomputeHumanLives()
}

// tickLobby 大厅阶段：没有大猩猩时从候选队列弹出一个分配，分配后进入倒计时
func (sm *StateMachine) tickLobby() {
	gs := sm.game
	if gs.GorillaID == "" {
		if candidate := gs.PopGorillaCandidate(); candidate != nil {
			sm.AssignGorilla(candidate)
		}
	}
	if gs.GorillaID != "" {
		gs.Phase = models.PhaseCountdown
		gs.PhaseTimer = countdownSeconds
		log.Printf("[状态机] 大猩猩已就位，进入倒计时")
	}
}

// AssignGorilla 把大猩猩角色授予指定实体并广播事件
func (sm *StateMachine) AssignGorilla(e *models.Entity) {
	e.Role = models.RoleGorilla
	sm.game.GorillaID = e.ID
	sm.game.AddEvents(models.NewGorillaAssignedEvent(e))
	log.Printf("[状态机] 玩家 %s (%s) 成为大猩猩", e.Name, e.ID)
}

// tickCountdown 倒计时阶段：计时归零后开始回合
func (sm *StateMachine) tickCountdown(dt float64) {
	sm.game.PhaseTimer -= dt
	if sm.game.PhaseTimer > 0 {
		return
	}
	sm.startRound()
}

// startRound 回合开始：重置全部实体并补齐机器人。
// 没有大猩猩的回合属于逻辑异常，防御性地退回大厅而不是带病开局。
func (sm *StateMachine) startRound() {
	gs := sm.game
	gorilla := gs.Entity(gs.GorillaID)
	if gorilla == nil {
		log.Printf("[状态机] 回合开始时没有大猩猩，退回大厅")
		gs.GorillaID = ""
		gs.Phase = models.PhaseLobby
		gs.PhaseTimer = 0
		return
	}

	// 上一回合的机器人清场后按真人数量重新补齐
	sm.ai.RemoveAllBots()
	for _, e := range gs.EntityList() {
		sm.resetEntityForRound(e)
	}
	sm.ai.SpawnBots(targetHumanCount)

	gs.Phase = models.PhaseRound
	gs.PhaseTimer = 0
	log.Printf("[状态机] 回合开始，场上共 %d 名实体", len(gs.Entities))
}

// resetEntityForRound 按角色默认值重置实体，并重新随机出生点
func (sm *StateMachine) resetEntityForRound(e *models.Entity) {
	rb := sm.balance.ForRole(e.Role)
	e.HP = rb.MaxHealth
	e.MaxHP = rb.MaxHealth
	e.Lives = rb.Lives
	e.Stamina = rb.Stamina
	e.State = models.StatePlaying
	e.LastAttack = time.Time{}
	e.X, e.Y = RandomSpawnPosition(sm.rng, rb.BodyRadius, sm.game.Obstacles)
}

// tickRound 回合阶段：推进计时、恢复耐力、驱动机器人，然后按固定优先级判定胜负
func (sm *StateMachine) tickRound(dt float64, now time.Time) {
	gs := sm.game
	gorilla := gs.Entity(gs.GorillaID)
	if gorilla == nil {
		// 大猩猩离开本应立即触发结算，走到这里说明状态不一致，退回大厅
		log.Printf("[状态机] 回合中找不到大猩猩实体，退回大厅")
		gs.GorillaID = ""
		gs.Phase = models.PhaseLobby
		gs.PhaseTimer = 0
		return
	}

	gs.PhaseTimer += dt

	for _, e := range gs.EntityList() {
		RegenerateStamina(sm.balance, e, dt)
	}

	sm.ai.UpdateBots(now)
	gs.RecomputeHumanLives()

	// 胜负判定，固定优先级，命中第一条即结算
	switch {
	case gorilla.HP <= 0 || gorilla.State == models.StateDead:
		sm.endRound(models.ReasonHumansWin)
	case gs.HumanLives <= 0 && gs.CountAliveHumans() == 0:
		sm.endRound(models.ReasonGorillaWins)
	case gs.PhaseTimer >= roundSeconds:
		if gs.HumanLives > 0 {
			sm.endRound(models.ReasonGorillaWins)
		} else {
			sm.endRound(models.ReasonDraw)
		}
	}
}

// endRound 结束回合并进入结算阶段
func (sm *StateMachine) endRound(reason string) {
	gs := sm.game
	gs.Phase = models.PhaseResults
	gs.PhaseTimer = resultsSeconds
	gs.AddEvents(models.NewGameOverEvent(reason))
	log.Printf("[状态机] 回合结束: %s", reason)
}

// tickResults 结算阶段：计时归零后回到大厅，清空大猩猩分配等待下一轮
func (sm *StateMachine) tickResults(dt float64) {
	gs := sm.game
	gs.PhaseTimer -= dt
	if gs.PhaseTimer > 0 {
		return
	}

	if gorilla := gs.Entity(gs.GorillaID); gorilla != nil {
		gorilla.Role = models.RoleHuman
	}
	gs.GorillaID = ""

	// 大厅里所有实体恢复可见状态，数值要到下一回合开始才重置
	for _, e := range gs.EntityList() {
		e.State = models.StatePlaying
	}

	gs.Phase = models.PhaseLobby
	gs.PhaseTimer = 0
	log.Printf("[状态机] 返回大厅，等待下一位大猩猩")
}

// HandleGorillaDeparture 大猩猩空缺的统一处理：回合中立即判人类获胜，
// 大厅或倒计时阶段尝试顺位提拔下一位候选人。
func (sm *StateMachine) HandleGorillaDeparture() {
	gs := sm.game
	gs.GorillaID = ""

	switch gs.Phase {
	case models.PhaseRound:
		sm.endRound(models.ReasonHumansWinGorillaLeft)
	case models.PhaseLobby, models.PhaseCountdown:
		if candidate := gs.PopGorillaCandidate(); candidate != nil {
			sm.AssignGorilla(candidate)
			return
		}
		if gs.Phase == models.PhaseCountdown {
			// 没有候选人顶替时中止倒计时
			gs.Phase = models.PhaseLobby
			gs.PhaseTimer = 0
			log.Printf("[状态机] 大猩猩离开且无人候补，倒计时取消")
		}
	}
}
