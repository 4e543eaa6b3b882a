package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// AI机器人决策参数
const (
	aiThinkInterval = 200 * time.Millisecond // 攻击决策节流间隔
	aiMoveInterval  = 100 * time.Millisecond // 移动决策节流间隔，比思考更频繁

	// aiLowHealthThreshold 血量低于该值时机器人转为逃离大猩猩
	aiLowHealthThreshold = 3.0

	// aiLookAheadFactor 避障预判点距离为机器人体型半径的倍数
	aiLookAheadFactor = 2.0
)

// InputFunc 输入下发函数。机器人合成的输入和真人客户端走同一个入口，
// 保证机器人同样受耐力、冷却和碰撞规则约束，没有特权路径。
type InputFunc func(playerID string, input models.PlayerInput)

// botSchedule 单个机器人的调度状态，与共享实体状态分开保存
type botSchedule struct {
	lastThink  time.Time // 上次攻击决策时间
	lastMove   time.Time // 上次移动决策时间
	lastAttack time.Time // 上次合成攻击输入的时间
}

// AIController 机器人控制器，每场比赛一个实例
type AIController struct {
	game    *GameState
	balance *models.BalanceConfig
	rng     *rand.Rand
	apply   InputFunc
	bots    map[string]*botSchedule
	nameSeq int
}

// NewAIController 创建机器人控制器实例
func NewAIController(game *GameState, balance *models.BalanceConfig, rng *rand.Rand, apply InputFunc) *AIController {
	return &AIController{
		game:    game,
		balance: balance,
		rng:     rng,
		apply:   apply,
		bots:    make(map[string]*botSchedule),
	}
}

// SpawnBots 补足人类阵营人数：按真人数量计算缺口，逐个生成机器人
func (ac *AIController) SpawnBots(targetHumanCount int) {
	deficit := targetHumanCount - ac.game.CountRealHumans()
	for i := 0; i < deficit; i++ {
		bot := ac.makeBot()
		ac.game.AddEntity(bot)
		ac.bots[bot.ID] = &botSchedule{}
	}
}

// RemoveAllBots 移除全部机器人，每回合开始前重新生成干净的机器人阵容
func (ac *AIController) RemoveAllBots() {
	for id := range ac.bots {
		ac.game.RemoveEntity(id)
		delete(ac.bots, id)
	}
	ac.nameSeq = 0
}

// RemoveBot 移除单个机器人
func (ac *AIController) RemoveBot(id string) {
	delete(ac.bots, id)
}

// makeBot 以人类默认数值生成一个机器人实体
func (ac *AIController) makeBot() *models.Entity {
	rb := ac.balance.ForRole(models.RoleHuman)
	x, y := RandomSpawnPosition(ac.rng, rb.BodyRadius, ac.game.Obstacles)
	ac.nameSeq++
	return &models.Entity{
		ID:      generateBotID(ac.rng),
		Name:    fmt.Sprintf("机器人%d", ac.nameSeq),
		Role:    models.RoleHuman,
		IsBot:   true,
		X:       x,
		Y:       y,
		HP:      rb.MaxHealth,
		MaxHP:   rb.MaxHealth,
		Lives:   rb.Lives,
		Stamina: rb.Stamina,
		State:   models.StatePlaying,
	}
}

// generateBotID 生成机器人唯一ID
func generateBotID(rng *rand.Rand) string {
	return fmt.Sprintf("bot_%d_%d", time.Now().UnixNano(), rng.Intn(1000))
}

// UpdateBots 每个模拟tick驱动一次全部机器人的决策。
// 机器人只以大猩猩为目标；血量过低时反向逃离。攻击和移动分别节流，
// 模拟接近真人的反应延迟，同时让决策开销与tick频率解耦。
func (ac *AIController) UpdateBots(now time.Time) {
	gorilla := ac.game.Entity(ac.game.GorillaID)
	if gorilla != nil && gorilla.State != models.StatePlaying {
		gorilla = nil
	}

	for _, bot := range ac.game.EntityList() {
		if !bot.IsBot || bot.State == models.StateDead {
			continue
		}
		sched, ok := ac.bots[bot.ID]
		if !ok {
			sched = &botSchedule{}
			ac.bots[bot.ID] = sched
		}

		fleeing := gorilla != nil && bot.HP <= aiLowHealthThreshold

		// 攻击决策：逃跑中的机器人不出手
		if !fleeing && gorilla != nil && now.Sub(sched.lastThink) >= aiThinkInterval {
			sched.lastThink = now
			hitRadius := ac.balance.ForRole(bot.Role).AttackRange + ac.balance.ForRole(gorilla.Role).BodyRadius
			if withinRange(bot.X, bot.Y, gorilla.X, gorilla.Y, hitRadius) {
				sched.lastAttack = now
				ac.apply(bot.ID, models.PlayerInput{Kind: models.InputAttack})
			}
		}

		// 移动决策
		if now.Sub(sched.lastMove) < aiMoveInterval {
			continue
		}
		sched.lastMove = now

		if gorilla == nil {
			// 没有有效目标：原地停住
			ac.apply(bot.ID, models.PlayerInput{Kind: models.InputMove, DX: 0, DY: 0})
			continue
		}

		dx, dy := normalize(gorilla.X-bot.X, gorilla.Y-bot.Y)
		if fleeing {
			dx, dy = -dx, -dy
		}

		// 障碍物预判：航向上的预判点被挡住时随机向左或向右转90度绕行
		radius := ac.balance.ForRole(bot.Role).BodyRadius
		lookX := bot.X + dx*radius*aiLookAheadFactor
		lookY := bot.Y + dy*radius*aiLookAheadFactor
		if collidesAny(lookX, lookY, radius, ac.game.Obstacles) {
			if ac.rng.Intn(2) == 0 {
				dx, dy = -dy, dx
			} else {
				dx, dy = dy, -dx
			}
		}

		ac.apply(bot.ID, models.PlayerInput{Kind: models.InputMove, DX: dx, DY: dy})
	}
}

// normalize 归一化向量，零向量原样返回
func normalize(dx, dy float64) (float64, float64) {
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	return dx / length, dy / length
}
