package services

import (
	"math/rand"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// CombatResolver 近战命中与伤害结算器。
// 它是战斗相关生命状态（HP、生命数、死亡）的唯一写入方。
type CombatResolver struct {
	balance *models.BalanceConfig
	rng     *rand.Rand
}

// NewCombatResolver 创建战斗结算器实例
func NewCombatResolver(balance *models.BalanceConfig, rng *rand.Rand) *CombatResolver {
	return &CombatResolver{balance: balance, rng: rng}
}

// ResolveAttack 结算一次攻击：对所有处于攻击范围内的有效目标逐个判定伤害。
// 一次挥击可以同时命中多个重叠目标。攻击者不在游戏状态时不产生任何事件。
// 战斗是严格非对称的：只有大猩猩对人类、人类对大猩猩两种组合会造成伤害。
func (cr *CombatResolver) ResolveAttack(attacker *models.Entity, entities []*models.Entity) []models.GameEvent {
	if attacker.State != models.StatePlaying {
		return nil
	}

	attackRange := cr.balance.ForRole(attacker.Role).AttackRange
	var events []models.GameEvent

	for _, target := range entities {
		if target.ID == attacker.ID || target.State == models.StateDead {
			continue
		}

		// 命中判定：攻击范围加上目标体型半径，比较平方距离
		hitRadius := attackRange + cr.balance.ForRole(target.Role).BodyRadius
		if !withinRange(attacker.X, attacker.Y, target.X, target.Y, hitRadius) {
			continue
		}

		switch {
		case attacker.Role == models.RoleGorilla && target.Role == models.RoleHuman:
			events = append(events, cr.gorillaHitsHuman(attacker, target)...)
		case attacker.Role == models.RoleHuman && target.Role == models.RoleGorilla:
			events = append(events, cr.humanHitsGorilla(attacker, target)...)
		}
	}

	return events
}

// gorillaHitsHuman 大猩猩命中人类的伤害结算
func (cr *CombatResolver) gorillaHitsHuman(attacker, target *models.Entity) []models.GameEvent {
	humanBalance := cr.balance.ForRole(models.RoleHuman)
	gorillaBalance := cr.balance.ForRole(models.RoleGorilla)

	// 暴击判定使用目标（人类）被秒杀的概率
	if cr.rng.Float64() < humanBalance.CritChance {
		// 暴击一击带走目标的全部剩余生命值：当前HP加上剩余生命数对应的HP
		damage := target.HP + float64(target.Lives-1)*target.MaxHP
		target.HP = 0
		target.Lives = 0
		target.State = models.StateDead
		return []models.GameEvent{
			models.NewHitEvent(attacker, target, damage),
			models.NewKillEvent(attacker, target, models.ReasonGorillaCrit),
		}
	}

	// 普通攻击扣固定伤害
	damage := gorillaBalance.Damage
	target.HP -= damage
	events := []models.GameEvent{models.NewHitEvent(attacker, target, damage)}

	if target.HP <= 0 {
		target.Lives--
		if target.Lives > 0 {
			// 还有剩余生命：回满血并重生，出生点由房间层重新随机
			target.HP = target.MaxHP
			events = append(events, models.NewRespawnEvent(target))
		} else {
			target.HP = 0
			target.State = models.StateDead
			events = append(events, models.NewKillEvent(attacker, target, models.ReasonGorillaDamage))
		}
	}

	return events
}

// humanHitsGorilla 人类命中大猩猩的伤害结算
func (cr *CombatResolver) humanHitsGorilla(attacker, target *models.Entity) []models.GameEvent {
	humanBalance := cr.balance.ForRole(models.RoleHuman)
	gorillaBalance := cr.balance.ForRole(models.RoleGorilla)

	// 大猩猩被暴击的概率通常配置为0，此分支实际上默认关闭
	if cr.rng.Float64() < gorillaBalance.CritChance {
		damage := target.HP
		target.HP = 0
		target.State = models.StateDead
		return []models.GameEvent{
			models.NewHitEvent(attacker, target, damage),
			models.NewKillEvent(attacker, target, models.ReasonHumanCrit),
		}
	}

	damage := humanBalance.Damage
	target.HP -= damage
	events := []models.GameEvent{models.NewHitEvent(attacker, target, damage)}

	if target.HP <= 0 {
		target.HP = 0
		target.State = models.StateDead
		events = append(events, models.NewKillEvent(attacker, target, models.ReasonHumanDamage))
	}

	return events
}
