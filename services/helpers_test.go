package services

import (
	"math/rand"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// newTestBalance 测试用数值表，对应默认表但暴击概率归零，便于确定性断言
func newTestBalance() models.BalanceConfig {
	return models.BalanceConfig{
		Human: models.RoleBalance{
			MaxHealth:      10,
			Lives:          10,
			Stamina:        100,
			StaminaCost:    20,
			StaminaRegen:   15,
			MoveSpeed:      180,
			AttackCooldown: 0.5,
			AttackRange:    40,
			CritChance:     0,
			Damage:         2,
			BodyRadius:     14,
		},
		Gorilla: models.RoleBalance{
			MaxHealth:      100,
			Lives:          1,
			Stamina:        120,
			StaminaCost:    25,
			StaminaRegen:   20,
			MoveSpeed:      220,
			AttackCooldown: 0.8,
			AttackRange:    55,
			CritChance:     0,
			Damage:         3,
			BodyRadius:     22,
		},
	}
}

// newTestEntity 按角色默认值构造测试实体
func newTestEntity(id string, role models.Role, x, y float64, balance *models.BalanceConfig) *models.Entity {
	rb := balance.ForRole(role)
	return &models.Entity{
		ID:      id,
		Name:    id,
		Role:    role,
		X:       x,
		Y:       y,
		HP:      rb.MaxHealth,
		MaxHP:   rb.MaxHealth,
		Lives:   rb.Lives,
		Stamina: rb.Stamina,
		State:   models.StatePlaying,
	}
}

// newTestRand 固定种子的随机源，保证测试可重复
func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
