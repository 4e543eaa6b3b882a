package models

// RoleBalance 单个角色的数值配置
type RoleBalance struct {
	MaxHealth      float64 `json:"max_health" mapstructure:"max_health"`
	Lives          int     `json:"lives" mapstructure:"lives"`
	Stamina        float64 `json:"stamina" mapstructure:"stamina"`
	StaminaCost    float64 `json:"stamina_cost" mapstructure:"stamina_cost"`
	StaminaRegen   float64 `json:"stamina_regen" mapstructure:"stamina_regen"`
	MoveSpeed      float64 `json:"move_speed" mapstructure:"move_speed"`
	AttackCooldown float64 `json:"attack_cooldown" mapstructure:"attack_cooldown"` // 秒
	AttackRange    float64 `json:"attack_range" mapstructure:"attack_range"`
	CritChance     float64 `json:"crit_chance" mapstructure:"crit_chance"` // 0~1
	Damage         float64 `json:"damage" mapstructure:"damage"`
	BodyRadius     float64 `json:"body_radius" mapstructure:"body_radius"`
}

// BalanceConfig 全部角色的数值配置，加载一次后在比赛期间不可变
type BalanceConfig struct {
	Human   RoleBalance `json:"human" mapstructure:"human"`
	Gorilla RoleBalance `json:"gorilla" mapstructure:"gorilla"`
}

// ForRole 按角色取数值配置，未知角色按人类处理
func (c *BalanceConfig) ForRole(role Role) RoleBalance {
	if role == RoleGorilla {
		return c.Gorilla
	}
	return c.Human
}

// Valid 检查配置是否完整可用
func (c *BalanceConfig) Valid() bool {
	for _, rb := range []RoleBalance{c.Human, c.Gorilla} {
		if rb.MaxHealth <= 0 || rb.Lives <= 0 || rb.Stamina <= 0 ||
			rb.MoveSpeed <= 0 || rb.AttackRange <= 0 || rb.BodyRadius <= 0 {
			return false
		}
	}
	return true
}

// DefaultBalanceConfig 内置默认数值表，配置缺失或非法时兜底使用
func DefaultBalanceConfig() BalanceConfig {
	return BalanceConfig{
		Human: RoleBalance{
			MaxHealth:      10,
			Lives:          10,
			Stamina:        100,
			StaminaCost:    20,
			StaminaRegen:   15,
			MoveSpeed:      180,
			AttackCooldown: 0.5,
			AttackRange:    40,
			CritChance:     0.05,
			Damage:         2,
			BodyRadius:     14,
		},
		Gorilla: RoleBalance{
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
