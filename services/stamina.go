package services

import "github.com/soin8293/gorilla-vs-humans-io/models"

// ConsumeStamina 尝试扣除一次攻击所需的耐力。
// 耐力足够时扣除并返回true；不足时不做任何修改返回false，由调用方压制本次攻击。
func ConsumeStamina(balance *models.BalanceConfig, e *models.Entity) bool {
	cost := balance.ForRole(e.Role).StaminaCost
	if e.Stamina < cost {
		return false
	}
	e.Stamina -= cost
	return true
}

// RegenerateStamina 按时间连续恢复耐力，上限为角色耐力池。
// dt为非正数或实体不在游戏状态时不做处理。
func RegenerateStamina(balance *models.BalanceConfig, e *models.Entity, dt float64) {
	if dt <= 0 || e.State != models.StatePlaying {
		return
	}
	rb := balance.ForRole(e.Role)
	e.Stamina += rb.StaminaRegen * dt
	if e.Stamina > rb.Stamina {
		e.Stamina = rb.Stamina
	}
}
