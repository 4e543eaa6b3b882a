package models

import (
	"fmt"
	"sync/atomic"
	"time"
)

// EventType 游戏事件类型
type EventType string

const (
	EventHit             EventType = "hit"              // 命中
	EventKill            EventType = "kill"             // 击杀
	EventRespawn         EventType = "respawn"          // 重生
	EventGameOver        EventType = "game_over"        // 比赛结束
	EventGorillaAssigned EventType = "gorilla_assigned" // 大猩猩角色分配
)

// 击杀与结算原因
const (
	ReasonGorillaCrit   = "gorilla_crit"   // 大猩猩暴击秒杀
	ReasonGorillaDamage = "gorilla_damage" // 大猩猩普通伤害耗尽生命
	ReasonHumanCrit     = "human_crit"     // 人类暴击秒杀
	ReasonHumanDamage   = "human_damage"   // 人类普通伤害耗尽生命

	ReasonHumansWin            = "humans_win"              // 人类阵营胜利
	ReasonGorillaWins          = "gorilla_wins"            // 大猩猩胜利
	ReasonDraw                 = "draw"                    // 超时平局
	ReasonHumansWinGorillaLeft = "humans_win_gorilla_left" // 大猩猩中途离开
)

// GameEvent 游戏事件，只在广播窗口内短暂存活，不是审计日志。
// 每种类型只使用与其相关的字段，统一由下方构造函数创建。
type GameEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	AttackerID   string    `json:"attacker_id,omitempty"`
	AttackerName string    `json:"attacker_name,omitempty"`
	TargetID     string    `json:"target_id,omitempty"`
	TargetName   string    `json:"target_name,omitempty"`
	Damage       float64   `json:"damage,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

var eventSeq atomic.Uint64

// newEventID 生成事件唯一ID
func newEventID() string {
	return fmt.Sprintf("evt_%d_%d", time.Now().UnixNano(), eventSeq.Add(1))
}

// NewHitEvent 创建命中事件
func NewHitEvent(attacker, target *Entity, damage float64) GameEvent {
	return GameEvent{
		ID:           newEventID(),
		Type:         EventHit,
		CreatedAt:    time.Now(),
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		TargetID:     target.ID,
		TargetName:   target.Name,
		Damage:       damage,
	}
}

// NewKillEvent 创建击杀事件
func NewKillEvent(attacker, target *Entity, reason string) GameEvent {
	return GameEvent{
		ID:           newEventID(),
		Type:         EventKill,
		CreatedAt:    time.Now(),
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		TargetID:     target.ID,
		TargetName:   target.Name,
		Reason:       reason,
	}
}

// NewRespawnEvent 创建重生事件
func NewRespawnEvent(target *Entity) GameEvent {
	return GameEvent{
		ID:         newEventID(),
		Type:       EventRespawn,
		CreatedAt:  time.Now(),
		TargetID:   target.ID,
		TargetName: target.Name,
	}
}

// NewGameOverEvent 创建比赛结束事件
func NewGameOverEvent(reason string) GameEvent {
	return GameEvent{
		ID:        newEventID(),
		Type:      EventGameOver,
		CreatedAt: time.Now(),
		Reason:    reason,
	}
}

// NewGorillaAssignedEvent 创建大猩猩角色分配事件
func NewGorillaAssignedEvent(target *Entity) GameEvent {
	return GameEvent{
		ID:         newEventID(),
		Type:       EventGorillaAssigned,
		CreatedAt:  time.Now(),
		TargetID:   target.ID,
		TargetName: target.Name,
	}
}
