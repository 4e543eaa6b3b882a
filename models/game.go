package models

import "time"

// Role 游戏角色
type Role string

const (
	RoleHuman   Role = "human"   // 人类
	RoleGorilla Role = "gorilla" // 大猩猩
)

// EntityState 实体生命周期状态
type EntityState string

const (
	StatePlaying    EntityState = "playing"    // 正常游戏中
	StateDead       EntityState = "dead"       // 已死亡
	StateSpectating EntityState = "spectating" // 观战中
)

// Phase 比赛阶段
type Phase string

const (
	PhaseLobby     Phase = "lobby"     // 大厅等待
	PhaseCountdown Phase = "countdown" // 开局倒计时
	PhaseRound     Phase = "round"     // 回合进行中
	PhaseResults   Phase = "results"   // 结算展示
)

// Entity 场上实体（真人玩家或AI机器人），服务端权威状态
type Entity struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Role    Role        `json:"role"`
	IsBot   bool        `json:"is_bot"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	HP      float64     `json:"hp"`
	MaxHP   float64     `json:"max_hp"`
	Lives   int         `json:"lives"`
	Stamina float64     `json:"stamina"`
	State   EntityState `json:"state"`

	// LastAttack 上一次攻击时间，用于攻击冷却判定，不下发给客户端
	LastAttack time.Time `json:"-"`
}

// Alive 实体是否还在场上参与回合
func (e *Entity) Alive() bool {
	return e.State == StatePlaying
}

// Obstacle 静态障碍物（轴对齐矩形），比赛初始化后不可变
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// InputKind 客户端输入类型
type InputKind string

const (
	InputMove   InputKind = "move"   // 移动
	InputAttack InputKind = "attack" // 攻击
)

// PlayerInput 统一的输入消息：真人客户端和AI机器人都走同一条路径
type PlayerInput struct {
	Kind InputKind `json:"kind"`
	DX   float64   `json:"dx,omitempty"`
	DY   float64   `json:"dy,omitempty"`
}

// ChatMessage 聊天消息，服务端只保留最近若干条
type ChatMessage struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	SentAt   int64  `json:"sent_at"`
}
