package services

import (
	"time"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// 聊天与事件的保留策略
const (
	chatMaxLength    = 100             // 单条聊天最大字符数
	chatHistoryLimit = 20              // 聊天环形缓冲容量
	eventRetention   = 3 * time.Second // 事件在广播集合中的存活时间
)

// GameState 单场比赛的全部共享状态。
// 本身不加锁：所有读写都经由GameController的单一更新路径串行化。
type GameState struct {
	Phase      models.Phase
	PhaseTimer float64 // countdown阶段为剩余秒数，round阶段为已进行秒数

	GorillaID    string   // 当前大猩猩的实体ID，空表示未分配
	GorillaQueue []string // 等待大猩猩角色的FIFO队列
	HumanLives   int      // 人类阵营剩余总生命数，每tick重新计算

	Entities  map[string]*models.Entity
	joinOrder []string // 实体加入顺序，保证遍历与广播顺序稳定
	Obstacles []models.Obstacle

	Events []models.GameEvent
	Chats  []models.ChatMessage
}

// NewGameState 创建比赛状态实例
func NewGameState(obstacles []models.Obstacle) *GameState {
	return &GameState{
		Phase:     models.PhaseLobby,
		Entities:  make(map[string]*models.Entity),
		Obstacles: obstacles,
	}
}

// AddEntity 注册实体
func (gs *GameState) AddEntity(e *models.Entity) {
	if _, exists := gs.Entities[e.ID]; exists {
		return
	}
	gs.Entities[e.ID] = e
	gs.joinOrder = append(gs.joinOrder, e.ID)
}

// RemoveEntity 移除实体并清理加入顺序与大猩猩队列
func (gs *GameState) RemoveEntity(id string) {
	if _, exists := gs.Entities[id]; !exists {
		return
	}
	delete(gs.Entities, id)
	for i, eid := range gs.joinOrder {
		if eid == id {
			gs.joinOrder = append(gs.joinOrder[:i], gs.joinOrder[i+1:]...)
			break
		}
	}
	gs.RemoveFromGorillaQueue(id)
}

// Entity 按ID查找实体，不存在返回nil
func (gs *GameState) Entity(id string) *models.Entity {
	return gs.Entities[id]
}

// EntityList 按加入顺序返回全部实体
func (gs *GameState) EntityList() []*models.Entity {
	list := make([]*models.Entity, 0, len(gs.joinOrder))
	for _, id := range gs.joinOrder {
		if e, ok := gs.Entities[id]; ok {
			list = append(list, e)
		}
	}
	return list
}

// EnqueueGorilla 把实体加入大猩猩候选队列，已在队列中则忽略
func (gs *GameState) EnqueueGorilla(id string) {
	for _, qid := range gs.GorillaQueue {
		if qid == id {
			return
		}
	}
	gs.GorillaQueue = append(gs.GorillaQueue, id)
}

// RemoveFromGorillaQueue 把实体移出大猩猩候选队列
func (gs *GameState) RemoveFromGorillaQueue(id string) {
	for i, qid := range gs.GorillaQueue {
		if qid == id {
			gs.GorillaQueue = append(gs.GorillaQueue[:i], gs.GorillaQueue[i+1:]...)
			return
		}
	}
}

// PopGorillaCandidate 弹出队首的有效候选实体，跳过已离开的ID
func (gs *GameState) PopGorillaCandidate() *models.Entity {
	for len(gs.GorillaQueue) > 0 {
		id := gs.GorillaQueue[0]
		gs.GorillaQueue = gs.GorillaQueue[1:]
		if e, ok := gs.Entities[id]; ok {
			return e
		}
	}
	return nil
}

// AddEvents 追加游戏事件
func (gs *GameState) AddEvents(events ...models.GameEvent) {
	gs.Events = append(gs.Events, events...)
}

// PruneEvents 删除超出保留窗口的旧事件，事件是临时通知而不是审计日志
func (gs *GameState) PruneEvents(now time.Time) {
	cutoff := now.Add(-eventRetention)
	kept := gs.Events[:0]
	for _, ev := range gs.Events {
		if ev.CreatedAt.After(cutoff) {
			kept = append(kept, ev)
		}
	}
	gs.Events = kept
}

// AddChat 追加聊天消息：超长截断，环形缓冲满时淘汰最旧一条
func (gs *GameState) AddChat(playerID, name, text string) {
	if text == "" {
		return
	}
	runes := []rune(text)
	if len(runes) > chatMaxLength {
		text = string(runes[:chatMaxLength])
	}
	gs.Chats = append(gs.Chats, models.ChatMessage{
		PlayerID: playerID,
		Name:     name,
		Text:     text,
		SentAt:   time.Now().Unix(),
	})
	if len(gs.Chats) > chatHistoryLimit {
		gs.Chats = gs.Chats[len(gs.Chats)-chatHistoryLimit:]
	}
}

// RecomputeHumanLives 重新统计人类阵营剩余总生命数。
// 存活人类按当前生命数计入，死亡实体计0。
func (gs *GameState) RecomputeHumanLives() {
	total := 0
	for _, e := range gs.Entities {
		if e.Role != models.RoleHuman || !e.Alive() {
			continue
		}
		total += e.Lives
	}
	gs.HumanLives = total
}

// CountAliveHumans 统计存活的人类数量（含机器人）
func (gs *GameState) CountAliveHumans() int {
	count := 0
	for _, e := range gs.Entities {
		if e.Role == models.RoleHuman && e.Alive() {
			count++
		}
	}
	return count
}

// CountRealHumans 统计非机器人的人类数量
func (gs *GameState) CountRealHumans() int {
	count := 0
	for _, e := range gs.Entities {
		if e.Role == models.RoleHuman && !e.IsBot {
			count++
		}
	}
	return count
}
