package services

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

const writeTimeout = 5 * time.Second

// WebSocketManager WebSocket连接管理器：维护玩家连接、转发入站消息、广播状态
type WebSocketManager struct {
	connections map[string]*websocket.Conn // playerID -> connection
	controller  *GameController
	mutex       sync.RWMutex
}

// NewWebSocketManager 创建WebSocket管理器实例
func NewWebSocketManager(gc *GameController) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]*websocket.Conn),
		controller:  gc,
	}
}

// inboundMessage 客户端入站消息的统一外壳
type inboundMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
	Role    string          `json:"role,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// RegisterConnection 注册新连接；同一玩家重连时旧连接直接关闭替换
func (wm *WebSocketManager) RegisterConnection(playerID string, conn *websocket.Conn) {
	wm.mutex.Lock()
	if oldConn, exists := wm.connections[playerID]; exists {
		oldConn.Close()
	}
	wm.connections[playerID] = conn
	wm.mutex.Unlock()

	log.Printf("[WebSocket] 玩家 %s 已连接", playerID)
	go wm.handleMessages(playerID, conn)
}

// handleMessages 单个连接的读取循环。
// 无法解析的消息记录后丢弃，不回发错误也不改动任何状态。
func (wm *WebSocketManager) handleMessages(playerID string, conn *websocket.Conn) {
	conn.SetReadLimit(4 * 1024)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] 玩家 %s 连接正常关闭", playerID)
			} else {
				log.Printf("[WebSocket] 玩家 %s 读取消息失败: %v", playerID, err)
			}
			wm.removeConnection(playerID, conn)
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("[WebSocket] 解析消息失败: %v", err)
			continue
		}

		switch msg.Type {
		case "input":
			var input models.PlayerInput
			if err := json.Unmarshal(msg.Content, &input); err != nil {
				log.Printf("[WebSocket] 解析输入消息失败: %v", err)
				continue
			}
			if input.Kind != models.InputMove && input.Kind != models.InputAttack {
				continue
			}
			wm.controller.HandleInput(playerID, input)

		case "select_role":
			role := models.Role(msg.Role)
			if role != models.RoleHuman && role != models.RoleGorilla {
				continue
			}
			if err := wm.controller.SelectRole(playerID, role); err != nil {
				log.Printf("[WebSocket] 角色申请失败: %v", err)
			}

		case "chat":
			wm.controller.Chat(playerID, msg.Text)

		default:
			log.Printf("[WebSocket] 未知的消息类型: %s", msg.Type)
		}
	}
}

// Broadcast 向所有在线玩家广播消息，实现GameController的Broadcaster接口
func (wm *WebSocketManager) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WebSocket] 广播消息序列化失败: %v", err)
		return
	}

	wm.mutex.RLock()
	conns := make(map[string]*websocket.Conn, len(wm.connections))
	for id, conn := range wm.connections {
		conns[id] = conn
	}
	wm.mutex.RUnlock()

	for playerID, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[WebSocket] 向玩家 %s 发送消息失败: %v", playerID, err)
			wm.removeConnection(playerID, conn)
		}
	}
}

// SendToPlayer 向指定玩家发送消息
func (wm *WebSocketManager) SendToPlayer(playerID string, message interface{}) error {
	wm.mutex.RLock()
	conn, exists := wm.connections[playerID]
	wm.mutex.RUnlock()

	if !exists {
		return errors.New("玩家未连接")
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(message)
}

// removeConnection 断开并清理连接，同时把玩家移出比赛。
// 只在登记的连接仍是当前这条时生效：重连后旧连接的读取循环退出时，
// 不能误伤已经顶替上来的新连接。
func (wm *WebSocketManager) removeConnection(playerID string, conn *websocket.Conn) {
	wm.mutex.Lock()
	current, exists := wm.connections[playerID]
	if exists && current == conn {
		delete(wm.connections, playerID)
	} else {
		exists = false
	}
	wm.mutex.Unlock()

	conn.Close()
	if !exists {
		return
	}

	// 断线即移除：实体清理和大猩猩空缺级联都在控制器内完成
	wm.controller.Leave(playerID)
	log.Printf("[WebSocket] 玩家 %s 的连接已清理", playerID)
}
