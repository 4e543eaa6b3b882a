package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/soin8293/gorilla-vs-humans-io/services"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有跨域请求，生产环境中应该更严格
		},
	}

	arena *services.ArenaManager
)

func init() {
	// 设置日志格式，包含文件名和行号
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	arena = services.NewArenaManager()
}

func main() {
	// 后台启动模拟循环
	go arena.Run()
	defer arena.Stop()

	r := gin.Default()

	// 设置跨域中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// WebSocket连接处理
	r.GET("/ws", func(c *gin.Context) {
		playerID := c.Query("player")
		if playerID == "" || !arena.HasPlayer(playerID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的玩家ID，请先调用加入接口"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("升级WebSocket连接失败: %v", err)
			return
		}

		arena.WebSocket().RegisterConnection(playerID, ws)
	})

	// API路由组
	api := r.Group("/api")
	{
		api.POST("/join", joinArena)
		api.GET("/state", getArenaState)
		api.GET("/balance", getBalance)
	}

	// 启动服务器
	log.Println("服务器启动在 :8080 端口")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("服务器启动失败:", err)
	}
}

// API处理函数
func joinArena(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity := arena.Join(req.Name)
	c.JSON(http.StatusOK, entity)
}

func getArenaState(c *gin.Context) {
	c.JSON(http.StatusOK, arena.Snapshot())
}

func getBalance(c *gin.Context) {
	c.JSON(http.StatusOK, arena.Balance())
}
