package services

import (
	"math/rand"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// 地图尺寸与移动解析参数
const (
	worldWidth  = 800.0
	worldHeight = 600.0

	// obstacleEpsilon 贴墙时在障碍物边缘外留出的间隙，避免浮点误差导致持续重叠
	obstacleEpsilon = 0.01

	// spawnMaxAttempts 随机出生点采样的重试上限
	spawnMaxAttempts = 50
)

// ResolveMovement 按本tick的意图向量移动实体。
// 意图分量各自夹取到[-1,1]，位移为角色速度乘tick时长。
// 先解析X轴再解析Y轴：碰到障碍物时贴到行进方向一侧的边缘；
// 两轴都被挡住时退化为单轴滑动（优先Y轴），仍然被挡则本tick不移动。
func ResolveMovement(balance *models.BalanceConfig, e *models.Entity, dx, dy float64, obstacles []models.Obstacle, dt float64) {
	dx = clamp(dx, -1, 1)
	dy = clamp(dy, -1, 1)

	rb := balance.ForRole(e.Role)
	radius := rb.BodyRadius
	deltaX := dx * rb.MoveSpeed * dt
	deltaY := dy * rb.MoveSpeed * dt
	if deltaX == 0 && deltaY == 0 {
		return
	}

	origX, origY := e.X, e.Y

	// 第一步：X轴位移，先按地图边界夹取再检查障碍物
	newX := clamp(origX+deltaX, radius, worldWidth-radius)
	hitX := false
	for _, obs := range obstacles {
		if !circleIntersectsObstacle(newX, origY, radius, obs) {
			continue
		}
		hitX = true
		switch {
		case deltaX > 0:
			newX = obs.X - radius - obstacleEpsilon
		case deltaX < 0:
			newX = obs.X + obs.Width + radius + obstacleEpsilon
		default:
			newX = origX
		}
		newX = clamp(newX, radius, worldWidth-radius)
		break
	}

	// 第二步：在已调整的X基础上解析Y轴
	newY := clamp(origY+deltaY, radius, worldHeight-radius)
	hitY := false
	for _, obs := range obstacles {
		if !circleIntersectsObstacle(newX, newY, radius, obs) {
			continue
		}
		hitY = true
		switch {
		case deltaY > 0:
			newY = obs.Y - radius - obstacleEpsilon
		case deltaY < 0:
			newY = obs.Y + obs.Height + radius + obstacleEpsilon
		default:
			newY = origY
		}
		newY = clamp(newY, radius, worldHeight-radius)
		break
	}

	if hitX && hitY {
		// 两轴都撞墙：从原位置尝试单轴滑动，优先Y轴
		slideY := clamp(origY+deltaY, radius, worldHeight-radius)
		if !collidesAny(origX, slideY, radius, obstacles) {
			e.Y = slideY
			return
		}
		slideX := clamp(origX+deltaX, radius, worldWidth-radius)
		if !collidesAny(slideX, origY, radius, obstacles) {
			e.X = slideX
			return
		}
		// 完全卡死，本tick不移动
		return
	}

	e.X = newX
	e.Y = newY
}

// collidesAny 位置是否与任一障碍物重叠
func collidesAny(x, y, radius float64, obstacles []models.Obstacle) bool {
	for _, obs := range obstacles {
		if circleIntersectsObstacle(x, y, radius, obs) {
			return true
		}
	}
	return false
}

// RandomSpawnPosition 在地图内随机取一个不与障碍物重叠的出生点。
// 多次采样失败时退回地图中心附近，保证总能给出一个位置。
func RandomSpawnPosition(rng *rand.Rand, radius float64, obstacles []models.Obstacle) (float64, float64) {
	for i := 0; i < spawnMaxAttempts; i++ {
		x := radius + rng.Float64()*(worldWidth-2*radius)
		y := radius + rng.Float64()*(worldHeight-2*radius)
		if !collidesAny(x, y, radius, obstacles) {
			return x, y
		}
	}
	return worldWidth / 2, worldHeight / 2
}

// DefaultObstacles 默认场地布局：四块掩体加中央方块
func DefaultObstacles() []models.Obstacle {
	return []models.Obstacle{
		{X: 150, Y: 120, Width: 120, Height: 40},
		{X: 530, Y: 120, Width: 120, Height: 40},
		{X: 150, Y: 440, Width: 120, Height: 40},
		{X: 530, Y: 440, Width: 120, Height: 40},
		{X: 360, Y: 260, Width: 80, Height: 80},
	}
}
