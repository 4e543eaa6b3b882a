package services

import "github.com/soin8293/gorilla-vs-humans-io/models"

// clamp 将v限制在[min, max]区间内
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// circleIntersectsRect 圆与轴对齐矩形的相交检测。
// 把圆心夹取到矩形范围内得到矩形上最近点，再比较该点到圆心的距离。
// 圆心落在矩形内部时最近点即圆心本身，距离为0，必定相交。
func circleIntersectsRect(cx, cy, radius, rx, ry, rw, rh float64) bool {
	closestX := clamp(cx, rx, rx+rw)
	closestY := clamp(cy, ry, ry+rh)

	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= radius*radius
}

// circleIntersectsObstacle 圆与障碍物的相交检测
func circleIntersectsObstacle(cx, cy, radius float64, obs models.Obstacle) bool {
	return circleIntersectsRect(cx, cy, radius, obs.X, obs.Y, obs.Width, obs.Height)
}

// withinRange 两点间距是否小于range，用平方距离避免开方
func withinRange(x1, y1, x2, y2, r float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy < r*r
}
