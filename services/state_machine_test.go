package services

import (
	"testing"
	"time"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// newTestMachine 组装一套不接传输层的状态机，机器人输入直接丢弃
func newTestMachine(balance *models.BalanceConfig) (*StateMachine, *GameState, *AIController) {
	gs := NewGameState(DefaultObstacles())
	rng := newTestRand()
	ai := NewAIController(gs, balance, rng, func(string, models.PlayerInput) {})
	sm := NewStateMachine(gs, balance, rng, ai)
	return sm, gs, ai
}

func findGameOverReason(gs *GameState) string {
	for _, ev := range gs.Events {
		if ev.Type == models.EventGameOver {
			return ev.Reason
		}
	}
	return ""
}

func TestLobbyAssignsGorillaAndStartsCountdown(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	a := newTestEntity("a", models.RoleHuman, 0, 0, &balance)
	gs.AddEntity(a)
	gs.EnqueueGorilla("a")

	sm.Tick(tickSeconds, time.Now())

	if a.Role != models.RoleGorilla || gs.GorillaID != "a" {
		t.Errorf("队首玩家应成为大猩猩: role=%s gorillaID=%s", a.Role, gs.GorillaID)
	}
	if gs.Phase != models.PhaseCountdown || gs.PhaseTimer != countdownSeconds {
		t.Errorf("应进入倒计时: phase=%s timer=%v", gs.Phase, gs.PhaseTimer)
	}

	var assigned bool
	for _, ev := range gs.Events {
		if ev.Type == models.EventGorillaAssigned && ev.TargetID == "a" {
			assigned = true
		}
	}
	if !assigned {
		t.Error("应广播gorilla_assigned事件")
	}
}

func TestCountdownStartsRoundAndFillsBots(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	human := newTestEntity("h", models.RoleHuman, 0, 0, &balance)
	human.HP = 1
	human.Stamina = 5
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseCountdown
	gs.PhaseTimer = 0.05

	sm.Tick(tickSeconds, time.Now())

	if gs.Phase != models.PhaseRound {
		t.Fatalf("倒计时归零应进入回合: %s", gs.Phase)
	}
	// 真人1名，机器人补到10名人类，加上大猩猩共11个实体
	if len(gs.Entities) != 11 {
		t.Errorf("场上应有11个实体，实际 %d", len(gs.Entities))
	}
	if human.HP != human.MaxHP || human.Stamina != balance.Human.Stamina {
		t.Errorf("回合开始应重置实体数值: hp=%v stamina=%v", human.HP, human.Stamina)
	}
	botCount := 0
	for _, e := range gs.EntityList() {
		if e.IsBot {
			botCount++
		}
	}
	if botCount != 9 {
		t.Errorf("应生成9个机器人，实际 %d", botCount)
	}
}

func TestRoundStartWithoutGorillaRevertsToLobby(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gs.Phase = models.PhaseCountdown
	gs.PhaseTimer = 0.05
	gs.GorillaID = "ghost" // 已不存在的实体

	sm.Tick(tickSeconds, time.Now())

	if gs.Phase != models.PhaseLobby || gs.GorillaID != "" {
		t.Errorf("无大猩猩的回合应防御性退回大厅: phase=%s", gs.Phase)
	}
}

func TestHumansWinWhenGorillaDies(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	gorilla.HP = 0
	human := newTestEntity("h", models.RoleHuman, 100, 100, &balance)
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseRound

	sm.Tick(tickSeconds, time.Now())

	if gs.Phase != models.PhaseResults || gs.PhaseTimer != resultsSeconds {
		t.Fatalf("应进入结算: phase=%s timer=%v", gs.Phase, gs.PhaseTimer)
	}
	if reason := findGameOverReason(gs); reason != models.ReasonHumansWin {
		t.Errorf("结算原因应为humans_win，实际 %s", reason)
	}
}

func TestGorillaWinsWhenHumansWipedOut(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	h1 := newTestEntity("h1", models.RoleHuman, 100, 100, &balance)
	h1.Lives = 0
	h1.HP = 0
	h1.State = models.StateDead
	gs.AddEntity(gorilla)
	gs.AddEntity(h1)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseRound

	sm.Tick(tickSeconds, time.Now())

	if gs.Phase != models.PhaseResults {
		t.Fatalf("人类团灭应进入结算: %s", gs.Phase)
	}
	if reason := findGameOverReason(gs); reason != models.ReasonGorillaWins {
		t.Errorf("结算原因应为gorilla_wins，实际 %s", reason)
	}
}

func TestTimeoutGorillaWinsWhileHumansRemain(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	human := newTestEntity("h", models.RoleHuman, 100, 100, &balance)
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseRound
	gs.PhaseTimer = roundSeconds

	sm.Tick(tickSeconds, time.Now())

	if reason := findGameOverReason(gs); reason != models.ReasonGorillaWins {
		t.Errorf("超时且人类尚有生命时大猩猩获胜，实际 %s", reason)
	}
}

func TestTimeoutDrawWhenNoHumanLifeRemains(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	human := newTestEntity("h", models.RoleHuman, 100, 100, &balance)
	human.Lives = 0 // 仍在场但没有剩余生命数
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseRound
	gs.PhaseTimer = roundSeconds

	sm.Tick(tickSeconds, time.Now())

	if reason := findGameOverReason(gs); reason != models.ReasonDraw {
		t.Errorf("超时且人类生命归零应判平局，实际 %s", reason)
	}
}

func TestGorillaDepartureMidRoundEndsRound(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gs.Phase = models.PhaseRound
	gs.GorillaID = "g"

	sm.HandleGorillaDeparture()

	if gs.Phase != models.PhaseResults {
		t.Fatalf("大猩猩中途离开应立即结算: %s", gs.Phase)
	}
	if reason := findGameOverReason(gs); reason != models.ReasonHumansWinGorillaLeft {
		t.Errorf("结算原因应为humans_win_gorilla_left，实际 %s", reason)
	}
}

func TestGorillaDepartureInCountdownPromotesNext(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	b := newTestEntity("b", models.RoleHuman, 0, 0, &balance)
	gs.AddEntity(b)
	gs.EnqueueGorilla("b")
	gs.Phase = models.PhaseCountdown
	gs.GorillaID = "a"

	sm.HandleGorillaDeparture()

	if gs.GorillaID != "b" || b.Role != models.RoleGorilla {
		t.Errorf("应顺位提拔候选人b: gorillaID=%s", gs.GorillaID)
	}
	if gs.Phase != models.PhaseCountdown {
		t.Errorf("有人顶替时倒计时应继续: %s", gs.Phase)
	}
}

func TestGorillaDepartureInCountdownWithoutCandidate(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gs.Phase = models.PhaseCountdown
	gs.GorillaID = "a"

	sm.HandleGorillaDeparture()

	if gs.Phase != models.PhaseLobby || gs.GorillaID != "" {
		t.Errorf("无人顶替时应取消倒计时: %s", gs.Phase)
	}
}

func TestResultsReturnToLobby(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	gorilla.State = models.StateDead
	gs.AddEntity(gorilla)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseResults
	gs.PhaseTimer = 0.05

	sm.Tick(tickSeconds, time.Now())

	if gs.Phase != models.PhaseLobby {
		t.Fatalf("结算结束应回大厅: %s", gs.Phase)
	}
	if gs.GorillaID != "" || gorilla.Role != models.RoleHuman {
		t.Errorf("大猩猩分配应被清空: gorillaID=%s role=%s", gs.GorillaID, gorilla.Role)
	}
	if gorilla.State != models.StatePlaying {
		t.Errorf("回大厅后实体应恢复playing: %s", gorilla.State)
	}
}

func TestRoundRegeneratesStamina(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	human := newTestEntity("h", models.RoleHuman, 100, 100, &balance)
	human.Stamina = 50
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseRound

	sm.Tick(tickSeconds, time.Now())

	if human.Stamina != 51.5 {
		t.Errorf("回合tick应恢复耐力: %v", human.Stamina)
	}
}

func TestAtMostOneGorillaDuringRound(t *testing.T) {
	balance := newTestBalance()
	sm, gs, _ := newTestMachine(&balance)

	gorilla := newTestEntity("g", models.RoleGorilla, 0, 0, &balance)
	human := newTestEntity("h", models.RoleHuman, 100, 100, &balance)
	gs.AddEntity(gorilla)
	gs.AddEntity(human)
	gs.GorillaID = "g"
	gs.Phase = models.PhaseCountdown
	gs.PhaseTimer = 0.05

	// 进入回合并连续推进若干tick
	for i := 0; i < 20; i++ {
		sm.Tick(tickSeconds, time.Now())
		count := 0
		for _, e := range gs.EntityList() {
			if e.Role == models.RoleGorilla {
				count++
			}
		}
		if gs.Phase == models.PhaseRound && count != 1 {
			t.Fatalf("回合中应恰好有一个大猩猩，实际 %d", count)
		}
	}
}
