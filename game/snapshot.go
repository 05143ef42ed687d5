package game

import (
	"math"

	"github.com/pthm-cable/forage/components"
)

// Snapshot is a read-only view of the world after a tick.
// Agents marked dead are left out.
type Snapshot struct {
	RunID  string      `json:"run_id"`
	Tick   int32       `json:"tick"`
	ArenaW float64     `json:"arena_w"`
	ArenaH float64     `json:"arena_h"`
	Agents []AgentView `json:"agents"`
	Foods  []FoodView  `json:"foods"`
	Waters []WaterView `json:"waters"`
}

// AgentView is the drawable and inspectable state of one agent.
type AgentView struct {
	ID            uint32           `json:"id"`
	X             float64          `json:"x"`
	Y             float64          `json:"y"`
	Size          float64          `json:"size"`
	Color         components.Color `json:"color"`
	ColorName     string           `json:"color_name"`
	State         components.State `json:"state"`
	Sight         float64          `json:"sight"`
	ExtendedSight float64          `json:"extended_sight"`
	Hunger        int              `json:"hunger"`
	Thirst        int              `json:"thirst"`
	LifespanUses  int              `json:"lifespan_uses"`
}

// FoodView is a food-source with its forage units in arena coordinates.
type FoodView struct {
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Size  float64    `json:"size"`
	Units []UnitView `json:"units"`
}

// UnitView is one forage unit.
type UnitView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WaterView is a water-source.
type WaterView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Snapshot captures the current world for rendering or streaming.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		RunID:  g.runID,
		Tick:   g.tick,
		ArenaW: g.arena.W,
		ArenaH: g.arena.H,
		Agents: make([]AgentView, 0, g.numAgents),
	}

	aq := g.agentFilter.Query()
	for aq.Next() {
		pos, _, body, a := aq.Get()
		if a.State == components.StateDead {
			continue
		}
		s.Agents = append(s.Agents, AgentView{
			ID:            a.ID,
			X:             pos.X,
			Y:             pos.Y,
			Size:          body.Size,
			Color:         body.Color,
			ColorName:     g.palette.Name(body.Color),
			State:         a.State,
			Sight:         a.Sight,
			ExtendedSight: a.ExtendedSight(),
			Hunger:        a.Needs.Hunger,
			Thirst:        a.Needs.Thirst,
			LifespanUses:  a.Needs.LifespanUses,
		})
	}

	fq := g.foodFilter.Query()
	for fq.Next() {
		pos, body, food := fq.Get()
		fv := FoodView{X: pos.X, Y: pos.Y, Size: body.Size, Units: make([]UnitView, len(food.Units))}
		for i, u := range food.Units {
			fv.Units[i] = UnitView{X: pos.X + u.OffsetX, Y: pos.Y + u.OffsetY}
		}
		s.Foods = append(s.Foods, fv)
	}

	wq := g.waterFilter.Query()
	for wq.Next() {
		pos, body, _ := wq.Get()
		s.Waters = append(s.Waters, WaterView{X: pos.X, Y: pos.Y, Size: body.Size})
	}
	return s
}

// AgentAt returns the agent whose body is nearest to (x, y), accepting
// clicks up to slack outside the body.
func (s *Snapshot) AgentAt(x, y, slack float64) (AgentView, bool) {
	best, found := -1, false
	bestDist := 0.0
	for i, a := range s.Agents {
		d := math.Hypot(a.X-x, a.Y-y)
		if d > a.Size/2+slack {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = i, d, true
		}
	}
	if !found {
		return AgentView{}, false
	}
	return s.Agents[best], true
}

// AgentByID returns the live agent with the given ID.
func (s *Snapshot) AgentByID(id uint32) (AgentView, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentView{}, false
}
