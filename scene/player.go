package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d/event"
)

// Player defaults, in world units.
const (
	DefaultCollisionHull = 6.00
	DefaultEyeLevel      = 12.80
	DefaultWalkSpeed     = 28.0
	DefaultJumpHeight    = 10.0
	DefaultGravity       = 64.0
	DefaultSensitivity   = 0.2
)

// movement keys
type control uint8

const (
	forward control = 1 << iota
	backward
	strafeLeft
	strafeRight
	jump
)

var controls = map[event.KeyCode]control{
	event.Char('w'):     forward,
	event.KeyArrowUp:    forward,
	event.Char('s'):     backward,
	event.KeyArrowDown:  backward,
	event.Char('a'):     strafeLeft,
	event.KeyArrowLeft:  strafeLeft,
	event.Char('d'):     strafeRight,
	event.KeyArrowRight: strafeRight,
	event.KeySpace:      jump,
}

// Player walks a camera over a flat floor. Position is the point between
// the player's feet; the camera eye sits EyeLevel above it.
type Player struct {
	Camera *Camera

	Position mgl32.Vec3
	// CollisionHull is the radius the player keeps from the arena walls.
	CollisionHull float32
	EyeLevel      float32
	WalkSpeed     float32 // units per second
	JumpHeight    float32
	Gravity       float32
	// Sensitivity is degrees of turn per pixel of mouse motion.
	Sensitivity float32
	// Arena is the half extent of the square the player is confined to.
	// Zero leaves the player unconfined.
	Arena float32
	// Floor is the height of the ground.
	Floor float32

	held     control
	velocity float32 // vertical
	yaw      float32 // pending mouse turn
	pitch    float32
}

// NewPlayer stands a player on the floor below the camera's eye.
func NewPlayer(c *Camera) *Player {
	return &Player{
		Camera:        c,
		Position:      mgl32.Vec3{c.Eye.X(), 0, c.Eye.Z()},
		CollisionHull: DefaultCollisionHull,
		EyeLevel:      DefaultEyeLevel,
		WalkSpeed:     DefaultWalkSpeed,
		JumpHeight:    DefaultJumpHeight,
		Gravity:       DefaultGravity,
		Sensitivity:   DefaultSensitivity,
	}
}

// HandleEvent folds one input event into the player's controls. It reports
// whether the event was consumed.
func (p *Player) HandleEvent(ev event.Event) bool {
	switch ev.Type {
	case event.Key:
		c, ok := controls[ev.KeyCode()]
		if !ok {
			return false
		}
		if ev.Subtype == event.Down {
			p.held |= c
		} else {
			p.held &^= c
		}
		return true
	case event.Mouse:
		switch ev.Subtype {
		case event.DX:
			p.yaw += float32(ev.Data) * p.Sensitivity
		case event.DY:
			p.pitch -= float32(ev.Data) * p.Sensitivity
		default:
			return false
		}
		return true
	}
	return false
}

// OnGround reports whether the player stands on the floor.
func (p *Player) OnGround() bool {
	return p.Position.Y() <= p.Floor && p.velocity <= 0
}

// Update applies the pending turn, walks and falls for dt, then moves the
// camera eye and rebuilds its view.
func (p *Player) Update(dt time.Duration) {
	s := float32(dt.Seconds())
	c := p.Camera
	if p.yaw != 0 || p.pitch != 0 {
		c.Turn(p.yaw, p.pitch)
		p.yaw, p.pitch = 0, 0
	}

	if move := p.walkDirection(); move.Len() > 0 {
		p.Position = p.Position.Add(move.Normalize().Mul(p.WalkSpeed * s))
	}
	if p.Arena > 0 {
		limit := max(p.Arena-p.CollisionHull, 0)
		p.Position[0] = mgl32.Clamp(p.Position[0], -limit, limit)
		p.Position[2] = mgl32.Clamp(p.Position[2], -limit, limit)
	}

	if p.held&jump != 0 && p.OnGround() {
		p.velocity = float32(math.Sqrt(float64(2 * p.Gravity * p.JumpHeight)))
	}
	if p.velocity != 0 || p.Position.Y() > p.Floor {
		p.Position[1] += p.velocity * s
		p.velocity -= p.Gravity * s
		if p.Position[1] <= p.Floor {
			p.Position[1] = p.Floor
			p.velocity = 0
		}
	}

	c.Eye = p.Position.Add(mgl32.Vec3{0, p.EyeLevel, 0})
	c.UpdateView()
}

// walkDirection returns the unnormalized horizontal movement for the held
// keys.
func (p *Player) walkDirection() mgl32.Vec3 {
	ahead := mgl32.Vec3{p.Camera.Dir.X(), 0, p.Camera.Dir.Z()}
	if ahead.Len() == 0 {
		return mgl32.Vec3{}
	}
	ahead = ahead.Normalize()
	right := ahead.Cross(mgl32.Vec3{0, 1, 0})

	var move mgl32.Vec3
	if p.held&forward != 0 {
		move = move.Add(ahead)
	}
	if p.held&backward != 0 {
		move = move.Sub(ahead)
	}
	if p.held&strafeRight != 0 {
		move = move.Add(right)
	}
	if p.held&strafeLeft != 0 {
		move = move.Sub(right)
	}
	return move
}
