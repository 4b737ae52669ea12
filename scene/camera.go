package scene

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
)

// Default camera placement.
var (
	DefaultEye  = mgl32.Vec3{0, 6, 0}
	DefaultDir  = mgl32.Vec3{1, 0, 0}
	DefaultUp   = mgl32.Vec3{0, 1, 0}
	DefaultFovY = float32(75)
)

// maxPitch is the steepest elevation of the view direction, in degrees.
// LookAt degenerates when Dir and Up are parallel.
const maxPitch = 89

// Camera is a first person camera. Eye, Dir and Up are read by UpdateView;
// the viewport and clip planes by UpdateProjection.
type Camera struct {
	Eye mgl32.Vec3
	Dir mgl32.Vec3
	Up  mgl32.Vec3

	viewport   image.Rectangle
	projection mgl32.Mat4
	view       mgl32.Mat4
}

// NewCamera returns a camera at DefaultEye looking down +X.
func NewCamera() *Camera {
	c := &Camera{
		Eye:        DefaultEye,
		Dir:        DefaultDir,
		Up:         DefaultUp,
		projection: mgl32.Ident4(),
	}
	c.UpdateView()
	return c
}

// UpdateProjection rebuilds the perspective projection for viewport.
// fovY is in degrees.
func (c *Camera) UpdateProjection(viewport image.Rectangle, near, far, fovY float32) {
	c.viewport = viewport
	aspect := float32(1)
	if viewport.Dy() > 0 {
		aspect = float32(viewport.Dx()) / float32(viewport.Dy())
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
}

// UpdateView rebuilds the view transform from Eye, Dir and Up.
func (c *Camera) UpdateView() {
	c.view = mgl32.LookAtV(c.Eye, c.Eye.Add(c.Dir), c.Up)
}

func (c *Camera) Viewport() image.Rectangle { return c.viewport }
func (c *Camera) Projection() mgl32.Mat4    { return c.projection }
func (c *Camera) View() mgl32.Mat4          { return c.view }

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Dir.Cross(c.Up).Normalize()
}

// Turn rotates the view direction by yaw degrees about Up and pitch
// degrees about Right. Positive yaw turns right, positive pitch looks up.
// The elevation is clamped to maxPitch degrees either side of the horizon.
func (c *Camera) Turn(yaw, pitch float32) {
	up := c.Up.Normalize()
	dir := mgl32.HomogRotate3D(mgl32.DegToRad(-yaw), up).Mul4x1(c.Dir.Vec4(0)).Vec3()
	if pitch != 0 {
		elevation := mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(dir.Normalize().Dot(up), -1, 1)))))
		pitch = mgl32.Clamp(elevation+pitch, -maxPitch, maxPitch) - elevation
		right := dir.Cross(up).Normalize()
		dir = mgl32.HomogRotate3D(mgl32.DegToRad(pitch), right).Mul4x1(dir.Vec4(0)).Vec3()
	}
	c.Dir = dir.Normalize()
}

// Apply loads the camera and projection transforms into d and sets the
// viewport when one was given.
func (c *Camera) Apply(d *g3d.Device) {
	d.SetProjectionTransform(c.projection)
	d.SetCameraTransform(c.view)
	if !c.viewport.Empty() {
		d.SetViewport(c.viewport)
	}
}
