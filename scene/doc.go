// Package scene holds the world the demo draws: a first person Camera, a
// Player walking it, and static models loaded from YAML and uploaded to a
// g3d.Device.
//
//	cam := scene.NewCamera()
//	cam.UpdateProjection(viewport, 1, 4096, scene.DefaultFovY)
//	s := scene.New()
//	if _, err := s.AddModel(dev, scene.Cube("crate", 8, scene.Color(g3d.White))); err != nil {
//		return err
//	}
//	cam.Apply(dev)
//	err := s.Draw(dev)
package scene
