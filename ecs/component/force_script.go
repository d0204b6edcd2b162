package component

// ForceScript points at a tengo script that produces a force for the
// entity every frame. The script reads x, y, vx, vy, mass and frame and
// writes fx and fy.
type ForceScript struct {
	Path string
}

var ForceScriptComponent = NewComponent[ForceScript]()
