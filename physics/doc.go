// Package physics integrates rigid bodies and detects and resolves contacts
// between circle and axis-aligned box colliders.
//
// All vectors are cp.Vector. The package holds no state: every function
// works on the transform and body pointers handed to it for the duration
// of the call.
//
// Known limitations, kept on purpose:
//   - integration is single-step semi-implicit Euler, so a large dt can
//     carry a fast body through a thin collider;
//   - a circle whose centre is inside a box gets a fixed (r, r) push;
//   - box-box contacts are resolved from the nearest corner, not with a
//     separating-axis test, and can mis-resolve deep overlaps.
package physics
