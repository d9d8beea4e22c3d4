package ecs

// System is one step of a frame. Exported Query and Singleton fields are
// bound when the system is registered with a Scheduler; other fields keep
// their values between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
