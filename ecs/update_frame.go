package ecs

// UpdateFrame is handed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	// DeltaTime is the simulated time since the previous frame, in seconds.
	DeltaTime float64
	// Elapsed is the sum of every DeltaTime so far, this frame included.
	Elapsed float64
	// Frame counts Once calls starting at 1.
	Frame    int64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
