package ecs

// UpdateFrame is handed to every system during one Scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}
