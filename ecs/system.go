package ecs

// System is one unit of per-frame behaviour. Implementations are usually
// structs whose Query and Singleton fields are bound by Scheduler.Register;
// any other fields persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
