package ecs_test

import "github.com/plus3/circles/ecs"

type Position struct {
	X, Y float64
}

type Size struct {
	Scale float64
}

type Decay struct {
	PerSecond float64
}

type Target struct{}

type Label string

type Points int32

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Size](registry)
	ecs.RegisterComponent[Decay](registry)
	ecs.RegisterComponent[Target](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Points](registry)
	return registry
}
