package ecs_test

import "github.com/plus3/sprites/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Frame struct {
	Sprite int
}

type Tint struct {
	R, G, B, A uint8
}

type Visible struct{}

type Layer int32

type Clock struct {
	Ticks int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Frame](registry)
	ecs.RegisterComponent[Tint](registry)
	ecs.RegisterComponent[Visible](registry)
	ecs.RegisterComponent[Layer](registry)
	return registry
}
