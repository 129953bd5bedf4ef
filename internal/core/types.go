package core

import "recordstore/pkg/domain"

type (
	Record                   = domain.Record
	ResourceDefinition       = domain.ResourceDefinition
	Options                  = domain.Options
	Hook                     = domain.Hook
	HookStage                = domain.HookStage
	SerializeFunc            = domain.SerializeFunc
	DeserializeFunc          = domain.DeserializeFunc
	Adapter                  = domain.Adapter
	Emitter                  = domain.Emitter
	EmitterFunc              = domain.EmitterFunc
	Change                   = domain.Change
	Action                   = domain.Action
	NonexistentResourceError = domain.NonexistentResourceError
	IllegalArgumentError     = domain.IllegalArgumentError
	RecordNotFoundError      = domain.RecordNotFoundError
)

const (
	StageBeforeValidate = domain.StageBeforeValidate
	StageValidate       = domain.StageValidate
	StageAfterValidate  = domain.StageAfterValidate
	StageBeforeCreate   = domain.StageBeforeCreate
	StageAfterCreate    = domain.StageAfterCreate
	StageBeforeUpdate   = domain.StageBeforeUpdate
	StageAfterUpdate    = domain.StageAfterUpdate
)

const (
	ActionInject = domain.ActionInject
	ActionMerge  = domain.ActionMerge
	ActionEject  = domain.ActionEject
)

const (
	EventBeforeCreate = domain.EventBeforeCreate
	EventAfterCreate  = domain.EventAfterCreate
	EventBeforeUpdate = domain.EventBeforeUpdate
	EventAfterUpdate  = domain.EventAfterUpdate
	EventEject        = domain.EventEject
)
