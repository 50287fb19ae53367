package ecs

// EntityId packs the owning archetype (bits 48-63), the slot's generation
// (bits 32-47) and the slot inside that archetype (bits 0-31). A slot's
// generation moves on every time it is freed, so an id kept past its entity's
// deletion never names whatever is spawned into the same slot later. The zero
// value never names a live entity.
type EntityId uint64

// MaxArchetypes is the number of archetype ids an EntityId can address.
const MaxArchetypes = 1<<16 - 1

// NewEntityId builds an EntityId from an archetype id, a slot generation and a
// slot index. Only the low 16 bits of archetypeId are kept.
func NewEntityId(archetypeId uint32, generation uint16, slot uint32) EntityId {
	return EntityId(uint64(archetypeId&0xFFFF)<<48 | uint64(generation)<<32 | uint64(slot))
}

// ArchetypeId returns the archetype part of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 48)
}

// Generation returns the slot generation the id was issued with.
func (e EntityId) Generation() uint16 {
	return uint16(e >> 32)
}

// Index returns the slot part of the id.
func (e EntityId) Index() uint32 {
	return uint32(e)
}

// IsZero reports whether e is the unset id.
func (e EntityId) IsZero() bool {
	return e == 0
}

// EntityRef follows one entity across component additions and removals, which
// move it to another archetype and so change its id. Once the entity is
// deleted the ref resolves to nothing.
type EntityRef struct {
	Id EntityId
}
