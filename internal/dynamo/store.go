package dynamo

import "github.com/go-gl/mathgl/mgl64"

// Store owns the simulated bodies. Bodies live in a contiguous arena kept in
// creation order, so arena order is ascending ID order. Dead bodies stay in
// the arena as tombstones until Purge.
type Store struct {
	bodies []Body
	index  map[ID]int
	nextID ID
}

func NewStore() *Store {
	return &Store{
		bodies: make([]Body, 0, 16),
		index:  make(map[ID]int),
		nextID: 1,
	}
}

// Create adds a body and returns its identifier. A zero mass is accepted and
// produces a tombstone that the next purge removes.
func (s *Store) Create(mass float64, pos, vel mgl64.Vec3) (ID, error) {
	if !validMass(mass) {
		return 0, ErrNegativeMass
	}
	if !ValidVector(pos) || !ValidVector(vel) {
		return 0, ErrInvalidVector
	}

	id := s.nextID
	s.nextID++
	s.index[id] = len(s.bodies)
	s.bodies = append(s.bodies, Body{ID: id, Mass: mass, Position: pos, Velocity: vel})
	return id, nil
}

// Destroy removes a body immediately.
func (s *Store) Destroy(id ID) error {
	i, ok := s.index[id]
	if !ok {
		return &BodyError{ID: id, Wrapped: ErrUnknownBody}
	}
	copy(s.bodies[i:], s.bodies[i+1:])
	s.bodies = s.bodies[:len(s.bodies)-1]
	delete(s.index, id)
	s.reindex(i)
	return nil
}

// Get returns a copy of the body with the given id.
func (s *Store) Get(id ID) (Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return Body{}, false
	}
	return s.bodies[i], true
}

func (s *Store) Mass(id ID) (float64, error) {
	b, err := s.slot(id)
	if err != nil {
		return 0, err
	}
	return b.Mass, nil
}

func (s *Store) Position(id ID) (mgl64.Vec3, error) {
	b, err := s.slot(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return b.Position, nil
}

func (s *Store) Velocity(id ID) (mgl64.Vec3, error) {
	b, err := s.slot(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return b.Velocity, nil
}

// SetMass overwrites a body's mass. Setting zero tombstones the body.
func (s *Store) SetMass(id ID, mass float64) error {
	if !validMass(mass) {
		return &BodyError{ID: id, Wrapped: ErrNegativeMass}
	}
	b, err := s.slot(id)
	if err != nil {
		return err
	}
	b.Mass = mass
	return nil
}

func (s *Store) SetPosition(id ID, pos mgl64.Vec3) error {
	if !ValidVector(pos) {
		return &BodyError{ID: id, Wrapped: ErrInvalidVector}
	}
	b, err := s.slot(id)
	if err != nil {
		return err
	}
	b.Position = pos
	return nil
}

func (s *Store) SetVelocity(id ID, vel mgl64.Vec3) error {
	if !ValidVector(vel) {
		return &BodyError{ID: id, Wrapped: ErrInvalidVector}
	}
	b, err := s.slot(id)
	if err != nil {
		return err
	}
	b.Velocity = vel
	return nil
}

// Live returns a copy of every live body in ascending ID order.
func (s *Store) Live() []Body {
	live := make([]Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		if b.Alive() {
			live = append(live, b)
		}
	}
	return live
}

// Arena exposes the backing array, tombstones included, for in-place updates
// by the tick pipeline. Entries may be mutated but the slice must not be
// resliced or appended to. It is invalidated by Create, Destroy, Purge and
// Reset.
func (s *Store) Arena() []Body { return s.bodies }

// Purge removes every tombstone and returns how many were removed.
func (s *Store) Purge() int {
	kept := s.bodies[:0]
	removed := 0
	for _, b := range s.bodies {
		if b.Alive() {
			kept = append(kept, b)
			continue
		}
		delete(s.index, b.ID)
		removed++
	}
	for i := len(kept); i < len(s.bodies); i++ {
		s.bodies[i] = Body{}
	}
	s.bodies = kept
	if removed > 0 {
		s.reindex(0)
	}
	return removed
}

// Reset clears every body. Identifiers keep increasing across resets.
func (s *Store) Reset() {
	s.bodies = s.bodies[:0]
	s.index = make(map[ID]int)
}

// Len returns the arena size, tombstones included.
func (s *Store) Len() int { return len(s.bodies) }

// LiveCount returns the number of bodies with positive mass.
func (s *Store) LiveCount() int {
	n := 0
	for _, b := range s.bodies {
		if b.Alive() {
			n++
		}
	}
	return n
}

func (s *Store) slot(id ID) (*Body, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, &BodyError{ID: id, Wrapped: ErrUnknownBody}
	}
	return &s.bodies[i], nil
}

func (s *Store) reindex(from int) {
	for i := from; i < len(s.bodies); i++ {
		s.index[s.bodies[i].ID] = i
	}
}
