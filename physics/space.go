package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/logger"
)

const (
	collisionTypeAgent cp.CollisionType = iota + 1
	collisionTypeSolid
)

// WallLayer is the category of static geometry. Walls block every ray.
const WallLayer uint = 1 << 30

type SpaceConfig struct {
	Gravity    cp.Vector `yaml:"gravity" json:"gravity"`
	Damping    float64   `yaml:"damping" json:"damping,omitempty"`
	Iterations uint      `yaml:"iterations" json:"iterations,omitempty"`
}

func DefaultSpaceConfig() SpaceConfig {
	return SpaceConfig{Gravity: cp.Vector{X: 0, Y: 30}, Damping: 0.2, Iterations: 10}
}

// Space owns the chipmunk space and answers spatial queries for the entities
// attached to it.
type Space struct {
	space *cp.Space
	log   *logrus.Entry

	shapeToEntity map[*cp.Shape]*entity.Entity
	bodies        map[*entity.Entity]*Body
	static        []*cp.Shape
}

func NewSpace(cfg SpaceConfig) *Space {
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultSpaceConfig().Iterations
	}
	if cfg.Damping <= 0 || cfg.Damping > 1 {
		cfg.Damping = 1
	}
	space := cp.NewSpace()
	space.Iterations = cfg.Iterations
	space.SetGravity(cfg.Gravity)
	space.SetDamping(cfg.Damping)

	return &Space{
		space:         space,
		log:           logger.For("physics"),
		shapeToEntity: make(map[*cp.Shape]*entity.Entity),
		bodies:        make(map[*entity.Entity]*Body),
	}
}

// Space returns the underlying chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// NewBody creates a dynamic body in the space. Attach it once the owning
// entity exists.
func (s *Space) NewBody(cfg BodyConfig) *Body {
	b := newBody(cfg)
	s.space.AddBody(b.body)
	s.space.AddShape(b.shape)
	return b
}

// Attach maps b's shape to e for queries. Attach after spawning e: bodies of
// unspawned entities are released on the next Step.
func (s *Space) Attach(e *entity.Entity, b *Body) {
	if e == nil || b == nil {
		return
	}
	s.shapeToEntity[b.shape] = e
	s.bodies[e] = b
}

// Remove drops e's body from the space.
func (s *Space) Remove(e *entity.Entity) bool {
	b, ok := s.bodies[e]
	if !ok {
		return false
	}
	s.space.RemoveShape(b.shape)
	s.space.RemoveBody(b.body)
	delete(s.shapeToEntity, b.shape)
	delete(s.bodies, e)
	return true
}

func (s *Space) BodyOf(e *entity.Entity) (*Body, bool) {
	b, ok := s.bodies[e]
	return b, ok
}

// AddWall adds a static segment.
func (s *Space) AddWall(a, b cp.Vector, thickness float64) *cp.Shape {
	shape := cp.NewSegment(s.space.StaticBody, a, b, thickness)
	return s.addStatic(shape)
}

// AddBlock adds a static axis-aligned box centered on center.
func (s *Space) AddBlock(center cp.Vector, width, height float64) *cp.Shape {
	bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
	return s.addStatic(cp.NewBox2(s.space.StaticBody, bb, 0))
}

func (s *Space) addStatic(shape *cp.Shape) *cp.Shape {
	shape.SetFriction(1)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.ShapeFilter{Categories: WallLayer, Mask: entity.AllLayers})
	s.space.AddShape(shape)
	s.static = append(s.static, shape)
	return shape
}

// QueryRadius returns attached entities on a layer in mask whose center lies
// within radius of center.
func (s *Space) QueryRadius(center cp.Vector, radius float64, mask uint) []*entity.Entity {
	var out []*entity.Entity
	seen := make(map[*entity.Entity]struct{})
	filter := cp.ShapeFilter{Categories: entity.AllLayers, Mask: mask &^ WallLayer}
	s.space.BBQuery(cp.NewBBForCircle(center, radius), filter, func(shape *cp.Shape, data interface{}) {
		e, ok := s.shapeToEntity[shape]
		if !ok || !e.Spawned() {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		if e.Position().Distance(center) > radius {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}, nil)
	return out
}

// Raycast returns the nearest shape between from and to on a layer in mask,
// or a wall. Shapes containing from are ignored so an agent never occludes
// itself.
func (s *Space) Raycast(from, to cp.Vector, mask uint) entity.RayHit {
	var hit entity.RayHit
	nearest := math.Inf(1)
	filter := cp.ShapeFilter{Categories: entity.AllLayers, Mask: mask | WallLayer}
	s.space.SegmentQuery(from, to, 0, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if alpha >= nearest || shape.PointQuery(from).Distance < 0 {
			return
		}
		nearest = alpha
		hit = entity.RayHit{Hit: true, Entity: s.shapeToEntity[shape], Point: point}
	}, nil)
	return hit
}

// Step advances the simulation and releases bodies of despawned entities.
func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	for e := range s.bodies {
		if !e.Spawned() {
			s.log.WithField("entity", e.Name).Debug("releasing body of despawned entity")
			s.Remove(e)
		}
	}
	s.space.Step(dt)
}

// Update lets the space run as a world system.
func (s *Space) Update(dt float64) { s.Step(dt) }
