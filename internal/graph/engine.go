package graph

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/notify"
)

// Engine owns a graph of objects and is the only way to mutate it.
type Engine struct {
	ctx    context.Context
	logger *slog.Logger

	objects map[uuid.UUID]*Object
	seq     uint64
	// proxiesByTarget lists the resolved proxies standing for each object.
	proxiesByTarget map[*Object][]*Object

	bus      *notify.Bus
	pending  []*notify.Notification
	batch    *batch
	journals []*Journal
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the logger taken from the context.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an empty engine. ctx is handed to proxy resolvers and carries
// the logger (see ctxlog).
func New(ctx context.Context, opts ...Option) *Engine {
	if ctx == nil {
		ctx = context.Background()
	}
	e := &Engine{
		ctx:             ctx,
		logger:          ctxlog.FromContext(ctx),
		objects:         make(map[uuid.UUID]*Object),
		proxiesByTarget: make(map[*Object][]*Object),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bus = notify.NewBus(e.oppositeLinks)
	return e
}

// CreateOption sets an initial attribute value at creation.
type CreateOption func(*initial)

type initial struct {
	values []initValue
}

type initValue struct {
	name  string
	value any
}

// Initial sets the attribute named name when the object is created. It is
// the only way to give a non-changeable attribute a value other than its
// default.
func Initial(name string, value any) CreateOption {
	return func(in *initial) { in.values = append(in.values, initValue{name, value}) }
}

// Create instantiates cls. Attributes start at their declared defaults and
// references start empty.
func (e *Engine) Create(cls *meta.Class, opts ...CreateOption) (*Object, error) {
	if cls == nil {
		return nil, &mgerr.TypeError{Feature: "create", Value: nil, Expected: "a class"}
	}
	if cls.IsAbstract() || cls.IsInterface() {
		return nil, &mgerr.AbstractClassError{Class: cls.Name()}
	}
	var in initial
	for _, opt := range opts {
		opt(&in)
	}

	o := newObject(e, cls)
	for _, f := range cls.AllFeatures() {
		if !f.Derived {
			o.slotFor(f)
		}
	}
	for _, iv := range in.values {
		f, err := cls.FindFeature(iv.name)
		if err != nil {
			return nil, err
		}
		if f.IsReference() || f.Derived {
			return nil, &mgerr.ReadOnlyError{Feature: f.QualifiedName()}
		}
		if err := e.initAttribute(o, f, iv.value); err != nil {
			return nil, err
		}
	}

	e.seq++
	o.seq = e.seq
	e.objects[o.id] = o
	e.logger.Debug("Object created.", "object_id", o.id, "class", cls.Name())
	return o, nil
}

func (e *Engine) initAttribute(o *Object, f *meta.Feature, value any) error {
	s := o.slotFor(f)
	if f.IsMany() {
		values, err := e.checkValues(o, f, value)
		if err != nil {
			return err
		}
		s.values = values
		s.set = len(values) > 0
		return nil
	}
	if !f.Accepts(value) {
		return &mgerr.TypeError{Feature: f.QualifiedName(), Value: value, Expected: f.TypeName()}
	}
	s.value, s.set = value, true
	return nil
}

// Lookup finds a live object by ID.
func (e *Engine) Lookup(id uuid.UUID) (*Object, bool) {
	o, ok := e.objects[id]
	return o, ok
}

// Objects returns the live objects in creation order.
func (e *Engine) Objects() []*Object {
	out := make([]*Object, 0, len(e.objects))
	for _, o := range e.objects {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *Object) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// Roots returns the live objects that have no container, in creation order.
func (e *Engine) Roots() []*Object {
	var out []*Object
	for _, o := range e.Objects() {
		if o.container == nil {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of live objects.
func (e *Engine) Len() int { return len(e.objects) }

// Observe subscribes observer to target. See package notify for the reach
// and ordering rules.
func (e *Engine) Observe(observer notify.Observer, target *Object) *notify.Subscription {
	return e.bus.Observe(observer, target)
}

// Unobserve cancels a subscription.
func (e *Engine) Unobserve(sub *notify.Subscription) {
	e.bus.Unobserve(sub)
}

// IsInstance reports whether value conforms to classifier. For classes,
// value must be a non-nil object of the class or a subclass.
func (e *Engine) IsInstance(value any, c meta.Classifier) bool {
	if c == nil {
		return false
	}
	if _, ok := c.(*meta.Class); ok {
		o, ok := value.(*Object)
		return ok && o != nil && c.Conforms(o)
	}
	return c.Conforms(value)
}

// oppositeLinks lists the objects n is connected to through references that
// have an opposite.
func (e *Engine) oppositeLinks(n notify.Notifier) []notify.Notifier {
	o, ok := n.(*Object)
	if !ok {
		return nil
	}
	var out []notify.Notifier
	for _, f := range o.class.AllReferences() {
		if f.Opposite() == nil {
			continue
		}
		s, ok := o.slots[f]
		if !ok {
			continue
		}
		if f.IsMany() {
			for _, v := range s.values {
				out = append(out, v.(*Object))
			}
		} else if t, ok := s.value.(*Object); ok && t != nil {
			out = append(out, t)
		}
	}
	return out
}

// batch coalesces the owner-side notifications of AddAll and Clear into one
// AddMany or RemoveMany.
type batch struct {
	obj     *Object
	feature *meta.Feature
	kind    notify.Kind
	values  []any
	pos     int
}

func (b *batch) accepts(kind notify.Kind) bool {
	return (b.kind == notify.AddMany && kind == notify.Add) || (b.kind == notify.RemoveMany && kind == notify.Remove)
}

func (e *Engine) emit(o *Object, f *meta.Feature, kind notify.Kind, oldValue, newValue any, pos int) {
	if b := e.batch; b != nil && b.obj == o && b.feature == f && b.accepts(kind) {
		if kind == notify.Add {
			if len(b.values) == 0 {
				b.pos = pos
			}
			b.values = append(b.values, newValue)
		} else {
			b.values = append(b.values, oldValue)
		}
		return
	}
	e.pending = append(e.pending, &notify.Notification{
		Notifier: o,
		Feature:  f,
		Kind:     kind,
		Old:      oldValue,
		New:      newValue,
		Position: pos,
	})
}

func (e *Engine) beginBatch(o *Object, f *meta.Feature, kind notify.Kind) {
	e.batch = &batch{obj: o, feature: f, kind: kind, pos: notify.NoPosition}
}

func (e *Engine) endBatch() {
	b := e.batch
	e.batch = nil
	if b == nil || len(b.values) == 0 {
		return
	}
	n := &notify.Notification{Notifier: b.obj, Feature: b.feature, Kind: b.kind, Position: b.pos}
	if b.kind == notify.AddMany {
		n.New = b.values
	} else {
		n.Old = b.values
		n.Position = notify.NoPosition
	}
	e.pending = append(e.pending, n)
}

// flush publishes the queued notifications. Observers may mutate the graph;
// their own notifications are queued and flushed by their own call.
func (e *Engine) flush() error {
	for len(e.pending) > 0 {
		queued := e.pending
		e.pending = nil
		if err := e.bus.Publish(queued...); err != nil {
			return err
		}
	}
	return nil
}
