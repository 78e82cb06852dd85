package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Resolver loads the object a proxy stands for. It is implemented by the
// resource loader that created the proxy.
type Resolver interface {
	Resolve(ctx context.Context, uri string) (*Object, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, uri string) (*Object, error)

// Resolve calls f(ctx, uri).
func (f ResolverFunc) Resolve(ctx context.Context, uri string) (*Object, error) {
	return f(ctx, uri)
}

type proxyState struct {
	uri      string
	resolver Resolver
	target   *Object
}

// NewProxy creates a placeholder of class cls for the object at uri. The
// proxy can be stored in references like any object; it is resolved on
// first real access.
func (e *Engine) NewProxy(cls *meta.Class, uri string, r Resolver) *Object {
	p := newObject(e, cls)
	p.proxy = &proxyState{uri: uri, resolver: r}
	return p
}

// IsProxy reports whether o is a proxy.
func (o *Object) IsProxy() bool { return o.proxy != nil }

// URI returns the address a proxy stands for, or "" for real objects.
func (o *Object) URI() string {
	if o.proxy == nil {
		return ""
	}
	return o.proxy.uri
}

// Resolved reports whether o is a real object or a proxy that has been
// resolved.
func (o *Object) Resolved() bool {
	return o.proxy == nil || o.proxy.target != nil
}

// Resolve returns the object behind p, calling the resolver the first time.
// A successful result is cached; a failure is reported as a ResolutionError
// and the next access tries again. A target that has been deleted fails
// with a ResolutionError wrapping a DeletedError, cached or not. Real
// objects resolve to themselves.
func (e *Engine) Resolve(p *Object) (*Object, error) {
	if p.proxy == nil {
		return p, nil
	}
	if t := p.proxy.target; t != nil {
		if t.deleted {
			return nil, &mgerr.ResolutionError{URI: p.proxy.uri, Err: &mgerr.DeletedError{Object: t.String()}}
		}
		return t, nil
	}
	if p.proxy.resolver == nil {
		return nil, &mgerr.ResolutionError{URI: p.proxy.uri, Err: fmt.Errorf("no resolver")}
	}
	t, err := p.proxy.resolver.Resolve(e.ctx, p.proxy.uri)
	if err != nil {
		return nil, &mgerr.ResolutionError{URI: p.proxy.uri, Err: err}
	}
	if t == nil {
		return nil, &mgerr.ResolutionError{URI: p.proxy.uri}
	}
	if t.proxy != nil || t.engine != e {
		return nil, &mgerr.ResolutionError{URI: p.proxy.uri, Err: fmt.Errorf("resolver returned %s, not an object of this engine", t)}
	}
	if t.deleted {
		return nil, &mgerr.ResolutionError{URI: p.proxy.uri, Err: &mgerr.DeletedError{Object: t.String()}}
	}
	if !t.class.ConformsTo(p.class) {
		return nil, &mgerr.ResolutionError{
			URI: p.proxy.uri,
			Err: &mgerr.TypeError{Feature: "proxy", Value: t, Expected: p.class.Name()},
		}
	}
	p.proxy.target = t
	e.proxiesByTarget[t] = append(e.proxiesByTarget[t], p)
	e.logger.Debug("Proxy resolved.", "uri", p.proxy.uri, "object_id", t.id, "class", t.class.Name())
	return t, nil
}
