package evaluator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
)

const (
	ServiceEC2     = "EC2"
	ServiceALB     = "ALB"
	ServiceRoute53 = "Route53"
	ServiceIAM     = "IAM"
	ServiceS3      = "S3"
	ServiceRDS     = "RDS"
	ServiceECS     = "ECS"
	ServiceNetwork = "NETWORK"
)

type Key struct {
	Service string
	Type    string
}

func (k Key) String() string { return k.Service + "/" + k.Type }

// Request is what a handler sees: the check, its resolved parameters,
// credentials and the effective region.
type Request struct {
	Check  *check.Check
	Params map[string]any
	Creds  account.Credentials
	Region string
}

// Handler performs the provider calls for one (service, type) pair.
// Returning an error turns the check into a FAIL carrying the message.
type Handler interface {
	Evaluate(ctx context.Context, req Request) (check.Result, error)
}

type HandlerFunc func(ctx context.Context, req Request) (check.Result, error)

func (f HandlerFunc) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	return f(ctx, req)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[Key]Handler
	services map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Key]Handler),
		services: make(map[string]struct{}),
	}
}

func (r *Registry) Register(k Key, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.handlers[k]; dup {
		panic(fmt.Sprintf("evaluator: duplicate handler for %s", k))
	}
	r.handlers[k] = h
	r.services[k.Service] = struct{}{}
}

func (r *Registry) RegisterFunc(k Key, f HandlerFunc) { r.Register(k, f) }

// Lookup resolves service first, then type, so the caller can tell an
// unknown service from an unknown type.
func (r *Registry) Lookup(service, typ string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.services[service]; !ok {
		return nil, fmt.Errorf("unsupported service: %s", service)
	}
	h, ok := r.handlers[Key{Service: service, Type: typ}]
	if !ok {
		return nil, fmt.Errorf("unsupported %s check type: %s", service, typ)
	}
	return h, nil
}

func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Key, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Service != out[j].Service {
			return out[i].Service < out[j].Service
		}
		return out[i].Type < out[j].Type
	})
	return out
}
