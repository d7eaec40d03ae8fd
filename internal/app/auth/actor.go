package auth

import "context"

// Actor is an authenticated admin user together with the capabilities it holds
type Actor struct {
	UserID       int64
	ProfileID    int64
	Username     string
	IsSuperuser  bool
	IsStaff      bool
	Capabilities map[Capability]struct{}
}

// NewActor builds an actor holding caps
func NewActor(userID, profileID int64, caps ...Capability) *Actor {
	a := &Actor{
		UserID:       userID,
		ProfileID:    profileID,
		IsStaff:      true,
		Capabilities: make(map[Capability]struct{}, len(caps)),
	}
	for _, c := range caps {
		a.Capabilities[c] = struct{}{}
	}
	return a
}

// Has reports whether the actor holds c. Superusers hold every capability.
func (a *Actor) Has(c Capability) bool {
	if a == nil {
		return false
	}
	if a.IsSuperuser {
		return true
	}
	_, ok := a.Capabilities[c]
	return ok
}

// List returns the capability codenames, unordered
func (a *Actor) List() []string {
	out := make([]string, 0, len(a.Capabilities))
	for c := range a.Capabilities {
		out = append(out, string(c))
	}
	return out
}

type actorKey struct{}

// WithActor stores the actor in ctx
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored in ctx, or nil
func ActorFrom(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey{}).(*Actor)
	return a
}
