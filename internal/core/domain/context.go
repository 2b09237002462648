package domain

// ActionContext carries the identity behind a mutating call for audit
// attribution. Middleware builds it from the authenticated request; batch
// tooling builds it by hand. It travels as an explicit parameter, never as
// request-global state.
type ActionContext struct {
	ActorID   *string `json:"actorID"` // Nil when the system itself acts
	IPAddress string  `json:"ipAddress"`
	UserAgent string  `json:"userAgent"`
}

// NewActionContext builds a context for a human actor.
func NewActionContext(actorID, ip, userAgent string) ActionContext {
	return ActionContext{ActorID: &actorID, IPAddress: ip, UserAgent: userAgent}
}

// SystemActionContext builds a context for actions the system takes on its
// own (no authenticated user).
func SystemActionContext() ActionContext {
	return ActionContext{}
}

// ActorOrSystem returns the actor's UserID, or SystemActor when none.
func (c ActionContext) ActorOrSystem() string {
	if c.ActorID != nil && *c.ActorID != "" {
		return *c.ActorID
	}
	return SystemActor
}
