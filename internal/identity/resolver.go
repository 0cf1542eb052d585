// Package identity resolves an inbound caller to tenant, contact, property
// and equipment history. Resolution never fails: every lookup that errors
// or times out degrades to "not found" and the chain carries on.
package identity

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/industry"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/store"
)

// DefaultLookupTimeout bounds each store query.
const DefaultLookupTimeout = 400 * time.Millisecond

// Outcome is the result of one resolution stage.
type Outcome string

const (
	Found    Outcome = "found"
	NotFound Outcome = "not_found"
	Failed   Outcome = "failed"
	Skipped  Outcome = "skipped"
)

// Stage names, in chain order.
const (
	StageTenantByID      = "tenant_by_id"
	StageTenantByPhone   = "tenant_by_phone"
	StageFirstActive     = "first_active_tenant"
	StageContact         = "contact"
	StageProperty        = "property"
	StageAssets          = "assets"
	StageLastInteraction = "last_interaction"
)

// Request identifies the call being resolved.
type Request struct {
	CallerPhone string
	ToPhone     string
	TenantID    string

	// OnLocated, when set, is called exactly once with the caller's ZIP
	// (property, else tenant, possibly empty) as soon as it is settled,
	// ahead of the asset and interaction lookups.
	OnLocated func(zip string)
}

// Result is everything known about the caller.
type Result struct {
	NormalizedPhone string
	Tenant          *model.Tenant
	Contact         *model.Contact
	Property        *model.Property
	Assets          []model.Asset
	PrimaryAsset    *model.Asset
	LastInteraction *model.Interaction
	IsNewCaller     bool
	Stages          map[string]Outcome
}

// Zip is the ZIP that best locates the caller: the property's, else the
// tenant's service ZIP.
func (r *Result) Zip() string {
	if r == nil {
		return ""
	}
	if r.Property != nil && r.Property.ZipCode != "" {
		return r.Property.ZipCode
	}
	if r.Tenant != nil {
		return r.Tenant.ZipCode
	}
	return ""
}

// LastJokeID is the hook id the caller heard last time, if any.
func (r *Result) LastJokeID() *int {
	if r == nil || r.LastInteraction == nil {
		return nil
	}
	return r.LastInteraction.JokeID
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookupTimeout sets the per-query timeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

// WithProfiles fills blank industry settings from profiles.
func WithProfiles(p *industry.Profiles) Option {
	return func(r *Resolver) {
		r.profiles = p
	}
}

// Resolver walks the identity chain against a store.
type Resolver struct {
	store         store.Store
	profiles      *industry.Profiles
	lookupTimeout time.Duration
}

// NewResolver creates a Resolver.
func NewResolver(st store.Store, opts ...Option) *Resolver {
	r := &Resolver{store: st, lookupTimeout: DefaultLookupTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the chain. Stages whose prerequisite is missing are skipped.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	res := Result{
		NormalizedPhone: model.NormalizePhone(req.CallerPhone),
		IsNewCaller:     true,
		Stages:          make(map[string]Outcome, 7),
	}

	located := false
	locate := func() {
		if located || req.OnLocated == nil {
			return
		}
		located = true
		req.OnLocated(res.Zip())
	}
	defer locate()

	res.Tenant = r.profiles.Apply(r.resolveTenant(ctx, req, &res))

	if res.NormalizedPhone == "" || res.Tenant == nil {
		res.skip(StageContact, StageProperty, StageAssets, StageLastInteraction)
		return res
	}

	tenantID := res.Tenant.ID
	res.Contact = lookup(ctx, r, &res, StageContact, func(ctx context.Context) (*model.Contact, error) {
		return r.store.ContactByPhone(ctx, tenantID, res.NormalizedPhone)
	})
	if res.Contact == nil {
		res.skip(StageProperty, StageAssets, StageLastInteraction)
		return res
	}
	res.IsNewCaller = false
	contact := res.Contact

	if contact.PropertyID == "" {
		res.skip(StageProperty, StageAssets)
		locate()
	} else {
		res.Property = lookup(ctx, r, &res, StageProperty, func(ctx context.Context) (*model.Property, error) {
			return r.store.PropertyByID(ctx, contact.PropertyID)
		})
		locate()
		if res.Property == nil {
			res.skip(StageAssets)
		} else {
			res.Assets = r.activeAssets(ctx, &res, res.Property.ID)
			if len(res.Assets) > 0 {
				res.PrimaryAsset = &res.Assets[0]
			}
		}
	}

	res.LastInteraction = lookup(ctx, r, &res, StageLastInteraction, func(ctx context.Context) (*model.Interaction, error) {
		return r.store.LastInteraction(ctx, contact.ID)
	})
	return res
}

// resolveTenant tries the explicit id, then the dialed number, then the
// first active tenant.
func (r *Resolver) resolveTenant(ctx context.Context, req Request, res *Result) *model.Tenant {
	if req.TenantID != "" {
		if t := lookup(ctx, r, res, StageTenantByID, func(ctx context.Context) (*model.Tenant, error) {
			return r.store.TenantByID(ctx, req.TenantID)
		}); t != nil {
			return t
		}
	} else {
		res.skip(StageTenantByID)
	}

	if digits := model.NormalizePhone(req.ToPhone); digits != "" {
		if t := lookup(ctx, r, res, StageTenantByPhone, func(ctx context.Context) (*model.Tenant, error) {
			return r.store.TenantByPhone(ctx, digits)
		}); t != nil {
			return t
		}
	} else {
		res.skip(StageTenantByPhone)
	}

	return lookup(ctx, r, res, StageFirstActive, r.store.FirstActiveTenant)
}

func (r *Resolver) activeAssets(ctx context.Context, res *Result, propertyID string) []model.Asset {
	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	assets, err := r.store.ActiveAssets(ctx, propertyID)
	switch {
	case err != nil:
		res.Stages[StageAssets] = Failed
		logFailure(StageAssets, err)
		return nil
	case len(assets) == 0:
		res.Stages[StageAssets] = NotFound
		return nil
	}
	res.Stages[StageAssets] = Found

	slices.SortStableFunc(assets, func(a, b model.Asset) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return assets
}

// lookup runs one stage under the lookup timeout and records its outcome.
// A store error is logged and treated as not found.
func lookup[T any](ctx context.Context, r *Resolver, res *Result, stage string, fn func(context.Context) (*T, error)) *T {
	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	v, err := fn(ctx)
	switch {
	case err != nil:
		res.Stages[stage] = Failed
		logFailure(stage, err)
		return nil
	case v == nil:
		res.Stages[stage] = NotFound
		return nil
	}
	res.Stages[stage] = Found
	return v
}

func logFailure(stage string, err error) {
	zap.L().Warn("identity: lookup failed",
		zap.String("stage", stage),
		zap.Error(err),
	)
}

func (r *Result) skip(stages ...string) {
	for _, s := range stages {
		r.Stages[s] = Skipped
	}
}
