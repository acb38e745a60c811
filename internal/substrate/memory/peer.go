package memory

import (
	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// PeerOption configures a Peer.
type PeerOption func(*Peer)

// AsReceiver marks the peer as having joined through an invite.
func AsReceiver() PeerOption {
	return func(p *Peer) { p.creation = models.SessionCreationReceiver }
}

// Peer is one connection to a Hub. It implements substrate.Session,
// substrate.Connector and realtime.Writer for its own replicas.
type Peer struct {
	hub      *Hub
	user     models.UserInfo
	loop     *scheduler.Loop
	listener substrate.Listener
	creation models.SessionCreationType
	logger   *logger.Logger
}

var (
	_ substrate.Session   = (*Peer)(nil)
	_ substrate.Connector = (*Peer)(nil)
	_ realtime.Writer     = (*Peer)(nil)
)

// Loop returns the scheduler loop notifications are delivered on.
func (p *Peer) Loop() *scheduler.Loop { return p.loop }

// Connect joins the hub. The listener receives OnSessionCreated and
// OnConnected on the peer's loop.
func (p *Peer) Connect(l substrate.Listener) error {
	p.listener = l
	return p.hub.connect(p)
}

// Leave disconnects the peer. Stores whose lifetime is bound to it are
// removed and other peers are told the user left.
func (p *Peer) Leave(reason string) {
	p.hub.leave(p, reason)
}

func (p *Peer) LocalUser() models.UserInfo { return p.user }

func (p *Peer) ServerTimeMs() int64 { return p.hub.ServerTimeMs() }

func (p *Peer) CreateStore(opts substrate.CreateStoreOptions) *async.Op[*realtime.Store] {
	op := async.New[*realtime.Store]()
	store, err := p.hub.createStore(p, opts)
	p.loop.Post(func() {
		if err != nil {
			op.Reject(err)
			return
		}
		p.listener.OnStoreCreated(p, store, store.Owner(), store.CreationInfo())
		op.Resolve(store)
	})
	return op
}

func (p *Peer) DeleteStore(store *realtime.Store) *async.Op[struct{}] {
	op := async.New[struct{}]()
	targets, err := p.hub.deleteStore(p, store)
	if err != nil {
		p.loop.Post(func() { op.Reject(err) })
		return op
	}
	for o, r := range targets {
		o.loop.Post(func() {
			r.ApplyDeleted()
			o.listener.OnStoreDeleted(o, r)
			if o == p {
				op.Resolve(struct{}{})
			}
		})
	}
	if _, ok := targets[p]; !ok {
		p.loop.Post(func() { op.Resolve(struct{}{}) })
	}
	return op
}

func (p *Peer) RequestOwnership(store *realtime.Store) *async.Op[*realtime.Store] {
	return p.changeOwner(store, true)
}

func (p *Peer) ClearOwnership(store *realtime.Store) *async.Op[*realtime.Store] {
	return p.changeOwner(store, false)
}

func (p *Peer) changeOwner(store *realtime.Store, claim bool) *async.Op[*realtime.Store] {
	op := async.New[*realtime.Store]()
	targets, owner, err := p.hub.setOwner(p, store, claim)
	if err != nil {
		p.loop.Post(func() { op.Reject(err) })
		return op
	}
	for o, r := range targets {
		o.loop.Post(func() {
			r.ApplyOwner(owner)
			o.listener.OnStoreOwnershipUpdated(o, r, r.Owner())
			if o == p {
				op.Resolve(r)
			}
		})
	}
	return op
}

func (p *Peer) SendMessage(msg string) {
	p.hub.broadcast(p, msg)
}

func (p *Peer) Share() *async.Op[struct{}] {
	op := async.New[struct{}]()
	info, err := p.hub.share(p)
	p.loop.Post(func() {
		if err != nil {
			op.Reject(err)
			return
		}
		p.listener.OnSessionShared(p)
		p.listener.OnConnected(p, info)
		op.Resolve(struct{}{})
	})
	return op
}

// WriteValue forwards a local Put on one of this peer's replicas.
func (p *Peer) WriteValue(store *realtime.Store, key string, v models.Value) error {
	return p.hub.write(p, store, key, v)
}
