package memory

import (
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
)

// Colocation simulates shared-space tracking for one peer. The map is a
// hub-wide resource: once any peer has built it, every other peer can join.
type Colocation struct {
	peer      *Peer
	buildTime time.Duration
	canTrack  bool
	building  bool

	trackingAvailable observer.Event[struct{}]
	joinFailed        observer.Event[struct{}]
	buildFailed       observer.Event[struct{}]
}

var _ substrate.Colocation = (*Colocation)(nil)

// NewColocation returns a provider whose map building takes buildTime of
// loop time.
func NewColocation(p *Peer, buildTime time.Duration) *Colocation {
	return &Colocation{peer: p, buildTime: buildTime}
}

func (c *Colocation) CanTrack() bool { return c.canTrack }

// Join downloads the hub map if one was built. The result is reported on
// the next frame.
func (c *Colocation) Join(substrate.Session) {
	c.peer.loop.Post(func() {
		if !c.peer.hub.isMapBuilt() {
			c.peer.logger.Debug().Msg("no colocated map to join")
			c.joinFailed.Trigger(struct{}{})
			return
		}
		c.setTracking()
	})
}

// StartBuilding builds the map. A second call while building is ignored.
func (c *Colocation) StartBuilding(substrate.Session) {
	if c.building || c.canTrack {
		return
	}
	c.building = true
	c.peer.loop.Delay(c.buildTime, func() {
		c.building = false
		c.peer.hub.buildMap(c.buildTime)
		c.setTracking()
	})
}

func (c *Colocation) setTracking() {
	if c.canTrack {
		return
	}
	c.canTrack = true
	c.trackingAvailable.Trigger(struct{}{})
}

func (c *Colocation) OnTrackingAvailable(fn func()) observer.Subscription {
	return c.trackingAvailable.Add(func(struct{}) { fn() })
}

func (c *Colocation) OnJoinFailed(fn func()) observer.Subscription {
	return c.joinFailed.Add(func(struct{}) { fn() })
}

func (c *Colocation) OnBuildFailed(fn func()) observer.Subscription {
	return c.buildFailed.Add(func(struct{}) { fn() })
}
