// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package demo populates a hosted peer with the kitchen scene.
//
// Every peer spawns a pan it owns and moves it around the stove, takes
// orders on a shared board, greets the others over entity events and posts
// order tickets through the relay. Nothing here is needed by the framework;
// the scene exists so the debug API and syncctl have something to show.
package demo

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/instantiator"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/relay"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/models"
)

const (
	// BoardID is the network id of the shared order board.
	BoardID = "kitchen_orders"

	PanPrefab    = "Pan"
	TicketPrefab = "Ticket"

	ChatEvent = "chat"

	DefaultOrderInterval = 2 * time.Second

	stoveRadius = 1.5
)

//go:embed kitchen.yaml
var kitchenCatalog []byte

// Catalog returns the built-in kitchen prefabs.
func Catalog() (*instantiator.Catalog, error) {
	return instantiator.ParseCatalog(bytes.NewReader(kitchenCatalog))
}

// Options configures a Kitchen.
type Options struct {
	// Catalog must hold the Pan and Ticket prefabs. Nil uses [Catalog].
	Catalog *instantiator.Catalog
	// Relay posts order tickets. Nil disables tickets.
	Relay *relay.Relay
	// OrderInterval defaults to DefaultOrderInterval.
	OrderInterval time.Duration
	// StoreGracePeriod is handed to the order board entity.
	StoreGracePeriod time.Duration
	// SendsPerSecond overrides the catalog rate of the pan's properties.
	SendsPerSecond float64
}

// Kitchen is the demo scene of one peer. It lives on the peer's loop.
type Kitchen struct {
	reg    *entity.Registry
	loop   *scheduler.Loop
	relay  *relay.Relay
	logger *logger.Logger

	scene   *scene.Scene
	spawner *instantiator.Instantiator
	board   *entity.SyncEntity
	orders  *property.Property[int]
	chef    *property.Property[string]

	menu     *scene.Object
	pan      *networkroot.Info
	ticketID string
	interval time.Duration
	rate     float64
	timer    *scheduler.Timer
	subs     observer.Subscriptions
	closed   bool
}

// NewKitchen builds the kitchen on the peer behind reg. It must run on the
// peer's loop, or before the loop is started.
func NewKitchen(reg *entity.Registry, opts Options) (*Kitchen, error) {
	if opts.Catalog == nil {
		cat, err := Catalog()
		if err != nil {
			return nil, err
		}
		opts.Catalog = cat
	}
	for _, name := range []string{PanPrefab, TicketPrefab} {
		if _, ok := opts.Catalog.Prefab(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrefab, name)
		}
	}
	if opts.OrderInterval <= 0 {
		opts.OrderInterval = DefaultOrderInterval
	}

	ctrl := reg.Controller()
	k := &Kitchen{
		reg:      reg,
		loop:     ctrl.Loop(),
		relay:    opts.Relay,
		logger:   reg.Logger().WithComponent("kitchen"),
		scene:    scene.New(),
		interval: opts.OrderInterval,
		rate:     opts.SendsPerSecond,
	}

	stove := k.scene.CreateObject("stove", nil)
	spawner, err := instantiator.New(reg, k.scene.CreateObject("spawner", stove), instantiator.Options{
		Prefabs:           opts.Catalog,
		ID:                netid.Options{Type: netid.Hierarchy},
		SpawnerOwnsObject: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create spawner: %w", err)
	}
	k.spawner = spawner

	k.orders = property.ManualInt("orders", 0)
	k.chef = property.ManualString("last_chef", "")
	board, err := entity.NewStandalone(reg, BoardID, entity.Options{
		PropertySet:      property.NewSet(k.logger, k.orders, k.chef),
		StoreGracePeriod: opts.StoreGracePeriod,
	})
	if err != nil {
		spawner.OnDestroy()
		return nil, fmt.Errorf("create order board: %w", err)
	}
	k.board = board

	k.menu = k.scene.CreateObject("menu", stove)
	k.subs.Add(entity.SetEnabledOnReady(board, []*scene.Object{k.menu}, nil))
	k.subs.Add(board.OnRemoteEventReceived(ChatEvent, k.onChat))
	k.subs.Add(k.loop.OnUpdate(k.onUpdate))
	board.NotifyOnReady(k.greet)
	spawner.NotifyOnReady(k.spawnPan)
	if k.relay != nil {
		k.relay.NotifyOnInitialize(k.postTicket)
	}
	k.timer = k.loop.Delay(k.interval, k.takeOrder)

	return k, nil
}

// Scene returns the kitchen's local scene.
func (k *Kitchen) Scene() *scene.Scene { return k.scene }

// Board returns the shared order board entity.
func (k *Kitchen) Board() *entity.SyncEntity { return k.board }

// Orders returns the board's order count as seen by this peer.
func (k *Kitchen) Orders() int {
	n, _ := k.orders.CurrentOrPendingValue()
	return n
}

// Menu is the order menu object. It is enabled once the board is ready.
func (k *Kitchen) Menu() *scene.Object { return k.menu }

// Pan returns the pan this peer spawned, once it exists.
func (k *Kitchen) Pan() (*networkroot.Info, bool) { return k.pan, k.pan != nil }

// Close stops the kitchen's timers and listeners. Spawned objects and
// stores are left to their persistence class.
func (k *Kitchen) Close() {
	if k.closed {
		return
	}
	k.closed = true
	k.timer.Cancel()
	k.subs.UnsubscribeAll()
}

func (k *Kitchen) greet() {
	name := k.reg.Controller().LocalUserName()
	if err := k.board.SendEvent(ChatEvent, fmt.Sprintf("%s is at the stove", name), true); err != nil {
		k.logger.Warn().Err(err).Msg("greeting failed")
	}
}

func (k *Kitchen) onChat(m entity.Message) {
	k.logger.Info().
		Str("from", m.Sender.DisplayName).
		Any("text", m.Data).
		Msg("chat")
}

func (k *Kitchen) spawnPan() {
	if k.closed {
		return
	}
	local := k.reg.Controller().LocalConnectionID()
	start := models.Vec3{X: stoveRadius}
	k.spawner.Instantiate(PanPrefab, instantiator.InstantiationOptions{
		OverrideNetworkID: "pan_" + local,
		ClaimOwnership:    true,
		Persistence:       models.Owner.String(),
		LocalPosition:     &start,
	}).Then(func(root *networkroot.Info) {
		k.pan = root
		k.applyRate(root)
		k.logger.Debug().Str("network_id", root.NetworkID()).Msg("pan spawned")
	}, func(err error) {
		k.logger.Warn().Err(err).Msg("pan spawn failed")
	})
}

type rateLimited interface {
	SetSendsPerSecondLimit(n float64)
}

func (k *Kitchen) applyRate(root *networkroot.Info) {
	if k.rate <= 0 || root.InstantiatedChild() == nil {
		return
	}
	e, ok := entity.EntityOf(root.InstantiatedChild())
	if !ok {
		return
	}
	for _, p := range e.PropertySet().Properties() {
		if l, ok := p.(rateLimited); ok {
			l.SetSendsPerSecondLimit(k.rate)
		}
	}
}

// onUpdate moves the owned pan around the stove and heats it.
func (k *Kitchen) onUpdate(f scheduler.Frame) {
	if k.pan == nil || k.pan.IsDestroyed() || !k.pan.DoIOwnStore() {
		return
	}
	child := k.pan.InstantiatedChild()
	if child == nil {
		return
	}
	angle := k.loop.Seconds() * 0.5
	child.SetLocalPosition(models.Vec3{
		X: stoveRadius * math.Cos(angle),
		Z: stoveRadius * math.Sin(angle),
	})
	child.SetLocalRotation(models.QuatAngleAxis(-angle, models.Vec3{Y: 1}))

	e, ok := entity.EntityOf(child)
	if !ok {
		return
	}
	if p, ok := e.PropertySet().GetProperty("heat"); ok {
		if heat, ok := p.(*property.Property[float64]); ok {
			cur, _ := heat.CurrentOrPendingValue()
			heat.SetPendingValue(math.Min(cur+f.Delta.Seconds()*10, 220))
		}
	}
}

func (k *Kitchen) takeOrder() {
	if k.closed {
		return
	}
	k.timer = k.loop.Delay(k.interval, k.takeOrder)

	if !k.board.IsSetupFinished() || !k.board.CanIModifyStore() {
		return
	}
	n := k.Orders() + 1
	k.orders.SetPendingValue(n)
	k.chef.SetPendingValue(k.reg.Controller().LocalUserName())

	if k.relay != nil && k.ticketID != "" {
		if err := k.relay.UpdateEntity(k.ticketID, relay.Plan{"order": n}); err != nil {
			k.logger.Warn().Err(err).Str("ticket", k.ticketID).Msg("ticket update failed")
		}
	}
}

func (k *Kitchen) postTicket(models.UserInfo) {
	if k.closed {
		return
	}
	e, err := k.relay.Instantiate(TicketPrefab, relay.Plan{"order": k.Orders()}, relay.InstantiateOptions{
		BindToLocalUser:  true,
		OwnedByLocalUser: true,
	})
	if err != nil {
		k.logger.Warn().Err(err).Msg("ticket post failed")
		return
	}
	k.ticketID = e.ID
}
