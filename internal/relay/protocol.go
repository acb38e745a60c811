package relay

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

func isBuiltinOp(op string) bool {
	switch op {
	case OpUpdate, OpDelete, OpBatch, OpBatchEnd, OpInstantiate, OpEntrance, OpUser:
		return true
	}
	return false
}

func (r *Relay) send(msg models.RelayMessage) error {
	s := r.ctrl.Session()
	if s == nil {
		r.logger.Warn().Str("op", msg.Op).Str("id", msg.ID).Msg("no session, message dropped")
		return ErrNotConnected
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %q message: %w", msg.Op, err)
	}
	s.SendMessage(string(raw))
	return nil
}

// onUpdate sends at most one queued message per frame.
func (r *Relay) onUpdate(scheduler.Frame) {
	if len(r.queue) == 0 {
		return
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	if err := r.send(msg); err != nil {
		r.logger.Error().Err(err).Str("recipient", msg.Recipient).Msg("queued message not sent")
	}
}

func (r *Relay) onInitialConnection() {
	u, ok := r.ctrl.LocalUserInfo()
	if !ok {
		return
	}
	r.local = &u
	r.logger = r.logger.WithPeer(u.ConnectionID)

	if err := r.send(models.RelayMessage{
		Op:          OpEntrance,
		ID:          u.UserID,
		DisplayName: u.DisplayName,
		Args:        json.RawMessage("{}"),
	}); err != nil {
		r.logger.Error().Err(err).Msg("entrance not sent")
	}
	r.waitingForUsers = true
	r.entranceTimer = r.loop.Delay(r.opts.EntranceTimeout, r.alone)
}

func (r *Relay) alone() {
	r.entranceTimer = nil
	r.waitingForUsers = false
	r.logger.Info().Msg("no host answered, assuming we are alone")
	r.initialize()
}

func (r *Relay) initialize() {
	r.initialized = true
	r.users[r.local.UserID] = &User{ID: r.local.UserID, DisplayName: r.local.DisplayName, Data: Plan{}}
	r.OnInitialized.Trigger(*r.local)
}

func (r *Relay) onMessageReceived(m session.Message) {
	if strings.HasPrefix(m.Text, "/") || !gjson.Valid(m.Text) {
		return
	}
	// Entity messages share the channel and carry no op.
	op := gjson.Get(m.Text, "op")
	if !op.Exists() || op.Type != gjson.String {
		return
	}
	if rcpt := gjson.Get(m.Text, "recipient"); rcpt.Exists() && rcpt.String() != r.OwnUserID() {
		return
	}
	var msg models.RelayMessage
	if err := json.Unmarshal([]byte(m.Text), &msg); err != nil {
		r.logger.Warn().Err(err).Str("op", op.String()).Msg("undecodable relay message")
		return
	}
	r.dispatch(m.Sender.UserID, msg)
}

func (r *Relay) dispatch(who string, msg models.RelayMessage) {
	switch msg.Op {
	case OpUpdate:
		plan, ok := r.plan(msg)
		if ok {
			r.internalApplyUpdate(msg.ID, who, plan, msg.Time)
		}
	case OpDelete:
		r.internalDelete(msg.ID, who, true)
	case OpInstantiate:
		r.onInstantiate(who, msg)
	case OpEntrance:
		r.onEntrance(msg)
	case OpUser:
		plan, _ := r.plan(msg)
		r.users[msg.ID] = &User{ID: msg.ID, DisplayName: msg.DisplayName, Data: plan}
	case OpBatch:
		r.onBatch(who, msg)
	case OpBatchEnd:
		r.onBatchEnd()
	default:
		plan, ok := r.plan(msg)
		if !ok {
			return
		}
		r.EventWrapperFor(msg.ID).OnMessage.Trigger(msg.Op, Change{Who: who, State: plan, Time: msg.Time})
	}
}

func (r *Relay) plan(msg models.RelayMessage) (Plan, bool) {
	p, err := decodePlan(msg.Args)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", msg.Op).Str("id", msg.ID).Msg("bad args")
		return nil, false
	}
	return p, true
}

func (r *Relay) onInstantiate(who string, msg models.RelayMessage) {
	if _, ok := r.entities[msg.ID]; ok {
		r.logger.Warn().Str("entity", msg.ID).Msg("already instantiated")
		return
	}
	if r.opts.Prefabs == nil {
		r.logger.Warn().Str("prefab", msg.PrefabName).Msg("no prefab catalog, instantiate ignored")
		return
	}
	plan, ok := r.plan(msg)
	if !ok {
		return
	}
	obj, err := r.build(msg.PrefabName)
	if err != nil {
		r.logger.Warn().Err(err).Str("entity", msg.ID).Str("prefab", msg.PrefabName).Msg("could not instantiate")
		return
	}
	plan.ApplyToTransform(obj)
	e, err := r.Register(obj, msg.ID, RegisterOptions{
		State:      plan,
		PrefabName: msg.PrefabName,
		BindedUser: msg.BindedUser,
		OwnerID:    msg.OwnerID,
		ParentID:   msg.Parent,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("entity", msg.ID).Msg("could not register instance")
		return
	}
	if msg.Time != 0 {
		e.LastUpdated = msg.Time
	}
	if w, ok := r.wrappers[msg.ID]; ok {
		w.OnCreate.Trigger(Change{Who: who, State: plan, Time: msg.Time})
	}
}

func (r *Relay) onEntrance(msg models.RelayMessage) {
	if msg.ID == "" || msg.ID == r.OwnUserID() {
		return
	}
	amHost := r.IsHost()
	plan, _ := r.plan(msg)
	r.users[msg.ID] = &User{ID: msg.ID, DisplayName: msg.DisplayName, Data: plan}
	if amHost {
		r.sendStateToUser(msg.ID)
	}
}

func (r *Relay) onBatch(who string, msg models.RelayMessage) {
	var batch models.RelayBatch
	if err := json.Unmarshal(msg.Args, &batch); err != nil {
		r.logger.Warn().Err(err).Str("id", msg.ID).Msg("bad batch")
		return
	}
	r.receivingBatch = true
	for _, item := range batch.Batch {
		r.dispatch(who, item)
	}
}

func (r *Relay) onBatchEnd() {
	if !r.receivingBatch || r.initialized {
		return
	}
	r.receivingBatch = false
	r.waitingForUsers = false
	r.entranceTimer.Cancel()
	r.entranceTimer = nil
	r.initialize()
}

// sendStateToUser queues the known users and entities for a new user,
// BatchSize items per message. The last message ends with batchEnd.
func (r *Relay) sendStateToUser(userID string) {
	r.logger.Info().Str("user", userID).Msg("sending state to new user")
	var items []models.RelayMessage
	flush := func() {
		batch, err := json.Marshal(models.RelayBatch{Batch: items})
		if err != nil {
			r.logger.Error().Err(err).Msg("encode batch")
			items = nil
			return
		}
		r.queue = append(r.queue, models.RelayMessage{
			Op:        OpBatch,
			ID:        r.generateID(),
			Recipient: userID,
			Args:      batch,
		})
		items = nil
	}
	add := func(item models.RelayMessage) {
		items = append(items, item)
		if len(items) >= r.opts.BatchSize {
			flush()
		}
	}

	for _, u := range r.Users() {
		args, err := encodePlan(u.Data)
		if err != nil {
			continue
		}
		add(models.RelayMessage{Op: OpUser, ID: u.ID, DisplayName: u.DisplayName, Args: args})
	}
	for _, id := range r.Entities() {
		e := r.entities[id]
		args, err := encodePlan(e.State)
		if err != nil {
			r.logger.Warn().Err(err).Str("entity", id).Msg("entity left out of state")
			continue
		}
		item := models.RelayMessage{
			Op:         OpUpdate,
			ID:         id,
			Args:       args,
			BindedUser: e.BindedUser,
			OwnerID:    e.OwnerID,
			Parent:     e.ParentID,
			Time:       e.LastUpdated,
		}
		switch {
		case e.PrefabName != "":
			item.Op = OpInstantiate
			item.PrefabName = e.PrefabName
		case e.Deleted:
			item.Op = OpDelete
		}
		add(item)
	}
	items = append(items, models.RelayMessage{Op: OpBatchEnd})
	flush()
}

func (r *Relay) onUserJoined(u models.UserInfo) {
	r.OnUserJoined.Trigger(u)
	if r.waitingForUsers && !r.initialized {
		// Someone else is around; give the host a full timeout to answer.
		r.entranceTimer.Cancel()
		r.entranceTimer = r.loop.Delay(r.opts.EntranceTimeout, r.alone)
	}
}

func (r *Relay) onUserLeft(u models.UserInfo) {
	delete(r.users, u.UserID)
	if !r.IsHost() {
		return
	}
	var bound []string
	for id, e := range r.entities {
		if e.BindedUser == u.UserID && !e.Deleted {
			bound = append(bound, id)
		}
	}
	sort.Strings(bound)
	for _, id := range bound {
		r.logger.Info().Str("entity", id).Str("user", u.UserID).Msg("cleaning up entity of a user that left")
		if err := r.send(models.RelayMessage{Op: OpDelete, ID: id}); err != nil {
			r.logger.Warn().Err(err).Str("entity", id).Msg("cleanup not broadcast")
		}
		r.internalDelete(id, r.OwnUserID(), true)
	}
}
