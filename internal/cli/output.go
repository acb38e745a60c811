package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/models"
)

const eventTimeFormat = "15:04:05.000"

type printer struct {
	w      io.Writer
	format string
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows aligned in columns. The first row is the header.
func (p *printer) table(rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (p *printer) peers(peers []models.PeerInfo) error {
	if p.format == config.OutputJSON {
		return p.json(peers)
	}
	rows := [][]string{{"PEER", "USER", "NAME", "STATE", "READY", "ENTITIES"}}
	for _, peer := range peers {
		rows = append(rows, []string{
			peer.User.ConnectionID,
			peer.User.UserID,
			dash(peer.User.DisplayName),
			peer.State,
			strconv.FormatBool(peer.Ready),
			strconv.Itoa(peer.Entities),
		})
	}
	return p.table(rows)
}

func (p *printer) users(users []models.UserInfo) error {
	if p.format == config.OutputJSON {
		return p.json(users)
	}
	rows := [][]string{{"CONNECTION", "USER", "NAME"}}
	for _, u := range users {
		rows = append(rows, []string{u.ConnectionID, u.UserID, dash(u.DisplayName)})
	}
	return p.table(rows)
}

func (p *printer) entities(entities []models.EntityInfo) error {
	if p.format == config.OutputJSON {
		return p.json(entities)
	}
	rows := [][]string{{"NETWORK ID", "STATE", "OWNER", "PERSISTENCE", "STORE"}}
	for _, e := range entities {
		rows = append(rows, []string{
			e.NetworkID,
			e.State,
			ownerName(e.Owner),
			e.Persistence.String(),
			dash(e.StoreID),
		})
	}
	return p.table(rows)
}

func (p *printer) entity(e models.EntityInfo) error {
	if p.format == config.OutputJSON {
		return p.json(e)
	}
	head := [][]string{
		{"NETWORK ID", e.NetworkID},
		{"STATE", e.State},
		{"STORE", dash(e.StoreID)},
		{"OWNER", ownerName(e.Owner)},
		{"PERSISTENCE", e.Persistence.String()},
		{"SETUP FINISHED", strconv.FormatBool(e.SetupFinished)},
	}
	if err := p.table(head); err != nil {
		return err
	}
	if len(e.Values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(e.Values))
	for k := range e.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := [][]string{{"KEY", "TYPE", "VALUE"}}
	for _, k := range keys {
		v := e.Values[k]
		rows = append(rows, []string{k, string(v.Type()), formatValue(v)})
	}
	if _, err := fmt.Fprintln(p.w); err != nil {
		return err
	}
	return p.table(rows)
}

// event writes one stream entry. JSON output is one object per line so it
// can be piped into line based tools.
func (p *printer) event(e models.StoreEvent) error {
	if p.format == config.OutputJSON {
		return json.NewEncoder(p.w).Encode(e)
	}

	var b strings.Builder
	b.WriteString(e.Time.Format(eventTimeFormat))
	fmt.Fprintf(&b, " %-11s", e.Kind)
	if e.NetworkID != "" {
		b.WriteString(" " + e.NetworkID)
	} else if e.StoreID != "" {
		b.WriteString(" " + e.StoreID)
	}
	if e.Key != "" {
		b.WriteString(" " + e.Key)
		if e.Value != nil {
			b.WriteString("=" + formatValue(*e.Value))
		}
	}
	if e.Kind == models.StoreEventOwnership {
		b.WriteString(" owner=" + ownerName(e.Owner))
	}
	if !e.Actor.IsZero() {
		b.WriteString(" by " + userName(e.Actor))
	}
	_, err := fmt.Fprintln(p.w, b.String())
	return err
}

func formatValue(v models.Value) string {
	if v.IsZero() {
		return "-"
	}
	raw, err := json.Marshal(v.Raw())
	if err != nil {
		return fmt.Sprint(v.Raw())
	}
	return string(raw)
}

func ownerName(u *models.UserInfo) string {
	if u == nil {
		return "-"
	}
	return userName(*u)
}

func userName(u models.UserInfo) string {
	if u.DisplayName != "" {
		return u.DisplayName + " (" + u.ConnectionID + ")"
	}
	return u.ConnectionID
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
