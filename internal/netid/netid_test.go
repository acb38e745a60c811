package netid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/scene"
)

type comp struct{ name string }

func (c *comp) TypeName() string { return c.name }

type root struct {
	RootMarker
	id string
}

// synced carries a network id like a SyncEntity but is not a root.
type synced struct{ id string }

func (s *synced) TypeName() string  { return "SyncEntity" }
func (s *synced) NetworkID() string { return s.id }

func (r *root) TypeName() string { return "NetworkRootInfo" }
func (r *root) NetworkID() string { return r.id }

func TestDerive(t *testing.T) {
	s := scene.New()
	s.CreateObject("floor", nil)
	table := s.CreateObject("table", nil)
	s.CreateObject("leg", table)
	cup := s.CreateObject("cup", table)
	sync := &comp{name: "SyncEntity"}
	cup.AddComponent(&comp{name: "Collider"})
	cup.AddComponent(sync)

	holder := s.CreateObject("holder:rock_1", nil)
	holder.AddComponent(&root{id: "rock_1"})
	rock := s.CreateObject("Rock", holder)
	rockSync := &comp{name: "SyncEntity"}
	rock.AddComponent(rockSync)

	tests := []struct {
		name    string
		obj     *scene.Object
		comp    scene.Component
		opts    Options
		want    string
		wantErr error
	}{
		{
			name: "object id",
			obj:  cup,
			comp: sync,
			opts: Options{Type: ObjectID},
			want: cup.ID() + "#1",
		},
		{
			name: "hierarchy",
			obj:  cup,
			comp: sync,
			opts: Options{Type: Hierarchy},
			want: "table_1/cup_1/SyncEntity_1",
		},
		{
			name: "object id under a network root uses the hierarchy",
			obj:  rock,
			comp: rockSync,
			opts: Options{Type: ObjectID},
			want: "rock_1/Rock_0/SyncEntity_0",
		},
		{
			name: "custom",
			obj:  cup,
			comp: sync,
			opts: Options{Type: Custom, CustomID: "the_cup"},
			want: "the_cup",
		},
		{
			name: "custom under a network root is scoped",
			obj:  rock,
			comp: rockSync,
			opts: Options{Type: Custom, CustomID: "score"},
			want: "rock_1/score",
		},
		{
			name: "custom without object",
			opts: Options{Type: Custom, CustomID: "global"},
			want: "global",
		},
		{
			name: "prefix",
			obj:  cup,
			comp: sync,
			opts: Options{Type: Hierarchy, Prefix: "p1:"},
			want: "p1:table_1/cup_1/SyncEntity_1",
		},
		{
			name:    "empty custom id",
			opts:    Options{Type: Custom},
			wantErr: ErrEmptyCustomID,
		},
		{
			name:    "hierarchy without object",
			opts:    Options{Type: Hierarchy},
			wantErr: ErrNoTarget,
		},
		{
			name:    "component not attached",
			obj:     cup,
			comp:    rockSync,
			opts:    Options{Type: Hierarchy},
			wantErr: ErrNotAttached,
		},
		{
			name:    "unknown type",
			obj:     cup,
			comp:    sync,
			opts:    Options{Type: Type(9)},
			wantErr: ErrUnknownType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.obj, tt.comp, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerive_NetworkIDAloneIsNotARoot(t *testing.T) {
	s := scene.New()
	a := s.CreateObject("a", nil)
	b := s.CreateObject("b", nil)
	sa, sb := &synced{}, &synced{}
	a.AddComponent(sa)
	b.AddComponent(sb)

	_, ok := FindRoot(a)
	assert.False(t, ok)

	idA, err := Derive(a, sa, Options{Type: Hierarchy})
	require.NoError(t, err)
	idB, err := Derive(b, sb, Options{Type: Hierarchy})
	require.NoError(t, err)
	assert.Equal(t, "a_0/SyncEntity_0", idA)
	assert.Equal(t, "b_1/SyncEntity_0", idB)

	custom, err := Derive(a, sa, Options{Type: Custom, CustomID: "door"})
	require.NoError(t, err)
	assert.Equal(t, "door", custom)
}

func TestFindRoot(t *testing.T) {
	s := scene.New()
	holder := s.CreateObject("holder", nil)
	holder.AddComponent(&root{id: "r"})
	child := s.CreateObject("child", s.CreateObject("mid", holder))

	r, ok := FindRoot(child)
	require.True(t, ok)
	assert.Equal(t, "r", r.NetworkID())

	_, ok = FindRoot(s.CreateObject("loose", nil))
	assert.False(t, ok)
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{ObjectID, Hierarchy, Custom} {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	got, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, ObjectID, got)

	_, err = ParseType("random")
	assert.ErrorIs(t, err, ErrUnknownType)
}
