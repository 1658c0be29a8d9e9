package colors

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuild discord.GuildID = 1

type fakeGuild struct {
	nextID  discord.RoleID
	roles   []discord.Role
	members map[discord.UserID][]discord.RoleID

	created int
	addErr  error
}

func newFakeGuild() *fakeGuild {
	return &fakeGuild{nextID: 1000, members: map[discord.UserID][]discord.RoleID{}}
}

func (g *fakeGuild) Roles(context.Context, discord.GuildID) ([]discord.Role, error) {
	return append([]discord.Role(nil), g.roles...), nil
}

func (g *fakeGuild) CreateRole(_ context.Context, _ discord.GuildID, data api.CreateRoleData) (*discord.Role, error) {
	g.nextID++
	r := discord.Role{ID: g.nextID, Name: data.Name, Color: data.Color}
	g.roles = append(g.roles, r)
	g.created++
	return &r, nil
}

func (g *fakeGuild) DeleteRole(_ context.Context, _ discord.GuildID, id discord.RoleID) error {
	for i, r := range g.roles {
		if r.ID == id {
			g.roles = append(g.roles[:i], g.roles[i+1:]...)
			break
		}
	}
	for u := range g.members {
		g.members[u] = without(g.members[u], id)
	}
	return nil
}

func (g *fakeGuild) AddRole(_ context.Context, _ discord.GuildID, u discord.UserID, id discord.RoleID) error {
	if g.addErr != nil {
		return g.addErr
	}
	g.members[u] = append(g.members[u], id)
	return nil
}

func (g *fakeGuild) RemoveRole(_ context.Context, _ discord.GuildID, u discord.UserID, id discord.RoleID) error {
	g.members[u] = without(g.members[u], id)
	return nil
}

func (g *fakeGuild) RoleMembers(_ context.Context, _ discord.GuildID, id discord.RoleID) (us []discord.UserID, _ error) {
	for u, rs := range g.members {
		for _, r := range rs {
			if r == id {
				us = append(us, u)
			}
		}
	}
	return us, nil
}

func (g *fakeGuild) member(u discord.UserID) discord.Member {
	return discord.Member{User: discord.User{ID: u}, RoleIDs: append([]discord.RoleID(nil), g.members[u]...)}
}

func (g *fakeGuild) role(id discord.RoleID) (discord.Role, bool) {
	for _, r := range g.roles {
		if r.ID == id {
			return r, true
		}
	}
	return discord.Role{}, false
}

func without(s []discord.RoleID, id discord.RoleID) []discord.RoleID {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func TestSetColorInvalidHex(t *testing.T) {
	g := newFakeGuild()
	s := New(g, "")

	for _, hex := range []string{"zz00zz", "44ff0", "#44ff00", "44ff001"} {
		_, err := s.SetColor(context.Background(), testGuild, g.member(1), hex)
		assert.ErrorIs(t, err, ErrInvalidHex, hex)
	}
	assert.Zero(t, g.created)
}

func TestSetColorNoSlots(t *testing.T) {
	g := newFakeGuild()
	for i := 0; i < MaxRoles; i++ {
		g.roles = append(g.roles, discord.Role{ID: discord.RoleID(i + 1), Name: "role"})
	}
	s := New(g, "")

	_, err := s.SetColor(context.Background(), testGuild, g.member(1), "44ff00")
	assert.ErrorIs(t, err, ErrNoRoleSlots)
	assert.Zero(t, g.created)
}

func TestSetColor(t *testing.T) {
	g := newFakeGuild()
	s := New(g, "color")

	role, err := s.SetColor(context.Background(), testGuild, g.member(1), "44ff00")
	require.NoError(t, err)
	assert.Equal(t, "color #44ff00", role.Name)
	assert.Equal(t, discord.Color(0x44ff00), role.Color)
	assert.Equal(t, []discord.RoleID{role.ID}, g.members[1])

	// the old role only belonged to this member, so it's deleted
	second, err := s.SetColor(context.Background(), testGuild, g.member(1), "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, []discord.RoleID{second.ID}, g.members[1])

	_, ok := g.role(role.ID)
	assert.False(t, ok, "unused colour role should be deleted")
	assert.Equal(t, 2, g.created)
}

func TestSetColorSharedRole(t *testing.T) {
	g := newFakeGuild()
	s := New(g, "color")

	shared := discord.Role{ID: 10, Name: "color #000000"}
	other := discord.Role{ID: 11, Name: "moderator"}
	g.roles = append(g.roles, shared, other)
	g.members[1] = []discord.RoleID{shared.ID, other.ID}
	g.members[2] = []discord.RoleID{shared.ID}

	role, err := s.SetColor(context.Background(), testGuild, g.member(1), "44ff00")
	require.NoError(t, err)

	assert.ElementsMatch(t, []discord.RoleID{other.ID, role.ID}, g.members[1])
	_, ok := g.role(shared.ID)
	assert.True(t, ok, "colour role still in use should be kept")
	assert.Equal(t, []discord.RoleID{shared.ID}, g.members[2])
}

func TestSetColorAssignFailure(t *testing.T) {
	g := newFakeGuild()
	g.addErr = errors.New("missing permissions")
	s := New(g, "color")

	_, err := s.SetColor(context.Background(), testGuild, g.member(1), "44ff00")

	var aerr *AssignError
	require.ErrorAs(t, err, &aerr)
	assert.Empty(t, g.roles, "unassigned role should be deleted")
}
