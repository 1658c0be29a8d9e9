// Package colors gives members a role with a colour of their choice.
package colors

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/common/log"
)

const (
	// DefaultPrefix is the default name prefix for colour roles.
	DefaultPrefix = "color"
	// MaxRoles is the maximum number of roles in a guild.
	MaxRoles = 250
)

// Errors returned by SetColor.
const (
	ErrInvalidHex  = errors.Sentinel("invalid hex code")
	ErrNoRoleSlots = errors.Sentinel("no custom role slots left")
)

// AssignError is returned when the new colour role couldn't be given to the member.
type AssignError struct {
	Err error
}

func (e *AssignError) Error() string { return "assigning role: " + e.Err.Error() }
func (e *AssignError) Unwrap() error { return e.Err }

var hexRe = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// ValidHex returns true if s is a six-digit hex colour code, without a leading #.
func ValidHex(s string) bool {
	return hexRe.MatchString(s)
}

// Guild is the set of role operations needed to manage colour roles.
type Guild interface {
	Roles(ctx context.Context, guildID discord.GuildID) ([]discord.Role, error)
	CreateRole(ctx context.Context, guildID discord.GuildID, data api.CreateRoleData) (*discord.Role, error)
	DeleteRole(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) error

	AddRole(ctx context.Context, guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID) error
	RemoveRole(ctx context.Context, guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID) error

	// RoleMembers returns the IDs of all members with the given role.
	RoleMembers(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) ([]discord.UserID, error)
}

type Service struct {
	Guild  Guild
	Prefix string
}

func New(g Guild, prefix string) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Service{Guild: g, Prefix: prefix}
}

// RoleName returns the name of the colour role for hex.
func (s *Service) RoleName(hex string) string {
	return fmt.Sprintf("%s #%s", s.Prefix, hex)
}

// IsColorRole returns true if r is a colour role.
func (s *Service) IsColorRole(r discord.Role) bool {
	return strings.HasPrefix(r.Name, s.Prefix)
}

// SetColor gives m a new role coloured hex, replacing any colour roles m already has.
// Old colour roles that nobody else has are deleted.
func (s *Service) SetColor(ctx context.Context, guildID discord.GuildID, m discord.Member, hex string) (*discord.Role, error) {
	if !ValidHex(hex) {
		return nil, ErrInvalidHex
	}

	roles, err := s.Guild.Roles(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "getting roles")
	}

	if len(roles) >= MaxRoles {
		return nil, ErrNoRoleSlots
	}

	c, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, ErrInvalidHex
	}

	role, err := s.Guild.CreateRole(ctx, guildID, api.CreateRoleData{
		Name:  s.RoleName(hex),
		Color: discord.Color(c),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating role")
	}

	for _, r := range roles {
		if !s.IsColorRole(r) || !hasRole(m, r.ID) {
			continue
		}

		s.unequip(ctx, guildID, m.User.ID, r)
	}

	err = s.Guild.AddRole(ctx, guildID, m.User.ID, role.ID)
	if err != nil {
		if err := s.Guild.DeleteRole(ctx, guildID, role.ID); err != nil {
			log.Errorf("deleting unassigned colour role %v in %v: %v", role.ID, guildID, err)
		}
		return nil, &AssignError{Err: err}
	}

	return role, nil
}

// unequip removes r from userID, and deletes it if nobody else has it.
func (s *Service) unequip(ctx context.Context, guildID discord.GuildID, userID discord.UserID, r discord.Role) {
	err := s.Guild.RemoveRole(ctx, guildID, userID, r.ID)
	if err != nil {
		log.Errorf("removing colour role %v from %v in %v: %v", r.ID, userID, guildID, err)
		return
	}

	members, err := s.Guild.RoleMembers(ctx, guildID, r.ID)
	if err != nil {
		log.Errorf("getting members of role %v in %v: %v", r.ID, guildID, err)
		return
	}

	for _, id := range members {
		if id != userID {
			return
		}
	}

	err = s.Guild.DeleteRole(ctx, guildID, r.ID)
	if err != nil {
		log.Errorf("deleting colour role %v in %v: %v", r.ID, guildID, err)
	}
}

func hasRole(m discord.Member, id discord.RoleID) bool {
	for _, r := range m.RoleIDs {
		if r == id {
			return true
		}
	}
	return false
}
