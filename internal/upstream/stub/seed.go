package stub

import (
	"time"

	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password every seeded account accepts.
const DemoPassword = "Password123!"

type seedUser struct {
	id       string
	username string
	email    string
	role     identity.Role
	verified bool
}

var seedUsers = []seedUser{
	{"u-alice", "alice", "alice@codearena.dev", identity.RoleUser, true},
	{"u-bob", "bob", "bob@codearena.dev", identity.RoleUser, true},
	{"u-charlie", "charlie", "charlie@codearena.dev", identity.RoleUser, true},
	{"u-diana", "diana", "diana@codearena.dev", identity.RoleUser, false},
	{"u-eve", "eve", "eve@codearena.dev", identity.RoleUser, true},
	{"u-frank", "frank", "frank@codearena.dev", identity.RoleLeader, true},
	{"u-admin", "admin", "admin@codearena.dev", identity.RoleAdmin, true},
}

func (p *Provider) seed() {
	// One hash shared by all seeded accounts keeps startup fast; real
	// registrations still get their own hash.
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		panic("stub: seeding password hash: " + err.Error())
	}

	createdAt := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i, su := range seedUsers {
		p.accounts[su.id] = &account{
			Identity: identity.Identity{
				ID:        su.id,
				Username:  su.username,
				Email:     su.email,
				Role:      su.role,
				Verified:  su.verified,
				CreatedAt: createdAt.Add(time.Duration(i) * 24 * time.Hour),
			},
			passwordHash: hash,
		}
		p.byEmail[su.email] = su.id
	}

	leader := p.accounts["u-frank"].Identity

	seedGroups := []struct {
		id, name, desc string
		topics         []string
		status         group.Status
		members        []string
	}{
		{
			"g-wizards", "Algorithm Wizards",
			"Weekly deep dives into classic algorithms.",
			[]string{"algorithms", "data-structures"},
			group.StatusApproved,
			[]string{"u-frank", "u-alice", "u-bob"},
		},
		{
			"g-dp", "Dynamic Programmers",
			"DP patterns from beginner to contest level.",
			[]string{"dynamic-programming"},
			group.StatusApproved,
			[]string{"u-frank", "u-charlie"},
		},
		{
			"g-graphs", "Graph Gurus",
			"Shortest paths, flows and everything in between.",
			[]string{"graphs"},
			group.StatusPending,
			[]string{"u-frank"},
		},
	}

	for _, sg := range seedGroups {
		l := leader
		p.groups[sg.id] = &group.Group{
			ID:          sg.id,
			Name:        sg.name,
			Description: sg.desc,
			Topics:      sg.topics,
			Leader:      &l,
			Status:      sg.status,
			MemberCount: len(sg.members),
			CreatedAt:   createdAt,
		}
		p.members[sg.id] = make(map[string]bool, len(sg.members))
		for _, uid := range sg.members {
			p.members[sg.id][uid] = true
		}
	}

	if p.logger != nil {
		p.logger.Info("demo provider seeded",
			zap.Int("users", len(p.accounts)),
			zap.Int("groups", len(p.groups)))
	}
}
