package group

import (
	"time"

	"codearena-gateway/internal/domain/identity"
)

// Status mirrors the platform's group approval workflow. The gateway only
// displays it; approval itself happens upstream.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Group is a study/competition group as the platform API reports it.
type Group struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Topics      []string           `json:"topics,omitempty"`
	Leader      *identity.Identity `json:"leader"`
	Status      Status             `json:"status"`
	MemberCount int                `json:"member_count"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CreateRequest is the payload for creating a new group.
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}
