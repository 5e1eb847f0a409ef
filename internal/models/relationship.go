package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderedPair returns the two IDs in canonical (ascending) order.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// PairKey identifies an unordered pair of users.
func PairKey(a, b uuid.UUID) string {
	lo, hi := OrderedPair(a, b)
	return lo.String() + ":" + hi.String()
}

// Match is an accepted connection between two users. Its existence implies
// acceptance; user_a_id always sorts before user_b_id.
type Match struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserAID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair,priority:1;check:chk_matches_distinct,user_a_id <> user_b_id" json:"user_a_id"`
	UserBID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair,priority:2;index" json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the ID and canonicalizes the pair.
func (m *Match) BeforeCreate(_ *gorm.DB) error {
	if m.UserAID == m.UserBID {
		return NewValidationError("Cannot match with yourself")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.UserAID, m.UserBID = OrderedPair(m.UserAID, m.UserBID)
	return nil
}

// Other returns the counterpart of userID in the match.
func (m *Match) Other(userID uuid.UUID) uuid.UUID {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// Block is a directed block from BlockerID to BlockedID.
type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:1;check:chk_blocks_distinct,blocker_id <> blocked_id" json:"blocker_id"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:2;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the ID.
func (b *Block) BeforeCreate(_ *gorm.DB) error {
	if b.BlockerID == b.BlockedID {
		return NewValidationError("Cannot block yourself")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// MatchView is a match listed for one of its participants.
type MatchView struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Profile   *ProfileView `json:"profile"`
	CreatedAt time.Time    `json:"created_at"`
}

// BlockView is a block listed for the blocker.
type BlockView struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Profile   *ProfileSummary `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RelationshipStatus describes how two users relate.
type RelationshipStatus string

const (
	StatusNone            RelationshipStatus = "none"
	StatusPendingSent     RelationshipStatus = "pending_sent"
	StatusPendingReceived RelationshipStatus = "pending_received"
	StatusMatched         RelationshipStatus = "matched"
	StatusBlocked         RelationshipStatus = "blocked"
)
