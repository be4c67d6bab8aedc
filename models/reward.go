package models

// Reward holds reward state. A row with a non-zero UserID is that user's
// point account: Points caches the ledger sum and is adjusted only inside
// the same database transaction that appends the Transaction row. Rows with
// CatalogUserID (zero) are catalog entries whose Points field is the
// redemption cost.
type Reward struct {
	Model
	UserID         uint   `json:"user_id" gorm:"index"`
	Points         int    `json:"points"`
	IsAvailable    bool   `json:"is_available" gorm:"default:true"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	CollectionInfo string `json:"collection_info"`
}

// CatalogUserID marks a Reward row as a catalog entry rather than an account.
const CatalogUserID uint = 0

// RewardEntry is one row of the available-rewards listing: the synthetic
// zero-cost "Your Points" entry followed by the redeemable catalog.
type RewardEntry struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Cost           int    `json:"cost"`
	Points         int    `json:"points,omitempty"`
	Description    string `json:"description"`
	CollectionInfo string `json:"collection_info"`
}

// LeaderboardEntry joins a reward account to its user, ordered by points.
type LeaderboardEntry struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int    `json:"points"`
}
