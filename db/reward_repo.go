package db

import (
	"fmt"

	"github.com/greenloophq/greenloop/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrInsufficientBalance rejects a redemption exceeding the ledger balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

type RewardRepository interface {
	EnsureAccount(userID uint) (*models.Reward, error)
	EarnPoints(userID uint, kind string, amount int, description string) error
	RedeemAll(userID uint) (int, error)
	RedeemReward(userID uint, reward *models.Reward) error
	GetBalance(userID uint) (int, error)
	GetCatalogReward(rewardID uint) (*models.Reward, error)
	ListCatalogRewards() ([]models.Reward, error)
	ListTransactions(userID uint) ([]models.Transaction, error)
	Leaderboard() ([]models.LeaderboardEntry, error)
}

type rewardRepo struct {
	DB *gorm.DB
}

func NewRewardRepo(db *GormDB) RewardRepository {
	return &rewardRepo{db.DB}
}

// ledgerBalance computes the balance from the full transaction log:
// max(0, sum(earned) - sum(redeemed)). The account's Points column is only
// a cache of this sum.
func ledgerBalance(tx *gorm.DB, userID uint) (int, error) {
	var balance int
	err := tx.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN type LIKE 'earned%' THEN amount ELSE -amount END), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm.sum transactions")
	}
	if balance < 0 {
		balance = 0
	}
	return balance, nil
}

// applyLedgerEntry appends a transaction and adjusts the account cache by
// the same delta inside the caller's transaction. It is the single code
// path through which the Points cache ever changes.
func applyLedgerEntry(tx *gorm.DB, userID uint, kind string, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("ledger amount must be positive, got %d", amount)
	}

	entry := models.Transaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return errors.Wrap(err, "gorm.create transaction")
	}

	account, err := ensureAccountTx(tx, userID)
	if err != nil {
		return err
	}

	delta := amount
	if !entry.Credit() {
		delta = -amount
	}
	newPoints := account.Points + delta
	if newPoints < 0 {
		newPoints = 0
	}
	err = tx.Model(&models.Reward{}).Where("id = ?", account.ID).
		Update("points", newPoints).Error
	return errors.Wrap(err, "gorm.update reward points")
}

func ensureAccountTx(tx *gorm.DB, userID uint) (*models.Reward, error) {
	var account models.Reward
	err := tx.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = models.Reward{
				UserID:      userID,
				Points:      0,
				IsAvailable: true,
				Name:        "Points account",
			}
			if err := tx.Create(&account).Error; err != nil {
				return nil, errors.Wrap(err, "gorm.create reward account")
			}
			return &account, nil
		}
		return nil, errors.Wrap(err, "gorm.find reward account")
	}
	return &account, nil
}

func (r *rewardRepo) EnsureAccount(userID uint) (*models.Reward, error) {
	return ensureAccountTx(r.DB, userID)
}

func (r *rewardRepo) EarnPoints(userID uint, kind string, amount int, description string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return applyLedgerEntry(tx, userID, kind, amount, description)
	})
}

// RedeemAll zeroes the account and appends a single redeemed entry for the
// full prior balance. Fails on a zero balance without writing anything.
func (r *rewardRepo) RedeemAll(userID uint) (int, error) {
	var redeemed int
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		balance, err := ledgerBalance(tx, userID)
		if err != nil {
			return err
		}
		if balance <= 0 {
			return ErrInsufficientBalance
		}
		redeemed = balance
		return applyLedgerEntry(tx, userID, models.TransactionRedeemed, balance, "Redeemed all points")
	})
	if err != nil {
		return 0, err
	}
	return redeemed, nil
}

// RedeemReward debits the catalog reward's cost. The balance check and the
// ledger append run in one transaction so the balance can never go negative.
func (r *rewardRepo) RedeemReward(userID uint, reward *models.Reward) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		balance, err := ledgerBalance(tx, userID)
		if err != nil {
			return err
		}
		if balance < reward.Points {
			return ErrInsufficientBalance
		}
		description := fmt.Sprintf("Redeemed %s", reward.Name)
		return applyLedgerEntry(tx, userID, models.TransactionRedeemed, reward.Points, description)
	})
}

func (r *rewardRepo) GetBalance(userID uint) (int, error) {
	return ledgerBalance(r.DB, userID)
}

func (r *rewardRepo) GetCatalogReward(rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.DB.Where("id = ? AND user_id = ? AND is_available = ?",
		rewardID, models.CatalogUserID, true).First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepo) ListCatalogRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.DB.Where("user_id = ? AND is_available = ?", models.CatalogUserID, true).
		Order("points ASC").Find(&rewards).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list catalog rewards")
	}
	return rewards, nil
}

func (r *rewardRepo) ListTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list transactions")
	}
	return transactions, nil
}

func (r *rewardRepo) Leaderboard() ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.DB.Model(&models.Reward{}).
		Select("rewards.user_id, users.name, users.email, rewards.points").
		Joins("JOIN users ON users.id = rewards.user_id").
		Where("rewards.user_id != ?", models.CatalogUserID).
		Order("rewards.points DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.leaderboard")
	}
	return entries, nil
}
