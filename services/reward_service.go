package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	apiError "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/mailingservices"
	"github.com/greenloophq/greenloop/models"
	"gorm.io/gorm"
)

// RewardService is the ledger engine. Balances derive from the append-only
// transaction log; the account row only caches that sum.
type RewardService interface {
	Earn(userID uint, kind string, amount int, description string) error
	RedeemAll(userID uint) (int, *apiError.Error)
	RedeemSpecific(userID uint, rewardID uint) (*models.Reward, *apiError.Error)
	ListAvailableRewards(userID uint) ([]models.RewardEntry, error)
	GetBalance(userID uint) (int, error)
	ListTransactions(userID uint) ([]models.Transaction, error)
	Leaderboard() ([]models.LeaderboardEntry, error)
}

type rewardService struct {
	Config           *config.Config
	rewardRepo       db.RewardRepository
	notificationRepo db.NotificationRepository
	authRepo         db.AuthRepository
	mail             mailingservices.Mailer
}

func NewRewardService(rewardRepo db.RewardRepository, notificationRepo db.NotificationRepository, authRepo db.AuthRepository, mail mailingservices.Mailer, conf *config.Config) RewardService {
	return &rewardService{
		Config:           conf,
		rewardRepo:       rewardRepo,
		notificationRepo: notificationRepo,
		authRepo:         authRepo,
		mail:             mail,
	}
}

// Earn appends a transaction and increments the account. One call per
// logical event; at-most-once is the caller's responsibility.
func (s *rewardService) Earn(userID uint, kind string, amount int, description string) error {
	if kind != models.TransactionEarnedReport && kind != models.TransactionEarnedCollect {
		return fmt.Errorf("invalid earn kind %q", kind)
	}
	return s.rewardRepo.EarnPoints(userID, kind, amount, description)
}

func (s *rewardService) RedeemAll(userID uint) (int, *apiError.Error) {
	redeemed, err := s.rewardRepo.RedeemAll(userID)
	if err != nil {
		if errors.Is(err, db.ErrInsufficientBalance) {
			return 0, apiError.ErrInsufficientBalance
		}
		log.Printf("error redeeming all points for user %d: %v", userID, err)
		return 0, apiError.ErrInternalServerError
	}

	s.notifyRedemption(userID, fmt.Sprintf("You have redeemed all your points (%d)", redeemed))
	return redeemed, nil
}

func (s *rewardService) RedeemSpecific(userID uint, rewardID uint) (*models.Reward, *apiError.Error) {
	reward, err := s.rewardRepo.GetCatalogReward(rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		log.Printf("error fetching catalog reward %d: %v", rewardID, err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.rewardRepo.RedeemReward(userID, reward); err != nil {
		if errors.Is(err, db.ErrInsufficientBalance) {
			return nil, apiError.ErrInsufficientBalance
		}
		log.Printf("error redeeming reward %d for user %d: %v", rewardID, userID, err)
		return nil, apiError.ErrInternalServerError
	}

	s.notifyRedemption(userID, fmt.Sprintf("You have redeemed %s for %d points", reward.Name, reward.Points))
	s.sendRedemptionEmail(userID, reward)
	return reward, nil
}

// notifyRedemption writes the user-facing notice. Failures here are logged
// and swallowed: the redemption itself has already committed.
func (s *rewardService) notifyRedemption(userID uint, message string) {
	err := s.notificationRepo.CreateNotification(&models.Notification{
		UserID:  userID,
		Message: message,
		Type:    models.NotificationTypeRedemption,
	})
	if err != nil {
		log.Printf("error creating redemption notification for user %d: %v", userID, err)
	}
}

func (s *rewardService) sendRedemptionEmail(userID uint, reward *models.Reward) {
	if s.mail == nil {
		return
	}
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("error finding user %d for redemption email: %v", userID, err)
		return
	}
	subject := fmt.Sprintf("Your %s redemption", reward.Name)
	body := fmt.Sprintf("Hi %s,\n\nYou redeemed %s for %d points.\n\nHow to collect it: %s\n",
		user.Name, reward.Name, reward.Points, reward.CollectionInfo)
	if err := s.mail.SendMail(user.Email, subject, body); err != nil {
		log.Printf("error sending redemption email to %s: %v", user.Email, err)
	}
}

// ListAvailableRewards returns the synthetic zero-cost "Your Points" entry
// holding the user's balance, followed by the available catalog rewards.
func (s *rewardService) ListAvailableRewards(userID uint) ([]models.RewardEntry, error) {
	balance, err := s.rewardRepo.GetBalance(userID)
	if err != nil {
		return nil, err
	}

	entries := []models.RewardEntry{{
		ID:             0,
		Name:           "Your Points",
		Cost:           0,
		Points:         balance,
		Description:    "Points earned from reporting and collecting waste",
		CollectionInfo: "Redeem your earned points",
	}}

	catalog, err := s.rewardRepo.ListCatalogRewards()
	if err != nil {
		return nil, err
	}
	for _, reward := range catalog {
		entries = append(entries, models.RewardEntry{
			ID:             reward.ID,
			Name:           reward.Name,
			Cost:           reward.Points,
			Description:    reward.Description,
			CollectionInfo: reward.CollectionInfo,
		})
	}
	return entries, nil
}

func (s *rewardService) GetBalance(userID uint) (int, error) {
	return s.rewardRepo.GetBalance(userID)
}

func (s *rewardService) ListTransactions(userID uint) ([]models.Transaction, error) {
	return s.rewardRepo.ListTransactions(userID)
}

func (s *rewardService) Leaderboard() ([]models.LeaderboardEntry, error) {
	return s.rewardRepo.Leaderboard()
}
