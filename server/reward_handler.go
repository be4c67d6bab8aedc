package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/server/response"
)

func (s *Server) handleListAvailableRewards() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		rewards, err := s.RewardService.ListAvailableRewards(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "rewards retrieved", http.StatusOK, rewards, nil)
	}
}

func (s *Server) handleGetBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		balance, err := s.RewardService.GetBalance(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "balance retrieved", http.StatusOK, gin.H{"balance": balance}, nil)
	}
}

func (s *Server) handleListTransactions() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		transactions, err := s.RewardService.ListTransactions(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "transactions retrieved", http.StatusOK, transactions, nil)
	}
}

func (s *Server) handleLeaderboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.RewardService.Leaderboard()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "leaderboard retrieved", http.StatusOK, entries, nil)
	}
}

func (s *Server) handleRedeemAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		redeemed, err := s.RewardService.RedeemAll(userID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "points redeemed", http.StatusOK, gin.H{"redeemed": redeemed}, nil)
	}
}

func (s *Server) handleRedeemSpecific() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}
		rewardID, parseErr := strconv.ParseUint(c.Param("rewardID"), 10, 32)
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid reward id", http.StatusBadRequest))
			return
		}
		reward, err := s.RewardService.RedeemSpecific(userID, uint(rewardID))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "reward redeemed", http.StatusOK, reward, nil)
	}
}
