package service

import (
	"errors"
	"time"

	"realvest/internal/entity"
	"realvest/internal/utils"
)

type JWTAccessIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTAccessIssuer) IssueAccessToken(account *entity.UserAccount) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, errors.New("jwt manager not configured")
	}
	investorID := ""
	if account.InvestorID != nil {
		investorID = *account.InvestorID
	}
	return j.Manager.IssueAccessToken(account.ID.String(), investorID)
}
