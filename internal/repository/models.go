package repository

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectInactive ProjectStatus = "inactive"
)

// Normalize maps anything that is not "inactive" to active.
func (s ProjectStatus) Normalize() ProjectStatus {
	if strings.EqualFold(strings.TrimSpace(string(s)), string(ProjectInactive)) {
		return ProjectInactive
	}
	return ProjectActive
}

type Project struct {
	ID           ID            `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	TargetAmount Money         `json:"target_amount"`
	Status       ProjectStatus `json:"status"`
	Image        string        `json:"image,omitempty"`
}

type DonationOutcome string

const (
	DonationSuccessful DonationOutcome = "successful"
	DonationPending    DonationOutcome = "pending"
	DonationFailed     DonationOutcome = "failed"
)

// Donation references its project by title, not id.
type Donation struct {
	DonationID     ID     `json:"donation_id"`
	UserName       string `json:"user_name"`
	ProjectTitle   string `json:"project_title"`
	Amount         Money  `json:"amount"`
	DonationStatus string `json:"donation_status"`
	CreatedAt      string `json:"created_at"`
}

// Outcome classifies DonationStatus; unknown values count as failed.
func (d Donation) Outcome() DonationOutcome {
	switch d.DonationStatus {
	case "Successful":
		return DonationSuccessful
	case "Pending":
		return DonationPending
	default:
		return DonationFailed
	}
}

// ProjectTotal is the derived donation sum for one project title.
type ProjectTotal struct {
	ProjectTitle string          `json:"project_title"`
	Total        decimal.Decimal `json:"total"`
}

type WalletTransaction struct {
	ID        ID     `json:"id"`
	UserName  string `json:"user_name"`
	Amount    Money  `json:"amount"`
	Type      string `json:"type"`
	Method    string `json:"method"`
	CreatedAt string `json:"created_at"`
}

type Provider string

const (
	ProviderBank  Provider = "bank"
	ProviderGCash Provider = "gcash"
)

type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountRejected AccountStatus = "rejected"
)

// Pending reports whether the account still awaits a decision.
func (s AccountStatus) Pending() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(AccountPending))
}

type PendingAccount struct {
	ID            ID            `json:"id"`
	UserName      string        `json:"user_name"`
	AccountNumber string        `json:"account_number"`
	Provider      Provider      `json:"provider"`
	Status        AccountStatus `json:"status"`
}

// Ack is the envelope every mutation endpoint answers with.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (a *Ack) UnmarshalJSON(b []byte) error {
	var raw struct {
		Success json.RawMessage `json:"success"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	a.Success = truthy(raw.Success)
	a.Message = ""
	if len(raw.Message) > 0 {
		var s string
		if err := json.Unmarshal(raw.Message, &s); err == nil {
			a.Message = s
		}
	}
	return nil
}

// truthy accepts true, 1, "true" and "1"; PHP handlers are not consistent.
func truthy(b json.RawMessage) bool {
	switch strings.Trim(strings.TrimSpace(string(b)), `"`) {
	case "true", "1":
		return true
	}
	return false
}
