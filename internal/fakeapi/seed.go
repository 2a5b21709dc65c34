package fakeapi

import "github.com/jask/fundadmin/internal/repository"

// Seed fills b with a small, deterministic data set.
func Seed(b *Backend) {
	b.AddProject(repository.Project{ID: 1, Title: "Clean Water for Barangay Uno", Description: "Deep well and filtration for 300 households.", TargetAmount: repository.NewMoney("150000"), Status: repository.ProjectActive})
	b.AddProject(repository.Project{ID: 2, Title: "School Supplies Drive", Description: "Notebooks, pens and bags for grade school pupils.", TargetAmount: repository.NewMoney("40000"), Status: repository.ProjectActive})
	b.AddProject(repository.Project{ID: 3, Title: "Typhoon Relief Packs", Description: "Food and hygiene kits for evacuees.", TargetAmount: repository.NewMoney("80000"), Status: repository.ProjectInactive})

	b.AddDonation(repository.Donation{DonationID: 101, UserName: "Maria Santos", ProjectTitle: "Clean Water for Barangay Uno", Amount: repository.NewMoney("1500.00"), DonationStatus: "Successful", CreatedAt: "2025-03-01 09:12:00"})
	b.AddDonation(repository.Donation{DonationID: 102, UserName: "Jose Reyes", ProjectTitle: "School Supplies Drive", Amount: repository.NewMoney("500"), DonationStatus: "Pending", CreatedAt: "2025-03-02 14:40:00"})
	b.AddDonation(repository.Donation{DonationID: 103, UserName: "Ana Cruz", ProjectTitle: "Clean Water for Barangay Uno", Amount: repository.NewMoney("250.50"), DonationStatus: "Successful", CreatedAt: "2025-03-03 18:05:00"})
	b.AddDonation(repository.Donation{DonationID: 104, UserName: "Ben Lim", ProjectTitle: "Typhoon Relief Packs", Amount: repository.NewMoney("1000"), DonationStatus: "Failed", CreatedAt: "2025-03-04 07:30:00"})

	b.AddTopUp(repository.WalletTransaction{ID: 501, UserName: "Maria Santos", Amount: repository.NewMoney("2000"), Type: "topup", Method: "gcash", CreatedAt: "2025-02-28"})
	b.AddTopUp(repository.WalletTransaction{ID: 502, UserName: "Jose Reyes", Amount: repository.NewMoney("750"), Type: "topup", Method: "bank", CreatedAt: "2025-03-01"})

	b.AddAccount(repository.PendingAccount{ID: 7, UserName: "Ana Cruz", AccountNumber: "09171234567", Provider: repository.ProviderGCash})
	b.AddAccount(repository.PendingAccount{ID: 8, UserName: "Ben Lim", AccountNumber: "001234567890", Provider: repository.ProviderBank})
	b.AddAccount(repository.PendingAccount{ID: 9, UserName: "Carla Dizon", AccountNumber: "09998887777", Provider: repository.ProviderGCash})
}

// NewSeeded returns a Backend with Seed applied.
func NewSeeded() *Backend {
	b := New()
	Seed(b)
	return b
}
