package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jask/fundadmin/internal/gateway"
)

// Getter is the read side of the gateway.
type Getter interface {
	Get(ctx context.Context, path string) (gateway.Payload, error)
}

// ErrProjectNotFound is returned by ProjectRepo.Get when the body carries no project.
var ErrProjectNotFound = errors.New("project not found")

type ProjectRepo struct {
	gw Getter
}

func NewProjectRepo(gw Getter) *ProjectRepo { return &ProjectRepo{gw: gw} }

func (r *ProjectRepo) List(ctx context.Context) ([]Project, error) {
	return list[Project](ctx, r.gw, PathListProjects)
}

// Get fetches one project. The endpoint answers either an object or a
// one-element array.
func (r *ProjectRepo) Get(ctx context.Context, id ID) (Project, error) {
	path := PathGetProject + "?id=" + url.QueryEscape(id.String())
	p, err := r.gw.Get(ctx, path)
	if err != nil {
		return Project{}, err
	}
	proj, ok, err := gateway.DecodeOne[Project](p)
	if err != nil {
		return Project{}, err
	}
	if !ok {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrProjectNotFound)
	}
	proj.Status = proj.Status.Normalize()
	return proj, nil
}

type DonationRepo struct {
	gw Getter
}

func NewDonationRepo(gw Getter) *DonationRepo { return &DonationRepo{gw: gw} }

func (r *DonationRepo) List(ctx context.Context) ([]Donation, error) {
	return list[Donation](ctx, r.gw, PathListDonations)
}

type TopUpRepo struct {
	gw Getter
}

func NewTopUpRepo(gw Getter) *TopUpRepo { return &TopUpRepo{gw: gw} }

func (r *TopUpRepo) List(ctx context.Context) ([]WalletTransaction, error) {
	return list[WalletTransaction](ctx, r.gw, PathListTopUps)
}

type AccountRepo struct {
	gw Getter
}

func NewAccountRepo(gw Getter) *AccountRepo { return &AccountRepo{gw: gw} }

func (r *AccountRepo) ListPending(ctx context.Context) ([]PendingAccount, error) {
	return list[PendingAccount](ctx, r.gw, PathListPending)
}

func list[T any](ctx context.Context, gw Getter, path string) ([]T, error) {
	p, err := gw.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return gateway.DecodeList[T](p)
}
