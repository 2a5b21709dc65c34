package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jask/fundadmin/internal/gateway"
	"github.com/jask/fundadmin/internal/repository"
)

// Action is the decision sent for a pending account.
type Action string

const (
	ActionApprove Action = "approved"
	ActionReject  Action = "rejected"
)

type decisionBody struct {
	AccountID repository.ID       `json:"account_id"`
	Provider  repository.Provider `json:"provider"`
	Action    Action              `json:"action"`
}

// AccountReviewer approves or rejects pending payout accounts. At most one
// request per account id is in flight; other ids proceed independently.
type AccountReviewer struct {
	Submitter *Submitter
	Path      string

	mu       sync.Mutex
	inflight map[repository.ID]struct{}
}

// Review is a reserved decision. Submit releases the reservation.
type Review struct {
	r       *AccountReviewer
	account repository.PendingAccount
	action  Action
	once    sync.Once
}

// Reserve claims account.ID, or returns ErrInFlight if it is already claimed.
// Accounts that are not pending return ErrNotPending.
func (r *AccountReviewer) Reserve(account repository.PendingAccount, action Action) (*Review, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, &SubmitError{Kind: KindValidation, Message: fmt.Sprintf("unknown action %q", action)}
	}
	if !account.Status.Pending() {
		return nil, fmt.Errorf("account %d is %q: %w", account.ID, account.Status, ErrNotPending)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight == nil {
		r.inflight = make(map[repository.ID]struct{})
	}
	if _, busy := r.inflight[account.ID]; busy {
		return nil, fmt.Errorf("account %d: %w", account.ID, ErrInFlight)
	}
	r.inflight[account.ID] = struct{}{}
	return &Review{r: r, account: account, action: action}, nil
}

// Busy reports whether a decision for id is in flight.
func (r *AccountReviewer) Busy(id repository.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.inflight[id]
	return busy
}

// Decide reserves and submits in one call.
func (r *AccountReviewer) Decide(ctx context.Context, account repository.PendingAccount, action Action) (repository.Ack, error) {
	rv, err := r.Reserve(account, action)
	if err != nil {
		return repository.Ack{}, err
	}
	return rv.Submit(ctx)
}

func (rv *Review) AccountID() repository.ID { return rv.account.ID }
func (rv *Review) Action() Action           { return rv.action }

// Submit posts the decision and releases the account id on every path.
func (rv *Review) Submit(ctx context.Context) (repository.Ack, error) {
	defer rv.Release()
	path := rv.r.Path
	if path == "" {
		path = repository.PathDecideAccount
	}
	body := gateway.JSONBody{Value: decisionBody{AccountID: rv.account.ID, Provider: rv.account.Provider, Action: rv.action}}
	ack, err := rv.r.Submitter.Submit(ctx, path, body, "Failed to update account.")
	if err != nil {
		return ack, err
	}
	ack.Message = messageOr(ack.Message, fmt.Sprintf("Account %s.", rv.action))
	return ack, nil
}

// Release drops the reservation without submitting. Safe to call twice.
func (rv *Review) Release() {
	rv.once.Do(func() {
		rv.r.mu.Lock()
		delete(rv.r.inflight, rv.account.ID)
		rv.r.mu.Unlock()
	})
}
