package repository

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fundadmin/internal/gateway"
)

func serve(t *testing.T, routes map[string]string) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	c, err := gateway.New(srv.URL, gateway.WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)
	return c
}

func TestMoneyDecodesLeniently(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`100.25`:     "100.25",
		`"50.10"`:    "50.1",
		`"1,250.00"`: "1250",
		`null`:       "0",
		`"abc"`:      "0",
		`true`:       "0",
		`{}`:         "0",
	}
	for in, want := range cases {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		require.Equal(t, want, m.String(), in)
	}

	var d Donation
	require.NoError(t, json.Unmarshal([]byte(`{"donation_id":"4","project_title":"A"}`), &d))
	require.True(t, d.Amount.IsZero())
	require.Equal(t, ID(4), d.DonationID)
}

func TestIDRejectsGarbage(t *testing.T) {
	t.Parallel()

	var id ID
	require.NoError(t, json.Unmarshal([]byte(`" 12 "`), &id))
	require.Equal(t, ID(12), id)
	require.Error(t, json.Unmarshal([]byte(`"twelve"`), &id))
}

func TestAckAcceptsLooseSuccess(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{
		`{"success":true}`:                  true,
		`{"success":1,"message":"ok"}`:      true,
		`{"success":"true"}`:                true,
		`{"success":false,"message":"bad"}`: false,
		`{"message":"no flag"}`:             false,
	} {
		var a Ack
		require.NoError(t, json.Unmarshal([]byte(in), &a), in)
		require.Equal(t, want, a.Success, in)
	}
}

func TestDonationOutcome(t *testing.T) {
	t.Parallel()

	require.Equal(t, DonationSuccessful, Donation{DonationStatus: "Successful"}.Outcome())
	require.Equal(t, DonationPending, Donation{DonationStatus: "Pending"}.Outcome())
	require.Equal(t, DonationFailed, Donation{DonationStatus: "Refunded"}.Outcome())
	require.Equal(t, DonationFailed, Donation{}.Outcome())
}

func TestListEndpoints(t *testing.T) {
	t.Parallel()

	gw := serve(t, map[string]string{
		PathListProjects:  `[{"id":1,"title":"Well","description":"d","target_amount":"5000","status":"active"}]`,
		PathListDonations: `{"error":"db down"}`,
		PathListTopUps:    `[{"id":"9","user_name":"ana","amount":200,"type":"topup","method":"gcash","created_at":"2025-01-02"}]`,
		PathListPending:   `[{"id":7,"user_name":"ben","account_number":"0917","provider":"gcash","status":"pending"}]`,
	})
	ctx := context.Background()

	projects, err := NewProjectRepo(gw).List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "5000", projects[0].TargetAmount.String())

	donations, err := NewDonationRepo(gw).List(ctx)
	require.NoError(t, err, "non-array payload reads as empty")
	require.Empty(t, donations)
	require.NotNil(t, donations)

	topups, err := NewTopUpRepo(gw).List(ctx)
	require.NoError(t, err)
	require.Equal(t, ID(9), topups[0].ID)

	accts, err := NewAccountRepo(gw).ListPending(ctx)
	require.NoError(t, err)
	require.Equal(t, ProviderGCash, accts[0].Provider)
	require.Equal(t, AccountPending, accts[0].Status)
}

func TestListWithMalformedRecordsIsInvalid(t *testing.T) {
	t.Parallel()

	gw := serve(t, map[string]string{PathListProjects: `[{"id":"x"}]`})
	_, err := NewProjectRepo(gw).List(context.Background())
	require.ErrorIs(t, err, gateway.ErrInvalidResponse)
}

func TestGetProjectAcceptsObjectOrArray(t *testing.T) {
	t.Parallel()

	gw := serve(t, map[string]string{
		PathGetProject + "?id=1": `{"id":1,"title":"Obj","status":"weird"}`,
		PathGetProject + "?id=2": `[{"id":2,"title":"Arr","status":"inactive"}]`,
		PathGetProject + "?id=3": `[]`,
		PathGetProject + "?id=4": `not json`,
	})
	repo := NewProjectRepo(gw)
	ctx := context.Background()

	p, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Obj", p.Title)
	require.Equal(t, ProjectActive, p.Status)

	p, err = repo.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Arr", p.Title)
	require.Equal(t, ProjectInactive, p.Status)

	_, err = repo.Get(ctx, 3)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, err = repo.Get(ctx, 4)
	require.ErrorIs(t, err, gateway.ErrInvalidResponse)
}
