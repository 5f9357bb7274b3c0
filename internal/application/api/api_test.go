package api_test

import (
	"context"
	"testing"

	"github.com/erp/client/internal/application/api"
	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	url    string
	params map[string]string
	body   any
	token  string
}

type recordingRequester struct {
	calls []call
}

func (r *recordingRequester) record(c call) (*shared.Envelope, error) {
	r.calls = append(r.calls, c)
	return shared.NewSuccessEnvelope("ok", nil), nil
}

func (r *recordingRequester) Get(_ context.Context, url string, params map[string]string) (*shared.Envelope, error) {
	return r.record(call{method: "GET", url: url, params: params})
}

func (r *recordingRequester) Post(ctx context.Context, url string, body any) (*shared.Envelope, error) {
	token, _ := httpclient.TokenFromContext(ctx)
	return r.record(call{method: "POST", url: url, body: body, token: token})
}

func (r *recordingRequester) Put(_ context.Context, url string, body any) (*shared.Envelope, error) {
	return r.record(call{method: "PUT", url: url, body: body})
}

func (r *recordingRequester) Delete(_ context.Context, url string, params map[string]string) (*shared.Envelope, error) {
	return r.record(call{method: "DELETE", url: url, params: params})
}

func TestAuthAPI(t *testing.T) {
	req := &recordingRequester{}
	a := api.NewAuthAPI(req)
	ctx := context.Background()
	creds := identity.Credentials{Username: "zhangsan", Password: "123456"}

	_, err := a.Login(ctx, creds)
	require.NoError(t, err)
	_, err = a.GetUserInfo(ctx)
	require.NoError(t, err)
	_, err = a.Logout(ctx, "tok-1")
	require.NoError(t, err)
	_, err = a.Logout(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, []call{
		{method: "POST", url: "/auth/login", body: creds},
		{method: "GET", url: "/auth/info"},
		{method: "POST", url: "/auth/logout", token: "tok-1"},
		{method: "POST", url: "/auth/logout"},
	}, req.calls)
}

func TestResource(t *testing.T) {
	req := &recordingRequester{}
	r := api.NewResource(req, "sales/orders/")
	ctx := context.Background()
	assert.Equal(t, "/sales/orders", r.Path())

	_, _ = r.List(ctx, map[string]string{"page": "1"})
	_, _ = r.Detail(ctx, "so 1")
	_, _ = r.Create(ctx, map[string]any{"customerId": "cust-001"})
	_, _ = r.Update(ctx, "so-001", map[string]any{"remark": "x"})
	_, _ = r.Delete(ctx, "so-001")
	_, _ = r.Action(ctx, "so-001", "submit", nil)

	require.Len(t, req.calls, 6)
	assert.Equal(t, "/sales/orders", req.calls[0].url)
	assert.Equal(t, "1", req.calls[0].params["page"])
	assert.Equal(t, "/sales/orders/so%201", req.calls[1].url)
	assert.Equal(t, "POST", req.calls[2].method)
	assert.Equal(t, "PUT", req.calls[3].method)
	assert.Equal(t, "DELETE", req.calls[4].method)
	assert.Equal(t, "/sales/orders/so-001/submit", req.calls[5].url)
}

func TestCollectionNames(t *testing.T) {
	names := api.CollectionNames()
	assert.Len(t, names, len(api.Collections))
	assert.IsNonDecreasing(t, names)
	assert.Equal(t, "/sales/orders", api.Collections["sales-orders"])
}
