package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

// fakeRequester answers every GET with a canned JSON body.
type fakeRequester struct {
	responses map[string]string
	requests  []recordedRequest
}

func (f *fakeRequester) Get(_ context.Context, path string, out any) error {
	f.requests = append(f.requests, recordedRequest{method: "GET", path: path})

	return json.Unmarshal([]byte(f.responses[path]), out)
}

func (f *fakeRequester) Post(_ context.Context, path string, in, _ any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	f.requests = append(f.requests, recordedRequest{method: "POST", path: path, body: string(body)})

	return nil
}

func TestRestAPIDecodesBackendPayloads(t *testing.T) {
	r := &fakeRequester{responses: map[string]string{
		PathStatus: `{"status": "INVENTORY_WAIT"}`,
		PathInventory: `{
			"devices": [{"available": true, "path": "/dev/vdb", "size": 10737418240, "type": "hdd"}],
			"solution": {"can_raid0": true, "can_raid1": false, "raid0_size": 10737418240, "raid1_size": 0.0}
		}`,
		PathUsage: `{"total_avail_bytes": 5, "total_raw_bytes": 10, "total_used_raw_bytes": 1,
			"pools": {"media": {"used": 1, "percent_used": 0.1, "avail": 4, "avail_raw": 8}}}`,
	}}
	api := NewAPI(r)
	ctx := context.Background()

	status, err := api.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INVENTORY_WAIT", status.Status)
	assert.Nil(t, status.Result)

	inv, err := api.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, inv.Devices, 1)
	assert.Equal(t, int64(10737418240), inv.Devices[0].SizeBytes)
	assert.Equal(t, int64(10737418240), BuildCatalog(inv.Solution)[0].SizeBytes)

	usage, err := api.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), usage.Pools["media"].Avail)
}

func TestRestAPIRequestBodies(t *testing.T) {
	r := &fakeRequester{}
	api := NewAPI(r)
	ctx := context.Background()

	require.NoError(t, api.Bootstrap(ctx))
	require.NoError(t, api.AcceptSolution(ctx, SolutionRaid1))
	require.NoError(t, api.SetupServices(ctx, nil))
	require.NoError(t, api.SetupServices(ctx, []string{"a", "b"}))

	assert.Equal(t, []recordedRequest{
		{method: "POST", path: PathBootstrap, body: `{}`},
		{method: "POST", path: PathSolutionAccept, body: `{"name":"raid1"}`},
		{method: "POST", path: PathServicesSetup, body: `{"nfs_name":[]}`},
		{method: "POST", path: PathServicesSetup, body: `{"nfs_name":["a","b"]}`},
	}, r.requests)
}
