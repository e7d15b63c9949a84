package wizard

import "context"

// REST paths of the backend.
const (
	PathStatus         = "/api/status"
	PathBootstrap      = "/api/bootstrap"
	PathInventory      = "/api/inventory"
	PathSolutionAccept = "/api/solution/accept"
	PathServicesSetup  = "/api/services/setup"
	PathUsage          = "/api/df"
)

type restAPI struct {
	r Requester
}

// NewAPI returns the typed API over a JSON requester.
func NewAPI(r Requester) API {
	return &restAPI{r: r}
}

func (a *restAPI) Status(ctx context.Context) (StatusReply, error) {
	var reply StatusReply
	err := a.r.Get(ctx, PathStatus, &reply)

	return reply, err
}

func (a *restAPI) Bootstrap(ctx context.Context) error {
	return a.r.Post(ctx, PathBootstrap, struct{}{}, nil)
}

func (a *restAPI) Inventory(ctx context.Context) (InventoryReply, error) {
	var reply InventoryReply
	err := a.r.Get(ctx, PathInventory, &reply)

	return reply, err
}

func (a *restAPI) AcceptSolution(ctx context.Context, name string) error {
	return a.r.Post(ctx, PathSolutionAccept, acceptRequest{Name: name}, nil)
}

func (a *restAPI) SetupServices(ctx context.Context, exports []string) error {
	if exports == nil {
		exports = []string{}
	}

	return a.r.Post(ctx, PathServicesSetup, setupRequest{NFSName: exports}, nil)
}

func (a *restAPI) Usage(ctx context.Context) (UsageStats, error) {
	var stats UsageStats
	err := a.r.Get(ctx, PathUsage, &stats)

	return stats, err
}
