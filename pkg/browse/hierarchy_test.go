package browse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote"
	"github.com/epic-data/xrdbrowse/pkg/remote/memory"
)

// newHierarchyEngine seeds the fixed reconstruction layout:
//
//	/data/reco/<campaign>/<detector>/<processType>/<process>
func newHierarchyEngine(t *testing.T) (*Engine, *memory.MemoryDirectoryService) {
	t.Helper()

	svc := memory.NewMemoryDirectoryService()
	svc.AddDirectory("/data/reco/campaign24/tracker/physics/minbias")
	svc.AddDirectory("/data/reco/campaign24/tracker/physics/highlumi")
	svc.AddDirectory("/data/reco/campaign24/tracker/calib/alignment")
	svc.AddDirectory("/data/reco/campaign24/calo/physics/minbias")
	svc.AddDirectory("/data/reco/campaign25/tracker/physics/minbias")
	svc.AddFile("/data/reco/notes.txt", []byte("x"), time.Now())
	svc.AddFile("/data/reco/campaign24/manifest.json", []byte("{}"), time.Now())

	engine := NewEngine("/data", svc, Options{})
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	return engine, svc
}

func TestListCampaigns(t *testing.T) {
	engine, _ := newHierarchyEngine(t)

	campaigns, err := engine.ListCampaigns(context.Background(), "reco")
	require.NoError(t, err)

	// Sorted, directories only.
	assert.Equal(t, []string{"campaign24", "campaign25"}, campaigns)
}

func TestListDatasets(t *testing.T) {
	engine, _ := newHierarchyEngine(t)

	listing, err := engine.ListDatasets(context.Background(), "reco", "campaign24")
	require.NoError(t, err)

	assert.Equal(t, "campaign24", listing.Campaign)
	assert.False(t, listing.Flat)
	assert.Equal(t, []string{
		"calo/physics/minbias",
		"tracker/calib/alignment",
		"tracker/physics/highlumi",
		"tracker/physics/minbias",
	}, listing.Datasets)
}

func TestListDatasetsFlatFallback(t *testing.T) {
	engine, svc := newHierarchyEngine(t)
	svc.FailPath("/data/reco/campaign24/tracker/physics", errors.New("server unreachable"))

	listing, err := engine.ListDatasets(context.Background(), "reco", "campaign24")
	require.NoError(t, err, "a deep listing failure degrades, it does not error")

	assert.True(t, listing.Flat)
	assert.Equal(t, []string{"calo", "tracker"}, listing.Datasets)
}

func TestListDatasetsCampaignFailureIsError(t *testing.T) {
	engine, svc := newHierarchyEngine(t)
	svc.FailPath("/data/reco/campaign24", errors.New("server unreachable"))

	_, err := engine.ListDatasets(context.Background(), "reco", "campaign24")
	require.Error(t, err)

	var remoteErr *RemoteError
	assert.ErrorAs(t, err, &remoteErr)
}

func TestListDatasetsMissingCampaign(t *testing.T) {
	engine, _ := newHierarchyEngine(t)

	_, err := engine.ListDatasets(context.Background(), "reco", "nosuch")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestListDatasetsEmptyCampaign(t *testing.T) {
	engine, svc := newHierarchyEngine(t)
	svc.AddDirectory("/data/reco/campaign26")

	listing, err := engine.ListDatasets(context.Background(), "reco", "campaign26")
	require.NoError(t, err)

	assert.False(t, listing.Flat)
	assert.Empty(t, listing.Datasets)
}

func TestListDatasetsOnlyCampaignLevelIsCached(t *testing.T) {
	svc := memory.NewMemoryDirectoryService()
	svc.AddDirectory("/data/reco/campaign24/tracker/physics/minbias")
	engine := NewEngine("/data", svc, Options{CacheEnabled: true})
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	ctx := context.Background()

	_, err := engine.ListDatasets(ctx, "reco", "campaign24")
	require.NoError(t, err)
	first := svc.ListCalls()
	assert.Equal(t, 3, first, "campaign, detector and processType levels each listed once")

	_, err = engine.ListDatasets(ctx, "reco", "campaign24")
	require.NoError(t, err)
	assert.Equal(t, first+2, svc.ListCalls(), "only the campaign listing is reused from cache")
}
