package browse

import (
	"context"
	"sort"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// The reconstruction output area follows a fixed directory convention:
//
//	recoRoot/<campaign>/<detector>/<processType>/<process>
//
// A campaign is one production pass; the three levels below it identify a
// dataset. Dataset names are the three levels joined with "/".

// DatasetListing is the two-branch outcome of a dataset discovery walk.
//
// When the fixed three-level structure could be walked, Datasets holds the
// detector/processType/process names and Flat is false. When any level below
// the campaign could not be listed, the walk degrades to the flat list of
// first-level subdirectories and Flat is true. The fallback is a structured
// outcome, not error recovery: only a failure to list the campaign directory
// itself is an error.
type DatasetListing struct {
	Campaign string
	Datasets []string
	Flat     bool
}

// ListCampaigns returns the directories one level under the reconstruction
// root, given as a logical path.
func (e *Engine) ListCampaigns(ctx context.Context, recoRoot string) ([]string, error) {
	resolved, err := e.sandbox.Resolve(recoRoot)
	if err != nil {
		return nil, err
	}

	entries, err := e.list(ctx, resolved, true)
	if err != nil {
		return nil, err
	}

	campaigns := []string{}
	for _, entry := range entries {
		if entry.IsDir {
			campaigns = append(campaigns, entry.Name)
		}
	}
	sort.Strings(campaigns)

	return campaigns, nil
}

// ListDatasets walks the fixed detector/processType/process structure under
// recoRoot/campaign and returns the dataset names found.
//
// Listing the campaign directory itself may use the cache; the three-level
// descent below it always fetches fresh, like any recursive walk. If any of
// those deeper listings fails, the walk abandons the structured result and
// returns the campaign's first-level subdirectories with Flat set.
func (e *Engine) ListDatasets(ctx context.Context, recoRoot, campaign string) (*DatasetListing, error) {
	resolved, err := e.sandbox.Resolve(recoRoot)
	if err != nil {
		return nil, err
	}

	campaignPath := joinPath(resolved, campaign)
	detectors, err := e.list(ctx, campaignPath, true)
	if err != nil {
		return nil, err
	}

	listing := &DatasetListing{Campaign: campaign, Datasets: []string{}}

	for _, detector := range detectors {
		if !detector.IsDir {
			continue
		}
		detectorPath := joinPath(campaignPath, detector.Name)

		processTypes, err := e.list(ctx, detectorPath, false)
		if err != nil {
			return e.flatDatasets(campaign, detectors, err), nil
		}

		for _, processType := range processTypes {
			if !processType.IsDir {
				continue
			}
			processTypePath := joinPath(detectorPath, processType.Name)

			processes, err := e.list(ctx, processTypePath, false)
			if err != nil {
				return e.flatDatasets(campaign, detectors, err), nil
			}

			for _, process := range processes {
				if !process.IsDir {
					continue
				}
				listing.Datasets = append(listing.Datasets,
					detector.Name+"/"+processType.Name+"/"+process.Name)
			}
		}
	}

	sort.Strings(listing.Datasets)

	return listing, nil
}

// flatDatasets builds the degraded listing from the campaign's first level.
func (e *Engine) flatDatasets(campaign string, firstLevel []remote.DirectoryEntry, cause error) *DatasetListing {
	logger.Warn("Dataset hierarchy walk for campaign %s fell back to flat listing: %v", campaign, cause)

	listing := &DatasetListing{Campaign: campaign, Datasets: []string{}, Flat: true}
	for _, entry := range firstLevel {
		if entry.IsDir {
			listing.Datasets = append(listing.Datasets, entry.Name)
		}
	}
	sort.Strings(listing.Datasets)

	return listing
}
